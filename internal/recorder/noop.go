package recorder

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordReport(_ *ReportEntry) error             { return nil }
func (n *NoopRecorder) Recent(_ string, _ int) ([]ReportEntry, error) { return nil, nil }
func (n *NoopRecorder) Close() error                                  { return nil }
