package collector

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"TrendSentinel/internal/model"
)

// FileSource reads payloads saved as {Dir}/{SYMBOL}.json.
type FileSource struct {
	Dir string
}

// NewFileSource creates a file-backed source rooted at dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{Dir: dir}
}

func (s *FileSource) Name() string { return "file" }

func (s *FileSource) Fetch(_ context.Context, symbol string) (*model.Payload, error) {
	name := strings.ToUpper(strings.TrimSpace(symbol))
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return nil, fmt.Errorf("file source: invalid symbol %q", symbol)
	}
	return ReadPayloadFile(filepath.Join(s.Dir, name+".json"))
}

// ReadPayloadFile decodes a single payload document from path.
func ReadPayloadFile(path string) (*model.Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	p, err := DecodePayloadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("payload %s: %w", filepath.Base(path), err)
	}
	return p, nil
}
