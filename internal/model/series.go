package model

// Series is an index-aligned sequence of optional values. A nil entry marks a
// position where no value is defined (for example an SMA before its window
// fills). It encodes to JSON with null in those positions.
type Series []*float64

// At returns the value at i and whether it is defined.
func (s Series) At(i int) (float64, bool) {
	if i < 0 || i >= len(s) || s[i] == nil {
		return 0, false
	}
	return *s[i], true
}

// Values returns the defined values in order, skipping gaps.
func (s Series) Values() []float64 {
	out := make([]float64, 0, len(s))
	for _, v := range s {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out
}

// Last returns the newest defined value.
func (s Series) Last() (float64, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] != nil {
			return *s[i], true
		}
	}
	return 0, false
}

// FromValues wraps a dense slice as a Series with every entry defined.
func FromValues(values []float64) Series {
	s := make(Series, len(values))
	for i := range values {
		v := values[i]
		s[i] = &v
	}
	return s
}
