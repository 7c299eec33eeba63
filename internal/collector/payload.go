package collector

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strings"
	"time"

	"TrendSentinel/internal/model"
)

// MinPricePoints is the shortest history the collaborator promises.
const MinPricePoints = 20

var (
	// ErrInvalidPayload reports a payload whose shape does not match model.Payload.
	ErrInvalidPayload = errors.New("invalid payload")
	// ErrInsufficientHistory reports fewer than MinPricePoints closes.
	ErrInsufficientHistory = errors.New("insufficient price history")
)

var earningsPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} (AM|PM)$`)

// DecodePayload strictly decodes a collaborator JSON document. Unknown fields,
// wrong types and trailing data are rejected rather than coerced.
func DecodePayload(r io.Reader) (*model.Payload, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var p model.Payload
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidPayload, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after payload", ErrInvalidPayload)
	}
	if err := Validate(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DecodePayloadBytes is DecodePayload over an in-memory document. Markdown
// code fences around the JSON, as language models like to add, are stripped.
func DecodePayloadBytes(data []byte) (*model.Payload, error) {
	return DecodePayload(bytes.NewReader(stripFences(data)))
}

// Validate checks the minimum shape the analysis needs. It does not judge
// whether the numbers are realistic.
func Validate(p *model.Payload) error {
	if strings.TrimSpace(p.Company.Symbol) == "" {
		return fmt.Errorf("%w: company.symbol is required", ErrInvalidPayload)
	}
	if p.LatestPrice == nil {
		return fmt.Errorf("%w: latest_price is required", ErrInvalidPayload)
	}
	if math.IsNaN(*p.LatestPrice) || math.IsInf(*p.LatestPrice, 0) {
		return fmt.Errorf("%w: latest_price must be finite", ErrInvalidPayload)
	}
	if len(p.Prices) < MinPricePoints {
		return fmt.Errorf("%w: got %d points, need %d", ErrInsufficientHistory, len(p.Prices), MinPricePoints)
	}

	var prev time.Time
	for i, pt := range p.Prices {
		d, err := time.Parse("2006-01-02", pt.Date)
		if err != nil {
			return fmt.Errorf("%w: prices[%d].date %q is not YYYY-MM-DD", ErrInvalidPayload, i, pt.Date)
		}
		if i > 0 && !d.Before(prev) {
			return fmt.Errorf("%w: prices must be newest-first, %s follows %s", ErrInvalidPayload, pt.Date, p.Prices[i-1].Date)
		}
		prev = d
	}

	if p.Earnings != "" {
		if !earningsPattern.MatchString(p.Earnings) {
			return fmt.Errorf("%w: earnings %q is not \"YYYY-MM-DD AM|PM\"", ErrInvalidPayload, p.Earnings)
		}
		if _, err := time.Parse("2006-01-02", p.Earnings[:10]); err != nil {
			return fmt.Errorf("%w: earnings date %q: %v", ErrInvalidPayload, p.Earnings[:10], err)
		}
	}
	return nil
}

func stripFences(data []byte) []byte {
	s := strings.TrimSpace(string(data))
	if !strings.HasPrefix(s, "```") {
		return []byte(s)
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return []byte(strings.TrimSpace(s))
}
