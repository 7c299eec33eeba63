package model

import (
	"bytes"
	"encoding/json"
	"errors"
)

// PricePoint is a single daily close as delivered by the data collaborator.
type PricePoint struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

// UnmarshalJSON requires a present, non-null close so a gap in the feed is
// never read as a zero price. Unknown keys are rejected.
func (p *PricePoint) UnmarshalJSON(data []byte) error {
	var raw struct {
		Date  string   `json:"date"`
		Close *float64 `json:"close"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	if raw.Close == nil {
		return errors.New("price point: close is required")
	}
	p.Date = raw.Date
	p.Close = *raw.Close
	return nil
}

// Company identifies the analyzed instrument.
type Company struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Industry string `json:"industry"`
}

// NewsItem is a headline passed through to the report untouched.
type NewsItem struct {
	Title       string `json:"title"`
	Source      string `json:"source"`
	URL         string `json:"url"`
	PublishedAt string `json:"published_at"`
}

// Payload is the validated shape of the collaborator's response.
// Prices are ordered newest-first.
type Payload struct {
	Company     Company      `json:"company"`
	LatestPrice *float64     `json:"latest_price"`
	Prices      []PricePoint `json:"prices"`
	News        []NewsItem   `json:"news"`
	Ratings     []string     `json:"ratings"`
	Sentiment   string       `json:"sentiment"`
	Earnings    string       `json:"earnings"`
}

// Latest returns the real-time price, or 0 when the payload carries none.
func (p *Payload) Latest() float64 {
	if p.LatestPrice == nil {
		return 0
	}
	return *p.LatestPrice
}
