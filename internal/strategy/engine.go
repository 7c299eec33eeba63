package strategy

import (
	"fmt"

	"TrendSentinel/internal/calculator"
	"TrendSentinel/internal/model"
)

// Evaluate runs the crossover analysis for a validated payload. The payload's
// newest-first prices are put in chronological order once, and the company,
// news, ratings, sentiment and earnings fields are carried through untouched.
func Evaluate(p *model.Payload, shortPeriod, longPeriod int) (*model.SignalResult, error) {
	if p == nil {
		return nil, fmt.Errorf("evaluate: nil payload")
	}
	if err := ValidatePeriods(shortPeriod, longPeriod); err != nil {
		return nil, fmt.Errorf("evaluate %s: %w", p.Company.Symbol, err)
	}

	ordered := calculator.Chronological(p.Prices)
	res := Analyze(calculator.Closes(ordered), shortPeriod, longPeriod, p.Latest())

	res.Dates = calculator.Dates(ordered)
	res.Company = p.Company
	res.News = append([]model.NewsItem(nil), p.News...)
	res.Ratings = append([]string(nil), p.Ratings...)
	res.Sentiment = p.Sentiment
	res.Earnings = p.Earnings
	return res, nil
}
