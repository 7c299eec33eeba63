package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"TrendSentinel/internal/model"
)

// DefaultGeminiModels is tried in order until one answers.
var DefaultGeminiModels = []string{
	"gemini-2.5-flash",
	"gemini-2.5-flash-lite",
	"gemini-2.0-flash",
}

// generator is the slice of the genai client the source needs.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiSource asks a search-grounded Gemini model for the payload.
type GeminiSource struct {
	models []string
	gen    generator
}

// NewGeminiSource creates a Gemini-backed source. The API key is used to
// build this source's client and is not kept anywhere else.
func NewGeminiSource(ctx context.Context, apiKey string, models []string) (*GeminiSource, error) {
	if apiKey == "" {
		return nil, errors.New("gemini source: api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini source: create client: %w", err)
	}
	return newGeminiSource(client.Models, models), nil
}

func newGeminiSource(gen generator, models []string) *GeminiSource {
	if len(models) == 0 {
		models = DefaultGeminiModels
	}
	return &GeminiSource{models: models, gen: gen}
}

func (s *GeminiSource) Name() string { return "gemini" }

func (s *GeminiSource) Fetch(ctx context.Context, symbol string) (*model.Payload, error) {
	prompt := buildPrompt(symbol)
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0),
		Tools:       []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}

	var lastErr error
	for _, m := range s.models {
		resp, err := s.gen.GenerateContent(ctx, m, genai.Text(prompt), cfg)
		if err != nil {
			lastErr = err
			slog.Warn("gemini model failed, trying next", "symbol", symbol, "model", m, "error", err)
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}

		p, err := DecodePayloadBytes([]byte(resp.Text()))
		if err != nil {
			// A malformed answer is rejected, not repaired.
			return nil, fmt.Errorf("gemini %s answer for %s: %w", m, symbol, err)
		}
		if !strings.EqualFold(p.Company.Symbol, symbol) {
			return nil, fmt.Errorf("%w: asked for %s, got %s", ErrInvalidPayload, symbol, p.Company.Symbol)
		}
		slog.Debug("gemini payload received", "symbol", symbol, "model", m, "points", len(p.Prices))
		return p, nil
	}
	return nil, fmt.Errorf("all gemini models failed for %s: %w", symbol, lastErr)
}

func buildPrompt(symbol string) string {
	return fmt.Sprintf(`Look up current market data for the stock ticker %s and answer with ONLY a JSON object, no prose, matching exactly this shape:
{
  "company": {"symbol": "%s", "name": "", "exchange": "", "industry": ""},
  "latest_price": 0.0,
  "prices": [{"date": "YYYY-MM-DD", "close": 0.0}],
  "news": [{"title": "", "source": "", "url": "", "published_at": "YYYY-MM-DD"}],
  "ratings": ["analyst rating strings"],
  "sentiment": "one sentence market sentiment summary",
  "earnings": "YYYY-MM-DD AM or YYYY-MM-DD PM, or empty string if unknown"
}
Rules:
- "prices" holds at least %d daily closing prices ordered newest first, one per trading day.
- "latest_price" is the most recent real-time price.
- Do not add fields that are not listed.`, symbol, strings.ToUpper(symbol), MinPricePoints+30)
}
