package collector

import (
	"context"

	"TrendSentinel/internal/model"
)

// Source fetches the collaborator payload for one symbol. Implementations
// must return a payload that passed DecodePayload / Validate.
type Source interface {
	Fetch(ctx context.Context, symbol string) (*model.Payload, error)
	Name() string
}
