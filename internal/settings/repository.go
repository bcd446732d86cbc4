package settings

import (
	"context"
	"encoding/json"
	"errors"
)

var ErrNotFound = errors.New("settings key not found")

// Repository stores one JSON value per logical settings key. Typed
// encode/decode happens in Service; the repository only moves raw JSON.
type Repository interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Set(ctx context.Context, key string, value json.RawMessage) error
}
