package metadata

import (
	"context"
)

// Repository is a small key/value store for agent state that does not
// deserve its own table: discovered endpoint state, the stored API key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
