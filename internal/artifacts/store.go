package artifacts

import (
	"context"
	"errors"
	"time"
)

const DefaultTTL = time.Hour

var ErrNotFound = errors.New("artifact not found or expired")

// Store keeps download artifacts for a limited time.
type Store interface {
	Put(ctx context.Context, id string, data []byte) error
	Get(ctx context.Context, id string) ([]byte, error)
	Ping(ctx context.Context) error
	Name() string
}
