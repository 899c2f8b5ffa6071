package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

// Store is a durable string key-value store. Every value is one JSON blob
// rewritten in full by its owner.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}
