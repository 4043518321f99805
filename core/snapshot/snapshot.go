// Package snapshot persists which behavior state an actor was in so a
// hosting layer can restore it on the next activation. A snapshot carries
// the state name together with the behavior's etag; the etag lets a writer
// detect concurrent external mutation before overwriting.
package snapshot

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("snapshot not found")
	ErrEtagMismatch = errors.New("snapshot etag mismatch")
)

// Snapshot records the active behavior state of one actor.
type Snapshot struct {
	State string `json:"state"`
	Etag  string `json:"etag"`
}

// Store persists snapshots keyed by actor identity.
type Store interface {
	Save(ctx context.Context, key string, snap Snapshot) error
	Load(ctx context.Context, key string) (Snapshot, error)
	Delete(ctx context.Context, key string) error
}
