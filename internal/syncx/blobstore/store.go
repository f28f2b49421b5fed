// Package blobstore abstracts the remote home of the encrypted vault blob.
// One opaque object per user; the store never sees plaintext.
package blobstore

import (
	"context"
	"time"
)

// Blob is a user's encrypted vault snapshot as held remotely.
type Blob struct {
	Ciphertext string
	UpdatedAt  time.Time
}

// Store is the remote backend. Get returns (nil, nil) when the user has no
// backup yet; that is a normal state, not an error.
type Store interface {
	Get(ctx context.Context, userID string) (*Blob, error)
	Upsert(ctx context.Context, userID, ciphertext string) error
}
