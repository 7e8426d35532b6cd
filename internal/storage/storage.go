// Package storage persists blobs extracted from rich-text bodies.
package storage

import (
	"context"
	"errors"
)

// ErrEmptyKey is returned when an object has no key.
var ErrEmptyKey = errors.New("object key is required")

// Object is a blob to store under Key.
type Object struct {
	Key         string
	ContentType string
	Body        []byte
}

// Store uploads objects and returns the URL they are served from.
type Store interface {
	Put(ctx context.Context, obj Object) (url string, err error)
}
