package profile

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrInvalidKey     = errors.New("invalid object key")
)

// ObjectStore keeps binary objects under slash separated keys and exposes
// them on a public URL.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	PublicURL(key string) string
}

func validateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "..") || strings.Contains(key, "\\") {
		return ErrInvalidKey
	}
	return nil
}
