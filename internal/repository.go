package internal

import (
	"context"
	"io"
)

// Repository stores artifacts under slash separated keys.
type Repository interface {
	Write(ctx context.Context, key string, reader io.Reader) error
}
