package service

import (
	"context"
	"io"
	"time"
)

// DefaultStoreTimeout bounds a store call when no timeout is configured
const DefaultStoreTimeout = 5 * time.Second

// Upload is a file received with a request
type Upload struct {
	Name        string
	ContentType string
	Body        io.Reader
}

type storeTimeout time.Duration

func (d storeTimeout) context(ctx context.Context) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = storeTimeout(DefaultStoreTimeout)
	}
	return context.WithTimeout(ctx, time.Duration(d))
}
