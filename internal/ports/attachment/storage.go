package attachment

import (
	"context"
	"io"

	"welbex/internal/core/attachment"
)

// Storage persists uploaded media and hands back the reference stored on a post.
type Storage interface {
	Save(ctx context.Context, name string, body io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, ref string) error
	List(ctx context.Context) ([]attachment.Object, error)
}
