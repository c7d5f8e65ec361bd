package artifact

import (
	"context"
	"time"
)

// Info describes one stored receipt artifact.
type Info struct {
	Name    string
	ModTime time.Time
}

// Store persists rendered receipt documents. Names are unique per render,
// so concurrent writes never clobber each other.
type Store interface {
	Put(ctx context.Context, name string, data []byte) error
	Get(ctx context.Context, name string) ([]byte, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]Info, error)
}
