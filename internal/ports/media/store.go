package media

import (
	"context"
	"io"
)

// Object es el binario a subir.
type Object struct {
	Key         string
	ContentType string
	Size        int64
	Body        io.Reader
}

//go:generate mockgen -source=store.go -destination=store_mock.go -package=media

// Store guarda binarios y devuelve una URL estable y pública.
type Store interface {
	Put(ctx context.Context, obj Object) (string, error)
}
