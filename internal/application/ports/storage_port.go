package ports

import (
	"context"
	"io"
)

// ObjectStorage define el puerto de salida para guardar archivos subidos (imágenes de catálogo).
// Cualquier adaptador (disco local, bucket) debe implementar esta interfaz.
type ObjectStorage interface {
	// Put guarda el contenido bajo una clave nueva con la extensión dada y devuelve la clave.
	Put(ctx context.Context, ext string, r io.Reader) (key string, size int64, err error)
	// URL devuelve la ruta pública de la clave.
	URL(key string) string
	Delete(ctx context.Context, key string) error
}
