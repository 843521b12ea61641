// Package storage guarda archivos subidos en disco local, servidos luego como estáticos.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/jhoicas/ecommerce-api/internal/application/ports"
	"github.com/jhoicas/ecommerce-api/pkg/logger"
)

// ErrInvalidKey clave con separadores de ruta o vacía.
var ErrInvalidKey = errors.New("storage: clave inválida")

// LocalStorage implementa ports.ObjectStorage sobre un directorio.
type LocalStorage struct {
	dir        string
	publicPath string
	idGen      func() string
	log        *logger.Logger
}

var _ ports.ObjectStorage = (*LocalStorage)(nil)

// NewLocalStorage crea el directorio si no existe.
func NewLocalStorage(dir, publicPath string, log *logger.Logger) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: crear directorio %s: %w", dir, err)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &LocalStorage{
		dir:        dir,
		publicPath: "/" + strings.Trim(publicPath, "/"),
		idGen:      func() string { return strings.ToLower(ulid.Make().String()) },
		log:        log.WithComponent("storage"),
	}, nil
}

// Put escribe r en un archivo nuevo <ulid><ext>. Si la copia falla se borra el archivo parcial.
func (s *LocalStorage) Put(ctx context.Context, ext string, r io.Reader) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}
	key := s.idGen() + strings.ToLower(ext)
	full := filepath.Join(s.dir, key)
	f, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("storage: crear %s: %w", key, err)
	}
	n, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(full)
		return "", 0, fmt.Errorf("storage: escribir %s: %w", key, err)
	}
	s.log.Debug().Str("key", key).Int64("bytes", n).Msg("archivo guardado")
	return key, n, nil
}

// URL ruta pública bajo la que se sirve el directorio.
func (s *LocalStorage) URL(key string) string {
	return path.Join(s.publicPath, key)
}

// Delete borra el archivo; una clave inexistente no es error.
func (s *LocalStorage) Delete(_ context.Context, key string) error {
	if key == "" || key != filepath.Base(key) || strings.HasPrefix(key, ".") {
		return ErrInvalidKey
	}
	if err := os.Remove(filepath.Join(s.dir, key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: borrar %s: %w", key, err)
	}
	return nil
}
