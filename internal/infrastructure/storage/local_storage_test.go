package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ecommerce-api/internal/infrastructure/storage"
)

func TestLocalStorage_PutURLDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := storage.NewLocalStorage(dir, "uploads/", nil)
	require.NoError(t, err)

	key, n, err := s.Put(context.Background(), ".PNG", strings.NewReader("contenido"))
	require.NoError(t, err)
	assert.Equal(t, int64(len("contenido")), n)
	assert.Regexp(t, `^[0-9a-z]{26}\.png$`, key)
	assert.Equal(t, "/uploads/"+key, s.URL(key))

	data, err := os.ReadFile(filepath.Join(dir, key))
	require.NoError(t, err)
	assert.Equal(t, "contenido", string(data))

	require.NoError(t, s.Delete(context.Background(), key))
	_, err = os.Stat(filepath.Join(dir, key))
	assert.True(t, os.IsNotExist(err))

	// idempotente
	assert.NoError(t, s.Delete(context.Background(), key))
}

func TestLocalStorage_ClavesUnicas(t *testing.T) {
	s, err := storage.NewLocalStorage(t.TempDir(), "/uploads", nil)
	require.NoError(t, err)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		key, _, err := s.Put(context.Background(), ".jpg", strings.NewReader("x"))
		require.NoError(t, err)
		require.False(t, seen[key])
		seen[key] = true
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("lectura interrumpida") }

func TestLocalStorage_PutFallidoNoDejaArchivo(t *testing.T) {
	dir := t.TempDir()
	s, err := storage.NewLocalStorage(dir, "/uploads", nil)
	require.NoError(t, err)

	_, _, err = s.Put(context.Background(), ".jpg", failingReader{})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalStorage_DeleteRechazaRutas(t *testing.T) {
	s, err := storage.NewLocalStorage(t.TempDir(), "/uploads", nil)
	require.NoError(t, err)

	for _, key := range []string{"", "../etc/passwd", "sub/a.png", ".env"} {
		assert.ErrorIs(t, s.Delete(context.Background(), key), storage.ErrInvalidKey, key)
	}
}
