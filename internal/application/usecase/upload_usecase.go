package usecase

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/jhoicas/ecommerce-api/internal/application/dto"
	"github.com/jhoicas/ecommerce-api/internal/application/ports"
	"github.com/jhoicas/ecommerce-api/internal/domain"
)

// imageTypes tipos MIME aceptados y la extensión con que se guardan.
var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UploadUseCase subida de imágenes de catálogo.
type UploadUseCase struct {
	storage  ports.ObjectStorage
	maxBytes int64
}

// NewUploadUseCase construye el caso de uso. maxBytes es el tamaño máximo por archivo.
func NewUploadUseCase(storage ports.ObjectStorage, maxBytes int64) *UploadUseCase {
	return &UploadUseCase{storage: storage, maxBytes: maxBytes}
}

// UploadImage valida tamaño y tipo (por contenido, no por nombre) y guarda el archivo.
func (uc *UploadUseCase) UploadImage(ctx context.Context, size int64, r io.Reader) (*dto.UploadResponse, error) {
	if size <= 0 {
		return nil, domain.NewValidationError("file", "archivo vacío")
	}
	if size > uc.maxBytes {
		return nil, domain.NewValidationError("file", "supera el tamaño máximo de %d bytes", uc.maxBytes)
	}
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	head = head[:n]
	ext, ok := imageTypes[http.DetectContentType(head)]
	if !ok {
		return nil, domain.NewValidationError("file", "solo se aceptan imágenes jpeg, png, gif o webp")
	}
	body := io.LimitReader(io.MultiReader(bytes.NewReader(head), r), uc.maxBytes+1)
	key, written, err := uc.storage.Put(ctx, ext, body)
	if err != nil {
		return nil, err
	}
	if written > uc.maxBytes {
		_ = uc.storage.Delete(ctx, key)
		return nil, domain.NewValidationError("file", "supera el tamaño máximo de %d bytes", uc.maxBytes)
	}
	return &dto.UploadResponse{Key: key, URL: uc.storage.URL(key), Size: written}, nil
}
