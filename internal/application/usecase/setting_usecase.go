package usecase

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/jhoicas/ecommerce-api/internal/application/dto"
	"github.com/jhoicas/ecommerce-api/internal/application/ports"
	"github.com/jhoicas/ecommerce-api/internal/domain"
	"github.com/jhoicas/ecommerce-api/internal/domain/entity"
	"github.com/jhoicas/ecommerce-api/internal/domain/repository"
)

var settingKeyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{0,99}$`)

// SettingUseCase pares clave/valor de la tienda (nombre, banner, textos legales).
type SettingUseCase struct {
	repo      repository.SettingRepository
	sanitizer ports.TextSanitizer
}

// NewSettingUseCase construye el caso de uso. sanitizer puede ser nil.
func NewSettingUseCase(repo repository.SettingRepository, sanitizer ports.TextSanitizer) *SettingUseCase {
	return &SettingUseCase{repo: repo, sanitizer: sanitizer}
}

// Get devuelve el valor de una clave.
func (uc *SettingUseCase) Get(ctx context.Context, key string) (*dto.SettingResponse, error) {
	setting, err := uc.repo.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, &domain.NotFoundError{Entity: "configuración", ID: key}
	}
	return toSettingResponse(setting), nil
}

// Value devuelve el valor de key o fallback si no existe.
func (uc *SettingUseCase) Value(ctx context.Context, key, fallback string) string {
	setting, err := uc.repo.Get(ctx, key)
	if err != nil || setting == nil || setting.Value == "" {
		return fallback
	}
	return setting.Value
}

// List todas las claves.
func (uc *SettingUseCase) List(ctx context.Context) ([]dto.SettingResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SettingResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toSettingResponse(s))
	}
	return out, nil
}

// Set crea o reemplaza el valor de key. El HTML se limpia antes de guardar.
func (uc *SettingUseCase) Set(ctx context.Context, key, value string) (*dto.SettingResponse, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if !settingKeyPattern.MatchString(key) {
		return nil, domain.NewValidationError("key", "solo minúsculas, dígitos, punto, guion y guion bajo")
	}
	if uc.sanitizer != nil {
		value = uc.sanitizer.Sanitize(value)
	}
	setting := &entity.Setting{Key: key, Value: value, UpdatedAt: time.Now()}
	if err := uc.repo.Upsert(ctx, setting); err != nil {
		return nil, err
	}
	return toSettingResponse(setting), nil
}

// Delete elimina una clave.
func (uc *SettingUseCase) Delete(ctx context.Context, key string) error {
	setting, err := uc.repo.Get(ctx, key)
	if err != nil {
		return err
	}
	if setting == nil {
		return &domain.NotFoundError{Entity: "configuración", ID: key}
	}
	return uc.repo.Delete(ctx, key)
}

func toSettingResponse(s *entity.Setting) *dto.SettingResponse {
	return &dto.SettingResponse{Key: s.Key, Value: s.Value, UpdatedAt: s.UpdatedAt}
}
