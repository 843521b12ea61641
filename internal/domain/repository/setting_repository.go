package repository

import (
	"context"

	"github.com/jhoicas/ecommerce-api/internal/domain/entity"
)

// SettingRepository define el puerto de persistencia para Setting.
type SettingRepository interface {
	Get(ctx context.Context, key string) (*entity.Setting, error)
	List(ctx context.Context) ([]*entity.Setting, error)
	Upsert(ctx context.Context, setting *entity.Setting) error
	Delete(ctx context.Context, key string) error
}
