package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ecommerce-api/internal/domain"
	"github.com/jhoicas/ecommerce-api/internal/domain/entity"
	"github.com/jhoicas/ecommerce-api/internal/domain/repository"
)

// ExternalIdentity datos verificados que entrega el proveedor de identidad.
type ExternalIdentity struct {
	Subject   string
	Email     string
	FirstName string
	LastName  string
}

// IdentityResolver traduce una identidad externa a un usuario local.
type IdentityResolver struct {
	userRepo repository.UserRepository
	now      func() time.Time
}

// NewIdentityResolver construye el resolver.
func NewIdentityResolver(userRepo repository.UserRepository) *IdentityResolver {
	return &IdentityResolver{userRepo: userRepo, now: time.Now}
}

// Resolve busca por external id, luego por email (vinculando la cuenta), y si no existe crea
// el usuario con rol user. Sin email falla antes de cualquier búsqueda.
func (r *IdentityResolver) Resolve(ctx context.Context, ext ExternalIdentity) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(ext.Email))
	if email == "" {
		return nil, domain.NewValidationError("email", "la identidad externa no trae email")
	}
	if ext.Subject != "" {
		user, err := r.userRepo.GetByExternalID(ctx, ext.Subject)
		if err != nil {
			return nil, fmt.Errorf("buscar usuario por external id: %w", err)
		}
		if user != nil {
			return user, nil
		}
	}

	user, err := r.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("buscar usuario por email: %w", err)
	}
	if user != nil {
		if user.ExternalID == "" && ext.Subject != "" {
			user.ExternalID = ext.Subject
			user.UpdatedAt = r.now()
			if err := r.userRepo.Update(ctx, user); err != nil {
				return nil, fmt.Errorf("vincular external id: %w", err)
			}
		}
		return user, nil
	}

	now := r.now()
	user = &entity.User{
		ID:         uuid.New().String(),
		Email:      email,
		FirstName:  ext.FirstName,
		LastName:   ext.LastName,
		Role:       entity.RoleUser,
		ExternalID: ext.Subject,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := r.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			// otra petición creó el usuario entre la búsqueda y el insert
			return r.userRepo.GetByEmail(ctx, email)
		}
		return nil, fmt.Errorf("crear usuario: %w", err)
	}
	return user, nil
}

// Sync actualiza nombre y email desde el proveedor (webhook user.updated) y devuelve el usuario.
func (r *IdentityResolver) Sync(ctx context.Context, ext ExternalIdentity) (*entity.User, error) {
	user, err := r.Resolve(ctx, ext)
	if err != nil {
		return nil, err
	}
	changed := false
	if ext.FirstName != "" && ext.FirstName != user.FirstName {
		user.FirstName, changed = ext.FirstName, true
	}
	if ext.LastName != "" && ext.LastName != user.LastName {
		user.LastName, changed = ext.LastName, true
	}
	if email := strings.ToLower(strings.TrimSpace(ext.Email)); email != "" && email != user.Email {
		user.Email, changed = email, true
	}
	if !changed {
		return user, nil
	}
	user.UpdatedAt = r.now()
	if err := r.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("sincronizar usuario: %w", err)
	}
	return user, nil
}

// Remove borra el usuario vinculado al subject (webhook user.deleted). Idempotente.
func (r *IdentityResolver) Remove(ctx context.Context, subject string) error {
	user, err := r.userRepo.GetByExternalID(ctx, subject)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}
	return r.userRepo.Delete(ctx, user.ID)
}
