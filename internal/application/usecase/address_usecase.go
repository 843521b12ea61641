package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ecommerce-api/internal/application/dto"
	"github.com/jhoicas/ecommerce-api/internal/domain"
	"github.com/jhoicas/ecommerce-api/internal/domain/entity"
	"github.com/jhoicas/ecommerce-api/internal/domain/repository"
)

// AddressTxRunner ejecuta fn con un repositorio de direcciones atado a una transacción.
type AddressTxRunner interface {
	RunAddresses(ctx context.Context, fn func(addressRepo repository.AddressRepository) error) error
}

// AddressUseCase libreta de direcciones del usuario. Una sola dirección por rol queda marcada por defecto.
type AddressUseCase struct {
	repo     repository.AddressRepository
	txRunner AddressTxRunner
}

// NewAddressUseCase construye el caso de uso.
func NewAddressUseCase(repo repository.AddressRepository, txRunner AddressTxRunner) *AddressUseCase {
	return &AddressUseCase{repo: repo, txRunner: txRunner}
}

// List direcciones del usuario.
func (uc *AddressUseCase) List(ctx context.Context, userID string) ([]dto.AddressResponse, error) {
	list, err := uc.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AddressResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toAddressResponse(a))
	}
	return out, nil
}

// Create guarda una dirección. Si llega marcada para un rol, desmarca las demás del mismo rol.
func (uc *AddressUseCase) Create(ctx context.Context, userID string, in dto.CreateAddressRequest) (*dto.AddressResponse, error) {
	if err := in.AddressInput.Validate("address"); err != nil {
		return nil, err
	}
	now := time.Now()
	address := &entity.Address{
		ID:            uuid.New().String(),
		UserID:        userID,
		AddressFields: in.Fields(),
		IsBilling:     in.IsBilling,
		IsShipping:    in.IsShipping,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err := uc.txRunner.RunAddresses(ctx, func(repo repository.AddressRepository) error {
		for _, role := range []entity.AddressRole{entity.AddressRoleBilling, entity.AddressRoleShipping} {
			if !address.Flag(role) {
				continue
			}
			if err := repo.ClearRoleFlag(ctx, userID, role); err != nil {
				return err
			}
		}
		return repo.Create(ctx, address)
	})
	if err != nil {
		return nil, err
	}
	resp := toAddressResponse(address)
	return &resp, nil
}

// Update reemplaza los campos de una dirección propia. Los flags se cambian con SetDefault.
func (uc *AddressUseCase) Update(ctx context.Context, userID, id string, in dto.AddressInput) (*dto.AddressResponse, error) {
	if err := in.Validate("address"); err != nil {
		return nil, err
	}
	address, err := uc.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	address.AddressFields = in.Fields()
	address.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, address); err != nil {
		return nil, err
	}
	resp := toAddressResponse(address)
	return &resp, nil
}

// SetDefault marca la dirección como predeterminada para role y desmarca las demás, en una transacción.
func (uc *AddressUseCase) SetDefault(ctx context.Context, userID, id string, role entity.AddressRole) (*dto.AddressResponse, error) {
	if !role.Valid() {
		return nil, domain.NewValidationError("role", "rol inválido %q; valores permitidos: %s, %s",
			role, entity.AddressRoleBilling, entity.AddressRoleShipping)
	}
	if _, err := uc.owned(ctx, userID, id); err != nil {
		return nil, err
	}
	err := uc.txRunner.RunAddresses(ctx, func(repo repository.AddressRepository) error {
		if err := repo.ClearRoleFlag(ctx, userID, role); err != nil {
			return err
		}
		return repo.SetRoleFlag(ctx, id, role)
	})
	if err != nil {
		return nil, err
	}
	address, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, &domain.NotFoundError{Entity: "dirección", ID: id}
	}
	resp := toAddressResponse(address)
	return &resp, nil
}

// owned carga la dirección; si no es del usuario se trata como inexistente.
func (uc *AddressUseCase) owned(ctx context.Context, userID, id string) (*entity.Address, error) {
	address, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if address == nil || address.UserID != userID {
		return nil, &domain.NotFoundError{Entity: "dirección", ID: id}
	}
	return address, nil
}

func toAddressResponse(a *entity.Address) dto.AddressResponse {
	return dto.AddressResponse{
		ID:         a.ID,
		UserID:     a.UserID,
		Street:     a.Street,
		City:       a.City,
		State:      a.State,
		Country:    a.Country,
		PostalCode: a.PostalCode,
		IsBilling:  a.IsBilling,
		IsShipping: a.IsShipping,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}
