package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/ecommerce-api/internal/application/order"
	"github.com/jhoicas/ecommerce-api/internal/application/usecase"
	"github.com/jhoicas/ecommerce-api/internal/domain/repository"
)

// Ensure TxRunner implements order.TxRunner and usecase.AddressTxRunner.
var _ order.TxRunner = (*TxRunner)(nil)
var _ usecase.AddressTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunOrder inicia una transacción, ejecuta fn con los repos de pedido atados a la tx y hace Commit.
// Cualquier error de fn (o un panic) deja la transacción revertida.
func (r *TxRunner) RunOrder(ctx context.Context, fn func(
	addressRepo repository.AddressRepository,
	orderRepo repository.OrderRepository,
	variantRepo repository.VariantRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewAddressRepository(tx), NewOrderRepository(tx), NewVariantRepository(tx))
	})
}

// RunAddresses inicia una transacción con el repo de direcciones (cambio de dirección predeterminada).
func (r *TxRunner) RunAddresses(ctx context.Context, fn func(addressRepo repository.AddressRepository) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewAddressRepository(tx))
	})
}

func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
