package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ecommerce-api/internal/domain"
	"github.com/jhoicas/ecommerce-api/internal/domain/entity"
	"github.com/jhoicas/ecommerce-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, user_id, total, status, shipping_address_id, billing_address_id, tracking_number, created_at, updated_at`

// OrderRepo implementación de OrderRepository (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de pedidos. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// TrackingNumberExists indica si el número de guía ya está asignado.
func (r *OrderRepo) TrackingNumberExists(ctx context.Context, trackingNumber string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE tracking_number = $1)`, trackingNumber).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check tracking number: %w", err)
	}
	return exists, nil
}

// Create inserta la cabecera. Una guía repetida (carrera entre transacciones) -> ConflictError.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.UserID, o.Total, string(o.Status), o.ShippingAddressID, o.BillingAddressID, o.TrackingNumber,
		o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.ConflictError{Message: "número de guía duplicado " + o.TrackingNumber}
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// CreateItem inserta una línea con el precio capturado y su posición.
func (r *OrderRepo) CreateItem(ctx context.Context, it *entity.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, line_no, variant_id, quantity, unit_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, it.ID, it.OrderID, it.LineNo, it.VariantID, it.Quantity, it.UnitPrice, it.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	if !validUUID(id) {
		return nil, nil
	}
	o, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// GetDetail compone cabecera, email del cliente, direcciones y líneas con datos de variante y producto.
// Las líneas cuya variante ya no existe se devuelven con los campos de exhibición vacíos.
func (r *OrderRepo) GetDetail(ctx context.Context, id string) (*entity.OrderDetail, error) {
	if !validUUID(id) {
		return nil, nil
	}
	header := `
		SELECT o.id, o.user_id, o.total, o.status, o.shipping_address_id, o.billing_address_id,
			o.tracking_number, o.created_at, o.updated_at, u.email,
			s.street, s.city, s.state, s.country, s.postal_code,
			b.street, b.city, b.state, b.country, b.postal_code
		FROM orders o
		JOIN users u ON u.id = o.user_id
		JOIN addresses s ON s.id = o.shipping_address_id
		JOIN addresses b ON b.id = o.billing_address_id
		WHERE o.id = $1`
	var d entity.OrderDetail
	var status string
	err := r.q.QueryRow(ctx, header, id).Scan(
		&d.ID, &d.UserID, &d.Total, &status, &d.ShippingAddressID, &d.BillingAddressID,
		&d.TrackingNumber, &d.CreatedAt, &d.UpdatedAt, &d.UserEmail,
		&d.ShippingAddress.Street, &d.ShippingAddress.City, &d.ShippingAddress.State,
		&d.ShippingAddress.Country, &d.ShippingAddress.PostalCode,
		&d.BillingAddress.Street, &d.BillingAddress.City, &d.BillingAddress.State,
		&d.BillingAddress.Country, &d.BillingAddress.PostalCode,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order detail: %w", err)
	}
	d.Status = entity.OrderStatus(status)

	items := `
		SELECT oi.id, oi.order_id, oi.line_no, oi.variant_id, oi.quantity, oi.unit_price, oi.created_at,
			COALESCE(p.id::text, ''), COALESCE(p.name, ''), COALESCE(pv.name, ''), COALESCE(pv.sku, '')
		FROM order_items oi
		LEFT JOIN product_variants pv ON pv.id::text = oi.variant_id
		LEFT JOIN products p ON p.id = pv.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.line_no`
	rows, err := r.q.Query(ctx, items, id)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.OrderItemDetail
		if err := rows.Scan(
			&it.ID, &it.OrderID, &it.LineNo, &it.VariantID, &it.Quantity, &it.UnitPrice, &it.CreatedAt,
			&it.ProductID, &it.ProductName, &it.VariantName, &it.SKU,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		d.Items = append(d.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &d, nil
}

// List cabeceras más recientes primero, con total sin paginar.
func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, int, error) {
	var where []string
	var args []any
	if f.UserID != "" {
		args = append(args, f.UserID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM orders`+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM orders%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		orderColumns, cond, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, total, rows.Err()
}

// UpdateStatus cambia el estado del pedido.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) error {
	tag, err := r.q.Exec(ctx, `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Entity: "pedido", ID: id}
	}
	return nil
}

// UpdateStatusFrom cambia el estado solo si el actual está en from, en una sola sentencia.
func (r *OrderRepo) UpdateStatusFrom(ctx context.Context, id string, to entity.OrderStatus, from []entity.OrderStatus) (bool, error) {
	if !validUUID(id) {
		return false, nil
	}
	allowed := make([]string, len(from))
	for i, st := range from {
		allowed[i] = string(st)
	}
	tag, err := r.q.Exec(ctx,
		`UPDATE orders SET status = $2, updated_at = now() WHERE id = $1 AND status = ANY($3)`,
		id, string(to), allowed)
	if err != nil {
		return false, fmt.Errorf("update order status from: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	var status string
	err := row.Scan(
		&o.ID, &o.UserID, &o.Total, &status, &o.ShippingAddressID, &o.BillingAddressID, &o.TrackingNumber,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Status = entity.OrderStatus(status)
	return &o, nil
}
