package order

import (
	"context"
	"fmt"

	"github.com/jhoicas/ecommerce-api/internal/application/dto"
	"github.com/jhoicas/ecommerce-api/internal/domain"
	"github.com/jhoicas/ecommerce-api/internal/domain/entity"
	domainorder "github.com/jhoicas/ecommerce-api/internal/domain/order"
	"github.com/jhoicas/ecommerce-api/internal/domain/repository"
)

// Viewer quién consulta o modifica un pedido.
type Viewer struct {
	UserID string
	Role   string
}

// IsAdmin indica si el viewer es administrador.
func (v Viewer) IsAdmin() bool { return v.Role == entity.RoleAdmin }

// OrderService consultas, cambios de estado y documentos de pedidos ya creados.
type OrderService struct {
	orderRepo repository.OrderRepository
	receipts  ReceiptGenerator
	exporter  OrderExporter
	storeName string
}

// NewOrderService construye el servicio.
func NewOrderService(orderRepo repository.OrderRepository, receipts ReceiptGenerator, exporter OrderExporter, storeName string) *OrderService {
	return &OrderService{orderRepo: orderRepo, receipts: receipts, exporter: exporter, storeName: storeName}
}

// Get devuelve el pedido compuesto si el viewer es dueño o admin.
func (s *OrderService) Get(ctx context.Context, viewer Viewer, id string) (*dto.OrderResponse, error) {
	detail, err := s.loadDetail(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewOrderResponse(detail)
	return &resp, nil
}

// ListMine lista los pedidos del viewer, más recientes primero.
func (s *OrderService) ListMine(ctx context.Context, viewer Viewer, page dto.PageRequest) (*dto.OrderListResponse, error) {
	page.DefaultPage()
	return s.list(ctx, repository.OrderFilter{UserID: viewer.UserID, Limit: page.Limit, Offset: page.Offset})
}

// ListAll listado administrativo con filtro opcional de estado.
func (s *OrderService) ListAll(ctx context.Context, status string, page dto.PageRequest) (*dto.OrderListResponse, error) {
	page.DefaultPage()
	filter := repository.OrderFilter{Limit: page.Limit, Offset: page.Offset}
	if status != "" {
		st, err := domainorder.ParseStatus(status)
		if err != nil {
			return nil, err
		}
		filter.Status = st
	}
	return s.list(ctx, filter)
}

func (s *OrderService) list(ctx context.Context, filter repository.OrderFilter) (*dto.OrderListResponse, error) {
	orders, total, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := &dto.OrderListResponse{
		Items: make([]dto.OrderResponse, 0, len(orders)),
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset, Total: total},
	}
	for _, o := range orders {
		out.Items = append(out.Items, dto.NewOrderSummary(o))
	}
	return out, nil
}

// Cancel cancelación por el dueño; solo desde pending o processing. El estado se vuelve a
// comprobar en el UPDATE: si otro cambio ganó la carrera, ConflictError.
func (s *OrderService) Cancel(ctx context.Context, viewer Viewer, id string) (*dto.OrderResponse, error) {
	o, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil || o.UserID != viewer.UserID {
		return nil, &domain.NotFoundError{Entity: "pedido", ID: id}
	}
	if !domainorder.CanUserCancel(o.Status) {
		return nil, &domain.ConflictError{Message: fmt.Sprintf("no se puede cancelar un pedido en estado %s", o.Status)}
	}
	updated, err := s.orderRepo.UpdateStatusFrom(ctx, id, entity.OrderStatusCancelled, domainorder.UserCancellableStatuses())
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, &domain.ConflictError{Message: "el pedido cambió de estado; no se puede cancelar"}
	}
	return s.Get(ctx, viewer, id)
}

// UpdateStatus cambio de estado hecho por un administrador.
func (s *OrderService) UpdateStatus(ctx context.Context, viewer Viewer, id, status string) (*dto.OrderResponse, error) {
	if !viewer.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	to, err := domainorder.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	o, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, &domain.NotFoundError{Entity: "pedido", ID: id}
	}
	if err := domainorder.CheckAdminTransition(o.Status, to); err != nil {
		return nil, err
	}
	if err := s.orderRepo.UpdateStatus(ctx, id, to); err != nil {
		return nil, err
	}
	return s.Get(ctx, viewer, id)
}

// Receipt genera el comprobante PDF del pedido y su nombre de archivo.
func (s *OrderService) Receipt(ctx context.Context, viewer Viewer, id string) ([]byte, string, error) {
	detail, err := s.loadDetail(ctx, viewer, id)
	if err != nil {
		return nil, "", err
	}
	pdf, err := s.receipts.GenerateReceipt(ctx, detail, s.storeName)
	if err != nil {
		return nil, "", fmt.Errorf("generar comprobante: %w", err)
	}
	return pdf, fmt.Sprintf("pedido_%s.pdf", detail.TrackingNumber), nil
}

// Export serializa el pedido a XML canónico (admin). Devuelve bytes, digest y nombre de archivo.
func (s *OrderService) Export(ctx context.Context, viewer Viewer, id string) ([]byte, string, string, error) {
	if !viewer.IsAdmin() {
		return nil, "", "", domain.ErrForbidden
	}
	detail, err := s.loadDetail(ctx, viewer, id)
	if err != nil {
		return nil, "", "", err
	}
	xmlBytes, digest, err := s.exporter.Export(detail)
	if err != nil {
		return nil, "", "", fmt.Errorf("exportar pedido: %w", err)
	}
	return xmlBytes, digest, fmt.Sprintf("pedido_%s.xml", detail.TrackingNumber), nil
}

// loadDetail carga el pedido compuesto; a un no-admin ajeno se le responde como inexistente.
func (s *OrderService) loadDetail(ctx context.Context, viewer Viewer, id string) (*entity.OrderDetail, error) {
	detail, err := s.orderRepo.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if detail == nil || (!viewer.IsAdmin() && detail.UserID != viewer.UserID) {
		return nil, &domain.NotFoundError{Entity: "pedido", ID: id}
	}
	return detail, nil
}
