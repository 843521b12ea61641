package http

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ecommerce-api/internal/application/dto"
	"github.com/jhoicas/ecommerce-api/internal/application/order"
	"github.com/jhoicas/ecommerce-api/pkg/logger"
)

// OrderCreator crea pedidos (transacción completa).
type OrderCreator interface {
	CreateOrder(ctx context.Context, userID string, in dto.CreateOrderRequest) (*order.CreateOrderResult, error)
}

// OrderQueries consultas, cambios de estado y documentos de pedidos existentes.
type OrderQueries interface {
	Get(ctx context.Context, viewer order.Viewer, id string) (*dto.OrderResponse, error)
	ListMine(ctx context.Context, viewer order.Viewer, page dto.PageRequest) (*dto.OrderListResponse, error)
	ListAll(ctx context.Context, status string, page dto.PageRequest) (*dto.OrderListResponse, error)
	Cancel(ctx context.Context, viewer order.Viewer, id string) (*dto.OrderResponse, error)
	UpdateStatus(ctx context.Context, viewer order.Viewer, id, status string) (*dto.OrderResponse, error)
	Receipt(ctx context.Context, viewer order.Viewer, id string) ([]byte, string, error)
	Export(ctx context.Context, viewer order.Viewer, id string) ([]byte, string, string, error)
}

// HeaderContentDigest SHA-256 (hex) del XML canónico devuelto por la exportación.
const HeaderContentDigest = "X-Content-Digest"

// OrderHandler maneja las peticiones HTTP de pedidos (protegido).
type OrderHandler struct {
	creator OrderCreator
	queries OrderQueries
	log     *logger.Logger
}

// NewOrderHandler construye el handler.
func NewOrderHandler(creator OrderCreator, queries OrderQueries, log *logger.Logger) *OrderHandler {
	return &OrderHandler{creator: creator, queries: queries, log: log}
}

func viewerFrom(c *fiber.Ctx) order.Viewer {
	return order.Viewer{UserID: GetUserID(c), Role: GetRole(c)}
}

// Create godoc
// @Summary      Crear pedido
// @Description  Crea el pedido, sus líneas y direcciones (reutilizando las idénticas) y descuenta stock en una transacción.
// @Description  Acepta variant_id o product_id, unit_price o price. shipping_address y billing_address son obligatorias.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderBody  true  "Ítems, direcciones y total"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var body dto.CreateOrderBody
	if err := parseBody(c, &body); err != nil {
		return err
	}
	in, err := body.ToRequest()
	if err != nil {
		return respondError(c, h.log, err)
	}
	res, err := h.creator.CreateOrder(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusCreated, res.ToResponse())
}

// ListMine pedidos del usuario autenticado.
func (h *OrderHandler) ListMine(c *fiber.Ctx) error {
	out, err := h.queries.ListMine(c.UserContext(), viewerFrom(c), pageFromQuery(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// ListAll godoc
// @Summary      Listar todos los pedidos (admin)
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending | processing | shipped | delivered | cancelled"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.OrderListResponse
// @Router       /api/admin/orders [get]
func (h *OrderHandler) ListAll(c *fiber.Ctx) error {
	out, err := h.queries.ListAll(c.UserContext(), c.Query("status"), pageFromQuery(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// Get pedido compuesto; un pedido ajeno responde 404.
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	out, err := h.queries.Get(c.UserContext(), viewerFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// Cancel godoc
// @Summary      Cancelar pedido propio
// @Description  Solo desde pending o processing.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/cancel [patch]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.queries.Cancel(c.UserContext(), viewerFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado del pedido (admin)
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID del pedido"
// @Param        body  body  dto.UpdateOrderStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateOrderStatusRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.queries.UpdateStatus(c.UserContext(), viewerFrom(c), c.Params("id"), in.Status)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// Receipt godoc
// @Summary      Descargar comprobante PDF
// @Tags         orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {file}  binary
// @Router       /api/orders/{id}/receipt [get]
func (h *OrderHandler) Receipt(c *fiber.Ctx) error {
	pdf, filename, err := h.queries.Receipt(c.UserContext(), viewerFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Status(fiber.StatusOK).Send(pdf)
}

// Export godoc
// @Summary      Exportar pedido a XML canónico (admin)
// @Description  El header X-Content-Digest lleva el SHA-256 (hex) de los bytes devueltos.
// @Tags         orders
// @Security     Bearer
// @Produce      application/xml
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {file}  binary
// @Router       /api/admin/orders/{id}/export [get]
func (h *OrderHandler) Export(c *fiber.Ctx) error {
	body, digest, filename, err := h.queries.Export(c.UserContext(), viewerFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Set(HeaderContentDigest, digest)
	return c.Status(fiber.StatusOK).Send(body)
}
