package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/ecommerce-api/internal/application/dto"
	"github.com/jhoicas/ecommerce-api/internal/domain"
	"github.com/jhoicas/ecommerce-api/internal/domain/entity"
	"github.com/jhoicas/ecommerce-api/internal/domain/repository"
	"github.com/jhoicas/ecommerce-api/pkg/logger"
)

const tracerName = "github.com/jhoicas/ecommerce-api/internal/application/order"

// LineOutcome resultado de inventario de una línea.
type LineOutcome string

const (
	// OutcomeInserted línea insertada y stock descontado.
	OutcomeInserted LineOutcome = "inserted"
	// OutcomeInsertedNoStockUpdate línea insertada; la variante no existe y no se tocó stock.
	OutcomeInsertedNoStockUpdate LineOutcome = "inserted_no_stock_update"
)

// LineResult resultado por línea, en el orden del request.
type LineResult struct {
	VariantID string
	Outcome   LineOutcome
}

// CreateOrderResult pedido ya confirmado y releído, más el resultado por línea.
type CreateOrderResult struct {
	Order *entity.OrderDetail
	Lines []LineResult
}

// Config parámetros del caso de uso.
type Config struct {
	TrackingMaxAttempts     int
	EnforceNonNegativeStock bool
}

// CreateOrderUseCase crea el pedido, sus líneas y direcciones, y descuenta inventario en una sola transacción.
type CreateOrderUseCase struct {
	txRunner  TxRunner
	userRepo  repository.UserRepository
	orderRepo repository.OrderRepository
	tracking  *TrackingGenerator
	tracer    trace.Tracer
	cfg       Config
	log       *logger.Logger
	now       func() time.Time
}

// NewCreateOrderUseCase construye el caso de uso. orderRepo debe estar atado al pool (relectura tras commit).
func NewCreateOrderUseCase(
	txRunner TxRunner,
	userRepo repository.UserRepository,
	orderRepo repository.OrderRepository,
	cfg Config,
	log *logger.Logger,
) *CreateOrderUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &CreateOrderUseCase{
		txRunner:  txRunner,
		userRepo:  userRepo,
		orderRepo: orderRepo,
		tracking:  NewTrackingGenerator(cfg.TrackingMaxAttempts),
		tracer:    otel.Tracer(tracerName),
		cfg:       cfg,
		log:       log.WithComponent("orders"),
		now:       time.Now,
	}
}

// WithTrackingGenerator reemplaza el generador de guías.
func (uc *CreateOrderUseCase) WithTrackingGenerator(g *TrackingGenerator) *CreateOrderUseCase {
	uc.tracking = g
	return uc
}

// WithTracerProvider emite los spans "order.create" con tp en lugar del provider global.
func (uc *CreateOrderUseCase) WithTracerProvider(tp trace.TracerProvider) *CreateOrderUseCase {
	uc.tracer = tp.Tracer(tracerName)
	return uc
}

// CreateOrder valida, ejecuta la transacción y relee el pedido compuesto.
//
// Retorna:
//   - *domain.ValidationError     si la entrada es inválida (sin abrir transacción).
//   - *domain.NotFoundError       si el usuario no existe.
//   - *domain.OrderCreationFailed si falla cualquier paso dentro de la transacción (ya revertida).
func (uc *CreateOrderUseCase) CreateOrder(ctx context.Context, userID string, in dto.CreateOrderRequest) (*CreateOrderResult, error) {
	ctx, span := uc.tracer.Start(ctx, "order.create", trace.WithAttributes(
		attribute.String("order.user_id", userID),
		attribute.Int("order.items", len(in.Items)),
	))
	defer span.End()

	result, err := uc.createOrder(ctx, userID, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.String("order.id", result.Order.ID),
		attribute.String("order.tracking_number", result.Order.TrackingNumber),
	)
	return result, nil
}

func (uc *CreateOrderUseCase) createOrder(ctx context.Context, userID string, in dto.CreateOrderRequest) (*CreateOrderResult, error) {
	if userID == "" {
		return nil, domain.NewValidationError("user_id", "es requerido")
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("obtener usuario: %w", err)
	}
	if user == nil {
		return nil, &domain.NotFoundError{Entity: "usuario", ID: userID}
	}

	now := uc.now()
	var order *entity.Order
	lines := make([]LineResult, 0, len(in.Items))

	err = uc.txRunner.RunOrder(ctx, func(
		addressRepo repository.AddressRepository,
		orderRepo repository.OrderRepository,
		variantRepo repository.VariantRepository,
	) error {
		// 1-2) Direcciones (reusar si son idénticas)
		shippingID, err := ResolveAddressID(ctx, addressRepo, userID, in.ShippingAddress.Fields(), entity.AddressRoleShipping, now)
		if err != nil {
			return err
		}
		billingID, err := ResolveAddressID(ctx, addressRepo, userID, in.BillingAddress.Fields(), entity.AddressRoleBilling, now)
		if err != nil {
			return err
		}

		// 3) Número de guía
		tracking, err := uc.tracking.Generate(ctx, orderRepo)
		if err != nil {
			return err
		}

		// 4) Cabecera
		order = &entity.Order{
			ID:                uuid.New().String(),
			UserID:            userID,
			Total:             in.Total,
			Status:            entity.OrderStatusPending,
			ShippingAddressID: shippingID,
			BillingAddressID:  billingID,
			TrackingNumber:    tracking,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := orderRepo.Create(ctx, order); err != nil {
			return err
		}

		// 5) Líneas + descuento de stock
		for i, it := range in.Items {
			item := &entity.OrderItem{
				ID:        uuid.New().String(),
				OrderID:   order.ID,
				LineNo:    i + 1,
				VariantID: it.VariantID,
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice,
				CreatedAt: now,
			}
			if err := orderRepo.CreateItem(ctx, item); err != nil {
				return err
			}
			outcome, err := uc.decrementStock(ctx, variantRepo, order.ID, it)
			if err != nil {
				return err
			}
			lines = append(lines, LineResult{VariantID: it.VariantID, Outcome: outcome})
		}
		return nil
	})
	if err != nil {
		uc.log.Error().Err(err).Str("user_id", userID).Msg("creación de pedido revertida")
		return nil, &domain.OrderCreationFailed{Cause: err}
	}

	uc.log.Info().
		Str("order_id", order.ID).
		Str("tracking_number", order.TrackingNumber).
		Int("items", len(lines)).
		Msg("pedido creado")

	detail, err := uc.orderRepo.GetDetail(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("releer pedido %s: %w", order.ID, err)
	}
	if detail == nil {
		return nil, &domain.NotFoundError{Entity: "pedido", ID: order.ID}
	}
	return &CreateOrderResult{Order: detail, Lines: lines}, nil
}

// decrementStock bloquea la variante y descuenta la cantidad. Una variante inexistente no es error.
func (uc *CreateOrderUseCase) decrementStock(
	ctx context.Context,
	variantRepo repository.VariantRepository,
	orderID string,
	it dto.OrderItemInput,
) (LineOutcome, error) {
	variant, err := variantRepo.GetForUpdate(ctx, it.VariantID)
	if err != nil {
		return "", fmt.Errorf("bloquear variante %s: %w", it.VariantID, err)
	}
	if variant == nil {
		uc.log.Warn().
			Str("order_id", orderID).
			Str("variant_id", it.VariantID).
			Int("quantity", it.Quantity).
			Msg("variante no encontrada; línea registrada sin descontar stock")
		return OutcomeInsertedNoStockUpdate, nil
	}
	if uc.cfg.EnforceNonNegativeStock && variant.StockQuantity < it.Quantity {
		return "", fmt.Errorf("%w: variante %s (disponible %d, solicitado %d)",
			domain.ErrInsufficientStock, it.VariantID, variant.StockQuantity, it.Quantity)
	}
	if err := variantRepo.DecrementStock(ctx, variant.ID, it.Quantity); err != nil {
		return "", fmt.Errorf("descontar stock variante %s: %w", it.VariantID, err)
	}
	return OutcomeInserted, nil
}

// ToResponse construye el DTO de salida incluyendo el resultado de inventario por línea.
func (r *CreateOrderResult) ToResponse() dto.OrderResponse {
	resp := dto.NewOrderResponse(r.Order)
	resp.StockUpdates = make([]dto.LineOutcomeResponse, 0, len(r.Lines))
	for _, l := range r.Lines {
		resp.StockUpdates = append(resp.StockUpdates, dto.LineOutcomeResponse{VariantID: l.VariantID, Outcome: string(l.Outcome)})
	}
	return resp
}
