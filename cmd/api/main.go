package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/ecommerce-api/internal/application/auth"
	"github.com/jhoicas/ecommerce-api/internal/application/order"
	"github.com/jhoicas/ecommerce-api/internal/application/usecase"
	"github.com/jhoicas/ecommerce-api/internal/infrastructure/identity"
	infrapdf "github.com/jhoicas/ecommerce-api/internal/infrastructure/pdf"
	"github.com/jhoicas/ecommerce-api/internal/infrastructure/postgres"
	"github.com/jhoicas/ecommerce-api/internal/infrastructure/sanitize"
	"github.com/jhoicas/ecommerce-api/internal/infrastructure/storage"
	"github.com/jhoicas/ecommerce-api/internal/infrastructure/tracing"
	"github.com/jhoicas/ecommerce-api/internal/infrastructure/xmlexport"
	httpRouter "github.com/jhoicas/ecommerce-api/internal/interfaces/http"
	"github.com/jhoicas/ecommerce-api/pkg/config"
	"github.com/jhoicas/ecommerce-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	tp, err := tracing.NewProvider(cfg.Tracing, cfg.App.Name, os.Stdout, log)
	if err != nil {
		log.Fatal().Err(err).Msg("proveedor de trazas")
	}
	tp.SetGlobal()

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	addressRepo := postgres.NewAddressRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	variantRepo := postgres.NewVariantRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	discountRepo := postgres.NewDiscountRepository(pool)
	settingRepo := postgres.NewSettingRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	objectStorage, err := storage.NewLocalStorage(cfg.Uploads.Dir, cfg.Uploads.PublicPath, log)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Uploads.Dir).Msg("directorio de uploads")
	}

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	identityResolver := auth.NewIdentityResolver(userRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	addressUC := usecase.NewAddressUseCase(addressRepo, txRunner)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	productUC := usecase.NewProductUseCase(productRepo, variantRepo, categoryRepo, sanitize.NewHTMLSanitizer())
	discountUC := usecase.NewDiscountUseCase(discountRepo)
	settingUC := usecase.NewSettingUseCase(settingRepo, sanitize.NewStrictSanitizer())
	uploadUC := usecase.NewUploadUseCase(objectStorage, int64(cfg.Uploads.MaxSizeMB)<<20)

	createOrderUC := order.NewCreateOrderUseCase(txRunner, userRepo, orderRepo, order.Config{
		TrackingMaxAttempts:     cfg.Orders.TrackingMaxAttempts,
		EnforceNonNegativeStock: cfg.Orders.EnforceNonNegativeStock,
	}, log).WithTracerProvider(tp)
	orderSvc := order.NewOrderService(orderRepo, infrapdf.NewReceiptGenerator(), xmlexport.NewExporter(), cfg.App.Name)

	deps := httpRouter.RouterDeps{
		AuthUC:        authUC,
		Identity:      identityResolver,
		UserUC:        userUC,
		AddressUC:     addressUC,
		CategoryUC:    categoryUC,
		ProductUC:     productUC,
		DiscountUC:    discountUC,
		SettingUC:     settingUC,
		UploadUC:      uploadUC,
		CreateOrder:   createOrderUC,
		Orders:        orderSvc,
		JWTSecret:     cfg.JWT.Secret,
		WebhookSecret: cfg.Webhook.Secret,
		Log:           log,
	}

	// Proveedor externo opcional: tokens RS256 verificados contra su JWKS.
	if cfg.Identity.Enabled() {
		keys := identity.NewJWKSCache(cfg.Identity.JWKSURL, &http.Client{Timeout: 10 * time.Second}, log)
		deps.Verifier = identity.NewVerifier(keys, cfg.Identity.Issuer, cfg.Identity.Audience)
		deps.VerifierUnavailable = func(err error) bool {
			return errors.Is(err, identity.ErrJWKSFetchFailed)
		}
		log.Info().Str("jwks_url", cfg.Identity.JWKSURL).Msg("proveedor de identidad externo habilitado")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    (cfg.Uploads.MaxSizeMB + 1) << 20,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(requestid.New())
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "E-commerce API",
		}))
	}

	app.Get("/health", httpRouter.HealthHandler(cfg.App.Name, func(ctx context.Context) error {
		return postgres.Ping(ctx, pool)
	}))
	app.Static(cfg.Uploads.PublicPath, cfg.Uploads.Dir)

	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("cierre de trazas")
	}

	log.Info().Msg("aplicación detenida")
}
