package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ecommerce-api/internal/application/auth"
	"github.com/jhoicas/ecommerce-api/internal/application/usecase"
	"github.com/jhoicas/ecommerce-api/internal/domain/entity"
	"github.com/jhoicas/ecommerce-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	Identity    *auth.IdentityResolver
	UserUC      *usecase.UserUseCase
	AddressUC   *usecase.AddressUseCase
	CategoryUC  *usecase.CategoryUseCase
	ProductUC   *usecase.ProductUseCase
	DiscountUC  *usecase.DiscountUseCase
	SettingUC   *usecase.SettingUseCase
	UploadUC    *usecase.UploadUseCase
	CreateOrder OrderCreator
	Orders      OrderQueries

	// Verifier nil: solo tokens locales.
	Verifier            TokenVerifier
	VerifierUnavailable func(error) bool
	JWTSecret           string
	WebhookSecret       string
	Log                 *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api")

	authCfg := AuthConfig{
		JWTSecret:     deps.JWTSecret,
		IsUnavailable: deps.VerifierUnavailable,
		Log:           log,
	}
	// interfaces nil reales: un *IdentityResolver nil no debe activar el camino externo
	var syncer IdentitySyncer
	if deps.Verifier != nil && deps.Identity != nil {
		authCfg.Verifier = deps.Verifier
		authCfg.Resolver = deps.Identity
		syncer = deps.Identity
	}
	authn := AuthMiddleware(authCfg)
	admin := RequireRole(entity.RoleAdmin)

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, authCfg.Verifier, syncer, log)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/sync", authHandler.Sync)

	// Webhook del proveedor de identidad (firma HMAC, sin Bearer)
	if deps.Identity != nil {
		webhookHandler := NewWebhookHandler(deps.WebhookSecret, deps.Identity, log)
		api.Post("/webhooks/identity", webhookHandler.Identity)
	}

	// Users
	userHandler := NewUserHandler(deps.UserUC, log)
	users := api.Group("/users", authn)
	users.Get("/me", userHandler.Me)
	users.Put("/me", userHandler.UpdateMe)
	users.Get("/", admin, userHandler.List)
	users.Put("/:id/role", admin, userHandler.SetRole)

	// Addresses (propias)
	addressHandler := NewAddressHandler(deps.AddressUC, log)
	addresses := api.Group("/addresses", authn)
	addresses.Get("/", addressHandler.List)
	addresses.Post("/", addressHandler.Create)
	addresses.Put("/:id", addressHandler.Update)
	addresses.Put("/:id/default", addressHandler.SetDefault)

	// Categories (lectura pública)
	categoryHandler := NewCategoryHandler(deps.CategoryUC, log)
	categories := api.Group("/categories")
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Post("/", authn, admin, categoryHandler.Create)
	categories.Put("/:id", authn, admin, categoryHandler.Update)
	categories.Delete("/:id", authn, admin, categoryHandler.Delete)

	// Products y variantes (lectura pública)
	productHandler := NewProductHandler(deps.ProductUC, log)
	products := api.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", authn, admin, productHandler.Create)
	products.Put("/:id", authn, admin, productHandler.Update)
	products.Delete("/:id", authn, admin, productHandler.Delete)
	products.Post("/:id/variants", authn, admin, productHandler.CreateVariant)

	variants := api.Group("/variants", authn, admin)
	variants.Put("/:variantId", productHandler.UpdateVariant)
	variants.Put("/:variantId/stock", productHandler.SetStock)
	variants.Delete("/:variantId", productHandler.DeleteVariant)

	// Discounts
	discountHandler := NewDiscountHandler(deps.DiscountUC, log)
	discounts := api.Group("/discounts")
	discounts.Get("/validate", discountHandler.Validate)
	discounts.Get("/", authn, admin, discountHandler.List)
	discounts.Get("/:id", authn, admin, discountHandler.GetByID)
	discounts.Post("/", authn, admin, discountHandler.Create)
	discounts.Put("/:id", authn, admin, discountHandler.Update)
	discounts.Delete("/:id", authn, admin, discountHandler.Delete)

	// Settings
	settingHandler := NewSettingHandler(deps.SettingUC, log)
	settings := api.Group("/settings")
	settings.Get("/", settingHandler.List)
	settings.Get("/:key", settingHandler.Get)
	settings.Put("/:key", authn, admin, settingHandler.Set)
	settings.Delete("/:key", authn, admin, settingHandler.Delete)

	// Uploads (admin)
	uploadHandler := NewUploadHandler(deps.UploadUC, log)
	api.Post("/uploads", authn, admin, uploadHandler.Upload)

	// Orders
	orderHandler := NewOrderHandler(deps.CreateOrder, deps.Orders, log)
	orders := api.Group("/orders", authn)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.ListMine)
	orders.Get("/:id", orderHandler.Get)
	orders.Get("/:id/receipt", orderHandler.Receipt)
	orders.Patch("/:id/cancel", orderHandler.Cancel)
	orders.Put("/:id/status", admin, orderHandler.UpdateStatus)

	// Admin
	adminGroup := api.Group("/admin", authn, admin)
	adminGroup.Get("/orders", orderHandler.ListAll)
	adminGroup.Get("/orders/:id/export", orderHandler.Export)
	adminGroup.Get("/products", productHandler.ListAll)
}
