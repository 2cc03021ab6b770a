package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/urbanstyle-admin/internal/application/auth"
	"github.com/jhoicas/urbanstyle-admin/internal/application/report"
	"github.com/jhoicas/urbanstyle-admin/internal/application/sales"
	"github.com/jhoicas/urbanstyle-admin/internal/application/usecase"
	"github.com/jhoicas/urbanstyle-admin/internal/domain/entity"
	"github.com/jhoicas/urbanstyle-admin/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	UserUC       *usecase.UserUseCase
	ProductUC    *usecase.ProductUseCase
	CatalogUC    *usecase.CatalogUseCase
	SaleUC       *sales.SaleUseCase
	ReportUC     *report.ReportUseCase
	JWTSecret    string
	LoginLimiter *LoginRateLimiter
	Logger       *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, log)
	api.Post("/register", authHandler.Register)
	if deps.LoginLimiter != nil {
		api.Post("/login", deps.LoginLimiter.Handler(), authHandler.Login)
	} else {
		api.Post("/login", authHandler.Login)
	}

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("", AuthMiddleware(deps.JWTSecret))
	admin := RequireRole(entity.RoleAdmin)
	staff := RequireRole(entity.RoleVendedor, entity.RoleAdmin)

	// Usuarios. /clientes va antes de /:id.
	userHandler := NewUserHandler(deps.UserUC, log)
	users := protected.Group("/users")
	users.Get("/clientes", staff, userHandler.ListClientes)
	users.Get("/", admin, userHandler.List)
	users.Post("/", admin, userHandler.Create)
	users.Put("/:id", admin, userHandler.Update)
	users.Delete("/:id", admin, userHandler.Delete)

	// Prendas
	productHandler := NewProductHandler(deps.ProductUC, log)
	clothes := protected.Group("/clothes")
	clothes.Get("/", productHandler.List)
	clothes.Get("/by-id/:id", productHandler.GetByID)
	clothes.Get("/:id", productHandler.GetByID)
	clothes.Post("/", admin, productHandler.Create)
	clothes.Post("/:id", admin, productHandler.UpdateOverride)
	clothes.Put("/:id", admin, productHandler.Update)
	clothes.Delete("/:id", admin, productHandler.Delete)

	// Catálogos (lookups)
	catalogHandler := NewCatalogHandler(deps.CatalogUC, log)
	catalog := protected.Group("/catalog")
	catalog.Get("/:resource", catalogHandler.List)
	catalog.Post("/:resource", admin, catalogHandler.Create)

	// Ventas
	saleHandler := NewSaleHandler(deps.SaleUC, log)
	ventas := protected.Group("/ventas")
	ventas.Get("/mis-compras", RequireRole(entity.RoleCliente), saleHandler.MyPurchases)
	ventas.Get("/all", admin, saleHandler.ListAll)
	ventas.Get("/", staff, saleHandler.ListMine)
	ventas.Post("/", staff, saleHandler.Create)

	// Reportes
	reportHandler := NewReportHandler(deps.ReportUC, log)
	reportes := protected.Group("/reportes", admin)
	reportes.Get("/ventas", reportHandler.GetSales)
	reportes.Get("/ventas/:fecha/ticket", reportHandler.DailyTicket)
}
