package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/urbanstyle-admin/internal/application/auth"
	"github.com/jhoicas/urbanstyle-admin/internal/application/report"
	"github.com/jhoicas/urbanstyle-admin/internal/application/sales"
	"github.com/jhoicas/urbanstyle-admin/internal/application/usecase"
	"github.com/jhoicas/urbanstyle-admin/internal/domain/repository"
	"github.com/jhoicas/urbanstyle-admin/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/urbanstyle-admin/internal/infrastructure/pdf"
	"github.com/jhoicas/urbanstyle-admin/internal/infrastructure/postgres"
	"github.com/jhoicas/urbanstyle-admin/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/urbanstyle-admin/internal/interfaces/http"
	"github.com/jhoicas/urbanstyle-admin/pkg/config"
	"github.com/jhoicas/urbanstyle-admin/pkg/logger"
)

// repositories adaptadores de persistencia según DB_DRIVER.
type repositories struct {
	users    repository.UserRepository
	products repository.ProductRepository
	catalog  repository.CatalogRepository
	sales    repository.SaleRepository
	reports  repository.ReportRepository
	tx       sales.SaleTxRunner
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("db_driver", cfg.DB.Driver).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	repos, err := openRepositories(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer repos.close()

	images, err := storage.New(cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento de imágenes")
	}

	authUC := auth.NewAuthUseCase(repos.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	userUC := usecase.NewUserUseCase(repos.users)
	productUC := usecase.NewProductUseCase(repos.products, repos.catalog, images, cfg.Storage.MaxImageBytes, log.Component("products"))
	catalogUC := usecase.NewCatalogUseCase(repos.catalog)
	saleUC := sales.NewSaleUseCase(repos.tx, repos.users, repos.sales, log.Component("sales"))
	reportUC := report.NewReportUseCase(repos.reports, infrapdf.NewTicketGenerator(), cfg.App.StoreName)

	if cfg.Bootstrap.AdminEmail != "" {
		created, err := userUC.EnsureAdmin(ctx, cfg.Bootstrap.AdminName, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("crear administrador inicial")
		}
		if created {
			log.Info().Str("email", cfg.Bootstrap.AdminEmail).Msg("administrador inicial creado")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    int(cfg.Storage.MaxImageBytes)*10 + 1<<20,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "UrbanStyle API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	if cfg.Storage.Driver == "local" {
		app.Static("/uploads", cfg.Storage.LocalDir)
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		UserUC:       userUC,
		ProductUC:    productUC,
		CatalogUC:    catalogUC,
		SaleUC:       saleUC,
		ReportUC:     reportUC,
		JWTSecret:    cfg.JWT.Secret,
		LoginLimiter: httpRouter.NewLoginRateLimiter(cfg.RateLimit.LoginPerMinute, cfg.RateLimit.LoginBurst),
		Logger:       log.Component("http"),
	})

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

	log.Info().Msg("aplicación detenida")
}

func openRepositories(ctx context.Context, cfg config.DBConfig) (*repositories, error) {
	if cfg.Driver == "memory" {
		store := memory.NewStore()
		return &repositories{
			users:    store.Users(),
			products: store.Products(),
			catalog:  store.Catalog(),
			sales:    store.Sales(),
			reports:  store.Reports(),
			tx:       store.TxRunner(),
			close:    func() {},
		}, nil
	}
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &repositories{
		users:    postgres.NewUserRepository(pool),
		products: postgres.NewProductRepository(pool),
		catalog:  postgres.NewCatalogRepository(pool),
		sales:    postgres.NewSaleRepository(pool),
		reports:  postgres.NewReportRepository(pool),
		tx:       postgres.NewTxRunner(pool),
		close:    pool.Close,
	}, nil
}
