package bootstrap

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	app "github.com/mohammadpnp/admin-bulkops/internal/application/bulk"
	domain "github.com/mohammadpnp/admin-bulkops/internal/domain/bulk"
	"github.com/mohammadpnp/admin-bulkops/internal/infrastructure/authz"
	"github.com/mohammadpnp/admin-bulkops/internal/infrastructure/repository"
	httpecho "github.com/mohammadpnp/admin-bulkops/internal/interfaces/http/echo"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type Config struct {
	MaxItems     int
	PerBatchCost time.Duration
}

func NewHTTPServer(
	db *gorm.DB,
	pool *pgxpool.Pool,
	registry *domain.Registry,
	tracker domain.Tracker,
	executor *app.Executor,
	logger zerolog.Logger,
	cfg Config,
) *echo.Echo {
	server := echo.New()
	server.HideBanner = true

	server.Use(middleware.Recover())
	server.Use(middleware.RequestID())
	server.Use(middleware.BodyLimit("10M"))
	server.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := logger.Info()
			if v.Error != nil || v.Status >= 500 {
				event = logger.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Msg("request")
			return nil
		},
	}))

	operationRepo := repository.NewBulkOperationRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	handlers := []domain.EntityHandler{
		repository.NewUserBulkRepository(pool),
		repository.NewSubscriptionBulkRepository(pool),
	}
	authorizer := authz.NewAdminAuthorizer(db)

	validate := app.NewValidateOperation(registry, handlers, app.ValidateOperationConfig{
		MaxItems:     cfg.MaxItems,
		PerBatchCost: cfg.PerBatchCost,
	})
	submit := app.NewSubmitOperation(registry, handlers, operationRepo, tracker, auditRepo, authorizer, executor,
		app.SubmitOperationConfig{MaxItems: cfg.MaxItems}, logger)
	get := app.NewGetOperation(tracker, operationRepo)
	list := app.NewListOperations(tracker, operationRepo)
	cancel := app.NewCancelOperation(tracker, operationRepo, auditRepo, logger)
	supported := app.NewListSupportedOperations(registry)

	bulkHandler := httpecho.NewBulkOperationHandler(validate, submit, get, list, cancel, supported)
	httpecho.RegisterRoutes(server, bulkHandler)

	server.GET("/healthz", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	return server
}
