package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gokmen-54/nalburos-web-deploy/internal/application/service"
	"github.com/gokmen-54/nalburos-web-deploy/internal/config"
	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/store"
	"github.com/gokmen-54/nalburos-web-deploy/internal/gate"
	"github.com/gokmen-54/nalburos-web-deploy/internal/infrastructure/database"
	infrastore "github.com/gokmen-54/nalburos-web-deploy/internal/infrastructure/store"
	"github.com/gokmen-54/nalburos-web-deploy/internal/presentation/http/handler"
	"github.com/gokmen-54/nalburos-web-deploy/internal/presentation/http/routes"
	"github.com/gokmen-54/nalburos-web-deploy/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger, err := newLogger(cfg.App.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Open the record store backend
	recordStore, err := newRecordStore(cfg)
	if err != nil {
		logger.Fatal("Failed to open record store", zap.Error(err))
	}

	// Seed the default Owner account
	ctx := context.Background()
	if err := database.SeedDefaultData(ctx, recordStore, cfg.App.AdminUsername, cfg.App.AdminPassword); err != nil {
		logger.Warn("Failed to seed default data", zap.Error(err))
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// All mutating operations share one serialization gate
	storeGate := gate.New()

	// Initialize services
	authService := service.NewAuthService(recordStore, jwtManager, logger)
	saleService := service.NewSaleService(recordStore, storeGate, logger, cfg.App.BranchID, cfg.App.RegisterID)
	paymentService := service.NewPaymentService(recordStore, storeGate, logger)
	syncService := service.NewSyncService(recordStore, storeGate, logger)
	productService := service.NewProductService(recordStore, storeGate, logger)
	customerService := service.NewCustomerService(recordStore, storeGate, logger)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Sale:     handler.NewSaleHandler(saleService),
		Payment:  handler.NewPaymentHandler(paymentService),
		Sync:     handler.NewSyncHandler(syncService),
		Product:  handler.NewProductHandler(productService),
		Customer: handler.NewCustomerHandler(customerService),
	}

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager: jwtManager,
		Cfg:        cfg,
		Logger:     logger,
	})

	logger.Info("starting server",
		zap.String("port", cfg.App.Port),
		zap.String("store_driver", cfg.Store.Driver),
		zap.String("branch_id", cfg.App.BranchID),
		zap.String("register_id", cfg.App.RegisterID))
	if err := router.Run(":" + cfg.App.Port); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

// newRecordStore opens the configured backend. Postgres is the production
// target; file suits single register deployments and memory is for tests.
func newRecordStore(cfg *config.Config) (store.RecordStore, error) {
	switch cfg.Store.Driver {
	case "postgres":
		db, err := database.NewPostgresDB(&cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, err
		}
		return infrastore.NewPostgresStore(db), nil
	case "memory":
		return infrastore.NewMemoryStore(), nil
	default:
		return infrastore.NewFileStore(cfg.Store.DataDir)
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
