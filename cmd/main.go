package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/pantrywise/catalog-backend/internal/db"
	"github.com/pantrywise/catalog-backend/internal/events"
	"github.com/pantrywise/catalog-backend/internal/handlers"
	"github.com/pantrywise/catalog-backend/internal/logger"
	"github.com/pantrywise/catalog-backend/internal/middleware"
	"github.com/pantrywise/catalog-backend/internal/repos"
	"github.com/pantrywise/catalog-backend/internal/server"
	"github.com/pantrywise/catalog-backend/internal/services"
	"github.com/pantrywise/catalog-backend/internal/types"
	"github.com/pantrywise/catalog-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, relying on environment")
	}
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos...")
	productRepo := repos.NewProductRepo(thePG, log)
	preparationRepo := repos.NewPreparationRepo(thePG, log)
	packRepo := repos.NewProductPackRepo(thePG, log)
	dietRepo := repos.NewDietRepo(thePG, log)
	tagRepo := repos.NewTagRepo(thePG, log)
	seasonalRepo := repos.NewSeasonalAvailabilityRepo(thePG, log)
	nutritionRepo := repos.NewNutritionInfoRepo(thePG, log)
	auditRepo := repos.NewProductAuditRepo(thePG, log)

	// Owner registry: products are owned by a supplier or a user.
	types.RegisterOwnerLoader(types.OwnerTypeSupplier, func(ctx context.Context, tx *gorm.DB, id uuid.UUID) (interface{}, error) {
		var supplier types.Supplier
		if err := tx.WithContext(ctx).First(&supplier, "id = ?", id).Error; err != nil {
			return nil, err
		}
		return &supplier, nil
	})
	types.RegisterOwnerLoader(types.OwnerTypeUser, func(ctx context.Context, tx *gorm.DB, id uuid.UUID) (interface{}, error) {
		var user types.User
		if err := tx.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
			return nil, err
		}
		return &user, nil
	})

	// Event bus
	log.Info("Setting up event bus...")
	var bus events.Bus
	if utils.GetEnv("EVENT_BUS", "memory", log) == "redis" {
		bus, err = events.NewRedisBus(log)
		if err != nil {
			log.Error("Could not init redis event bus", "error", err)
			os.Exit(1)
		}
	} else {
		bus = events.NewMemoryBus(log)
	}
	defer bus.Close()
	services.RegisterListeners(bus, log, productRepo, packRepo, auditRepo)

	// Services
	log.Info("Setting up services...")
	collectionsService := services.NewCollectionsService(thePG, log, preparationRepo, packRepo, dietRepo, tagRepo)
	nutritionService := services.NewNutritionService(thePG, log, nutritionRepo)
	availabilityService := services.NewAvailabilityService(thePG, log, seasonalRepo)
	notifier := services.NewProductNotifier(bus)
	productService := services.NewProductService(
		thePG,
		log,
		productRepo,
		dietRepo,
		collectionsService,
		nutritionService,
		availabilityService,
		notifier,
	)

	// Handlers
	log.Info("Setting up handlers...")
	productHandler := handlers.NewProductHandler(log, productService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, jwtSecretKey)

	// Router
	router := server.NewRouter(server.RouterConfig{
		AuthMiddleware: authMiddleware,
		ProductHandler: productHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
