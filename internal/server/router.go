package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/pantrywise/catalog-backend/internal/handlers"
	"github.com/pantrywise/catalog-backend/internal/middleware"
)

type RouterConfig struct {
	AuthMiddleware *middleware.AuthMiddleware
	ProductHandler *handlers.ProductHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())
	{
		api.GET("/products", cfg.ProductHandler.List)
		api.POST("/products", cfg.ProductHandler.Store)
		api.GET("/products/:id", cfg.ProductHandler.Get)
		api.PUT("/products/:id", cfg.ProductHandler.Update)
		api.PATCH("/products/:id", cfg.ProductHandler.Update)
		api.DELETE("/products/:id", cfg.ProductHandler.Destroy)
	}

	return router
}
