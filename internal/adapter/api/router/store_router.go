package router

import (
	"github.com/labstack/echo/v4"

	"reqmarket/internal/adapter/api/handler"
	"reqmarket/internal/adapter/api/middleware"
)

func SetupStoreRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limits *middleware.RateLimitMiddleware) {
	storeHandler := handler.GetStoreHandler()

	stores := e.Group("/v1/stores")
	stores.Use(authMiddleware.Authenticate)
	stores.POST("", storeHandler.CreateStore, limits.Limit(ActionWrite))
}
