package router

import (
	"github.com/labstack/echo/v4"

	"reqmarket/internal/adapter/api/handler"
)

func SetupHealthRouter(e *echo.Echo) {
	healthHandler := handler.GetHealthHandler()
	if healthHandler == nil {
		healthHandler = handler.NewHealthHandler("unknown", nil)
	}
	e.GET("/health", healthHandler.CheckHealth)
}
