package router

import (
	"github.com/labstack/echo/v4"

	"reqmarket/internal/adapter/api/handler"
	"reqmarket/internal/adapter/api/middleware"
)

func SetupWebSocketRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	wsHandler := handler.GetWebSocketHandler()
	if wsHandler == nil {
		return
	}
	e.GET("/v1/ws", wsHandler.HandleWebSocket, authMiddleware.AuthenticateQuery)
}
