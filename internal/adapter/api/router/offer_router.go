package router

import (
	"github.com/labstack/echo/v4"

	"reqmarket/internal/adapter/api/handler"
	"reqmarket/internal/adapter/api/middleware"
)

func SetupOfferRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limits *middleware.RateLimitMiddleware) {
	offerHandler := handler.GetOfferHandler()

	e.GET("/v1/offers/:id", offerHandler.GetOffer, limits.Limit(ActionRead))

	offers := e.Group("/v1/offers")
	offers.Use(authMiddleware.Authenticate)
	offers.POST("/:id/accept", offerHandler.AcceptOffer, limits.Limit(ActionAccept))
}
