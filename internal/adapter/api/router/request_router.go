package router

import (
	"github.com/labstack/echo/v4"

	"reqmarket/internal/adapter/api/handler"
	"reqmarket/internal/adapter/api/middleware"
)

func SetupRequestRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limits *middleware.RateLimitMiddleware) {
	requestHandler := handler.GetRequestHandler()
	offerHandler := handler.GetOfferHandler()

	// Public
	e.GET("/v1/requests", requestHandler.ListRequests, limits.Limit(ActionRead))
	e.GET("/v1/requests/:id", requestHandler.GetRequest, limits.Limit(ActionRead))
	e.GET("/v1/requests/:id/offers", offerHandler.GetRequestOffers, limits.Limit(ActionRead))

	requests := e.Group("/v1/requests")
	requests.Use(authMiddleware.Authenticate)

	requests.POST("", requestHandler.CreateRequest, limits.Limit(ActionWrite))
	requests.DELETE("/:id", requestHandler.DeleteRequest, limits.Limit(ActionWrite))
	requests.POST("/:id/complete", requestHandler.CompleteRequest, limits.Limit(ActionWrite))
	requests.POST("/:id/offers", offerHandler.CreateOffer, limits.Limit(ActionOffer))
	requests.POST("/:id/offers/:offerId/accept", offerHandler.AcceptRequestOffer, limits.Limit(ActionAccept))
}
