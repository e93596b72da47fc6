package router

import (
	"github.com/labstack/echo/v4"

	"reqmarket/internal/adapter/api/handler"
	"reqmarket/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limits *middleware.RateLimitMiddleware) {
	userHandler := handler.GetUserHandler()
	storeHandler := handler.GetStoreHandler()
	requestHandler := handler.GetRequestHandler()
	offerHandler := handler.GetOfferHandler()

	users := e.Group("/v1/users")
	users.Use(authMiddleware.Authenticate)

	users.POST("", userHandler.CreateUser, limits.Limit(ActionRegister))
	users.GET("/me", userHandler.GetProfile)
	users.PUT("/me", userHandler.UpdateProfile, limits.Limit(ActionWrite))
	users.GET("/me/stores", storeHandler.GetMyStores)
	users.GET("/me/requests", requestHandler.GetMyRequests)
	users.GET("/me/offers", offerHandler.GetMyOffers)

	e.GET("/v1/users/:id", userHandler.GetUserByID, limits.Limit(ActionRead))
	e.GET("/v1/accounts/:identity", userHandler.GetAccount, limits.Limit(ActionRead))
}
