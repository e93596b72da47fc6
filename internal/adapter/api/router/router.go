package router

import (
	"github.com/labstack/echo/v4"

	"reqmarket/internal/adapter/api/middleware"
)

// Rate limit actions.
const (
	ActionRead     = "read"
	ActionRegister = "register"
	ActionWrite    = "write"
	ActionOffer    = "create_offer"
	ActionAccept   = "accept_offer"
	ActionUpload   = "upload"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limits *middleware.RateLimitMiddleware) {
	SetupUserRouter(e, authMiddleware, limits)
	SetupStoreRouter(e, authMiddleware, limits)
	SetupRequestRouter(e, authMiddleware, limits)
	SetupOfferRouter(e, authMiddleware, limits)
	SetupHealthRouter(e)
}
