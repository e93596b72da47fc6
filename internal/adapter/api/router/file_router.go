package router

import (
	"github.com/labstack/echo/v4"

	"reqmarket/internal/adapter/api/handler"
	"reqmarket/internal/adapter/api/middleware"
)

// SetupFileRouter mounts uploads when a storage bucket is configured.
func SetupFileRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limits *middleware.RateLimitMiddleware) {
	fileHandler := handler.GetFileHandler()
	if fileHandler == nil {
		return
	}

	e.POST("/v1/uploads", fileHandler.UploadImage, authMiddleware.Authenticate, limits.Limit(ActionUpload))
}
