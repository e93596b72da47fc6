package handler

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"reqmarket/internal/domain/service"
	"reqmarket/pkg/errors"
	"reqmarket/pkg/logger"
	"reqmarket/pkg/response"
)

const maxUploadSize = 5 * 1024 * 1024

type FileHandler struct {
	fileService service.FileUploadService
	maxFileSize int64
}

var fileHandler *FileHandler

func NewFileHandler(fileService service.FileUploadService) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		maxFileSize: maxUploadSize,
	}
}

// SetupFileHandler enables uploads. Without it the upload route is not mounted.
func SetupFileHandler(fileService service.FileUploadService) {
	fileHandler = NewFileHandler(fileService)
}

func GetFileHandler() *FileHandler {
	return fileHandler
}

// UploadImage stores a request or offer image and returns its public URL,
// to be passed in the images list of the create call.
func (h *FileHandler) UploadImage(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("Missing or invalid file", err))
	}

	if file.Size > h.maxFileSize {
		return response.Error(c, errors.BadRequest(fmt.Sprintf("File size exceeds maximum allowed (%dMB)", h.maxFileSize/(1024*1024)), nil))
	}

	folder := c.FormValue("folder")
	if folder == "" {
		folder = "requests"
	}

	src, err := file.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Unable to read file", err))
	}
	defer src.Close()

	url, err := h.fileService.UploadImage(c.Request().Context(), src, file.Header.Get("Content-Type"), folder)
	if err != nil {
		logger.Error("Image upload failed for %s: %v", uid(c), err)
		return response.Error(c, err)
	}

	return response.Created(c, map[string]string{"url": url})
}
