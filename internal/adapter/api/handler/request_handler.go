package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"reqmarket/internal/usecase"
	"reqmarket/pkg/response"
	"reqmarket/pkg/utils"
)

type RequestHandler struct {
	requestUseCase *usecase.RequestUseCase
}

func NewRequestHandler(requestUseCase *usecase.RequestUseCase) *RequestHandler {
	return &RequestHandler{
		requestUseCase: requestUseCase,
	}
}

type createRequestRequest struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=5000"`
	Images      []string        `json:"images" validate:"max=10,dive,url"`
	Location    locationRequest `json:"location"`
}

func (h *RequestHandler) CreateRequest(c echo.Context) error {
	var req createRequestRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	request, err := h.requestUseCase.CreateRequest(c.Request().Context(), uid(c), usecase.RequestInput{
		Name:        req.Name,
		Description: req.Description,
		Images:      req.Images,
		Location:    req.Location.toEntity(),
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, request)
}

func (h *RequestHandler) GetRequest(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	request, err := h.requestUseCase.GetRequest(c.Request().Context(), id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, request)
}

func (h *RequestHandler) ListRequests(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	requests, total, err := h.requestUseCase.GetAllRequests(c.Request().Context(), pagination.Page, pagination.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, requests, total, pagination.Page, pagination.PageSize)
}

func (h *RequestHandler) GetMyRequests(c echo.Context) error {
	requests, err := h.requestUseCase.GetUserRequests(c.Request().Context(), uid(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, requests)
}

func (h *RequestHandler) DeleteRequest(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.requestUseCase.DeleteRequest(c.Request().Context(), uid(c), id); err != nil {
		return response.Error(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *RequestHandler) CompleteRequest(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	request, err := h.requestUseCase.MarkRequestCompleted(c.Request().Context(), uid(c), id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, request)
}
