package handler

import (
	"github.com/labstack/echo/v4"

	"reqmarket/internal/usecase"
	"reqmarket/pkg/response"
)

type StoreHandler struct {
	storeUseCase *usecase.StoreUseCase
}

func NewStoreHandler(storeUseCase *usecase.StoreUseCase) *StoreHandler {
	return &StoreHandler{
		storeUseCase: storeUseCase,
	}
}

type createStoreRequest struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Description string          `json:"description" validate:"max=1000"`
	Phone       string          `json:"phone" validate:"omitempty,max=32"`
	Location    locationRequest `json:"location"`
}

func (h *StoreHandler) CreateStore(c echo.Context) error {
	var req createStoreRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	store, err := h.storeUseCase.CreateStore(c.Request().Context(), uid(c), usecase.StoreInput{
		Name:        req.Name,
		Description: req.Description,
		Phone:       req.Phone,
		Location:    req.Location.toEntity(),
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, store)
}

func (h *StoreHandler) GetMyStores(c echo.Context) error {
	stores, err := h.storeUseCase.GetUserStores(c.Request().Context(), uid(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, stores)
}
