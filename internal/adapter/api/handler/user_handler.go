package handler

import (
	"github.com/labstack/echo/v4"

	"reqmarket/internal/domain/entity"
	"reqmarket/internal/usecase"
	"reqmarket/pkg/response"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

type userRequest struct {
	Username string          `json:"username" validate:"required,min=3,max=50"`
	Phone    string          `json:"phone" validate:"omitempty,max=32"`
	Location locationRequest `json:"location"`
	Role     string          `json:"role" validate:"required,oneof=buyer seller"`
}

func (r userRequest) toInput() usecase.UserInput {
	return usecase.UserInput{
		Username: r.Username,
		Phone:    r.Phone,
		Location: r.Location.toEntity(),
		Role:     entity.Role(r.Role),
	}
}

func (h *UserHandler) CreateUser(c echo.Context) error {
	var req userRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.CreateUser(c.Request().Context(), uid(c), req.toInput())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, user)
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req userRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.UpdateUser(c.Request().Context(), uid(c), req.toInput())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	user, err := h.userUseCase.GetUser(c.Request().Context(), uid(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}

// GetAccount looks a user up by identity.
func (h *UserHandler) GetAccount(c echo.Context) error {
	user, err := h.userUseCase.GetUser(c.Request().Context(), c.Param("identity"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}

func (h *UserHandler) GetUserByID(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.GetUserByID(c.Request().Context(), id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}
