package handler

import (
	"github.com/labstack/echo/v4"

	"reqmarket/internal/usecase"
	"reqmarket/pkg/response"
)

// DevTokenHandler mints identity tokens for local testing. It is only
// mounted in development.
type DevTokenHandler struct {
	issuer usecase.TokenIssuer
}

var devTokenHandler *DevTokenHandler

func NewDevTokenHandler(issuer usecase.TokenIssuer) *DevTokenHandler {
	return &DevTokenHandler{
		issuer: issuer,
	}
}

func SetupDevTokenHandler(issuer usecase.TokenIssuer) {
	devTokenHandler = NewDevTokenHandler(issuer)
}

func GetDevTokenHandler() *DevTokenHandler {
	return devTokenHandler
}

type devTokenRequest struct {
	Identity string `json:"identity" validate:"required,max=128"`
}

func (h *DevTokenHandler) GenerateToken(c echo.Context) error {
	var req devTokenRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	token, err := h.issuer.GenerateToken(c.Request().Context(), req.Identity)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"token":    token,
		"identity": req.Identity,
	})
}
