package api

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"reqmarket/pkg/response"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	return &CustomValidator{
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// ErrorHandler renders errors that escape handlers and middleware in the
// standard response envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if rerr := response.Error(c, err); rerr != nil {
		c.Logger().Error(rerr)
	}
}
