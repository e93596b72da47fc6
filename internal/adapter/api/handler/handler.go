package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"reqmarket/internal/domain/entity"
	"reqmarket/internal/usecase"
	"reqmarket/pkg/errors"
)

var (
	userHandler    *UserHandler
	storeHandler   *StoreHandler
	requestHandler *RequestHandler
	offerHandler   *OfferHandler
)

func Setup(
	userUseCase *usecase.UserUseCase,
	storeUseCase *usecase.StoreUseCase,
	requestUseCase *usecase.RequestUseCase,
	offerUseCase *usecase.OfferUseCase,
) {
	userHandler = NewUserHandler(userUseCase)
	storeHandler = NewStoreHandler(storeUseCase)
	requestHandler = NewRequestHandler(requestUseCase)
	offerHandler = NewOfferHandler(offerUseCase)
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetStoreHandler() *StoreHandler {
	return storeHandler
}

func GetRequestHandler() *RequestHandler {
	return requestHandler
}

func GetOfferHandler() *OfferHandler {
	return offerHandler
}

type locationRequest struct {
	Latitude  int64 `json:"latitude"`
	Longitude int64 `json:"longitude"`
}

func (l locationRequest) toEntity() entity.Location {
	return entity.Location{Latitude: l.Latitude, Longitude: l.Longitude}
}

func uid(c echo.Context) string {
	id, _ := c.Get("uid").(string)
	return id
}

func paramID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.BadRequest("Invalid "+name, err)
	}
	return id, nil
}

// bindAndValidate is the Bind/Validate pair every mutating handler starts with.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.BadRequest("Invalid request body", err)
	}
	return c.Validate(req)
}
