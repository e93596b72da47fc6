package handler

import (
	"github.com/labstack/echo/v4"

	"reqmarket/internal/usecase"
	"reqmarket/pkg/response"
)

type OfferHandler struct {
	offerUseCase *usecase.OfferUseCase
}

func NewOfferHandler(offerUseCase *usecase.OfferUseCase) *OfferHandler {
	return &OfferHandler{
		offerUseCase: offerUseCase,
	}
}

type createOfferRequest struct {
	Price     int64    `json:"price" validate:"gte=0"`
	Images    []string `json:"images" validate:"max=10,dive,url"`
	StoreName string   `json:"store_name" validate:"max=100"`
}

func (h *OfferHandler) CreateOffer(c echo.Context) error {
	requestID, err := paramID(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	var req createOfferRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	offer, err := h.offerUseCase.CreateOffer(c.Request().Context(), uid(c), requestID, usecase.OfferInput{
		Price:     req.Price,
		Images:    req.Images,
		StoreName: req.StoreName,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, offer)
}

func (h *OfferHandler) GetOffer(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	offer, err := h.offerUseCase.GetOffer(c.Request().Context(), id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, offer)
}

func (h *OfferHandler) GetRequestOffers(c echo.Context) error {
	requestID, err := paramID(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	offers, err := h.offerUseCase.GetOffersByRequest(c.Request().Context(), requestID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, offers)
}

func (h *OfferHandler) GetMyOffers(c echo.Context) error {
	offers, err := h.offerUseCase.GetSellerOffers(c.Request().Context(), uid(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, offers)
}

func (h *OfferHandler) AcceptOffer(c echo.Context) error {
	offerID, err := paramID(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	request, err := h.offerUseCase.AcceptOffer(c.Request().Context(), uid(c), offerID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, request)
}

func (h *OfferHandler) AcceptRequestOffer(c echo.Context) error {
	requestID, err := paramID(c, "id")
	if err != nil {
		return response.Error(c, err)
	}
	offerID, err := paramID(c, "offerId")
	if err != nil {
		return response.Error(c, err)
	}

	request, err := h.offerUseCase.AcceptOfferForRequest(c.Request().Context(), uid(c), requestID, offerID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, request)
}
