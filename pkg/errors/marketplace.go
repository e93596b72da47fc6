package errors

import "net/http"

// Marketplace precondition failures. They are returned verbatim by the
// lifecycle operations and compare with errors.Is.
var (
	ErrUserAlreadyExists              = New("USER_ALREADY_EXISTS", "User already exists", http.StatusConflict, nil)
	ErrInvalidUser                    = New("INVALID_USER", "Caller is not a registered user", http.StatusNotFound, nil)
	ErrOnlySellersAllowed             = New("ONLY_SELLERS_ALLOWED", "Only sellers can perform this action", http.StatusForbidden, nil)
	ErrOnlyBuyersAllowed              = New("ONLY_BUYERS_ALLOWED", "Only buyers can perform this action", http.StatusForbidden, nil)
	ErrInvalidRequest                 = New("INVALID_REQUEST", "Request not found", http.StatusNotFound, nil)
	ErrInvalidOffer                   = New("INVALID_OFFER", "Offer not found", http.StatusNotFound, nil)
	ErrInvalidRequestOfferCombination = New("INVALID_REQUEST_OFFER_COMBINATION", "Offer does not belong to request", http.StatusBadRequest, nil)
	ErrRequestLocked                  = New("REQUEST_LOCKED", "Request is locked", http.StatusConflict, nil)
	ErrUnauthorizedBuyer              = New("UNAUTHORIZED_BUYER", "Caller is not the buyer of this request", http.StatusForbidden, nil)
	ErrOfferAlreadyAccepted           = New("OFFER_ALREADY_ACCEPTED", "Offer is already accepted", http.StatusConflict, nil)
	ErrRequestNotAccepted             = New("REQUEST_NOT_ACCEPTED", "Request has no accepted offer", http.StatusConflict, nil)
	ErrRequestNotLocked               = New("REQUEST_NOT_LOCKED", "Lock window has not elapsed yet", http.StatusConflict, nil)
)
