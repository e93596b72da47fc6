package entity

import (
	"time"
)

type EventType string

const (
	EventUserCreated             EventType = "user_created"
	EventUserUpdated             EventType = "user_updated"
	EventStoreCreated            EventType = "store_created"
	EventRequestCreated          EventType = "request_created"
	EventRequestRemoved          EventType = "request_removed"
	EventRequestAccepted         EventType = "request_accepted"
	EventRequestLifecycleChanged EventType = "request_lifecycle_changed"
	EventOfferCreated            EventType = "offer_created"
	EventOfferAccepted           EventType = "offer_accepted"
	// EventOfferRemoved has no producing operation yet.
	EventOfferRemoved EventType = "offer_removed"
)

// Event is a state-change notification. Actor is the caller identity.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	Actor      string      `json:"actor"`
	RequestID  int64       `json:"request_id,omitempty"`
	OfferID    int64       `json:"offer_id,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}

type UserEventData struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	RoleCode uint8  `json:"account_type"`
}

type StoreEventData struct {
	StoreID  int64    `json:"store_id"`
	Name     string   `json:"store_name"`
	Location Location `json:"location"`
}

type OfferCreatedData struct {
	Offer     *Offer  `json:"offer"`
	SellerIDs []int64 `json:"seller_ids"`
}

type OfferAcceptedData struct {
	IsAccepted bool `json:"is_accepted"`
}

type RequestAcceptedData struct {
	SellerID          int64     `json:"seller_id"`
	SellersPriceQuote int64     `json:"sellers_price_quote"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type LifecycleChangedData struct {
	From   Lifecycle `json:"from"`
	To     Lifecycle `json:"to"`
	ToCode uint8     `json:"new_lifecycle"`
}
