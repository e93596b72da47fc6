package entity

import (
	"time"
)

type Lifecycle string

const (
	LifecyclePending          Lifecycle = "pending"
	LifecycleAcceptedBySeller Lifecycle = "accepted_by_seller"
	LifecycleAcceptedByBuyer  Lifecycle = "accepted_by_buyer"
	// LifecycleRequestLocked is declared for wire compatibility; no operation produces it.
	LifecycleRequestLocked Lifecycle = "request_locked"
	LifecycleCompleted     Lifecycle = "completed"
)

var lifecycleCodes = map[Lifecycle]uint8{
	LifecyclePending:          0,
	LifecycleAcceptedBySeller: 1,
	LifecycleAcceptedByBuyer:  2,
	LifecycleRequestLocked:    3,
	LifecycleCompleted:        4,
}

func (l Lifecycle) Code() uint8 {
	return lifecycleCodes[l]
}

// Terminal reports whether no further offers or acceptances may touch the request.
func (l Lifecycle) Terminal() bool {
	return l == LifecycleCompleted || l == LifecycleRequestLocked
}

// Bid links a seller to the offer it submitted, in arrival order.
type Bid struct {
	SellerID int64 `json:"seller_id" firestore:"sellerId"`
	OfferID  int64 `json:"offer_id" firestore:"offerId"`
}

type Request struct {
	ID          int64    `json:"id" firestore:"id"`
	Name        string   `json:"name" firestore:"name"`
	Description string   `json:"description" firestore:"description"`
	Images      []string `json:"images" firestore:"images"`
	Location    Location `json:"location" firestore:"location"`

	BuyerID           int64     `json:"buyer_id" firestore:"buyerId"`
	Bids              []Bid     `json:"bids" firestore:"bids"`
	LockedSellerID    int64     `json:"locked_seller_id" firestore:"lockedSellerId"`
	SellersPriceQuote int64     `json:"sellers_price_quote" firestore:"sellersPriceQuote"`
	Lifecycle         Lifecycle `json:"lifecycle" firestore:"lifecycle"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (r *Request) Clone() *Request {
	c := *r
	c.Images = append([]string(nil), r.Images...)
	c.Bids = append([]Bid(nil), r.Bids...)
	return &c
}

func (r *Request) SellerIDs() []int64 {
	ids := make([]int64, len(r.Bids))
	for i, b := range r.Bids {
		ids[i] = b.SellerID
	}
	return ids
}

func (r *Request) OfferIDs() []int64 {
	ids := make([]int64, len(r.Bids))
	for i, b := range r.Bids {
		ids[i] = b.OfferID
	}
	return ids
}

func (r *Request) HasOffer(offerID int64) bool {
	for _, b := range r.Bids {
		if b.OfferID == offerID {
			return true
		}
	}
	return false
}

// LockWindowElapsed reports whether now is strictly past UpdatedAt + window.
func (r *Request) LockWindowElapsed(now time.Time, window time.Duration) bool {
	return now.After(r.UpdatedAt.Add(window))
}

// Locked reports whether the buyer's acceptance has been frozen by the lock window.
// Completed requests are always locked as well, which goes past the window rule:
// createOffer on a Completed request fails with RequestLocked even though the
// request is no longer AcceptedByBuyer, and acceptOffer cannot reopen it.
func (r *Request) Locked(now time.Time, window time.Duration) bool {
	if r.Lifecycle.Terminal() {
		return true
	}
	return r.Lifecycle == LifecycleAcceptedByBuyer && r.LockWindowElapsed(now, window)
}

// Completable reports whether the window anchored at UpdatedAt has run out (now >= UpdatedAt + window).
func (r *Request) Completable(now time.Time, window time.Duration) bool {
	return !r.UpdatedAt.Add(window).After(now)
}
