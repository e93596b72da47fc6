package entity

import (
	"time"
)

// DefaultStoreName labels offers from sellers that have no store yet.
const DefaultStoreName = "Sample Store"

type Offer struct {
	ID         int64    `json:"id" firestore:"id"`
	Price      int64    `json:"price" firestore:"price"`
	Images     []string `json:"images" firestore:"images"`
	RequestID  int64    `json:"request_id" firestore:"requestId"`
	SellerID   int64    `json:"seller_id" firestore:"sellerId"`
	StoreName  string   `json:"store_name" firestore:"storeName"`
	IsAccepted bool     `json:"is_accepted" firestore:"isAccepted"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (o *Offer) Clone() *Offer {
	c := *o
	c.Images = append([]string(nil), o.Images...)
	return &c
}
