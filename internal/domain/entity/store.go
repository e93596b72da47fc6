package entity

import "time"

// Store is a seller's shopfront. Owner is the identity of the seller that created it.
type Store struct {
	ID          int64    `json:"id" firestore:"id"`
	Owner       string   `json:"owner" firestore:"owner"`
	Name        string   `json:"name" firestore:"name"`
	Description string   `json:"description" firestore:"description"`
	Phone       string   `json:"phone" firestore:"phone"`
	Location    Location `json:"location" firestore:"location"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

func (s *Store) Clone() *Store {
	c := *s
	return &c
}
