package entity

import (
	"time"
)

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

func (r Role) Valid() bool {
	return r == RoleBuyer || r == RoleSeller
}

// Code is the numeric form carried in user notifications (buyer=0, seller=1).
func (r Role) Code() uint8 {
	if r == RoleSeller {
		return 1
	}
	return 0
}

// Location is a fixed-point coordinate pair.
type Location struct {
	Latitude  int64 `json:"latitude" firestore:"latitude"`
	Longitude int64 `json:"longitude" firestore:"longitude"`
}

type User struct {
	ID       int64    `json:"id" firestore:"id"`
	Identity string   `json:"identity" firestore:"identity"`
	Username string   `json:"username" firestore:"username"`
	Phone    string   `json:"phone" firestore:"phone"`
	Location Location `json:"location" firestore:"location"`
	Role     Role     `json:"role" firestore:"role"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (u *User) Clone() *User {
	c := *u
	return &c
}
