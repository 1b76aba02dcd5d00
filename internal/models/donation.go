package models

import (
	"time"

	"github.com/uptrace/bun"
)

type DonationKind string

const (
	DonationKindMoney DonationKind = "money"
	DonationKindItem  DonationKind = "item"
)

type Donation struct {
	bun.BaseModel `bun:"table:donation"`
	ID            int64        `bun:"id,pk,autoincrement" json:"id"`
	UserID        int64        `bun:"user_id" json:"user_id"`
	RequestID     int64        `bun:"request_id" json:"request_id"`
	Kind          DonationKind `bun:"kind" json:"kind"`
	Amount        int64        `bun:"amount" json:"amount"`
	CreatedAt     time.Time    `bun:"created_at,default:current_timestamp" json:"created_at"`
}

type VolunteerApplication struct {
	bun.BaseModel `bun:"table:volunteer_application"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID        int64     `bun:"user_id" json:"user_id"`
	RequestID     int64     `bun:"request_id" json:"request_id"`
	Hours         int       `bun:"hours" json:"hours"`
	Status        string    `bun:"status,default:'pending'" json:"status"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
}

type Favorite struct {
	bun.BaseModel `bun:"table:favorite"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID        int64     `bun:"user_id" json:"user_id"`
	RequestID     int64     `bun:"request_id" json:"request_id"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
}
