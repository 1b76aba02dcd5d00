package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return true
	default:
		return false
	}
}

type RequestStatus string

const (
	RequestStatusOpen      RequestStatus = "open"
	RequestStatusCompleted RequestStatus = "completed"
	RequestStatusSuspended RequestStatus = "suspended"
)

type DonationRequest struct {
	bun.BaseModel  `bun:"table:donation_request"`
	ID             int64         `bun:"id,pk,autoincrement" json:"id"`
	Title          string        `bun:"title" json:"title"`
	Description    string        `bun:"description" json:"description"`
	Category       string        `bun:"category" json:"category"`
	OrganizerID    int64         `bun:"organizer_id" json:"organizer_id"`
	Urgency        Urgency       `bun:"urgency,default:'low'" json:"urgency"`
	Latitude       *float64      `bun:"latitude" json:"latitude"`
	Longitude      *float64      `bun:"longitude" json:"longitude"`
	TargetAmount   int64         `bun:"target_amount" json:"target_amount"`
	CurrentAmount  int64         `bun:"current_amount" json:"current_amount"`
	SupporterCount int           `bun:"supporter_count" json:"supporter_count"`
	BaselineScore  float64       `bun:"baseline_score" json:"baseline_score"`
	Status         RequestStatus `bun:"status,default:'open'" json:"status"`
	CreatedAt      time.Time     `bun:"created_at,default:current_timestamp" json:"created_at"`
	ExpiresAt      *time.Time    `bun:"expires_at" json:"expires_at"`
}

func (r *DonationRequest) HasLocation() bool {
	return r != nil && r.Latitude != nil && r.Longitude != nil
}

func (r *DonationRequest) Open(now time.Time) bool {
	if r.Status != RequestStatusOpen {
		return false
	}
	if r.ExpiresAt != nil && now.After(*r.ExpiresAt) {
		return false
	}
	return true
}
