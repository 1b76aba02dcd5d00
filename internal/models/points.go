package models

import (
	"time"

	"github.com/uptrace/bun"
)

type PointsKind string

const (
	PointsKindEarned PointsKind = "earned"
	PointsKindSpent  PointsKind = "spent"
)

// PointsTransaction is append-only. Rows are never updated or deleted; every
// balance is recomputed from the full log.
type PointsTransaction struct {
	bun.BaseModel `bun:"table:points_transaction"`
	ID            int64      `bun:"id,pk,autoincrement" json:"id"`
	UserID        int64      `bun:"user_id" json:"user_id"`
	Kind          PointsKind `bun:"kind" json:"kind"`
	Amount        int        `bun:"amount" json:"amount"`
	Source        string     `bun:"source" json:"source"`
	Description   string     `bun:"description" json:"description"`
	RelatedID     *int64     `bun:"related_id" json:"related_id"`
	CreatedAt     time.Time  `bun:"created_at,default:current_timestamp" json:"created_at"`
}

// PointsTotals is scanned from the SUM aggregation over the ledger.
type PointsTotals struct {
	UserID int64 `json:"user_id"`
	Earned int   `json:"earned"`
	Spent  int   `json:"spent"`
}

type PointsSummary struct {
	UserID          int64 `json:"user_id"`
	TotalPoints     int   `json:"total_points"`
	AvailablePoints int   `json:"available_points"`
	Level           Level `json:"level"`
}

func NewPointsSummary(userID int64, earned, spent int) *PointsSummary {
	return &PointsSummary{
		UserID:          userID,
		TotalPoints:     earned,
		AvailablePoints: earned - spent,
		Level:           LevelFor(earned),
	}
}

// Earning formulas. Money amounts are in whole baht.
func PointsForMoneyDonation(amount int64) int {
	return int(amount/100) * 10
}

const PointsForItemDonation = 50

func PointsForVolunteerHours(hours int) int {
	return hours * 20
}
