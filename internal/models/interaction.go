package models

import (
	"time"

	"github.com/uptrace/bun"
)

type InteractionKind string

const (
	InteractionFavorite InteractionKind = "FAVORITE"
	InteractionShare    InteractionKind = "SHARE"
	InteractionView     InteractionKind = "VIEW"
	InteractionSkip     InteractionKind = "SKIP"
)

func (k InteractionKind) Valid() bool {
	switch k {
	case InteractionFavorite, InteractionShare, InteractionView, InteractionSkip:
		return true
	default:
		return false
	}
}

func (k InteractionKind) Weight() float64 {
	switch k {
	case InteractionFavorite:
		return 5.0
	case InteractionShare:
		return 3.0
	case InteractionView:
		return 1.0
	case InteractionSkip:
		return -0.2
	default:
		return 0
	}
}

// Interaction is recorded at most once per (user, request, kind); duplicates
// are rejected as conflicts via the unique index.
type Interaction struct {
	bun.BaseModel `bun:"table:interaction"`
	ID            int64           `bun:"id,pk,autoincrement" json:"id"`
	UserID        int64           `bun:"user_id" json:"user_id"`
	RequestID     int64           `bun:"request_id" json:"request_id"`
	Kind          InteractionKind `bun:"kind" json:"kind"`
	Weight        float64         `bun:"weight" json:"weight"`
	CreatedAt     time.Time       `bun:"created_at,default:current_timestamp" json:"created_at"`
}

// RequestWeight is scanned from the per-user SUM over interactions.
type RequestWeight struct {
	RequestID int64   `json:"request_id"`
	Weight    float64 `json:"weight"`
}
