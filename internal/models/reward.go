package models

import (
	"time"

	"github.com/uptrace/bun"
)

type RewardCategory string

const (
	RewardCategoryProfile  RewardCategory = "profile"
	RewardCategoryBadge    RewardCategory = "badge"
	RewardCategoryFeature  RewardCategory = "feature"
	RewardCategoryPhysical RewardCategory = "physical"
)

type Reward struct {
	bun.BaseModel `bun:"table:reward"`
	ID            int64          `bun:"id,pk,autoincrement" json:"id"`
	Name          string         `bun:"name" json:"name"`
	Description   string         `bun:"description" json:"description"`
	Category      RewardCategory `bun:"category" json:"category"`
	Cost          int            `bun:"cost" json:"cost"`
	Active        bool           `bun:"active" json:"active"`
	Quantity      *int           `bun:"quantity" json:"quantity"`
	Remaining     *int           `bun:"remaining" json:"remaining"`
	MinLevel      *int           `bun:"min_level" json:"min_level"`
	MinDonations  *int           `bun:"min_donations" json:"min_donations"`
	CreatedAt     time.Time      `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time      `bun:"updated_at" json:"updated_at"`

	Eligible bool `bun:"-" json:"eligible"`
}

func (r *Reward) Limited() bool {
	return r.Quantity != nil
}

type RewardGrant struct {
	bun.BaseModel `bun:"table:reward_grant"`
	ID            int64      `bun:"id,pk,autoincrement" json:"id"`
	UserID        int64      `bun:"user_id" json:"user_id"`
	RewardID      int64      `bun:"reward_id" json:"reward_id"`
	Active        bool       `bun:"active" json:"active"`
	GrantedAt     time.Time  `bun:"granted_at,default:current_timestamp" json:"granted_at"`
	ExpiresAt     *time.Time `bun:"expires_at" json:"expires_at"`

	Reward *Reward `bun:"rel:belongs-to,join:reward_id=id" json:"reward,omitempty"`
}

const (
	RedeemReasonInactive     = "reward_inactive"
	RedeemReasonSoldOut      = "sold_out"
	RedeemReasonNotEligible  = "not_eligible"
	RedeemReasonInsufficient = "insufficient_points"
)

type Redemption struct {
	Success bool           `json:"success"`
	Reason  string         `json:"reason,omitempty"`
	Grant   *RewardGrant   `json:"grant,omitempty"`
	Points  *PointsSummary `json:"points,omitempty"`
}
