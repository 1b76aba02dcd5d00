package models

import (
	"time"

	"github.com/uptrace/bun"
)

type UserRole string

const (
	UserRoleUser      UserRole = "user"
	UserRoleOrganizer UserRole = "organizer"
	UserRoleAdmin     UserRole = "admin"
)

type User struct {
	bun.BaseModel `bun:"table:user"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	Email         string    `bun:"email,unique" json:"email"`
	FirstName     string    `bun:"first_name" json:"first_name"`
	LastName      string    `bun:"last_name" json:"last_name"`
	Avatar        *string   `bun:"avatar" json:"avatar"`
	Role          UserRole  `bun:"role,default:'user'" json:"role"`
	Interests     []string  `bun:"interests,type:jsonb" json:"interests"`
	Latitude      *float64  `bun:"latitude" json:"latitude"`
	Longitude     *float64  `bun:"longitude" json:"longitude"`
	Suspended     bool      `bun:"suspended" json:"-"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at" json:"updated_at"`

	IsNewUser bool           `bun:"-" json:"is_new_user"`
	Points    *PointsSummary `bun:"-" json:"points,omitempty"`
}

func (u *User) HasLocation() bool {
	return u != nil && u.Latitude != nil && u.Longitude != nil
}

// UserFromAuth only use in middleware
type UserFromAuth struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar"`
}
