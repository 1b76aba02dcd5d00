package models

import (
	"github.com/uptrace/bun"
)

type Category struct {
	bun.BaseModel `bun:"table:category"`
	Slug          string `bun:"slug,pk" json:"slug"`
	Name          string `bun:"name" json:"name"`
}

// CategoryRelation is a one-hop relatedness edge. The scorer only ever walks a
// single hop from the user's signal categories.
type CategoryRelation struct {
	bun.BaseModel `bun:"table:category_relation"`
	ID            int64  `bun:"id,pk,autoincrement" json:"id"`
	Category      string `bun:"category" json:"category"`
	Related       string `bun:"related" json:"related"`
}
