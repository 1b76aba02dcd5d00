package datastore

import (
	"context"
	"encoding/json"

	"givehub/internal/models"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

func CreateTableUser(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.User)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.User)(nil)).Index("index_user_email").IfNotExists().Unique().Column("email").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func GetUser(ctx context.Context, db bun.IDB, id int64) (*models.User, error) {
	var user models.User
	err := db.NewSelect().Model(&user).Where("id = ?", id).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func GetUserByEmail(ctx context.Context, db *bun.DB, email string) (*models.User, error) {
	var user models.User
	err := db.NewSelect().Model(&user).Where("email = ?", email).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func InsertUser(ctx context.Context, db *bun.DB, user *models.User) error {
	_, err := db.NewInsert().Model(user).
		On("CONFLICT (email) DO UPDATE").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("*").
		Exec(ctx)
	return err
}

func UpdateUserInterests(ctx context.Context, db *bun.DB, userID int64, interests []string) error {
	if interests == nil {
		interests = []string{}
	}

	payload, err := json.Marshal(interests)
	if err != nil {
		return err
	}

	_, err = db.NewUpdate().Model((*models.User)(nil)).
		Set("interests = ?", string(payload)).
		Where("id = ?", userID).Exec(ctx)
	return err
}

func UpdateUserLocation(ctx context.Context, db *bun.DB, userID int64, lat, lng float64) error {
	_, err := db.NewUpdate().Model((*models.User)(nil)).
		Set("latitude = ?", lat).
		Set("longitude = ?", lng).
		Where("id = ?", userID).Exec(ctx)
	return err
}

// GetSimilarUserIDs returns users sharing at least one declared interest
// category, newest first. jsonb_exists_any is the function form of the ?|
// operator, which would otherwise collide with bun placeholders.
func GetSimilarUserIDs(ctx context.Context, db *bun.DB, userID int64, interests []string, limit int) ([]int64, error) {
	if len(interests) == 0 {
		return nil, nil
	}

	var ids []int64
	err := db.NewSelect().Model((*models.User)(nil)).
		Column("id").
		Where("id != ?", userID).
		Where("suspended = ?", false).
		Where("jsonb_exists_any(interests, ?)", pgdialect.Array(interests)).
		OrderExpr("created_at DESC").
		Limit(limit).
		Scan(ctx, &ids)
	if err != nil {
		return nil, err
	}

	return ids, nil
}
