package datastore

import (
	"context"

	"givehub/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableDonation(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Donation)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Donation)(nil)).Index("index_donation_user_id").IfNotExists().Column("user_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func CreateTableVolunteerApplication(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.VolunteerApplication)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.VolunteerApplication)(nil)).Index("index_volunteer_application_user_id").IfNotExists().Column("user_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func CreateTableFavorite(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Favorite)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Favorite)(nil)).Index("index_favorite_user_id_request_id").IfNotExists().Unique().Column("user_id", "request_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertDonation(ctx context.Context, db bun.IDB, donation *models.Donation) error {
	_, err := db.NewInsert().Model(donation).Exec(ctx)
	return err
}

func CountUserDonations(ctx context.Context, db bun.IDB, userID int64) (int, error) {
	return db.NewSelect().Model((*models.Donation)(nil)).Where("user_id = ?", userID).Count(ctx)
}

func GetDonatedCategories(ctx context.Context, db *bun.DB, userID int64) ([]string, error) {
	var categories []string
	err := db.NewSelect().
		ColumnExpr("DISTINCT dr.category").
		TableExpr("donation AS d").
		Join("JOIN donation_request AS dr ON dr.id = d.request_id").
		Where("d.user_id = ?", userID).
		Scan(ctx, &categories)
	if err != nil {
		return nil, err
	}

	return categories, nil
}

func InsertVolunteerApplication(ctx context.Context, db bun.IDB, application *models.VolunteerApplication) error {
	_, err := db.NewInsert().Model(application).Exec(ctx)
	return err
}

func GetVolunteeredCategories(ctx context.Context, db *bun.DB, userID int64) ([]string, error) {
	var categories []string
	err := db.NewSelect().
		ColumnExpr("DISTINCT dr.category").
		TableExpr("volunteer_application AS va").
		Join("JOIN donation_request AS dr ON dr.id = va.request_id").
		Where("va.user_id = ?", userID).
		Scan(ctx, &categories)
	if err != nil {
		return nil, err
	}

	return categories, nil
}

// InsertFavorite reports false when the pair already exists.
func InsertFavorite(ctx context.Context, db bun.IDB, favorite *models.Favorite) (bool, error) {
	res, err := db.NewInsert().Model(favorite).On("CONFLICT (user_id, request_id) DO NOTHING").Exec(ctx)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func DeleteFavorite(ctx context.Context, db *bun.DB, userID, requestID int64) (bool, error) {
	res, err := db.NewDelete().Model((*models.Favorite)(nil)).
		Where("user_id = ?", userID).
		Where("request_id = ?", requestID).
		Exec(ctx)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func GetFavoriteCategories(ctx context.Context, db *bun.DB, userID int64) ([]string, error) {
	var categories []string
	err := db.NewSelect().
		ColumnExpr("DISTINCT dr.category").
		TableExpr("favorite AS f").
		Join("JOIN donation_request AS dr ON dr.id = f.request_id").
		Where("f.user_id = ?", userID).
		Scan(ctx, &categories)
	if err != nil {
		return nil, err
	}

	return categories, nil
}

// GetFavoriteRequestIDsByUsers collects the favorite set of the similar-user
// cohort.
func GetFavoriteRequestIDsByUsers(ctx context.Context, db *bun.DB, userIDs []int64) ([]int64, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	var ids []int64
	err := db.NewSelect().Model((*models.Favorite)(nil)).
		ColumnExpr("DISTINCT request_id").
		Where("user_id IN (?)", bun.In(userIDs)).
		Scan(ctx, &ids)
	if err != nil {
		return nil, err
	}

	return ids, nil
}
