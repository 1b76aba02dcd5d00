package datastore

import (
	"context"

	"givehub/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableInteraction(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Interaction)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Interaction)(nil)).Index("index_interaction_user_request_kind").IfNotExists().Unique().Column("user_id", "request_id", "kind").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Interaction)(nil)).Index("index_interaction_user_id").IfNotExists().Column("user_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

// InsertInteraction reports false when the (user, request, kind) tuple was
// already recorded.
func InsertInteraction(ctx context.Context, db bun.IDB, interaction *models.Interaction) (bool, error) {
	res, err := db.NewInsert().Model(interaction).On("CONFLICT (user_id, request_id, kind) DO NOTHING").Exec(ctx)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// GetUserInteractionWeights sums recorded weights per request for one user.
func GetUserInteractionWeights(ctx context.Context, db *bun.DB, userID int64) ([]models.RequestWeight, error) {
	var weights []models.RequestWeight
	err := db.NewSelect().
		ColumnExpr("request_id").
		ColumnExpr("SUM(weight) AS weight").
		TableExpr("interaction").
		Where("user_id = ?", userID).
		GroupExpr("request_id").
		Scan(ctx, &weights)
	if err != nil {
		return nil, err
	}

	return weights, nil
}
