package datastore

import (
	"context"

	"givehub/internal/models"

	"github.com/uptrace/bun"
)

func CreateTablePointsTransaction(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.PointsTransaction)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.PointsTransaction)(nil)).Index("index_points_transaction_user_id").IfNotExists().Column("user_id").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.PointsTransaction)(nil)).Index("index_points_transaction_created_at").IfNotExists().Column("created_at").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertPointsTransaction(ctx context.Context, db bun.IDB, tx *models.PointsTransaction) error {
	_, err := db.NewInsert().Model(tx).Exec(ctx)
	return err
}

// GetPointsTotals recomputes earned/spent sums from the full ledger. This is
// the only source of truth for balances; cached summaries are shortcuts.
func GetPointsTotals(ctx context.Context, db bun.IDB, userID int64) (*models.PointsTotals, error) {
	totals := models.PointsTotals{UserID: userID}
	err := db.NewSelect().
		ColumnExpr("COALESCE(SUM(CASE WHEN kind = ? THEN amount ELSE 0 END), 0) AS earned", models.PointsKindEarned).
		ColumnExpr("COALESCE(SUM(CASE WHEN kind = ? THEN amount ELSE 0 END), 0) AS spent", models.PointsKindSpent).
		TableExpr("points_transaction").
		Where("user_id = ?", userID).
		Scan(ctx, &totals.Earned, &totals.Spent)
	if err != nil {
		return nil, err
	}

	return &totals, nil
}

// GetPointsTransactions reads the ledger in canonical order: created_at
// descending, insertion order breaking timestamp ties.
func GetPointsTransactions(ctx context.Context, db *bun.DB, userID int64, limit, offset int) ([]models.PointsTransaction, error) {
	var txs []models.PointsTransaction
	err := db.NewSelect().Model(&txs).
		Where("user_id = ?", userID).
		OrderExpr("created_at DESC").
		OrderExpr("id DESC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return txs, nil
}
