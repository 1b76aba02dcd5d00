package datastore

import (
	"context"
	"time"

	"givehub/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableReward(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Reward)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateTable().Model((*models.RewardGrant)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.RewardGrant)(nil)).Index("index_reward_grant_user_id").IfNotExists().Column("user_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertReward(ctx context.Context, db *bun.DB, reward *models.Reward) error {
	_, err := db.NewInsert().Model(reward).Exec(ctx)
	return err
}

func GetActiveRewards(ctx context.Context, db *bun.DB) ([]models.Reward, error) {
	var rewards []models.Reward
	err := db.NewSelect().Model(&rewards).
		Where("active = ?", true).
		OrderExpr("cost ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return rewards, nil
}

// GetRewardForUpdate locks the catalog row for the redemption transaction.
func GetRewardForUpdate(ctx context.Context, db bun.IDB, id int64) (*models.Reward, error) {
	var reward models.Reward
	err := db.NewSelect().Model(&reward).Where("id = ?", id).For("UPDATE").Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &reward, nil
}

// DecrementRewardRemaining is guarded so remaining can never go below zero;
// false means the reward sold out.
func DecrementRewardRemaining(ctx context.Context, db bun.IDB, id int64) (bool, error) {
	res, err := db.NewUpdate().Model((*models.Reward)(nil)).
		Set("remaining = remaining - 1").
		Where("id = ?", id).
		Where("remaining > 0").
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

func InsertRewardGrant(ctx context.Context, db bun.IDB, grant *models.RewardGrant) error {
	_, err := db.NewInsert().Model(grant).Exec(ctx)
	return err
}

func GetUserGrants(ctx context.Context, db *bun.DB, userID int64) ([]models.RewardGrant, error) {
	var grants []models.RewardGrant
	err := db.NewSelect().Model(&grants).
		Relation("Reward").
		Where("reward_grant.user_id = ?", userID).
		OrderExpr("granted_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return grants, nil
}

// DeactivateExpiredGrants is the cron sweep behind grant expiry.
func DeactivateExpiredGrants(ctx context.Context, db *bun.DB) (int64, error) {
	res, err := db.NewUpdate().Model((*models.RewardGrant)(nil)).
		Set("active = ?", false).
		Where("active = ?", true).
		Where("expires_at IS NOT NULL").
		Where("expires_at < ?", time.Now()).
		Exec(ctx)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
