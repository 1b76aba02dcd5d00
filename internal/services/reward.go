package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"givehub/internal/datastore"
	"givehub/internal/models"
	"givehub/internal/pkg/caching"

	"github.com/go-redsync/redsync/v4"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

// errRedeemRejected aborts the redemption transaction on a business-rule
// rejection so no partial write can survive.
var errRedeemRejected = errors.New("redemption rejected")

type ServiceReward struct {
	container          *do.Injector
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
	rs                 *redsync.Redsync

	servicePoints *ServicePoints
}

func NewServiceReward(container *do.Injector) (*ServiceReward, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	readonlyPostgresDB, err := do.InvokeNamed[*bun.DB](container, "db-readonly")
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	readonlyCache, err := do.Invoke[caching.ReadOnlyCache](container)
	if err != nil {
		return nil, err
	}

	rs, err := do.Invoke[*redsync.Redsync](container)
	if err != nil {
		return nil, err
	}

	servicePoints, err := do.Invoke[*ServicePoints](container)
	if err != nil {
		return nil, err
	}

	return &ServiceReward{container, postgresDB, readonlyPostgresDB, cache, readonlyCache, rs, servicePoints}, nil
}

// ListForUser returns the active catalog annotated with the eligibility the
// user currently meets. Display only; Redeem re-checks everything inside its
// own transaction.
func (service *ServiceReward) ListForUser(ctx context.Context, user *models.User) ([]models.Reward, error) {
	callback := func() ([]models.Reward, error) {
		rewards, err := datastore.GetActiveRewards(ctx, service.readonlyPostgresDB)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return rewards, err
	}

	rewards, err := caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyActiveRewards(), CACHE_TTL_5_MINS, callback)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	summary, err := service.servicePoints.GetSummary(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	donations, err := datastore.CountUserDonations(ctx, service.readonlyPostgresDB, user.ID)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	for i := range rewards {
		rewards[i].Eligible = eligible(&rewards[i], summary, donations)
	}

	return rewards, nil
}

func (service *ServiceReward) Grants(ctx context.Context, user *models.User) ([]models.RewardGrant, error) {
	callback := func() ([]models.RewardGrant, error) {
		return datastore.GetUserGrants(ctx, service.readonlyPostgresDB, user.ID)
	}

	grants, err := caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyUserGrants(user.ID), CACHE_TTL_1_MIN, callback)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	return grants, nil
}

// Redeem evaluates every check against a consistent snapshot: the reward row
// is locked FOR UPDATE, balances and donation counts are summed inside the
// same transaction, and the debit, scarcity decrement and grant either all
// commit or all roll back.
func (service *ServiceReward) Redeem(ctx context.Context, user *models.User, rewardID int64) (*models.Redemption, error) {
	mutex := service.rs.NewMutex(LockKeyUserRedeem(user.ID))
	if err := mutex.Lock(); err != nil {
		return nil, errorx.Wrap(ErrPointsLock, errorx.Service)
	}
	//nolint:errcheck
	defer mutex.Unlock()

	result := &models.Redemption{}
	err := service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		reward, err := datastore.GetRewardForUpdate(ctx, tx, rewardID)
		if err != nil {
			return err
		}

		if !reward.Active {
			result.Reason = models.RedeemReasonInactive
			return errRedeemRejected
		}

		if reward.Limited() && (reward.Remaining == nil || *reward.Remaining <= 0) {
			result.Reason = models.RedeemReasonSoldOut
			return errRedeemRejected
		}

		totals, err := datastore.GetPointsTotals(ctx, tx, user.ID)
		if err != nil {
			return err
		}
		summary := models.NewPointsSummary(user.ID, totals.Earned, totals.Spent)

		donations, err := datastore.CountUserDonations(ctx, tx, user.ID)
		if err != nil {
			return err
		}

		if !eligible(reward, summary, donations) {
			result.Reason = models.RedeemReasonNotEligible
			return errRedeemRejected
		}

		if summary.AvailablePoints < reward.Cost {
			result.Reason = models.RedeemReasonInsufficient
			return errRedeemRejected
		}

		if reward.Limited() {
			decremented, err := datastore.DecrementRewardRemaining(ctx, tx, rewardID)
			if err != nil {
				return err
			}
			if !decremented {
				result.Reason = models.RedeemReasonSoldOut
				return errRedeemRejected
			}
		}

		rewardRef := reward.ID
		spend := &models.PointsTransaction{
			UserID:      user.ID,
			Kind:        models.PointsKindSpent,
			Amount:      reward.Cost,
			Source:      "reward_purchase",
			Description: reward.Name,
			RelatedID:   &rewardRef,
		}
		if err := datastore.InsertPointsTransaction(ctx, tx, spend); err != nil {
			return err
		}

		grant := &models.RewardGrant{
			UserID:   user.ID,
			RewardID: reward.ID,
			Active:   true,
		}
		if reward.Category == models.RewardCategoryFeature {
			expiry := time.Now().AddDate(0, 0, FEATURE_GRANT_EXPIRY_DAYS)
			grant.ExpiresAt = &expiry
		}
		if err := datastore.InsertRewardGrant(ctx, tx, grant); err != nil {
			return err
		}

		result.Success = true
		result.Grant = grant
		result.Points = models.NewPointsSummary(user.ID, totals.Earned, totals.Spent+reward.Cost)
		return nil
	})

	if errors.Is(err, errRedeemRejected) {
		return result, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errorx.Wrap(err, errorx.NotExist)
	}
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	//nolint:errcheck
	service.cache.Delete(ctx, DBKeyUserPoints(user.ID))
	//nolint:errcheck
	service.cache.Delete(ctx, DBKeyActiveRewards())
	//nolint:errcheck
	service.cache.Delete(ctx, DBKeyUserGrants(user.ID))

	return result, nil
}

// ExpireGrants deactivates grants past their expiry. Called from cron.
func (service *ServiceReward) ExpireGrants(ctx context.Context) (int64, error) {
	return datastore.DeactivateExpiredGrants(ctx, service.postgresDB)
}

func eligible(reward *models.Reward, summary *models.PointsSummary, donationCount int) bool {
	if reward.MinLevel != nil && summary.Level.Level < *reward.MinLevel {
		return false
	}
	if reward.MinDonations != nil && donationCount < *reward.MinDonations {
		return false
	}
	return true
}
