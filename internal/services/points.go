package services

import (
	"context"
	"errors"

	"givehub/internal/datastore"
	"givehub/internal/models"
	"givehub/internal/pkg/caching"

	"github.com/go-redsync/redsync/v4"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServicePoints struct {
	container          *do.Injector
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
	rs                 *redsync.Redsync
}

func NewServicePoints(container *do.Injector) (*ServicePoints, error) {
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

	return &ServicePoints{container, postgresDB, readonlyPostgresDB, cache, readonlyCache, rs}, nil
}

// AddPoints appends an earned transaction and returns the summary recomputed
// from the full ledger.
func (service *ServicePoints) AddPoints(ctx context.Context, userID int64, source string, amount int, description string, relatedID *int64) (*models.PointsSummary, error) {
	if amount <= 0 {
		return nil, errorx.Wrap(errors.New("amount must be positive"), errorx.Invalid)
	}

	tx := &models.PointsTransaction{
		UserID:      userID,
		Kind:        models.PointsKindEarned,
		Amount:      amount,
		Source:      source,
		Description: description,
		RelatedID:   relatedID,
	}
	if err := datastore.InsertPointsTransaction(ctx, service.postgresDB, tx); err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	//nolint:errcheck
	service.cache.Delete(ctx, DBKeyUserPoints(userID))

	return service.computeSummary(ctx, service.postgresDB, userID)
}

// SpendPoints re-verifies the available balance from a fresh sum inside the
// write transaction, under a per-user mutex. Returns false without writing
// when the balance cannot cover the spend.
func (service *ServicePoints) SpendPoints(ctx context.Context, userID int64, amount int, source string, description string, relatedID *int64) (bool, error) {
	if amount <= 0 {
		return false, errorx.Wrap(errors.New("amount must be positive"), errorx.Invalid)
	}

	mutex := service.rs.NewMutex(LockKeyUserPoints(userID))
	if err := mutex.Lock(); err != nil {
		return false, errorx.Wrap(ErrPointsLock, errorx.Service)
	}
	//nolint:errcheck
	defer mutex.Unlock()

	admitted := false
	err := service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		totals, err := datastore.GetPointsTotals(ctx, tx, userID)
		if err != nil {
			return err
		}

		if totals.Earned-totals.Spent < amount {
			return nil
		}

		spend := &models.PointsTransaction{
			UserID:      userID,
			Kind:        models.PointsKindSpent,
			Amount:      amount,
			Source:      source,
			Description: description,
			RelatedID:   relatedID,
		}
		if err := datastore.InsertPointsTransaction(ctx, tx, spend); err != nil {
			return err
		}

		admitted = true
		return nil
	})
	if err != nil {
		return false, errorx.Wrap(err, errorx.Service)
	}

	if admitted {
		//nolint:errcheck
		service.cache.Delete(ctx, DBKeyUserPoints(userID))
	}

	return admitted, nil
}

// GetSummary recomputes from the ledger; the cache is a shortcut invalidated
// on every write, never the source of truth.
func (service *ServicePoints) GetSummary(ctx context.Context, userID int64) (*models.PointsSummary, error) {
	callback := func() (*models.PointsSummary, error) {
		return service.computeSummary(ctx, service.readonlyPostgresDB, userID)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyUserPoints(userID), CACHE_TTL_1_MIN, callback)
}

func (service *ServicePoints) History(ctx context.Context, userID int64, page, limit int) ([]models.PointsTransaction, error) {
	txs, err := datastore.GetPointsTransactions(ctx, service.readonlyPostgresDB, userID, limit, page*limit)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	return txs, nil
}

func (service *ServicePoints) computeSummary(ctx context.Context, db bun.IDB, userID int64) (*models.PointsSummary, error) {
	totals, err := datastore.GetPointsTotals(ctx, db, userID)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	return models.NewPointsSummary(userID, totals.Earned, totals.Spent), nil
}
