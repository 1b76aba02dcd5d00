package services

import (
	"context"
	"database/sql"
	"errors"

	"givehub/internal/datastore"
	"givehub/internal/models"
	"givehub/internal/pkg/caching"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceInteraction struct {
	container          *do.Injector
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	feedCache          *caching.Memory
}

func NewServiceInteraction(container *do.Injector) (*ServiceInteraction, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	readonlyPostgresDB, err := do.InvokeNamed[*bun.DB](container, "db-readonly")
	if err != nil {
		return nil, err
	}

	feedCache, err := do.Invoke[*caching.Memory](container)
	if err != nil {
		return nil, err
	}

	return &ServiceInteraction{container, postgresDB, readonlyPostgresDB, feedCache}, nil
}

// Record stores one interaction and nudges the request's persisted relevance
// by the same weight. Each (user, request, kind) tuple counts once; a repeat
// is rejected without touching the relevance counter.
func (service *ServiceInteraction) Record(ctx context.Context, user *models.User, requestID int64, kind models.InteractionKind) (*models.Interaction, error) {
	if !kind.Valid() {
		return nil, errorx.Wrap(errors.New("unknown interaction kind"), errorx.Validation)
	}

	if _, err := datastore.GetDonationRequest(ctx, service.readonlyPostgresDB, requestID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errorx.Wrap(err, errorx.NotExist)
		}
		return nil, errorx.Wrap(err, errorx.Service)
	}

	interaction := &models.Interaction{
		UserID:    user.ID,
		RequestID: requestID,
		Kind:      kind,
		Weight:    kind.Weight(),
	}

	err := service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		inserted, err := datastore.InsertInteraction(ctx, tx, interaction)
		if err != nil {
			return err
		}
		if !inserted {
			return ErrDuplicateInteraction
		}

		return datastore.AddBaselineScore(ctx, tx, requestID, kind.Weight())
	})
	if errors.Is(err, ErrDuplicateInteraction) {
		return nil, errorx.Wrap(err, errorx.Invalid)
	}
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	service.feedCache.Delete(FeedKeyUser(user.ID))

	return interaction, nil
}
