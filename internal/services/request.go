package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"givehub/internal/datastore"
	"givehub/internal/models"
	"givehub/internal/pkg/caching"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceRequest struct {
	container          *do.Injector
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
	feedCache          *caching.Memory

	servicePoints *ServicePoints
}

func NewServiceRequest(container *do.Injector) (*ServiceRequest, error) {
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

	feedCache, err := do.Invoke[*caching.Memory](container)
	if err != nil {
		return nil, err
	}

	servicePoints, err := do.Invoke[*ServicePoints](container)
	if err != nil {
		return nil, err
	}

	return &ServiceRequest{container, postgresDB, readonlyPostgresDB, cache, readonlyCache, feedCache, servicePoints}, nil
}

func (service *ServiceRequest) List(ctx context.Context, page, limit int) ([]models.DonationRequest, error) {
	if limit <= 0 {
		limit = BROWSE_DEFAULT_LIMIT
	}
	if limit > BROWSE_MAX_LIMIT {
		limit = BROWSE_MAX_LIMIT
	}
	if page < 0 {
		page = 0
	}

	requests, err := datastore.GetOpenRequests(ctx, service.readonlyPostgresDB, limit, page*limit)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	return requests, nil
}

func (service *ServiceRequest) Get(ctx context.Context, requestID int64) (*models.DonationRequest, error) {
	callback := func() (*models.DonationRequest, error) {
		return datastore.GetDonationRequest(ctx, service.readonlyPostgresDB, requestID)
	}

	request, err := caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyRequest(requestID), CACHE_TTL_15_SECONDS, callback)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errorx.Wrap(err, errorx.NotExist)
	}
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	return request, nil
}

func (service *ServiceRequest) Create(ctx context.Context, user *models.User, request *models.DonationRequest) (*models.DonationRequest, error) {
	if user.Role != models.UserRoleOrganizer && user.Role != models.UserRoleAdmin {
		return nil, errorx.Wrap(errors.New("organizer role required"), errorx.Authn)
	}

	if request.Title == "" || request.Category == "" {
		return nil, errorx.Wrap(errors.New("title and category are required"), errorx.Validation)
	}
	if request.Urgency == "" {
		request.Urgency = models.UrgencyLow
	}
	if !request.Urgency.Valid() {
		return nil, errorx.Wrap(errors.New("unknown urgency"), errorx.Validation)
	}

	request.OrganizerID = user.ID
	request.Status = models.RequestStatusOpen

	if err := datastore.CreateDonationRequest(ctx, service.postgresDB, request); err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	return request, nil
}

// Donate records the donation, advances the request's progress counters and
// awards points by kind. Everything commits in one transaction; the money
// formula is floor(amount/100)*10, items are a flat 50.
func (service *ServiceRequest) Donate(ctx context.Context, user *models.User, requestID int64, kind models.DonationKind, amount int64) (*models.PointsSummary, error) {
	var points int
	switch kind {
	case models.DonationKindMoney:
		if amount <= 0 {
			return nil, errorx.Wrap(errors.New("amount must be positive"), errorx.Validation)
		}
		points = models.PointsForMoneyDonation(amount)
	case models.DonationKindItem:
		amount = 0
		points = models.PointsForItemDonation
	default:
		return nil, errorx.Wrap(errors.New("unknown donation kind"), errorx.Validation)
	}

	err := service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		request, err := datastore.GetDonationRequest(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if !request.Open(time.Now()) {
			return ErrRequestClosed
		}

		donation := &models.Donation{
			UserID:    user.ID,
			RequestID: requestID,
			Kind:      kind,
			Amount:    amount,
		}
		if err := datastore.InsertDonation(ctx, tx, donation); err != nil {
			return err
		}

		if err := datastore.ApplyDonation(ctx, tx, requestID, amount); err != nil {
			return err
		}

		if err := datastore.AddBaselineScore(ctx, tx, requestID, BASELINE_DONATION_NUDGE); err != nil {
			return err
		}

		if points > 0 {
			earn := &models.PointsTransaction{
				UserID:      user.ID,
				Kind:        models.PointsKindEarned,
				Amount:      points,
				Source:      "donation",
				Description: request.Title,
				RelatedID:   &requestID,
			}
			if err := datastore.InsertPointsTransaction(ctx, tx, earn); err != nil {
				return err
			}
		}

		return nil
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errorx.Wrap(err, errorx.NotExist)
	}
	if errors.Is(err, ErrRequestClosed) {
		return nil, errorx.Wrap(err, errorx.Invalid)
	}
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	service.invalidateAfterSupport(ctx, user.ID, requestID)

	return service.servicePoints.GetSummary(ctx, user.ID)
}

// Volunteer files an application and awards hours*20 points.
func (service *ServiceRequest) Volunteer(ctx context.Context, user *models.User, requestID int64, hours int) (*models.PointsSummary, error) {
	if hours <= 0 {
		return nil, errorx.Wrap(errors.New("hours must be positive"), errorx.Validation)
	}

	err := service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		request, err := datastore.GetDonationRequest(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if !request.Open(time.Now()) {
			return ErrRequestClosed
		}

		application := &models.VolunteerApplication{
			UserID:    user.ID,
			RequestID: requestID,
			Hours:     hours,
		}
		if err := datastore.InsertVolunteerApplication(ctx, tx, application); err != nil {
			return err
		}

		if err := datastore.AddBaselineScore(ctx, tx, requestID, BASELINE_DONATION_NUDGE); err != nil {
			return err
		}

		earn := &models.PointsTransaction{
			UserID:      user.ID,
			Kind:        models.PointsKindEarned,
			Amount:      models.PointsForVolunteerHours(hours),
			Source:      "volunteer",
			Description: request.Title,
			RelatedID:   &requestID,
		}
		return datastore.InsertPointsTransaction(ctx, tx, earn)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errorx.Wrap(err, errorx.NotExist)
	}
	if errors.Is(err, ErrRequestClosed) {
		return nil, errorx.Wrap(err, errorx.Invalid)
	}
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	service.invalidateAfterSupport(ctx, user.ID, requestID)

	return service.servicePoints.GetSummary(ctx, user.ID)
}

// Favorite stores the favorite row and the FAVORITE interaction in one
// transaction. Re-favoriting after an unfavorite restores the row but the
// interaction weight counts once.
func (service *ServiceRequest) Favorite(ctx context.Context, user *models.User, requestID int64) error {
	if _, err := datastore.GetDonationRequest(ctx, service.readonlyPostgresDB, requestID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errorx.Wrap(err, errorx.NotExist)
		}
		return errorx.Wrap(err, errorx.Service)
	}

	err := service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		inserted, err := datastore.InsertFavorite(ctx, tx, &models.Favorite{UserID: user.ID, RequestID: requestID})
		if err != nil {
			return err
		}
		if !inserted {
			return nil
		}

		recorded, err := datastore.InsertInteraction(ctx, tx, &models.Interaction{
			UserID:    user.ID,
			RequestID: requestID,
			Kind:      models.InteractionFavorite,
			Weight:    models.InteractionFavorite.Weight(),
		})
		if err != nil {
			return err
		}
		if !recorded {
			return nil
		}

		return datastore.AddBaselineScore(ctx, tx, requestID, models.InteractionFavorite.Weight())
	})
	if err != nil {
		return errorx.Wrap(err, errorx.Service)
	}

	service.feedCache.Delete(FeedKeyUser(user.ID))
	return nil
}

func (service *ServiceRequest) Unfavorite(ctx context.Context, user *models.User, requestID int64) error {
	removed, err := datastore.DeleteFavorite(ctx, service.postgresDB, user.ID, requestID)
	if err != nil {
		return errorx.Wrap(err, errorx.Service)
	}
	if !removed {
		return errorx.Wrap(errors.New("favorite not found"), errorx.NotExist)
	}

	service.feedCache.Delete(FeedKeyUser(user.ID))
	return nil
}

func (service *ServiceRequest) invalidateAfterSupport(ctx context.Context, userID, requestID int64) {
	service.feedCache.Delete(FeedKeyUser(userID))
	//nolint:errcheck
	service.cache.Delete(ctx, DBKeyUserPoints(userID))
	//nolint:errcheck
	service.cache.Delete(ctx, DBKeyRequest(requestID))
}
