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

type ServiceUser struct {
	container          *do.Injector
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
	feedCache          *caching.Memory

	servicePoints *ServicePoints
}

func NewServiceUser(container *do.Injector) (*ServiceUser, error) {
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

	return &ServiceUser{container, postgresDB, readonlyPostgresDB, cache, readonlyCache, feedCache, servicePoints}, nil
}

func (service *ServiceUser) FindOrCreateUser(ctx context.Context, userAuth *models.UserFromAuth) (*models.User, error) {
	user, err := datastore.GetUserByEmail(ctx, service.postgresDB, userAuth.Email)
	if err == nil {
		if user.Suspended {
			return nil, errorx.Wrap(errors.New("account suspended"), errorx.Authn)
		}
		return user, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	user = &models.User{
		Email:     userAuth.Email,
		FirstName: userAuth.FirstName,
		LastName:  userAuth.LastName,
		Role:      models.UserRoleUser,
		Interests: []string{},
		UpdatedAt: time.Now(),
	}
	if userAuth.Avatar != "" {
		user.Avatar = &userAuth.Avatar
	}

	if err := datastore.InsertUser(ctx, service.postgresDB, user); err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	user.IsNewUser = true
	return user, nil
}

func (service *ServiceUser) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	callback := func() (*models.User, error) {
		return datastore.GetUser(ctx, service.readonlyPostgresDB, userID)
	}

	user, err := caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyUser(userID), CACHE_TTL_1_MIN, callback)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errorx.Wrap(err, errorx.NotExist)
	}
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	return user, nil
}

// Me attaches the points summary so the client renders level progress without
// a second round trip.
func (service *ServiceUser) Me(ctx context.Context, user *models.User) (*models.User, error) {
	summary, err := service.servicePoints.GetSummary(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	user.Points = summary
	return user, nil
}

func (service *ServiceUser) UpdateInterests(ctx context.Context, user *models.User, interests []string) error {
	if err := datastore.UpdateUserInterests(ctx, service.postgresDB, user.ID, interests); err != nil {
		return errorx.Wrap(err, errorx.Service)
	}

	service.feedCache.Delete(FeedKeyUser(user.ID))
	//nolint:errcheck
	service.cache.Delete(ctx, DBKeyUser(user.ID))
	return nil
}

func (service *ServiceUser) UpdateLocation(ctx context.Context, user *models.User, lat, lng float64) error {
	if err := datastore.UpdateUserLocation(ctx, service.postgresDB, user.ID, lat, lng); err != nil {
		return errorx.Wrap(err, errorx.Service)
	}

	service.feedCache.Delete(FeedKeyUser(user.ID))
	//nolint:errcheck
	service.cache.Delete(ctx, DBKeyUser(user.ID))
	return nil
}
