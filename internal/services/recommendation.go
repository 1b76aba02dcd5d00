package services

import (
	"context"
	"log"
	"time"

	"givehub/internal/datastore"
	"givehub/internal/models"
	"givehub/internal/pkg/caching"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceFeed struct {
	container          *do.Injector
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
	feedCache          *caching.Memory
	weights            ScoringWeights

	serviceNotification *ServiceNotification
}

func NewServiceFeed(container *do.Injector) (*ServiceFeed, error) {
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

	serviceNotification, err := do.Invoke[*ServiceNotification](container)
	if err != nil {
		return nil, err
	}

	return &ServiceFeed{container, postgresDB, readonlyPostgresDB, cache, readonlyCache, feedCache, DefaultScoringWeights(), serviceNotification}, nil
}

// Feed returns up to 10 ranked open requests. A nil user gets the guest
// ranking. Results are memoized per user for 10 seconds; the memo is a
// shortcut only, never a fallback for failed writes.
func (service *ServiceFeed) Feed(ctx context.Context, user *models.User) ([]models.ScoredRequest, error) {
	key := FeedKeyGuest()
	if user != nil {
		key = FeedKeyUser(user.ID)
	}

	if cached, ok := service.feedCache.Get(key); ok {
		if items, ok := cached.([]models.ScoredRequest); ok {
			return items, nil
		}
	}

	var items []models.ScoredRequest
	var err error
	if user == nil {
		items, err = service.guestFeed(ctx)
	} else {
		items, err = service.personalFeed(ctx, user)
	}
	if err != nil {
		return nil, err
	}

	service.feedCache.Set(key, items)

	if user != nil {
		// fire and forget; connected clients get the refreshed list pushed
		go func(userID int64, items []models.ScoredRequest) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := service.serviceNotification.PushFeed(ctx, userID, items); err != nil {
				log.Printf("push feed for user %d: %v\n", userID, err)
			}
		}(user.ID, items)
	}

	return items, nil
}

func (service *ServiceFeed) guestFeed(ctx context.Context) ([]models.ScoredRequest, error) {
	requests, err := datastore.GetGuestFeedRequests(ctx, service.readonlyPostgresDB, FEED_DEFAULT_LIMIT)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	return baselineScored(requests), nil
}

func (service *ServiceFeed) personalFeed(ctx context.Context, user *models.User) ([]models.ScoredRequest, error) {
	profile, err := service.buildSignalProfile(ctx, user)
	if err != nil {
		return nil, err
	}

	categories := make([]string, 0, len(profile.Categories))
	for category := range profile.Categories {
		categories = append(categories, category)
	}
	similarIDs := make([]int64, 0, len(profile.SimilarFavorites))
	for id := range profile.SimilarFavorites {
		similarIDs = append(similarIDs, id)
	}

	candidates, err := datastore.GetCandidateRequests(ctx, service.readonlyPostgresDB, user.ID, categories, similarIDs, FEED_CANDIDATE_LIMIT)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	ranked := RankCandidates(service.weights, profile, candidates, time.Now(), FEED_DEFAULT_LIMIT)
	if len(ranked) > 0 {
		return ranked, nil
	}

	return service.fallbackFeed(ctx)
}

// fallbackFeed serves popularity over the system-wide heaviest categories
// when personalization yields nothing.
func (service *ServiceFeed) fallbackFeed(ctx context.Context) ([]models.ScoredRequest, error) {
	callback := func() ([]models.CategoryCount, error) {
		return datastore.GetTopCategories(ctx, service.readonlyPostgresDB, FEED_FALLBACK_CATEGORIES)
	}

	counts, err := caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyTopCategories(), CACHE_TTL_5_MINS, callback)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	categories := make([]string, 0, len(counts))
	for _, count := range counts {
		categories = append(categories, count.Category)
	}

	requests, err := datastore.GetPopularByCategories(ctx, service.readonlyPostgresDB, categories, FEED_DEFAULT_LIMIT)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	return baselineScored(requests), nil
}

// buildSignalProfile derives the per-run personalization signals: declared
// interests, categories of favorited/donated/volunteered requests, one-hop
// related categories, per-request interaction weights and the favorites of
// up to 20 users sharing a declared interest.
func (service *ServiceFeed) buildSignalProfile(ctx context.Context, user *models.User) (*models.UserSignalProfile, error) {
	db := service.readonlyPostgresDB

	profile := &models.UserSignalProfile{
		UserID:              user.ID,
		Interests:           toSet(user.Interests),
		FavoriteCategories:  map[string]bool{},
		SupportedCategories: map[string]bool{},
		Categories:          toSet(user.Interests),
		Latitude:            user.Latitude,
		Longitude:           user.Longitude,
		InteractionWeights:  map[int64]float64{},
		SimilarFavorites:    map[int64]bool{},
	}

	favorites, err := datastore.GetFavoriteCategories(ctx, db, user.ID)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	for _, category := range favorites {
		profile.FavoriteCategories[category] = true
		profile.Categories[category] = true
	}

	donated, err := datastore.GetDonatedCategories(ctx, db, user.ID)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	volunteered, err := datastore.GetVolunteeredCategories(ctx, db, user.ID)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	for _, category := range append(donated, volunteered...) {
		profile.SupportedCategories[category] = true
		profile.Categories[category] = true
	}

	direct := make([]string, 0, len(profile.Categories))
	for category := range profile.Categories {
		direct = append(direct, category)
	}
	related, err := datastore.GetRelatedCategories(ctx, db, direct)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	for _, category := range related {
		profile.Categories[category] = true
	}

	weights, err := datastore.GetUserInteractionWeights(ctx, db, user.ID)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	for _, weight := range weights {
		profile.InteractionWeights[weight.RequestID] = weight.Weight
	}

	similarUsers, err := datastore.GetSimilarUserIDs(ctx, db, user.ID, user.Interests, FEED_SIMILAR_USER_LIMIT)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	similarFavorites, err := datastore.GetFavoriteRequestIDsByUsers(ctx, db, similarUsers)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	for _, id := range similarFavorites {
		profile.SimilarFavorites[id] = true
	}

	return profile, nil
}

func baselineScored(requests []models.DonationRequest) []models.ScoredRequest {
	items := make([]models.ScoredRequest, 0, len(requests))
	for i := range requests {
		request := requests[i]
		items = append(items, models.ScoredRequest{Request: &request, Score: request.BaselineScore})
	}
	return items
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, value := range values {
		set[value] = true
	}
	return set
}
