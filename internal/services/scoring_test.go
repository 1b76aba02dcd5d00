package services

import (
	"testing"
	"time"

	"givehub/internal/models"

	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 {
	return &v
}

func emptyProfile() *models.UserSignalProfile {
	return &models.UserSignalProfile{
		Interests:           map[string]bool{},
		FavoriteCategories:  map[string]bool{},
		SupportedCategories: map[string]bool{},
		Categories:          map[string]bool{},
		InteractionWeights:  map[int64]float64{},
		SimilarFavorites:    map[int64]bool{},
	}
}

func TestScoreCandidateSignals(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	weights := DefaultScoringWeights()

	profile := emptyProfile()
	profile.Interests["education"] = true
	profile.FavoriteCategories["education"] = true

	candidate := &models.DonationRequest{
		ID:        1,
		Category:  "education",
		Urgency:   models.UrgencyHigh,
		CreatedAt: now.Add(-24 * time.Hour),
	}

	// interest 0.5 + favorited category 0.4 + urgency 0.3 + newness 0.1
	score := ScoreCandidate(weights, profile, candidate, now)
	require.InDelta(t, 1.3, score, 1e-9)
}

func TestScoreCandidateDeterministic(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	weights := DefaultScoringWeights()

	profile := emptyProfile()
	profile.Interests["health"] = true
	profile.InteractionWeights[3] = 4.0
	profile.SimilarFavorites[3] = true

	candidate := &models.DonationRequest{
		ID:             3,
		Category:       "health",
		Urgency:        models.UrgencyMedium,
		SupporterCount: 30,
		CreatedAt:      now.Add(-30 * 24 * time.Hour),
	}

	first := ScoreCandidate(weights, profile, candidate, now)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, ScoreCandidate(weights, profile, candidate, now))
	}
}

func TestScoreCandidateDistanceTiers(t *testing.T) {
	now := time.Now()
	weights := DefaultScoringWeights()

	profile := emptyProfile()
	profile.Latitude = floatPtr(0)
	profile.Longitude = floatPtr(0)

	// at the equator one degree of longitude is ~111.19 km
	nearby := &models.DonationRequest{ID: 1, Category: "food", Latitude: floatPtr(0), Longitude: floatPtr(0.40), CreatedAt: now.Add(-30 * 24 * time.Hour)}
	regional := &models.DonationRequest{ID: 2, Category: "food", Latitude: floatPtr(0), Longitude: floatPtr(0.60), CreatedAt: now.Add(-30 * 24 * time.Hour)}
	far := &models.DonationRequest{ID: 3, Category: "food", Latitude: floatPtr(0), Longitude: floatPtr(1.50), CreatedAt: now.Add(-30 * 24 * time.Hour)}
	unknown := &models.DonationRequest{ID: 4, Category: "food", CreatedAt: now.Add(-30 * 24 * time.Hour)}

	require.InDelta(t, weights.NearbyBonus, ScoreCandidate(weights, profile, nearby, now), 1e-9)
	require.InDelta(t, weights.RegionalBonus, ScoreCandidate(weights, profile, regional, now), 1e-9)
	require.InDelta(t, 0, ScoreCandidate(weights, profile, far, now), 1e-9)
	require.InDelta(t, 0, ScoreCandidate(weights, profile, unknown, now), 1e-9)
}

func TestScoreCandidateDistanceBoundaryStrict(t *testing.T) {
	now := time.Now()
	weights := DefaultScoringWeights()
	weights.NearbyRadiusKM = 50
	weights.RegionalRadiusKM = 100

	profile := emptyProfile()
	profile.Latitude = floatPtr(0)
	profile.Longitude = floatPtr(0)

	old := now.Add(-30 * 24 * time.Hour)
	justInside := &models.DonationRequest{ID: 1, Latitude: floatPtr(0), Longitude: floatPtr(0.449), CreatedAt: old}
	justOutside := &models.DonationRequest{ID: 2, Latitude: floatPtr(0), Longitude: floatPtr(0.451), CreatedAt: old}

	require.InDelta(t, weights.NearbyBonus, ScoreCandidate(weights, profile, justInside, now), 1e-9)
	require.InDelta(t, weights.RegionalBonus, ScoreCandidate(weights, profile, justOutside, now), 1e-9)
}

func TestScoreCandidatePopularityCap(t *testing.T) {
	now := time.Now()
	weights := DefaultScoringWeights()
	profile := emptyProfile()
	old := now.Add(-30 * 24 * time.Hour)

	few := &models.DonationRequest{ID: 1, SupporterCount: 5, CreatedAt: old}
	many := &models.DonationRequest{ID: 2, SupporterCount: 500, CreatedAt: old}

	require.InDelta(t, 0.1, ScoreCandidate(weights, profile, few, now), 1e-9)
	require.InDelta(t, weights.PopularityCap, ScoreCandidate(weights, profile, many, now), 1e-9)
}

func TestRankCandidatesDropsNonPositive(t *testing.T) {
	now := time.Now()
	weights := DefaultScoringWeights()
	profile := emptyProfile()
	profile.InteractionWeights[1] = -0.4 // two skips

	candidates := []models.DonationRequest{
		{ID: 1, Category: "food", CreatedAt: now.Add(-30 * 24 * time.Hour)},
		{ID: 2, Category: "food", Urgency: models.UrgencyHigh, CreatedAt: now.Add(-30 * 24 * time.Hour)},
	}

	ranked := RankCandidates(weights, profile, candidates, now, 10)
	require.Len(t, ranked, 1)
	require.Equal(t, int64(2), ranked[0].Request.ID)
}

func TestRankCandidatesOrderAndTruncation(t *testing.T) {
	now := time.Now()
	weights := DefaultScoringWeights()
	profile := emptyProfile()
	profile.Interests["education"] = true

	old := now.Add(-30 * 24 * time.Hour)
	candidates := make([]models.DonationRequest, 0, 15)
	for i := 1; i <= 15; i++ {
		candidate := models.DonationRequest{ID: int64(i), Category: "food", Urgency: models.UrgencyMedium, CreatedAt: old}
		if i%3 == 0 {
			candidate.Category = "education"
		}
		candidates = append(candidates, candidate)
	}

	ranked := RankCandidates(weights, profile, candidates, now, 10)
	require.Len(t, ranked, 10)

	for i := 1; i < len(ranked); i++ {
		require.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
	}

	// interest matches outrank the rest; ties keep input order
	require.Equal(t, int64(3), ranked[0].Request.ID)
	require.Equal(t, int64(6), ranked[1].Request.ID)
}

func TestRankCandidatesStableOnTies(t *testing.T) {
	now := time.Now()
	weights := DefaultScoringWeights()
	profile := emptyProfile()
	old := now.Add(-30 * 24 * time.Hour)

	candidates := []models.DonationRequest{
		{ID: 7, Urgency: models.UrgencyHigh, CreatedAt: old},
		{ID: 4, Urgency: models.UrgencyHigh, CreatedAt: old},
		{ID: 9, Urgency: models.UrgencyHigh, CreatedAt: old},
	}

	ranked := RankCandidates(weights, profile, candidates, now, 10)
	require.Len(t, ranked, 3)
	require.Equal(t, int64(7), ranked[0].Request.ID)
	require.Equal(t, int64(4), ranked[1].Request.ID)
	require.Equal(t, int64(9), ranked[2].Request.ID)
}
