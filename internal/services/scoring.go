package services

import (
	"sort"
	"time"

	"givehub/internal/models"
	"givehub/internal/pkg"
)

// ScoringWeights holds every tunable of the relevance formula so ranking
// logic and parameters can change independently.
type ScoringWeights struct {
	DeclaredInterest    float64
	FavoritedCategory   float64
	SupportedCategory   float64
	SimilarUserFavorite float64

	NearbyBonus      float64
	RegionalBonus    float64
	NearbyRadiusKM   float64
	RegionalRadiusKM float64

	UrgencyHigh   float64
	UrgencyMedium float64

	PopularityDivisor float64
	PopularityCap     float64

	NewnessBonus  float64
	NewnessWindow time.Duration
}

func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{
		DeclaredInterest:    0.5,
		FavoritedCategory:   0.4,
		SupportedCategory:   0.3,
		SimilarUserFavorite: 0.25,
		NearbyBonus:         0.3,
		RegionalBonus:       0.1,
		NearbyRadiusKM:      50,
		RegionalRadiusKM:    100,
		UrgencyHigh:         0.3,
		UrgencyMedium:       0.1,
		PopularityDivisor:   50,
		PopularityCap:       0.2,
		NewnessBonus:        0.1,
		NewnessWindow:       7 * 24 * time.Hour,
	}
}

// ScoreCandidate sums the independent signal contributions for one candidate.
// Deterministic for identical inputs. Distance tiers are strictly less-than.
func ScoreCandidate(weights ScoringWeights, profile *models.UserSignalProfile, candidate *models.DonationRequest, now time.Time) float64 {
	score := candidate.BaselineScore

	if profile.Interests[candidate.Category] {
		score += weights.DeclaredInterest
	}
	if profile.FavoriteCategories[candidate.Category] {
		score += weights.FavoritedCategory
	}
	if profile.SupportedCategories[candidate.Category] {
		score += weights.SupportedCategory
	}

	if profile.HasLocation() && candidate.HasLocation() {
		distance := pkg.HaversineKM(*profile.Latitude, *profile.Longitude, *candidate.Latitude, *candidate.Longitude)
		if distance < weights.NearbyRadiusKM {
			score += weights.NearbyBonus
		} else if distance < weights.RegionalRadiusKM {
			score += weights.RegionalBonus
		}
	}

	if profile.SimilarFavorites[candidate.ID] {
		score += weights.SimilarUserFavorite
	}

	score += profile.InteractionWeights[candidate.ID]

	switch candidate.Urgency {
	case models.UrgencyHigh:
		score += weights.UrgencyHigh
	case models.UrgencyMedium:
		score += weights.UrgencyMedium
	}

	popularity := float64(candidate.SupporterCount) / weights.PopularityDivisor
	if popularity > weights.PopularityCap {
		popularity = weights.PopularityCap
	}
	score += popularity

	if now.Sub(candidate.CreatedAt) < weights.NewnessWindow {
		score += weights.NewnessBonus
	}

	return score
}

// RankCandidates scores the pool, drops non-positive scores, sorts stably by
// score descending and truncates to limit.
func RankCandidates(weights ScoringWeights, profile *models.UserSignalProfile, candidates []models.DonationRequest, now time.Time, limit int) []models.ScoredRequest {
	scored := make([]models.ScoredRequest, 0, len(candidates))
	for i := range candidates {
		candidate := candidates[i]
		score := ScoreCandidate(weights, profile, &candidate, now)
		if score <= 0 {
			continue
		}
		scored = append(scored, models.ScoredRequest{Request: &candidate, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}

	return scored
}
