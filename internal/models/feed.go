package models

// UserSignalProfile is derived per scoring run and never persisted.
type UserSignalProfile struct {
	UserID              int64
	Interests           map[string]bool
	FavoriteCategories  map[string]bool
	SupportedCategories map[string]bool
	Categories          map[string]bool
	Latitude            *float64
	Longitude           *float64
	InteractionWeights  map[int64]float64
	SimilarFavorites    map[int64]bool
}

func (p *UserSignalProfile) HasLocation() bool {
	return p != nil && p.Latitude != nil && p.Longitude != nil
}

type ScoredRequest struct {
	Request *DonationRequest `json:"request"`
	Score   float64          `json:"score"`
}

// CategoryCount is scanned from the system-wide GROUP BY over open requests.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}
