package models

type LevelTier struct {
	Level     int    `json:"level"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	MinPoints int    `json:"min_points"`
}

// LevelTiers must stay sorted by MinPoints ascending.
var LevelTiers = []LevelTier{
	{Level: 1, Name: "Beginner", Color: "#9CA3AF", MinPoints: 0},
	{Level: 2, Name: "Helper", Color: "#22C55E", MinPoints: 100},
	{Level: 3, Name: "Kind-hearted", Color: "#3B82F6", MinPoints: 500},
	{Level: 4, Name: "Saint of Giving", Color: "#A855F7", MinPoints: 1000},
	{Level: 5, Name: "Ambassador of Good", Color: "#F59E0B", MinPoints: 2500},
	{Level: 6, Name: "Legend of Donation", Color: "#EF4444", MinPoints: 5000},
}

type Level struct {
	Level         int     `json:"level"`
	Name          string  `json:"name"`
	Color         string  `json:"color"`
	NextThreshold *int    `json:"next_threshold"`
	Progress      float64 `json:"progress"`
}

// LevelFor picks the highest tier whose threshold is at or below totalPoints
// and computes linear progress toward the next tier. Progress is 1 at the top
// tier.
func LevelFor(totalPoints int) Level {
	if totalPoints < 0 {
		totalPoints = 0
	}

	current := LevelTiers[0]
	for _, tier := range LevelTiers {
		if totalPoints >= tier.MinPoints {
			current = tier
		}
	}

	level := Level{
		Level:    current.Level,
		Name:     current.Name,
		Color:    current.Color,
		Progress: 1,
	}

	if current.Level < len(LevelTiers) {
		next := LevelTiers[current.Level]
		level.NextThreshold = &next.MinPoints
		span := next.MinPoints - current.MinPoints
		progress := float64(totalPoints-current.MinPoints) / float64(span)
		if progress > 1 {
			progress = 1
		}
		if progress < 0 {
			progress = 0
		}
		level.Progress = progress
	}

	return level
}
