package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevelFor(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		level     int
		levelName string
	}{
		{"zero points", 0, 1, "Beginner"},
		{"just below helper", 99, 1, "Beginner"},
		{"helper threshold", 100, 2, "Helper"},
		{"kind-hearted threshold", 500, 3, "Kind-hearted"},
		{"saint threshold", 1000, 4, "Saint of Giving"},
		{"ambassador threshold", 2500, 5, "Ambassador of Good"},
		{"just below legend", 4999, 5, "Ambassador of Good"},
		{"legend threshold", 5000, 6, "Legend of Donation"},
		{"far beyond legend", 100000, 6, "Legend of Donation"},
		{"negative clamps to zero", -10, 1, "Beginner"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level := LevelFor(tt.total)
			require.Equal(t, tt.level, level.Level)
			require.Equal(t, tt.levelName, level.Name)
		})
	}
}

func TestLevelForProgress(t *testing.T) {
	// halfway between Helper (100) and Kind-hearted (500)
	level := LevelFor(300)
	require.Equal(t, 2, level.Level)
	require.NotNil(t, level.NextThreshold)
	require.Equal(t, 500, *level.NextThreshold)
	require.InDelta(t, 0.5, level.Progress, 1e-9)

	// top tier has no next threshold and full progress
	top := LevelFor(5000)
	require.Nil(t, top.NextThreshold)
	require.Equal(t, 1.0, top.Progress)
}

func TestLevelForMonotonic(t *testing.T) {
	previous := 0
	for total := 0; total <= 6000; total += 50 {
		level := LevelFor(total)
		require.GreaterOrEqual(t, level.Level, previous, "level dropped at %d points", total)
		previous = level.Level
	}
}
