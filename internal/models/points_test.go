package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPointsForMoneyDonation(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		want   int
	}{
		{"one hundred baht", 100, 10},
		{"exact hundreds", 300, 30},
		{"floors the remainder", 12345, 1230},
		{"below one hundred", 99, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, PointsForMoneyDonation(tt.amount))
		})
	}
}

func TestPointsForVolunteerHours(t *testing.T) {
	require.Equal(t, 20, PointsForVolunteerHours(1))
	require.Equal(t, 80, PointsForVolunteerHours(4))
}

func TestNewPointsSummary(t *testing.T) {
	summary := NewPointsSummary(7, 600, 150)
	require.Equal(t, int64(7), summary.UserID)
	require.Equal(t, 600, summary.TotalPoints)
	require.Equal(t, 450, summary.AvailablePoints)
	// level is driven by lifetime earnings, spending never demotes
	require.Equal(t, 3, summary.Level.Level)
}

func TestSummaryLevelIgnoresSpending(t *testing.T) {
	before := NewPointsSummary(1, 1200, 0)
	after := NewPointsSummary(1, 1200, 1100)
	require.Equal(t, before.Level.Level, after.Level.Level)
	require.Equal(t, 100, after.AvailablePoints)
}

func TestEarningAccumulation(t *testing.T) {
	// one money donation, one item donation, three volunteer hours
	earned := PointsForMoneyDonation(25000) + PointsForItemDonation + PointsForVolunteerHours(3)
	require.Equal(t, 2500+50+60, earned)

	summary := NewPointsSummary(1, earned, 0)
	require.Equal(t, earned, summary.AvailablePoints)
	require.Equal(t, 5, summary.Level.Level)
}
