package pkg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHaversineKM(t *testing.T) {
	// Bangkok to Chiang Mai, roughly 586 km
	distance := HaversineKM(13.7563, 100.5018, 18.7883, 98.9853)
	require.InDelta(t, 586, distance, 10)

	require.Equal(t, 0.0, HaversineKM(13.7563, 100.5018, 13.7563, 100.5018))

	// symmetric
	forward := HaversineKM(13.0, 100.0, 14.0, 101.0)
	backward := HaversineKM(14.0, 101.0, 13.0, 100.0)
	require.InDelta(t, forward, backward, 1e-9)
}
