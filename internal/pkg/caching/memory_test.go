package caching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryGetSet(t *testing.T) {
	m := NewMemory(time.Minute)

	_, ok := m.Get("missing")
	require.False(t, ok)

	m.Set("k", "v")
	v, ok := m.Get("k")
	require.True(t, ok)
	require.Equal(t, "v", v)
}

func TestMemoryExpiryOnRead(t *testing.T) {
	m := NewMemory(20 * time.Millisecond)
	m.Set("k", 42)

	time.Sleep(30 * time.Millisecond)

	_, ok := m.Get("k")
	require.False(t, ok)
}

func TestMemoryTimerEviction(t *testing.T) {
	m := NewMemory(20 * time.Millisecond)
	m.Set("k", 42)

	require.Eventually(t, func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		_, ok := m.entries["k"]
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestMemoryOverwriteSurvivesStaleTimer(t *testing.T) {
	m := NewMemory(30 * time.Millisecond)
	m.Set("k", "old")

	time.Sleep(20 * time.Millisecond)
	m.Set("k", "new")

	// the first entry's timer fires here; the generation check must keep
	// the overwrite alive
	time.Sleep(20 * time.Millisecond)

	v, ok := m.Get("k")
	require.True(t, ok)
	require.Equal(t, "new", v)
}

func TestMemoryDelete(t *testing.T) {
	m := NewMemory(time.Minute)
	m.Set("k", "v")
	m.Delete("k")

	_, ok := m.Get("k")
	require.False(t, ok)
}
