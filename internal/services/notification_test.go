package services

import (
	"context"
	"testing"
	"time"

	"givehub/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func newTestNotification(t *testing.T) *ServiceNotification {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		//nolint:errcheck
		client.Close()
	})

	injector := do.New()
	do.ProvideNamedValue(injector, "redis-db", redis.UniversalClient(client))

	service, err := NewServiceNotification(injector)
	require.NoError(t, err)
	return service
}

func TestNotificationDeliversToSubscriber(t *testing.T) {
	service := newTestNotification(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		//nolint:errcheck
		service.Listen(ctx)
	}()
	time.Sleep(50 * time.Millisecond)

	_, ch, unsubscribe := service.Subscribe(42)
	defer unsubscribe()

	items := []models.ScoredRequest{
		{Request: &models.DonationRequest{ID: 1, Title: "school supplies"}, Score: 1.5},
	}
	require.NoError(t, service.PushFeed(ctx, 42, items))

	select {
	case payload := <-ch:
		var notification FeedNotification
		require.NoError(t, msgpack.Unmarshal(payload, &notification))
		require.Equal(t, int64(42), notification.UserID)
		require.Len(t, notification.Items, 1)
		require.Equal(t, int64(1), notification.Items[0].Request.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("no notification delivered")
	}
}

func TestNotificationSilentDropWithoutSubscriber(t *testing.T) {
	service := newTestNotification(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		//nolint:errcheck
		service.Listen(ctx)
	}()
	time.Sleep(50 * time.Millisecond)

	// nobody subscribed for user 7; publish must not error or queue
	require.NoError(t, service.PushFeed(ctx, 7, nil))
}

func TestNotificationOnlyTargetUserReceives(t *testing.T) {
	service := newTestNotification(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		//nolint:errcheck
		service.Listen(ctx)
	}()
	time.Sleep(50 * time.Millisecond)

	_, target, cancelTarget := service.Subscribe(1)
	defer cancelTarget()
	_, other, cancelOther := service.Subscribe(2)
	defer cancelOther()

	require.NoError(t, service.PushFeed(ctx, 1, nil))

	select {
	case <-target:
	case <-time.After(2 * time.Second):
		t.Fatal("target user got nothing")
	}

	select {
	case <-other:
		t.Fatal("wrong user received the notification")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestNotificationUnsubscribeStopsDelivery(t *testing.T) {
	service := newTestNotification(t)

	_, ch, unsubscribe := service.Subscribe(5)
	unsubscribe()

	service.deliver(5, []byte("payload"))

	select {
	case <-ch:
		t.Fatal("delivery after unsubscribe")
	default:
	}
}
