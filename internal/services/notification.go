package services

import (
	"context"
	"log"
	"sync"
	"time"

	"givehub/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/vmihailenco/msgpack/v5"
)

// FeedNotification is the fanout payload, msgpack on the wire.
type FeedNotification struct {
	UserID int64                  `msgpack:"user_id" json:"user_id"`
	Items  []models.ScoredRequest `msgpack:"items" json:"items"`
	SentAt time.Time              `msgpack:"sent_at" json:"sent_at"`
}

// ServiceNotification fans refreshed feeds out to connected clients. Push
// publishes to a redis channel; the Listen loop is the only delivery path, so
// an instance never double-delivers to its own connections. A user with no
// open connection anywhere is a silent no-op.
type ServiceNotification struct {
	container *do.Injector
	redisDB   redis.UniversalClient

	mu          sync.RWMutex
	connections map[int64]map[string]chan []byte
}

func NewServiceNotification(container *do.Injector) (*ServiceNotification, error) {
	redisDB, err := do.InvokeNamed[redis.UniversalClient](container, "redis-db")
	if err != nil {
		return nil, err
	}

	return &ServiceNotification{
		container:   container,
		redisDB:     redisDB,
		connections: map[int64]map[string]chan []byte{},
	}, nil
}

// Subscribe registers a connection for the user and returns its channel plus
// a cancel func. The channel is buffered; a consumer that cannot keep up
// loses payloads instead of blocking the fanout.
func (service *ServiceNotification) Subscribe(userID int64) (string, <-chan []byte, func()) {
	connID := uuid.NewString()
	ch := make(chan []byte, 8)

	service.mu.Lock()
	if service.connections[userID] == nil {
		service.connections[userID] = map[string]chan []byte{}
	}
	service.connections[userID][connID] = ch
	service.mu.Unlock()

	cancel := func() {
		service.mu.Lock()
		defer service.mu.Unlock()
		conns := service.connections[userID]
		if conns == nil {
			return
		}
		delete(conns, connID)
		if len(conns) == 0 {
			delete(service.connections, userID)
		}
	}

	return connID, ch, cancel
}

// PushFeed publishes the refreshed feed for one user. Delivery happens in
// Listen, on whichever instance holds the user's connections.
func (service *ServiceNotification) PushFeed(ctx context.Context, userID int64, items []models.ScoredRequest) error {
	payload, err := msgpack.Marshal(&FeedNotification{
		UserID: userID,
		Items:  items,
		SentAt: time.Now(),
	})
	if err != nil {
		return err
	}

	return service.redisDB.Publish(ctx, NotifyChannelFeed(), payload).Err()
}

// Listen consumes the fanout channel until ctx is done, delivering each
// payload to the target user's local connections.
func (service *ServiceNotification) Listen(ctx context.Context) error {
	pubsub := service.redisDB.Subscribe(ctx, NotifyChannelFeed())
	//nolint:errcheck
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var notification FeedNotification
			if err := msgpack.Unmarshal([]byte(msg.Payload), &notification); err != nil {
				log.Printf("decode feed notification: %v\n", err)
				continue
			}

			service.deliver(notification.UserID, []byte(msg.Payload))
		}
	}
}

func (service *ServiceNotification) deliver(userID int64, payload []byte) {
	service.mu.RLock()
	defer service.mu.RUnlock()

	for _, ch := range service.connections[userID] {
		select {
		case ch <- payload:
		default:
			// slow consumer, drop
		}
	}
}
