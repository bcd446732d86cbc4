package store

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sahanw/restopos/config"
)

// Tables with change notification.
const (
	TableOrders    = "orders"
	TableMenuItems = "menu_items"
)

type SubscriptionState int

const (
	StateSubscribed SubscriptionState = iota
	StateError
	StateTimedOut
)

func (s SubscriptionState) String() string {
	switch s {
	case StateSubscribed:
		return "subscribed"
	case StateError:
		return "error"
	case StateTimedOut:
		return "timed out"
	default:
		return "unknown"
	}
}

// Subscription is a live change stream for one table. Changes carries one
// signal per remote mutation; States reports the transport lifecycle
// (subscribed ack, then errors or terminal failure).
type Subscription struct {
	Changes <-chan struct{}
	States  <-chan SubscriptionState

	closeOnce sync.Once
	close     func()
}

// NewSubscription wraps an existing change/state stream. closeFn runs at
// most once regardless of how many times Close is called.
func NewSubscription(changes <-chan struct{}, states <-chan SubscriptionState, closeFn func()) *Subscription {
	if closeFn == nil {
		closeFn = func() {}
	}
	return &Subscription{Changes: changes, States: states, close: closeFn}
}

// Close tears the subscription down. Safe to call more than once.
func (s *Subscription) Close() {
	s.closeOnce.Do(s.close)
}

// Notifier is the change-notification side of the remote store.
type Notifier interface {
	Publish(ctx context.Context, table string) error
	Subscribe(ctx context.Context, table string) *Subscription
}

// RedisNotifier broadcasts table changes over Redis pub/sub channels
// (changes:<table>). Every writer publishes after a successful mutation;
// every terminal subscribes, including the writer itself.
type RedisNotifier struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisClient(cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}

func NewRedisNotifier(client *redis.Client, log *zap.Logger) *RedisNotifier {
	return &RedisNotifier{client: client, log: log}
}

func channelFor(table string) string {
	return "changes:" + table
}

func (n *RedisNotifier) Publish(ctx context.Context, table string) error {
	return n.client.Publish(ctx, channelFor(table), time.Now().UTC().Format(time.RFC3339Nano)).Err()
}

// Subscribe opens the pub/sub channel for table. The subscribed ack arrives
// on States once Redis confirms the subscription; consumers enforce their
// own ack timeout.
func (n *RedisNotifier) Subscribe(ctx context.Context, table string) *Subscription {
	pubsub := n.client.Subscribe(ctx, channelFor(table))

	changes := make(chan struct{}, 16)
	states := make(chan SubscriptionState, 4)

	go func() {
		defer close(changes)

		// The first Receive returns the subscription confirmation.
		if _, err := pubsub.Receive(ctx); err != nil {
			n.log.Warn("change subscription failed",
				zap.String("table", table), zap.Error(err))
			states <- StateError
			return
		}
		states <- StateSubscribed

		for range pubsub.Channel() {
			select {
			case changes <- struct{}{}:
			default:
				// Consumer is mid-refresh; coalesce the signal.
			}
		}

		// Channel closed: connection lost or subscription torn down.
		states <- StateError
	}()

	return NewSubscription(changes, states, func() {
		_ = pubsub.Close()
	})
}
