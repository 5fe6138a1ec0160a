package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Windi-Fikriyansyah/gigboard/internal/services/lifecycle"
)

const (
	RedisChannel = "gigboard:changes"
	NATSSubject  = "gigboard.changes"
)

// Feed carries change events between API instances. It is also the
// lifecycle.Notifier the service publishes to.
type Feed interface {
	lifecycle.Notifier
	Subscribe(ctx context.Context, fn func(lifecycle.Change)) error
	Close() error
}

// LocalFeed delivers in-process only; fine for a single instance.
type LocalFeed struct {
	mu   sync.RWMutex
	subs []func(lifecycle.Change)
}

func NewLocalFeed() *LocalFeed { return &LocalFeed{} }

func (f *LocalFeed) Notify(ctx context.Context, change lifecycle.Change) error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, fn := range f.subs {
		fn(change)
	}
	return nil
}

func (f *LocalFeed) Subscribe(ctx context.Context, fn func(lifecycle.Change)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = append(f.subs, fn)
	return nil
}

func (f *LocalFeed) Close() error { return nil }

type RedisFeed struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisFeed(client *redis.Client, logger *zap.Logger) *RedisFeed {
	return &RedisFeed{client: client, logger: logger}
}

func (f *RedisFeed) Notify(ctx context.Context, change lifecycle.Change) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return err
	}
	return f.client.Publish(ctx, RedisChannel, payload).Err()
}

func (f *RedisFeed) Subscribe(ctx context.Context, fn func(lifecycle.Change)) error {
	sub := f.client.Subscribe(ctx, RedisChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s: %w", RedisChannel, err)
	}
	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var change lifecycle.Change
				if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
					f.logger.Warn("bad change payload", zap.String("channel", msg.Channel), zap.Error(err))
					continue
				}
				fn(change)
			}
		}
	}()
	return nil
}

func (f *RedisFeed) Close() error { return nil }

type NATSFeed struct {
	conn   *nats.Conn
	logger *zap.Logger
}

func NewNATSFeed(url string, logger *zap.Logger) (*NATSFeed, error) {
	conn, err := nats.Connect(url,
		nats.Name("gigboard-api"),
		nats.Timeout(5*time.Second),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return &NATSFeed{conn: conn, logger: logger}, nil
}

func (f *NATSFeed) Notify(ctx context.Context, change lifecycle.Change) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return err
	}
	return f.conn.Publish(NATSSubject, payload)
}

func (f *NATSFeed) Subscribe(ctx context.Context, fn func(lifecycle.Change)) error {
	sub, err := f.conn.Subscribe(NATSSubject, func(msg *nats.Msg) {
		var change lifecycle.Change
		if err := json.Unmarshal(msg.Data, &change); err != nil {
			f.logger.Warn("bad change payload", zap.String("subject", msg.Subject), zap.Error(err))
			return
		}
		fn(change)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", NATSSubject, err)
	}
	go func() {
		<-ctx.Done()
		_ = sub.Unsubscribe()
	}()
	return nil
}

func (f *NATSFeed) Close() error {
	if f.conn != nil {
		f.conn.Close()
	}
	return nil
}

// Relay forwards every change from the feed to the hub's clients.
func Relay(ctx context.Context, feed Feed, hub *Hub) error {
	return feed.Subscribe(ctx, hub.Publish)
}
