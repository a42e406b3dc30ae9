package redis

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Notifier fans out collection-change notifications over Redis pub/sub.
// Repositories publish after every write; subscribers re-query their
// collection and deliver a fresh snapshot per notification. One channel
// exists per (collection, user) pair.
type Notifier struct {
	client *redis.Client
}

// NewNotifier creates a new change notifier
func NewNotifier(client *redis.Client) *Notifier {
	return &Notifier{client: client}
}

// channelKey generates the pub/sub channel name for a user's collection
func (n *Notifier) channelKey(collection, userID string) string {
	return fmt.Sprintf("changes:%s:%s", collection, userID)
}

// Publish signals that a user's collection changed
func (n *Notifier) Publish(ctx context.Context, collection, userID string) error {
	if err := n.client.Publish(ctx, n.channelKey(collection, userID), "1").Err(); err != nil {
		return fmt.Errorf("failed to publish change notification: %w", err)
	}
	return nil
}

// Subscribe invokes onChange once per published change until the returned
// function is called. Transient channel failures are handled by the
// client's own reconnection; there is no further retry.
func (n *Notifier) Subscribe(ctx context.Context, collection, userID string, onChange func()) (func(), error) {
	sub := n.client.Subscribe(ctx, n.channelKey(collection, userID))

	// Confirm the subscription before handing back control
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe to change channel: %w", err)
	}

	done := make(chan struct{})
	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-done:
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				onChange()
			}
		}
	}()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			close(done)
			if err := sub.Close(); err != nil {
				log.Printf("failed to close change subscription for %s/%s: %v", collection, userID, err)
			}
		})
	}
	return unsubscribe, nil
}
