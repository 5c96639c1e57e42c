package push

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const broadcastChannel = "push:all"

func userChannel(userID int64) string {
	return fmt.Sprintf("push:user:%d", userID)
}

// redis pub/subを使うBus。複数プロセスでライブ接続を捌くときはこちら。
type RedisBus struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisBus(client *redis.Client, log *zap.Logger) *RedisBus {
	return &RedisBus{client: client, log: log}
}

func (b *RedisBus) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	channel := broadcastChannel
	if ev.UserID != nil {
		channel = userChannel(*ev.UserID)
	}
	return b.client.Publish(ctx, channel, payload).Err()
}

func (b *RedisBus) Subscribe(ctx context.Context, userID int64) (<-chan Event, func(), error) {
	sub := b.client.Subscribe(ctx, userChannel(userID), broadcastChannel)

	// 購読が確立するまで待つ
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, err
	}

	out := make(chan Event, subscriberBuffer)

	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.log.Warn("push: bad payload", zap.String("channel", msg.Channel), zap.Error(err))
				continue
			}
			select {
			case out <- ev:
			default:
				// 詰まっていたら捨てる
			}
		}
	}()

	cancel := func() {
		_ = sub.Close()
	}
	return out, cancel, nil
}
