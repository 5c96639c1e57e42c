package push

import (
	"context"
	"sync"
)

const subscriberBuffer = 16

// プロセス内Bus。単一プロセス構成とテストで使う。
type MemoryBus struct {
	mu   sync.RWMutex
	subs map[int64]map[chan Event]struct{}
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		subs: map[int64]map[chan Event]struct{}{},
	}
}

// 宛先ユーザーの購読チャネルへ流す。UserIDがnilなら全購読者へ。
// 受信が詰まっている購読者へは捨てる（at-most-once）。
func (b *MemoryBus) Publish(_ context.Context, ev Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	deliver := func(ch chan Event) {
		select {
		case ch <- ev:
		default:
			// 詰まっていたら捨てる
		}
	}

	if ev.UserID == nil {
		for _, chans := range b.subs {
			for ch := range chans {
				deliver(ch)
			}
		}
		return nil
	}

	for ch := range b.subs[*ev.UserID] {
		deliver(ch)
	}
	return nil
}

func (b *MemoryBus) Subscribe(_ context.Context, userID int64) (<-chan Event, func(), error) {
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	if b.subs[userID] == nil {
		b.subs[userID] = map[chan Event]struct{}{}
	}
	b.subs[userID][ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[userID], ch)
			if len(b.subs[userID]) == 0 {
				delete(b.subs, userID)
			}
			b.mu.Unlock()
			close(ch)
		})
	}

	return ch, cancel, nil
}
