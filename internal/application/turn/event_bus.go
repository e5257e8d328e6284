package turn

import (
	"sync"

	"github.com/andrescamacho/voidfleet-go/internal/domain/game"
)

// eventBufferSize lets a subscriber fall a few events behind before drops
const eventBufferSize = 8

// TurnEventBus fans turn lifecycle events out to per-game subscribers.
// Publishing never blocks: a subscriber whose buffer is full misses the event.
type TurnEventBus struct {
	mu          sync.RWMutex
	subscribers map[string][]chan game.TurnEvent
}

var _ game.EventPublisher = (*TurnEventBus)(nil)

func NewTurnEventBus() *TurnEventBus {
	return &TurnEventBus{subscribers: make(map[string][]chan game.TurnEvent)}
}

func (b *TurnEventBus) Publish(event game.TurnEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers[event.GameID] {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribe returns a channel of the game's events. Callers must Unsubscribe when done.
func (b *TurnEventBus) Subscribe(gameID string) <-chan game.TurnEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan game.TurnEvent, eventBufferSize)
	b.subscribers[gameID] = append(b.subscribers[gameID], ch)
	return ch
}

// Unsubscribe removes the subscription and closes its channel
func (b *TurnEventBus) Unsubscribe(gameID string, ch <-chan game.TurnEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	channels := b.subscribers[gameID]
	for i, c := range channels {
		if c == ch {
			close(c)
			channels[i] = channels[len(channels)-1]
			b.subscribers[gameID] = channels[:len(channels)-1]
			break
		}
	}
	if len(b.subscribers[gameID]) == 0 {
		delete(b.subscribers, gameID)
	}
}

func (b *TurnEventBus) SubscriberCount(gameID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[gameID])
}
