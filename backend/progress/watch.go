package progress

import "sync"

// Event is one pushed state update: exactly one of Progress or Streak is set.
type Event struct {
	Progress *Snapshot
	Streak   *StreakResult
}

// Broadcaster fans engine updates out to per-user subscribers so the
// presentation layer reflects changes without polling. Sends never block a
// writer: a subscriber that falls behind drops events.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[uint]map[chan Event]struct{}
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[uint]map[chan Event]struct{})}
}

// Subscribe registers for a user's updates. The returned cancel func
// releases the subscription and closes the channel; it is safe to call more
// than once.
func (b *Broadcaster) Subscribe(userID uint) (<-chan Event, func()) {
	ch := make(chan Event, 16)

	b.mu.Lock()
	if b.subs[userID] == nil {
		b.subs[userID] = make(map[chan Event]struct{})
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
	return ch, cancel
}

// Publish delivers an event to every subscriber of the user.
func (b *Broadcaster) Publish(userID uint, ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs[userID] {
		select {
		case ch <- ev:
		default:
		}
	}
}
