package job

import (
	"log/slog"
	"sync"
)

// Broadcaster fans job snapshots out to per-job subscribers.
// Publishing is fire-and-forget: a subscriber that cannot keep up has
// the update dropped rather than stalling the pipeline or the other
// subscribers.
type Broadcaster struct {
	mu   sync.RWMutex
	subs map[string]map[chan Job]struct{}
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[string]map[chan Job]struct{})}
}

// Subscribe registers interest in one job's updates. The returned
// channel is buffered; callers drain it until Unsubscribe.
func (b *Broadcaster) Subscribe(jobID string) chan Job {
	ch := make(chan Job, 16)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs[jobID] == nil {
		b.subs[jobID] = make(map[chan Job]struct{})
	}
	b.subs[jobID][ch] = struct{}{}
	return ch
}

// Unsubscribe removes and closes a channel obtained from Subscribe.
func (b *Broadcaster) Unsubscribe(jobID string, ch chan Job) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if set, ok := b.subs[jobID]; ok {
		if _, ok := set[ch]; ok {
			delete(set, ch)
			close(ch)
		}
		if len(set) == 0 {
			delete(b.subs, jobID)
		}
	}
}

// Publish delivers a snapshot to every subscriber of its job. Slow
// subscribers are skipped.
func (b *Broadcaster) Publish(snapshot Job) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs[snapshot.ID] {
		select {
		case ch <- snapshot:
		default:
			slog.Debug("dropping job update for slow subscriber", "job", snapshot.ID)
		}
	}
}
