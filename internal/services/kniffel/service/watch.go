package service

import (
	"sync"

	"github.com/louisbranch/kniffel/internal/services/kniffel/storage"
)

const watchBuffer = 8

// watchHub fans stored game changes out to subscribers of that game.
type watchHub struct {
	mu   sync.Mutex
	subs map[string]map[*watcher]struct{}
}

type watcher struct {
	ch     chan storage.GameRecord
	closed bool
}

func newWatchHub() *watchHub {
	return &watchHub{subs: make(map[string]map[*watcher]struct{})}
}

func (h *watchHub) subscribe(gameID string) (<-chan storage.GameRecord, func()) {
	w := &watcher{ch: make(chan storage.GameRecord, watchBuffer)}

	h.mu.Lock()
	if h.subs[gameID] == nil {
		h.subs[gameID] = make(map[*watcher]struct{})
	}
	h.subs[gameID][w] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[gameID], w)
			if len(h.subs[gameID]) == 0 {
				delete(h.subs, gameID)
			}
			w.closed = true
			close(w.ch)
		})
	}
	return w.ch, cancel
}

// publish never blocks. A subscriber that falls behind loses its oldest
// pending update so the newest state always gets through.
func (h *watchHub) publish(record storage.GameRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for w := range h.subs[record.ID()] {
		if w.closed {
			continue
		}
		select {
		case w.ch <- record:
			continue
		default:
		}
		select {
		case <-w.ch:
		default:
		}
		select {
		case w.ch <- record:
		default:
		}
	}
}

func (h *watchHub) count(gameID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[gameID])
}
