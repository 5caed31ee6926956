package http

import (
	"log/slog"
	"sync"
)

// StreamManager handles active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan<- string]struct{}
	logger      *slog.Logger
}

func NewStreamManager(logger *slog.Logger) *StreamManager {
	return &StreamManager{
		subscribers: make(map[chan<- string]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a new listener. The returned function unsubscribes
// and closes the channel.
func (sm *StreamManager) Subscribe() (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	sm.subscribers[ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if _, ok := sm.subscribers[ch]; ok {
			delete(sm.subscribers, ch)
			close(ch)
		}
	}
}

// Subscribers returns the number of active listeners.
func (sm *StreamManager) Subscribers() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}

func (sm *StreamManager) Broadcast(msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers {
		select {
		case ch <- msg:
		default:
			// Slow client
			sm.logger.Warn("SSE: client buffer full, dropping message")
		}
	}
}
