package monitoring

import (
	"sync"
	"time"

	nuts "github.com/vaudience/go-nuts"
)

// Service counts monitored events and logs each one
type Service struct {
	mu      sync.Mutex
	started time.Time
	counts  map[string]int64
}

// NewService creates a new monitoring service
func NewService() *Service {
	return &Service{
		started: time.Now(),
		counts:  make(map[string]int64),
	}
}

// RecordEvent records a monitored event with labels
func (s *Service) RecordEvent(eventName string, labels map[string]string) {
	s.mu.Lock()
	s.counts[eventName]++
	s.mu.Unlock()

	nuts.L.Debugf("[Monitoring] Event %s recorded with labels: %v", eventName, labels)
}

// Counts returns a copy of the event counters
func (s *Service) Counts() map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]int64, len(s.counts))
	for k, v := range s.counts {
		out[k] = v
	}
	return out
}

// Uptime reports how long the service has been recording
func (s *Service) Uptime() time.Duration {
	return time.Since(s.started)
}
