package events

import (
	"sync"

	"github.com/google/uuid"

	"paywow/core/types"
)

// Record pairs an emitted event with its append-only sequence metadata.
type Record struct {
	Sequence uint64       `json:"sequence"`
	ID       string       `json:"id"`
	Event    *types.Event `json:"event"`
}

// payloader is implemented by event values that can render a broadcastable
// payload. All paywow event types satisfy it.
type payloader interface {
	Event() *types.Event
}

// MemorySink retains emitted events in order for external observers. The sink
// is append-only: records are never mutated or removed, only truncated from
// the front once the retention cap is reached.
type MemorySink struct {
	mu      sync.RWMutex
	next    uint64
	cap     int
	records []Record
}

// NewMemorySink creates a sink retaining at most cap records; cap <= 0 means
// unbounded.
func NewMemorySink(cap int) *MemorySink {
	return &MemorySink{cap: cap, next: 1}
}

// Emit implements the Emitter interface.
func (s *MemorySink) Emit(evt Event) {
	if s == nil || evt == nil {
		return
	}
	payload := &types.Event{Type: evt.EventType(), Attributes: map[string]string{}}
	if p, ok := evt.(payloader); ok {
		if rendered := p.Event(); rendered != nil {
			payload = rendered
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, Record{
		Sequence: s.next,
		ID:       uuid.NewString(),
		Event:    payload,
	})
	s.next++
	if s.cap > 0 && len(s.records) > s.cap {
		s.records = s.records[len(s.records)-s.cap:]
	}
}

// Records returns a copy of the retained records in emission order.
func (s *MemorySink) Records() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Len reports the number of retained records.
func (s *MemorySink) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
