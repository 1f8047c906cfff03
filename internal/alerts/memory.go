package alerts

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is a mutex-guarded in-memory alert store.
type MemoryStore struct {
	mu     sync.RWMutex
	alerts map[int64]Alert
	nextID int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		alerts: make(map[int64]Alert),
		nextID: 1,
	}
}

// Create registers a new alert and assigns it an id.
func (s *MemoryStore) Create(_ context.Context, alert Alert) (Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	alert.ID = s.nextID
	s.nextID++
	if alert.Status == "" {
		alert.Status = StatusActive
	}
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now().UTC()
	}

	s.alerts[alert.ID] = alert
	return alert, nil
}

// List returns alerts with the given status, or all alerts when status is
// empty, ordered by id for stable output.
func (s *MemoryStore) List(_ context.Context, status Status) ([]Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Alert, 0, len(s.alerts))
	for _, a := range s.alerts {
		if status == "" || a.Status == status {
			out = append(out, a)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Delete removes an alert.
func (s *MemoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.alerts[id]; !ok {
		return ErrNotFound
	}
	delete(s.alerts, id)
	return nil
}

// MarkTriggered flips an alert to triggered.
func (s *MemoryStore) MarkTriggered(_ context.Context, id int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.alerts[id]
	if !ok {
		return ErrNotFound
	}

	a.Status = StatusTriggered
	a.TriggeredAt = at
	s.alerts[id] = a
	return nil
}
