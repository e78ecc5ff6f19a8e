package job

import (
	"fmt"
	"sync"
)

// Store is a key-value view over job snapshots. The in-memory
// implementation below is the default; the contract stays narrow so a
// persistent backend can slot in without touching pipeline logic.
type Store interface {
	Get(id string) (Job, error)
	Put(snapshot Job)
	Delete(id string)
	List() []Job
}

// ErrNotFound marks a lookup for an unknown job ID.
var ErrNotFound = fmt.Errorf("job not found")

// MemoryStore keeps snapshots in a mutex-guarded map.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]Job
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]Job)}
}

func (s *MemoryStore) Get(id string) (Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	if !ok {
		return Job{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return j, nil
}

func (s *MemoryStore) Put(snapshot Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[snapshot.ID] = snapshot
}

func (s *MemoryStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, id)
}

func (s *MemoryStore) List() []Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j)
	}
	return out
}
