package storage

import (
	"context"
	"errors"
	"sort"
	"sync"

	"golang.org/x/exp/maps"

	"auxesis/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	sessions    map[string]model.SessionRecord
	genomes     map[string]map[int]model.GenomeRecord
	innovations map[string][]model.InnovationRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Init readies the store. Like the sqlite schema setup it is idempotent:
// re-initializing a live store keeps its contents.
func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	s.initialized = true
	s.sessions = make(map[string]model.SessionRecord)
	s.genomes = make(map[string]map[int]model.GenomeRecord)
	s.innovations = make(map[string][]model.InnovationRecord)
	return nil
}

func (s *MemoryStore) SaveSession(_ context.Context, session model.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	s.sessions[session.ID] = session
	return nil
}

func (s *MemoryStore) GetSession(_ context.Context, id string) (model.SessionRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	return session, ok, nil
}

func (s *MemoryStore) ListSessions(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := maps.Keys(s.sessions)
	sort.Strings(ids)
	return ids, nil
}

func (s *MemoryStore) SaveGenome(_ context.Context, sessionID string, genome model.GenomeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	byID, ok := s.genomes[sessionID]
	if !ok {
		byID = make(map[int]model.GenomeRecord)
		s.genomes[sessionID] = byID
	}
	byID[genome.ID] = genome
	return nil
}

func (s *MemoryStore) GetGenome(_ context.Context, sessionID string, genomeID int) (model.GenomeRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	genome, ok := s.genomes[sessionID][genomeID]
	return genome, ok, nil
}

func (s *MemoryStore) ListGenomeIDs(_ context.Context, sessionID string) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := maps.Keys(s.genomes[sessionID])
	sort.Ints(ids)
	return ids, nil
}

func (s *MemoryStore) AppendInnovations(_ context.Context, sessionID string, records []model.InnovationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	s.innovations[sessionID] = append(s.innovations[sessionID], records...)
	return nil
}

func (s *MemoryStore) ListInnovations(_ context.Context, sessionID string) ([]model.InnovationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.innovations[sessionID]
	copied := make([]model.InnovationRecord, len(records))
	copy(copied, records)
	return copied, nil
}
