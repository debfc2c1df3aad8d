// Package store provides study.Store implementations.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/reserve-engine/reserve"
	"github.com/warp/reserve-engine/study"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	studies map[string]study.Study
}

func NewMemory() *Memory {
	return &Memory{
		studies: make(map[string]study.Study),
	}
}

// SaveStudy stores a copy of s, replacing any study with the same ID.
func (m *Memory) SaveStudy(_ context.Context, s study.Study) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.studies[s.ID] = s.Clone()
	return nil
}

func (m *Memory) GetStudy(_ context.Context, id string) (*study.Study, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.studies[id]
	if !ok {
		return nil, study.ErrStudyNotFound
	}
	out := s.Clone()
	return &out, nil
}

func (m *Memory) ListStudies(_ context.Context) ([]study.Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]study.Summary, 0, len(m.studies))
	for _, s := range m.studies {
		result = append(result, study.Summary{
			ID:             s.ID,
			Name:           s.Property.Name,
			Address:        s.Property.Address,
			ComponentCount: len(s.Components),
			StartYear:      s.StartYear,
			HorizonYears:   s.HorizonYears,
			UpdatedAt:      s.UpdatedAt,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *Memory) DeleteStudy(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.studies[id]; !ok {
		return study.ErrStudyNotFound
	}
	delete(m.studies, id)
	return nil
}

// SaveComponent replaces the component in place, or appends it.
func (m *Memory) SaveComponent(_ context.Context, studyID string, c reserve.Component) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.studies[studyID]
	if !ok {
		return study.ErrStudyNotFound
	}
	s = s.Clone()
	replaced := false
	for i := range s.Components {
		if s.Components[i].ID == c.ID {
			s.Components[i] = c
			replaced = true
			break
		}
	}
	if !replaced {
		s.Components = append(s.Components, c)
	}
	s.UpdatedAt = time.Now().UTC()
	m.studies[studyID] = s
	return nil
}

func (m *Memory) DeleteComponent(_ context.Context, studyID, componentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.studies[studyID]
	if !ok {
		return study.ErrStudyNotFound
	}
	for i := range s.Components {
		if s.Components[i].ID == componentID {
			s = s.Clone()
			s.Components = append(s.Components[:i], s.Components[i+1:]...)
			s.UpdatedAt = time.Now().UTC()
			m.studies[studyID] = s
			return nil
		}
	}
	return study.ErrComponentNotFound
}

func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.studies = make(map[string]study.Study)
	return nil
}
