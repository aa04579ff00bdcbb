package storage

import (
	"sort"
	"sync"

	"github.com/oxygenesis/signchain/internal/domain"
)

type entry struct {
	lock sync.Mutex // held for a whole chain step
	dev  *domain.Device
}

// Memory is an in-process Repository. Each device owns its own lock; the
// index lock only guards the id -> entry map and record swaps.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

func NewMemory() *Memory { return &Memory{entries: make(map[string]*entry)} }

func (m *Memory) Create(dev *domain.Device) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[dev.ID]; ok {
		return domain.ErrAlreadyExists
	}
	m.entries[dev.ID] = &entry{dev: dev.Clone()}
	return nil
}

func (m *Memory) FindByID(id string) (*domain.Device, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return e.dev.Clone(), nil
}

func (m *Memory) Update(dev *domain.Device) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[dev.ID]
	if !ok {
		return domain.ErrNotFound
	}
	e.dev = dev.Clone()
	return nil
}

func (m *Memory) List() ([]*domain.Device, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Device, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.dev.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) WithDeviceLock(id string, fn func() error) error {
	m.mu.RLock()
	e, ok := m.entries[id]
	m.mu.RUnlock()
	if !ok {
		return domain.ErrNotFound
	}
	e.lock.Lock()
	defer e.lock.Unlock()
	return fn()
}

var _ Repository = (*Memory)(nil)
