package storage

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/jwebster45206/timequest/pkg/hero"
)

// MemoryRepository implements ProfileRepository in memory, for tests
// and the local console client. Profiles are stored as copies so
// callers never share state with the repository.
type MemoryRepository struct {
	mu       sync.RWMutex
	profiles map[string]*hero.Profile
}

var _ ProfileRepository = (*MemoryRepository)(nil)

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{profiles: make(map[string]*hero.Profile)}
}

func (m *MemoryRepository) Ping(ctx context.Context) error { return nil }

func (m *MemoryRepository) Close() error { return nil }

func (m *MemoryRepository) GetProfile(ctx context.Context, userID string) (*hero.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[userID]
	if !ok {
		return nil, nil
	}
	return copyProfile(p), nil
}

func (m *MemoryRepository) SaveProfile(ctx context.Context, p *hero.Profile) error {
	p.UpdatedAt = time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.ID] = copyProfile(p)
	return nil
}

// copyProfile round-trips through JSON so nested state (the active
// quest) is copied too.
func copyProfile(p *hero.Profile) *hero.Profile {
	data, err := json.Marshal(p)
	if err != nil {
		cp := *p
		return &cp
	}
	var cp hero.Profile
	if err := json.Unmarshal(data, &cp); err != nil {
		cp = *p
	}
	return &cp
}
