package cache

import (
	"context"
	"sync"

	"github.com/simaogato/savingsplan-backend/internal/domain"
)

// NoopPlanCache never stores anything. Used by one-shot callers such as the CLI.
type NoopPlanCache struct{}

func NewNoopPlanCache() *NoopPlanCache { return &NoopPlanCache{} }

func (NoopPlanCache) Get(context.Context, string) (*domain.Plan, bool) { return nil, false }
func (NoopPlanCache) Set(context.Context, string, *domain.Plan) error { return nil }

// DefaultMaxEntries caps MemoryPlanCache when no size is given
const DefaultMaxEntries = 10000

// MemoryPlanCache is a bounded in-process cache. Once full, the oldest
// inserted plan is evicted first. It backs the server when Redis is not configured.
type MemoryPlanCache struct {
	mu         sync.RWMutex
	maxEntries int
	data       map[string]*domain.Plan
	order      []string
}

// NewMemoryPlanCache creates a cache holding at most maxEntries plans.
// maxEntries <= 0 means DefaultMaxEntries.
func NewMemoryPlanCache(maxEntries int) *MemoryPlanCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryPlanCache{
		maxEntries: maxEntries,
		data:       make(map[string]*domain.Plan, maxEntries),
	}
}

func (m *MemoryPlanCache) Get(_ context.Context, key string) (*domain.Plan, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	plan, ok := m.data[key]
	return plan, ok
}

func (m *MemoryPlanCache) Set(_ context.Context, key string, plan *domain.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.data[key]; !exists {
		for len(m.order) >= m.maxEntries {
			oldest := m.order[0]
			m.order = m.order[1:]
			delete(m.data, oldest)
		}
		m.order = append(m.order, key)
	}
	m.data[key] = plan
	return nil
}

// Len reports how many plans are cached
func (m *MemoryPlanCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
