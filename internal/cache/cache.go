package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"pulsenews/internal/models"
)

// Manager caches read-pipeline responses so repeated fetchnews calls within
// the TTL window do not re-run date parsing over the whole row window. A
// successful ingest that inserted rows flushes it.
type Manager struct {
	cache *cache.Cache
	mu    sync.RWMutex
}

func NewManager(defaultTTL time.Duration) *Manager {
	return &Manager{
		cache: cache.New(defaultTTL, 10*time.Minute),
	}
}

// NewsKey builds the cache key for one fetchnews parameter combination.
func NewsKey(limit, offset int) string {
	return fmt.Sprintf("news:%d:%d", limit, offset)
}

func (m *Manager) GetNews(key string) (*models.NewsResponse, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cached, found := m.cache.Get(key)
	if !found {
		return nil, false
	}
	resp, ok := cached.(*models.NewsResponse)
	return resp, ok
}

func (m *Manager) SetNews(key string, resp *models.NewsResponse, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache.Set(key, resp, ttl)
}

func (m *Manager) Flush() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache.Flush()
}
