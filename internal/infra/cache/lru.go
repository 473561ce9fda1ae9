package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	domain "github.com/bryanwahyu/contract-compliance/internal/domain/analysis"
)

const defaultSize = 128

// ClauseLRU is a bounded, process-lifetime clause cache. Identical contract
// text maps to one key, so repeated analysis does not re-invoke the model;
// least-recently-used entries are evicted once the bound is hit.
type ClauseLRU struct {
	inner *lru.Cache[string, []domain.Clause]
}

func NewClauseLRU(size int) (*ClauseLRU, error) {
	if size <= 0 {
		size = defaultSize
	}
	inner, err := lru.New[string, []domain.Clause](size)
	if err != nil {
		return nil, err
	}
	return &ClauseLRU{inner: inner}, nil
}

func (c *ClauseLRU) Get(key string) ([]domain.Clause, bool) {
	return c.inner.Get(key)
}

func (c *ClauseLRU) Add(key string, clauses []domain.Clause) {
	c.inner.Add(key, clauses)
}

// Len reports the number of cached contracts.
func (c *ClauseLRU) Len() int {
	return c.inner.Len()
}
