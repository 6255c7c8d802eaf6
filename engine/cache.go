// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Institute of the Czech National Corpus,
//                Faculty of Arts, Charles University
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package engine

import (
	"fmt"

	"github.com/czcorpus/corpstat/metrics"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultCacheSize = 50
)

type cacheKey struct {
	corpus   string
	revision uint64
	op       string
	params   string
}

func (k cacheKey) String() string {
	return fmt.Sprintf("%q@%d/%q?%q", k.corpus, k.revision, k.op, k.params)
}

// ResultCache is an LRU cache of derived per-corpus results.
// Values stored in the cache are shared between callers
// and must be treated as read-only.
type ResultCache struct {
	items   *lru.Cache[cacheKey, any]
	group   singleflight.Group
	metrics *metrics.Metrics
}

// GetOrCompute returns a cached value for the key or calls fn
// to produce it. Concurrent misses on the same key call fn only once.
// A record's revision is part of the key so results of a replaced
// record are never served.
func (c *ResultCache) GetOrCompute(rec *CorpusRecord, op, params string, fn func() any) any {
	key := cacheKey{corpus: rec.Name, revision: rec.revision, op: op, params: params}
	if v, ok := c.items.Get(key); ok {
		c.metrics.CacheHit()
		return v
	}
	c.metrics.CacheMiss()
	v, _, _ := c.group.Do(key.String(), func() (any, error) {
		if v, ok := c.items.Get(key); ok {
			return v, nil
		}
		ans := fn()
		c.items.Add(key, ans)
		return ans, nil
	})
	return v
}

// InvalidateCorpus removes all the entries of a corpus
// (of any revision).
func (c *ResultCache) InvalidateCorpus(corpus string) int {
	var removed int
	for _, k := range c.items.Keys() {
		if k.corpus == corpus && c.items.Remove(k) {
			removed++
		}
	}
	if removed > 0 {
		log.Debug().Str("corpus", corpus).Int("entries", removed).Msg("invalidated cached results")
	}
	return removed
}

func (c *ResultCache) Len() int {
	return c.items.Len()
}

// NewResultCache creates a cache holding at most size entries.
// Non-positive size means DefaultCacheSize. The metrics argument
// may be nil.
func NewResultCache(size int, m *metrics.Metrics) *ResultCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	items, err := lru.New[cacheKey, any](size)
	if err != nil {
		// lru.New fails only on non-positive size
		panic(err)
	}
	return &ResultCache{
		items:   items,
		metrics: m,
	}
}
