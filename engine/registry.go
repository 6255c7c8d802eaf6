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
	"sort"
	"sync"
)

// Registry holds processed corpora by their names.
// Records are replaced, never mutated, so a reader
// may safely keep a record obtained earlier.
type Registry struct {
	corpora map[string]*CorpusRecord
	mu      sync.RWMutex
}

// Put stores a record, replacing any existing record
// of the same name. It returns true if a record was replaced.
func (r *Registry) Put(rec *CorpusRecord) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, replaced := r.corpora[rec.Name]
	r.corpora[rec.Name] = rec
	return replaced
}

func (r *Registry) Get(name string) (*CorpusRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.corpora[name]
	return rec, ok
}

// Remove deletes a record and returns true if it existed
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.corpora[name]
	delete(r.corpora, name)
	return ok
}

// Names returns alphabetically sorted names of all corpora
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ans := make([]string, 0, len(r.corpora))
	for name := range r.corpora {
		ans = append(ans, name)
	}
	sort.Strings(ans)
	return ans
}

func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.corpora)
}

func NewRegistry() *Registry {
	return &Registry{
		corpora: make(map[string]*CorpusRecord),
	}
}
