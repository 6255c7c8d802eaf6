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
	"strings"
	"sync/atomic"
	"time"

	"github.com/czcorpus/corpstat/colls"
	"github.com/czcorpus/corpstat/freqs"
	"github.com/czcorpus/corpstat/kwic"
	"github.com/czcorpus/corpstat/metrics"
	"github.com/czcorpus/corpstat/morph"
	"github.com/czcorpus/corpstat/ngrams"
	"github.com/rs/zerolog/log"
)

const (
	opConcordance = "concordance"
	opNgrams      = "ngrams"
	opBigrams     = "bigrams"
	opColls       = "collocations"
	opMorphology  = "morphology"
)

// Pipeline owns processed corpora and answers all the analytical
// queries over them. Unknown corpora produce empty results, never
// errors. Pipeline is safe for concurrent use.
type Pipeline struct {
	registry  *Registry
	cache     *ResultCache
	analyzer  *morph.Analyzer
	metrics   *metrics.Metrics
	revisions atomic.Uint64
}

// ProcessCorpus tokenizes and indexes text and stores the result
// under name, replacing any existing corpus of the same name.
func (p *Pipeline) ProcessCorpus(name, text string) *CorpusRecord {
	t0 := time.Now()
	rec := NewCorpusRecord(name, text)
	rec.revision = p.revisions.Add(1)
	replaced := p.registry.Put(rec)
	if replaced {
		p.cache.InvalidateCorpus(name)
	}
	p.metrics.CorpusProcessed(rec.WordCount)
	p.metrics.SetCorpora(p.registry.Size())
	log.Info().
		Str("corpus", name).
		Int("tokens", rec.WordCount).
		Int("types", rec.TypeCount).
		Int("sentences", rec.SentenceCount).
		Bool("replaced", replaced).
		Dur("procTime", time.Since(t0)).
		Msg("processed corpus")
	return rec
}

// GetProcessedCorpus returns a processed corpus or nil
func (p *Pipeline) GetProcessedCorpus(name string) *CorpusRecord {
	rec, ok := p.registry.Get(name)
	if !ok {
		return nil
	}
	return rec
}

// RemoveCorpus removes a corpus along with its cached results.
// It returns false if there was no such corpus.
func (p *Pipeline) RemoveCorpus(name string) bool {
	if !p.registry.Remove(name) {
		return false
	}
	p.cache.InvalidateCorpus(name)
	p.metrics.SetCorpora(p.registry.Size())
	log.Info().Str("corpus", name).Msg("removed corpus")
	return true
}

// ListCorpora returns sorted names of all processed corpora
func (p *Pipeline) ListCorpora() []string {
	return p.registry.Names()
}

// AllCorpora returns all processed corpora sorted by name
func (p *Pipeline) AllCorpora() []*CorpusRecord {
	names := p.registry.Names()
	ans := make([]*CorpusRecord, 0, len(names))
	for _, name := range names {
		if rec, ok := p.registry.Get(name); ok {
			ans = append(ans, rec)
		}
	}
	return ans
}

// GetConcordance returns KWIC lines of keyword in ascending
// position order.
func (p *Pipeline) GetConcordance(name, keyword string, windowSize int) []*kwic.Line {
	rec, ok := p.registry.Get(name)
	if !ok {
		return []*kwic.Line{}
	}
	params := fmt.Sprintf("%s|%d", strings.ToLower(keyword), windowSize)
	ans := p.cache.GetOrCompute(rec, opConcordance, params, func() any {
		return kwic.Search(rec.Tokens, rec.Index, keyword, windowSize)
	})
	return ans.([]*kwic.Line)
}

func (p *Pipeline) GetNgrams(name string, n, minFreq int) ngrams.NgramList {
	rec, ok := p.registry.Get(name)
	if !ok {
		return ngrams.NgramList{}
	}
	params := fmt.Sprintf("%d|%d", n, minFreq)
	ans := p.cache.GetOrCompute(rec, opNgrams, params, func() any {
		return ngrams.Extract(rec.Tokens, n, minFreq)
	})
	return ans.(ngrams.NgramList)
}

func (p *Pipeline) GetBigrams(name string, minFreq int) []*ngrams.Bigram {
	rec, ok := p.registry.Get(name)
	if !ok {
		return []*ngrams.Bigram{}
	}
	ans := p.cache.GetOrCompute(rec, opBigrams, fmt.Sprint(minFreq), func() any {
		return ngrams.ExtractBigrams(rec.Tokens, minFreq)
	})
	return ans.([]*ngrams.Bigram)
}

func (p *Pipeline) GetCollocations(name, node string, span, minFreq int) colls.CollocateList {
	rec, ok := p.registry.Get(name)
	if !ok {
		return colls.CollocateList{}
	}
	params := fmt.Sprintf("%s|%d|%d", strings.ToLower(node), span, minFreq)
	ans := p.cache.GetOrCompute(rec, opColls, params, func() any {
		return colls.Compute(rec.Tokens, node, span, minFreq)
	})
	return ans.(colls.CollocateList)
}

// GetMorphology analyzes a single word. No corpus is involved.
func (p *Pipeline) GetMorphology(word string) morph.Analysis {
	return p.analyzer.Analyze(word)
}

// GetCorpusMorphology analyzes the vocabulary of a corpus
func (p *Pipeline) GetCorpusMorphology(name string) map[string]morph.Analysis {
	rec, ok := p.registry.Get(name)
	if !ok {
		return map[string]morph.Analysis{}
	}
	ans := p.cache.GetOrCompute(rec, opMorphology, "", func() any {
		return p.analyzer.AnalyzeCorpus(rec.Tokens)
	})
	return ans.(map[string]morph.Analysis)
}

// GetFrequencyMatrix compares top words of the named corpora.
// Unknown names are skipped; if none of them resolves, nil is returned.
func (p *Pipeline) GetFrequencyMatrix(names []string) *freqs.GenreMatrix {
	genres := make([]freqs.Genre, 0, len(names))
	for _, name := range names {
		if rec, ok := p.registry.Get(name); ok {
			genres = append(genres, freqs.Genre{Name: name, Profile: rec.Profile})
		}
	}
	if len(genres) == 0 {
		return nil
	}
	return freqs.BuildGenreMatrix(genres)
}

// GetCorpusStats returns corpus statistics or nil for an unknown corpus
func (p *Pipeline) GetCorpusStats(name string) *CorpusStats {
	rec, ok := p.registry.Get(name)
	if !ok {
		return nil
	}
	return rec.Stats()
}

// CompareCorpora returns statistics of the named corpora
// in the order of names, skipping unknown ones.
func (p *Pipeline) CompareCorpora(names []string) []*CorpusStats {
	ans := make([]*CorpusStats, 0, len(names))
	for _, name := range names {
		if st := p.GetCorpusStats(name); st != nil {
			ans = append(ans, st)
		}
	}
	return ans
}

// GetVocabulary returns the most frequent words of a corpus
func (p *Pipeline) GetVocabulary(name string) []freqs.WordFreq {
	rec, ok := p.registry.Get(name)
	if !ok {
		return []freqs.WordFreq{}
	}
	return rec.Profile.TopWords
}

// NewPipeline creates an empty pipeline with a result cache
// of the specified size. The metrics argument may be nil.
func NewPipeline(cacheSize int, m *metrics.Metrics) *Pipeline {
	return &Pipeline{
		registry: NewRegistry(),
		cache:    NewResultCache(cacheSize, m),
		analyzer: morph.NewAnalyzer(),
		metrics:  m,
	}
}
