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

// Package ngrams extracts contiguous word sequences and
// scores them by their association strength.
package ngrams

import (
	"math"
	"sort"
	"strings"

	"github.com/czcorpus/corpstat/colls"
)

const (
	DefaultSize    = 3
	DefaultMinFreq = 2

	// MaxResults is the maximum number of returned n-grams
	MaxResults = 100
)

// Ngram is an n-gram along with its frequency and
// association scores.
//
// Note that LogLikelihood is a simplified
// 2 * count * ln(P(gram) / P(independent)) score,
// not the full multi-way G2 statistic.
type Ngram struct {
	Gram          string   `json:"gram"`
	Words         []string `json:"words"`
	Count         int      `json:"count"`
	PMI           float64  `json:"pmi"`
	LogLikelihood float64  `json:"logLikelihood"`
	RelFreq       float64  `json:"relFreq"`
}

type NgramList []*Ngram

func (nlist NgramList) Cut(maxItems int) NgramList {
	if len(nlist) > maxItems {
		return nlist[:maxItems]
	}
	return nlist
}

// Bigram is an adjacent word pair with a full set of association
// scores (unrounded)
type Bigram struct {
	Bigram string  `json:"bigram"`
	W1     string  `json:"w1"`
	W2     string  `json:"w2"`
	Count  int     `json:"count"`
	MI     float64 `json:"mi"`
	MI3    float64 `json:"mi3"`
	TScore float64 `json:"tscore"`
	Dice   float64 `json:"dice"`
}

func lowercased(tokens []string) ([]string, map[string]int) {
	ans := make([]string, len(tokens))
	unigrams := make(map[string]int)
	for i, t := range tokens {
		ans[i] = strings.ToLower(t)
		unigrams[ans[i]]++
	}
	return ans, unigrams
}

type gramCounter struct {
	start int
	count int
}

// Extract counts all n-grams of size n and scores those occurring
// at least minFreq times. Result is sorted by PMI (descending, ties
// in order of first occurrence) and cut to MaxResults.
func Extract(tokens []string, n, minFreq int) NgramList {
	corpusSize := len(tokens)
	if n < 1 || corpusSize < n {
		return NgramList{}
	}
	lcTokens, unigrams := lowercased(tokens)
	numGrams := corpusSize - n + 1

	counts := make(map[string]*gramCounter)
	order := make([]string, 0, numGrams/2)
	for i := 0; i < numGrams; i++ {
		gram := strings.Join(lcTokens[i:i+n], " ")
		cnt, ok := counts[gram]
		if !ok {
			cnt = &gramCounter{start: i}
			counts[gram] = cnt
			order = append(order, gram)
		}
		cnt.count++
	}

	ans := make(NgramList, 0, len(order)/4)
	for _, gram := range order {
		cnt := counts[gram]
		if cnt.count < minFreq {
			continue
		}
		words := lcTokens[cnt.start : cnt.start+n]
		pGram := float64(cnt.count) / float64(numGrams)
		pIndependent := 1.0
		for _, w := range words {
			pIndependent *= float64(unigrams[w]) / float64(corpusSize)
		}
		ratio := pGram / pIndependent
		ans = append(ans, &Ngram{
			Gram:          gram,
			Words:         append([]string{}, words...),
			Count:         cnt.count,
			PMI:           colls.Round(math.Log2(ratio), 2),
			LogLikelihood: colls.Round(2*float64(cnt.count)*math.Log(ratio), 2),
			RelFreq:       pGram,
		})
	}
	sort.SliceStable(
		ans,
		func(i, j int) bool {
			return ans[j].PMI < ans[i].PMI
		},
	)
	return ans.Cut(MaxResults)
}

// ExtractBigrams scores all adjacent word pairs occurring at
// least minFreq times. Items are returned in order of first
// occurrence, without any cut.
func ExtractBigrams(tokens []string, minFreq int) []*Bigram {
	corpusSize := len(tokens)
	if corpusSize < 2 {
		return []*Bigram{}
	}
	lcTokens, unigrams := lowercased(tokens)
	counts := make(map[string]*gramCounter)
	order := make([]string, 0, corpusSize/2)
	for i := 0; i < corpusSize-1; i++ {
		bg := lcTokens[i] + " " + lcTokens[i+1]
		cnt, ok := counts[bg]
		if !ok {
			cnt = &gramCounter{start: i}
			counts[bg] = cnt
			order = append(order, bg)
		}
		cnt.count++
	}
	ans := make([]*Bigram, 0, len(order)/4)
	for _, bg := range order {
		cnt := counts[bg]
		if cnt.count < minFreq {
			continue
		}
		w1, w2 := lcTokens[cnt.start], lcTokens[cnt.start+1]
		scores, ok := colls.AssocScores(cnt.count, unigrams[w1], unigrams[w2], corpusSize)
		if !ok {
			continue
		}
		ans = append(ans, &Bigram{
			Bigram: bg,
			W1:     w1,
			W2:     w2,
			Count:  cnt.count,
			MI:     scores.MI,
			MI3:    scores.MI3,
			TScore: scores.TScore,
			Dice:   scores.Dice,
		})
	}
	return ans
}
