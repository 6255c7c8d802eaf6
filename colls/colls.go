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

// Package colls scores collocates of a node word found
// within a symmetric span around its occurrences.
package colls

import (
	"math"
	"sort"
	"strings"
)

const (
	DefaultSpan    = 5
	DefaultMinFreq = 2

	// MaxResults is the maximum number of returned collocates
	MaxResults = 50
)

// Round rounds half up to the specified number of decimal places
func Round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Floor(v*p+0.5) / p
}

// Scores contains association measures of a word pair
type Scores struct {
	Expected float64
	MI       float64
	MI3      float64
	TScore   float64
	Dice     float64
}

// AssocScores computes MI, MI3, T-score and Dice of a pair
// observed `observed` times where the first item occurs
// f1 times and the second one f2 times in a corpus of
// size corpusSize. The returned `ok` is false in case
// the expected frequency is zero.
func AssocScores(observed, f1, f2, corpusSize int) (Scores, bool) {
	if corpusSize == 0 || observed == 0 {
		return Scores{}, false
	}
	o := float64(observed)
	expected := float64(f1) * float64(f2) / float64(corpusSize)
	if expected == 0 {
		return Scores{}, false
	}
	return Scores{
		Expected: expected,
		MI:       math.Log2(o / expected),
		MI3:      math.Log2(o * o * o / expected),
		TScore:   (o - expected) / math.Sqrt(o),
		Dice:     2 * o / float64(f1+f2),
	}, true
}

func logL(o, e float64) float64 {
	if o > 0 && e > 0 {
		return o * math.Log(o/e)
	}
	return 0
}

// LogLikelihood computes G2 of a 2x2 contingency table
// derived from the co-occurrence frequency and marginal
// frequencies of both items.
func LogLikelihood(observed, f1, f2, corpusSize int) float64 {
	if corpusSize == 0 {
		return 0
	}
	n := float64(corpusSize)
	fx, fy := float64(f1), float64(f2)
	o11 := float64(observed)
	o12 := fx - o11
	o21 := fy - o11
	o22 := n - fx - fy + o11
	e11 := fx * fy / n
	e12 := fx * (n - fy) / n
	e21 := (n - fx) * fy / n
	e22 := (n - fx) * (n - fy) / n
	return 2 * (logL(o11, e11) + logL(o12, e12) + logL(o21, e21) + logL(o22, e22))
}

// CollocatePair describes association between a node word
// and one of its collocates
type CollocatePair struct {
	Node          string  `json:"node"`
	Word          string  `json:"word"`
	Observed      int     `json:"observed"`
	Expected      float64 `json:"expected"`
	MI            float64 `json:"mi"`
	MI3           float64 `json:"mi3"`
	TScore        float64 `json:"tscore"`
	Dice          float64 `json:"dice"`
	LogLikelihood float64 `json:"logLikelihood"`
	Freq          int     `json:"freq"`
}

type CollocateList []*CollocatePair

func (clist CollocateList) Cut(maxItems int) CollocateList {
	if len(clist) > maxItems {
		return clist[:maxItems]
	}
	return clist
}

// Compute finds collocates of `node` within +/- span tokens
// of its occurrences. Only candidates co-occurring at least minFreq
// times are scored. The result is sorted by MI (descending,
// ties in order of first co-occurrence) and cut to MaxResults.
func Compute(tokens []string, node string, span, minFreq int) CollocateList {
	lcTokens := make([]string, len(tokens))
	freqs := make(map[string]int)
	for i, t := range tokens {
		lcTokens[i] = strings.ToLower(t)
		freqs[lcTokens[i]]++
	}
	lcNode := strings.ToLower(node)
	if span < 0 {
		span = 0
	}
	corpusSize := len(lcTokens)

	nodePositions := make([]int, 0, freqs[lcNode])
	for i, t := range lcTokens {
		if t == lcNode {
			nodePositions = append(nodePositions, i)
		}
	}
	nodeFreq := len(nodePositions)
	if nodeFreq == 0 {
		return CollocateList{}
	}

	cooc := make(map[string]int)
	order := make([]string, 0, 2*span*nodeFreq)
	for _, pos := range nodePositions {
		for j := max(0, pos-span); j < min(corpusSize, pos+span+1); j++ {
			if j == pos {
				continue
			}
			w := lcTokens[j]
			if _, ok := cooc[w]; !ok {
				order = append(order, w)
			}
			cooc[w]++
		}
	}

	ans := make(CollocateList, 0, len(order))
	for _, word := range order {
		observed := cooc[word]
		if observed < minFreq || word == lcNode {
			continue
		}
		collFreq := freqs[word]
		scores, ok := AssocScores(observed, nodeFreq, collFreq, corpusSize)
		if !ok {
			continue
		}
		ans = append(ans, &CollocatePair{
			Node:          lcNode,
			Word:          word,
			Observed:      observed,
			Expected:      Round(scores.Expected, 2),
			MI:            Round(scores.MI, 2),
			MI3:           Round(scores.MI3, 2),
			TScore:        Round(scores.TScore, 2),
			Dice:          Round(scores.Dice, 3),
			LogLikelihood: Round(LogLikelihood(observed, nodeFreq, collFreq, corpusSize), 2),
			Freq:          collFreq,
		})
	}
	sort.SliceStable(
		ans,
		func(i, j int) bool {
			return ans[j].MI < ans[i].MI
		},
	)
	return ans.Cut(MaxResults)
}
