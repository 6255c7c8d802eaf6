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

// Package freqs computes type/token statistics of a tokenized corpus.
package freqs

import (
	"math"
	"sort"
	"strings"
)

const (
	// MATTRWindow is the maximum size of the MATTR sliding window
	MATTRWindow = 500

	// minMATTRWindow - for smaller windows, MATTR falls back to TTR
	minMATTRWindow = 10

	// ZipfMaxRank limits the number of ranked words used for Zipf fit
	ZipfMaxRank = 1000

	// zipfMinTypes - Zipf fit requires more distinct words than this
	zipfMinTypes = 10

	// TopWordsSize is the size of the retained top frequency list
	TopWordsSize = 50
)

// WordCount is a word along with its absolute frequency
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// WordFreq is a word with its absolute and relative frequency
type WordFreq struct {
	Word    string  `json:"word"`
	Count   int     `json:"count"`
	RelFreq float64 `json:"relFreq"`
}

// Profile contains frequency statistics of a token sequence.
// All words are lowercased.
type Profile struct {
	Freq       map[string]int `json:"-"`
	Types      int            `json:"types"`
	TokenCount int            `json:"tokenCount"`
	TTR        float64        `json:"ttr"`
	MATTR      float64        `json:"mattr"`
	HapaxCount int            `json:"hapaxCount"`
	HapaxRatio float64        `json:"hapaxRatio"`
	ZipfFit    float64        `json:"zipfFit"`

	// TopWords contains up to TopWordsSize most frequent words
	TopWords []WordFreq `json:"topWords"`

	// Sorted is the complete frequency-descending list.
	// Words with equal counts keep the order of their first
	// occurrence in the corpus.
	Sorted []WordCount `json:"-"`
}

// Count returns the frequency of a (lowercase) word
func (p *Profile) Count(word string) int {
	return p.Freq[word]
}

// BuildProfile computes frequency statistics of tokens.
// The function is total - an empty input yields a zero profile.
func BuildProfile(tokens []string) *Profile {
	lcTokens := make([]string, len(tokens))
	freq := make(map[string]int)
	order := make([]string, 0, len(tokens)/4)
	for i, t := range tokens {
		lc := strings.ToLower(t)
		lcTokens[i] = lc
		if _, ok := freq[lc]; !ok {
			order = append(order, lc)
		}
		freq[lc]++
	}
	ans := &Profile{
		Freq:       freq,
		Types:      len(freq),
		TokenCount: len(tokens),
	}
	if ans.TokenCount > 0 {
		ans.TTR = float64(ans.Types) / float64(ans.TokenCount)
	}
	for _, cnt := range freq {
		if cnt == 1 {
			ans.HapaxCount++
		}
	}
	if ans.Types > 0 {
		ans.HapaxRatio = float64(ans.HapaxCount) / float64(ans.Types)
	}
	ans.MATTR = movingAverageTTR(lcTokens, ans.TTR)

	ans.Sorted = make([]WordCount, len(order))
	for i, w := range order {
		ans.Sorted[i] = WordCount{Word: w, Count: freq[w]}
	}
	sort.SliceStable(
		ans.Sorted,
		func(i, j int) bool {
			return ans.Sorted[i].Count > ans.Sorted[j].Count
		},
	)
	top := ans.Sorted
	if len(top) > TopWordsSize {
		top = top[:TopWordsSize]
	}
	ans.TopWords = make([]WordFreq, len(top))
	for i, wc := range top {
		ans.TopWords[i] = WordFreq{
			Word:    wc.Word,
			Count:   wc.Count,
			RelFreq: float64(wc.Count) / float64(ans.TokenCount),
		}
	}
	ans.ZipfFit = zipfFit(ans.Sorted)
	return ans
}

func movingAverageTTR(lcTokens []string, ttr float64) float64 {
	size := len(lcTokens)
	window := size / 2
	if window > MATTRWindow {
		window = MATTRWindow
	}
	if window <= minMATTRWindow {
		return ttr
	}
	step := window / 5
	if step < 1 {
		step = 1
	}
	var sum float64
	var numWindows int
	types := make(map[string]struct{}, window)
	for i := 0; i <= size-window; i += step {
		clear(types)
		for _, t := range lcTokens[i : i+window] {
			types[t] = struct{}{}
		}
		sum += float64(len(types)) / float64(window)
		numWindows++
	}
	if numWindows == 0 {
		return ttr
	}
	return sum / float64(numWindows)
}

func zipfFit(sorted []WordCount) float64 {
	if len(sorted) <= zipfMinTypes {
		return 0
	}
	size := len(sorted)
	if size > ZipfMaxRank {
		size = ZipfMaxRank
	}
	logRanks := make([]float64, size)
	logFreqs := make([]float64, size)
	for i := 0; i < size; i++ {
		logRanks[i] = math.Log(float64(i + 1))
		logFreqs[i] = math.Log(float64(sorted[i].Count))
	}
	return math.Abs(pearson(logRanks, logFreqs))
}

func pearson(x, y []float64) float64 {
	n := len(x)
	if n < 2 {
		return 0
	}
	var meanX, meanY float64
	for i := 0; i < n; i++ {
		meanX += x[i]
		meanY += y[i]
	}
	meanX /= float64(n)
	meanY /= float64(n)
	var num, denX, denY float64
	for i := 0; i < n; i++ {
		dx := x[i] - meanX
		dy := y[i] - meanY
		num += dx * dy
		denX += dx * dx
		denY += dy * dy
	}
	den := math.Sqrt(denX * denY)
	if den == 0 {
		return 0
	}
	return num / den
}
