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

// Package kwic provides a positional inverted index and
// keyword-in-context concordance search on top of it.
package kwic

import (
	"strings"
)

const (
	DefaultWindowSize = 7
)

// InvertedIndex maps a lowercase word to ascending
// positions of its occurrences.
type InvertedIndex map[string][]int

// Freq returns the number of occurrences of a word
func (idx InvertedIndex) Freq(word string) int {
	return len(idx[strings.ToLower(word)])
}

// BuildIndex indexes tokens in a single left-to-right pass
// so positions are always ascending.
func BuildIndex(tokens []string) InvertedIndex {
	idx := make(InvertedIndex)
	for i, t := range tokens {
		lc := strings.ToLower(t)
		idx[lc] = append(idx[lc], i)
	}
	return idx
}

// Line is a single concordance (KWIC) line
type Line struct {
	Position int    `json:"position"`
	Left     string `json:"left"`
	Keyword  string `json:"keyword"`
	Right    string `json:"right"`
}

// Search returns one line for each occurrence of keyword
// (case-insensitive) in ascending position order.
// The left and right contexts contain up to windowSize tokens
// clipped at corpus boundaries.
func Search(tokens []string, idx InvertedIndex, keyword string, windowSize int) []*Line {
	positions, ok := idx[strings.ToLower(keyword)]
	if !ok {
		return []*Line{}
	}
	if windowSize < 0 {
		windowSize = 0
	}
	ans := make([]*Line, len(positions))
	for i, pos := range positions {
		leftStart := max(0, pos-windowSize)
		rightEnd := min(len(tokens), pos+windowSize+1)
		ans[i] = &Line{
			Position: pos,
			Left:     strings.Join(tokens[leftStart:pos], " "),
			Keyword:  tokens[pos],
			Right:    strings.Join(tokens[pos+1:rightEnd], " "),
		}
	}
	return ans
}
