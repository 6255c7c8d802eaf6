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

package kwic

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortMode specifies ordering of concordance lines
type SortMode string

const (
	SortByPosition  SortMode = "position"
	SortByLeft      SortMode = "left"
	SortByRight     SortMode = "right"
	SortByFrequency SortMode = "frequency"
)

// Validate tests whether the mode is one of the supported ones
func (m SortMode) Validate() bool {
	switch m {
	case SortByPosition, SortByLeft, SortByRight, SortByFrequency:
		return true
	}
	return false
}

func lastWordOf(s string) string {
	words := strings.Split(s, " ")
	return words[len(words)-1]
}

func firstWordOf(s string) string {
	return strings.Split(s, " ")[0]
}

// SortLines returns a sorted copy of lines.
//
// SortByLeft compares the last word of left contexts,
// SortByRight the first word of right contexts (both with English
// collation rules). SortByFrequency keeps the input order.
// Any other value sorts by position.
func SortLines(lines []*Line, mode SortMode) []*Line {
	ans := make([]*Line, len(lines))
	copy(ans, lines)
	switch mode {
	case SortByLeft:
		coll := collate.New(language.English)
		sort.SliceStable(ans, func(i, j int) bool {
			return coll.CompareString(lastWordOf(ans[i].Left), lastWordOf(ans[j].Left)) < 0
		})
	case SortByRight:
		coll := collate.New(language.English)
		sort.SliceStable(ans, func(i, j int) bool {
			return coll.CompareString(firstWordOf(ans[i].Right), firstWordOf(ans[j].Right)) < 0
		})
	case SortByFrequency:
		// input order is kept
	default:
		sort.SliceStable(ans, func(i, j int) bool {
			return ans[i].Position < ans[j].Position
		})
	}
	return ans
}
