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
	"reflect"
	"strings"
	"testing"
)

var exampleTokens = []string{"The", "dog", "ran", ".", "The", "dog", "barked", "."}

func TestBuildIndex(t *testing.T) {
	idx := BuildIndex(exampleTokens)
	if !reflect.DeepEqual(idx["the"], []int{0, 4}) {
		t.Errorf("unexpected positions of 'the': %v", idx["the"])
	}
	if !reflect.DeepEqual(idx["."], []int{3, 7}) {
		t.Errorf("unexpected positions of '.': %v", idx["."])
	}
	if idx.Freq("DOG") != 2 {
		t.Errorf("expected frequency 2 of 'dog'")
	}
	var total int
	for _, pos := range idx {
		total += len(pos)
	}
	if total != len(exampleTokens) {
		t.Errorf("index covers %d positions, expected %d", total, len(exampleTokens))
	}
}

func TestSearch(t *testing.T) {
	idx := BuildIndex(exampleTokens)
	lines := Search(exampleTokens, idx, "DOG", DefaultWindowSize)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	expected := []*Line{
		{Position: 1, Left: "The", Keyword: "dog", Right: "ran . The dog barked ."},
		{Position: 5, Left: "The dog ran . The", Keyword: "dog", Right: "barked ."},
	}
	for i, line := range lines {
		if *line != *expected[i] {
			t.Errorf("line %d: got %+v, want %+v", i, *line, *expected[i])
		}
		if !strings.EqualFold(exampleTokens[line.Position], "dog") {
			t.Errorf("line %d does not point to the keyword", i)
		}
	}
}

func TestSearchNarrowWindow(t *testing.T) {
	idx := BuildIndex(exampleTokens)
	lines := Search(exampleTokens, idx, "ran", 1)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Left != "dog" || lines[0].Right != "." {
		t.Errorf("unexpected context %+v", *lines[0])
	}
	lines = Search(exampleTokens, idx, "the", 0)
	if lines[0].Left != "" || lines[0].Right != "" {
		t.Errorf("expected empty context, got %+v", *lines[0])
	}
}

func TestSearchMissing(t *testing.T) {
	idx := BuildIndex(exampleTokens)
	if lines := Search(exampleTokens, idx, "cat", DefaultWindowSize); len(lines) != 0 {
		t.Errorf("expected no lines, got %d", len(lines))
	}
}

func TestSortLines(t *testing.T) {
	lines := []*Line{
		{Position: 30, Left: "x zebra", Right: "Banana y"},
		{Position: 10, Left: "x Banana", Right: "zebra y"},
		{Position: 20, Left: "apple", Right: "apple"},
	}
	positions := func(ll []*Line) []int {
		ans := make([]int, len(ll))
		for i, l := range ll {
			ans[i] = l.Position
		}
		return ans
	}
	testCases := []struct {
		mode     SortMode
		expected []int
	}{
		{mode: SortByPosition, expected: []int{10, 20, 30}},
		{mode: SortByLeft, expected: []int{20, 10, 30}},
		{mode: SortByRight, expected: []int{20, 30, 10}},
		{mode: SortByFrequency, expected: []int{30, 10, 20}},
		{mode: SortMode("unknown"), expected: []int{10, 20, 30}},
	}
	for _, tc := range testCases {
		t.Run(string(tc.mode), func(t *testing.T) {
			got := positions(SortLines(lines, tc.mode))
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("got %v, want %v", got, tc.expected)
			}
		})
	}
	if !reflect.DeepEqual(positions(lines), []int{30, 10, 20}) {
		t.Error("SortLines must not modify its input")
	}
}

func TestSortModeValidate(t *testing.T) {
	if !SortByLeft.Validate() || SortMode("foo").Validate() {
		t.Error("unexpected validation result")
	}
}
