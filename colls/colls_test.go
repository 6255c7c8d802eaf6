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

package colls

import (
	"fmt"
	"math"
	"strings"
	"testing"
)

func TestComputeSingleCollocate(t *testing.T) {
	tokens := strings.Fields("a b c A b d a e")
	ans := Compute(tokens, "a", 1, 2)
	if len(ans) != 1 {
		t.Fatalf("expected single collocate, got %d", len(ans))
	}
	c := ans[0]
	expected := CollocatePair{
		Node:          "a",
		Word:          "b",
		Observed:      2,
		Expected:      0.75,
		MI:            1.42,
		MI3:           3.42,
		TScore:        0.88,
		Dice:          0.8,
		LogLikelihood: 5.18,
		Freq:          2,
	}
	if *c != expected {
		t.Errorf("got %+v, want %+v", *c, expected)
	}
}

func TestComputeOrdering(t *testing.T) {
	tokens := strings.Fields("the cat sat on the mat the cat ate the rat and the dog sat")
	ans := Compute(tokens, "The", 1, 2)
	if len(ans) != 2 {
		t.Fatalf("expected 2 collocates, got %d", len(ans))
	}
	if ans[0].Word != "mat" || ans[0].MI != 2.58 || ans[0].Dice != 0.667 {
		t.Errorf("unexpected first collocate %+v", *ans[0])
	}
	if ans[1].Word != "cat" || ans[1].MI != 1.58 || ans[1].Expected != 0.67 {
		t.Errorf("unexpected second collocate %+v", *ans[1])
	}
}

func TestComputeTiesKeepDiscoveryOrder(t *testing.T) {
	tokens := strings.Fields("Red wine and red roses and white wine and red wine")
	ans := Compute(tokens, "red", 2, 2)
	if len(ans) != 2 {
		t.Fatalf("expected 2 collocates, got %d", len(ans))
	}
	if ans[0].Word != "wine" || ans[1].Word != "and" {
		t.Errorf("unexpected order %s, %s", ans[0].Word, ans[1].Word)
	}
}

func TestComputeMIRecomputation(t *testing.T) {
	tokens := strings.Fields(
		"language is a system . the study of language is linguistics . " +
			"a language is a system of signs . the system of a language changes",
	)
	corpusSize := len(tokens)
	freqs := make(map[string]int)
	for _, tk := range tokens {
		freqs[strings.ToLower(tk)]++
	}
	ans := Compute(tokens, "language", DefaultSpan, DefaultMinFreq)
	if len(ans) == 0 {
		t.Fatal("expected some collocates")
	}
	for _, c := range ans {
		if c.Word == "language" {
			t.Error("node must not be its own collocate")
		}
		if c.Observed < DefaultMinFreq {
			t.Errorf("collocate %s below min. frequency", c.Word)
		}
		expected := float64(freqs["language"]) * float64(c.Freq) / float64(corpusSize)
		if math.Abs(c.Expected-expected) > 0.01 {
			t.Errorf("%s: expected %f, got %f", c.Word, expected, c.Expected)
		}
		mi := math.Log2(float64(c.Observed) / expected)
		if math.Abs(c.MI-mi) > 0.01 {
			t.Errorf("%s: MI %f, got %f", c.Word, mi, c.MI)
		}
	}
	for i := 1; i < len(ans); i++ {
		if ans[i].MI > ans[i-1].MI {
			t.Errorf("collocates not sorted by MI at %d", i)
		}
	}
}

func TestComputeMissingNode(t *testing.T) {
	if ans := Compute(strings.Fields("a b c"), "x", DefaultSpan, DefaultMinFreq); len(ans) != 0 {
		t.Errorf("expected empty result, got %d items", len(ans))
	}
	if ans := Compute([]string{}, "x", DefaultSpan, DefaultMinFreq); len(ans) != 0 {
		t.Errorf("expected empty result, got %d items", len(ans))
	}
}

func TestComputeCut(t *testing.T) {
	tokens := make([]string, 0, 400)
	for i := 0; i < 100; i++ {
		tokens = append(tokens, "node", fmt.Sprintf("w%d", i), "node", fmt.Sprintf("w%d", i))
	}
	ans := Compute(tokens, "node", 1, 1)
	if len(ans) != MaxResults {
		t.Errorf("expected %d collocates, got %d", MaxResults, len(ans))
	}
}

func TestRound(t *testing.T) {
	testCases := []struct {
		v        float64
		places   int
		expected float64
	}{
		{v: 1.005001, places: 2, expected: 1.01},
		{v: 2.5, places: 0, expected: 3},
		{v: -2.5, places: 0, expected: -2},
		{v: 0.6666666, places: 3, expected: 0.667},
	}
	for _, tc := range testCases {
		if got := Round(tc.v, tc.places); got != tc.expected {
			t.Errorf("Round(%f, %d) = %f, want %f", tc.v, tc.places, got, tc.expected)
		}
	}
}
