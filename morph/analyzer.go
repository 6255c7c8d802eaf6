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

// Package morph implements a rule-based morphological analyzer
// decomposing English words into prefixes, a root and suffixes
// using static affix tables and a closed set of roots.
//
// Surface forms of parts concatenate to the analyzed word under
// two orthographic rules: a root's final `e` is dropped before
// a suffix (make + ing = making) and a root's final `y` becomes
// `i` before a suffix (happy + ness = happiness).
package morph

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

const (
	// MaxDepth limits the number of stripped affixes
	MaxDepth = 5

	minWordLength     = 3
	minFallbackRoot   = 3
	maxFallbackRoot   = 4
	minAffixRemainder = 2

	rootGloss = "base"
)

var lettersOnly = regexp.MustCompile(`^[a-z]+$`)

type PartType string

const (
	PartPrefix PartType = "prefix"
	PartRoot   PartType = "root"
	PartSuffix PartType = "suffix"
)

// Part is a single morpheme of an analyzed word
type Part struct {
	Form  string   `json:"form"`
	Type  PartType `json:"type"`
	Gloss string   `json:"gloss"`
}

// Analysis is an ordered list of prefixes, a root and suffixes
type Analysis []Part

// Root returns the root of the analysis
func (an Analysis) Root() string {
	for _, p := range an {
		if p.Type == PartRoot {
			return p.Form
		}
	}
	return ""
}

func (an Analysis) String() string {
	forms := make([]string, len(an))
	for i, p := range an {
		forms[i] = p.Form
	}
	return strings.Join(forms, "-")
}

type parseState struct {
	stem     string
	prefixes []Part
	suffixes []Part
	depth    int
}

func (st parseState) complete(root string) Analysis {
	ans := make(Analysis, 0, len(st.prefixes)+len(st.suffixes)+1)
	ans = append(ans, st.prefixes...)
	ans = append(ans, Part{Form: root, Type: PartRoot, Gloss: rootGloss})
	return append(ans, st.suffixes...)
}

// Analyzer decomposes words using its affix tables and root set.
// It is immutable and safe for concurrent use.
type Analyzer struct {
	prefixes []Prefix
	suffixes []Suffix
	roots    map[string]struct{}
}

func (a *Analyzer) isRoot(s string) bool {
	_, ok := a.roots[s]
	return ok
}

// terminalRoot tests whether the state's stem can be
// taken as a root and returns the root form.
func (a *Analyzer) terminalRoot(st parseState) (string, bool) {
	if a.isRoot(st.stem) {
		return st.stem, true
	}
	if len(st.suffixes) > 0 && strings.HasSuffix(st.stem, "i") {
		if yForm := st.stem[:len(st.stem)-1] + "y"; a.isRoot(yForm) {
			return yForm, true
		}
	}
	if size := utf8.RuneCountInString(st.stem); size >= minFallbackRoot && size <= maxFallbackRoot {
		return st.stem, true
	}
	return "", false
}

// expand returns successor states in the exploration order:
// suffixes first, then prefixes, both in table order
func (a *Analyzer) expand(st parseState) []parseState {
	ans := make([]parseState, 0, 4)
	stemSize := utf8.RuneCountInString(st.stem)
	for _, suff := range a.suffixes {
		if !strings.HasSuffix(st.stem, suff.Form) || stemSize <= len(suff.Form)+minAffixRemainder {
			continue
		}
		stem := st.stem[:len(st.stem)-len(suff.Form)]
		if a.isRoot(stem+"e") && !a.isRoot(stem) {
			stem += "e"
		}
		if utf8.RuneCountInString(stem) < minWordLength {
			continue
		}
		suffixes := make([]Part, 0, len(st.suffixes)+1)
		suffixes = append(suffixes, Part{Form: suff.Form, Type: PartSuffix, Gloss: suff.Gloss})
		ans = append(ans, parseState{
			stem:     stem,
			prefixes: st.prefixes,
			suffixes: append(suffixes, st.suffixes...),
			depth:    st.depth + 1,
		})
	}
	for _, pref := range a.prefixes {
		if !strings.HasPrefix(st.stem, pref.Form) || stemSize <= len(pref.Form)+minAffixRemainder {
			continue
		}
		ans = append(ans, parseState{
			stem:     st.stem[len(pref.Form):],
			prefixes: append(slices.Clip(st.prefixes), Part{Form: pref.Form, Type: PartPrefix, Gloss: pref.Gloss}),
			suffixes: st.suffixes,
			depth:    st.depth + 1,
		})
	}
	return ans
}

func wholeWord(word string) Analysis {
	return Analysis{{Form: word, Type: PartRoot, Gloss: rootGloss}}
}

// Analyze decomposes a word. All decompositions reachable within
// MaxDepth stripped affixes are explored depth-first and the one
// with the most parts wins. From equally long decompositions,
// the first one found is returned. Words shorter than 3 characters
// and words with no decomposition are returned as a single root.
func (a *Analyzer) Analyze(word string) Analysis {
	lc := strings.ToLower(word)
	if utf8.RuneCountInString(lc) < minWordLength {
		return wholeWord(word)
	}
	var best Analysis
	stack := []parseState{{stem: lc}}
	for len(stack) > 0 {
		st := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if st.depth > MaxDepth {
			continue
		}
		if root, ok := a.terminalRoot(st); ok {
			if parse := st.complete(root); len(parse) > len(best) {
				best = parse
			}
			continue
		}
		next := a.expand(st)
		for i := len(next) - 1; i >= 0; i-- {
			stack = append(stack, next[i])
		}
	}
	if best == nil {
		return wholeWord(word)
	}
	return best
}

// AnalyzeCorpus analyzes distinct lowercase alphabetic words
// (at least 3 letters long) of a token sequence.
func (a *Analyzer) AnalyzeCorpus(tokens []string) map[string]Analysis {
	ans := make(map[string]Analysis)
	for _, t := range tokens {
		lc := strings.ToLower(t)
		if _, ok := ans[lc]; ok {
			continue
		}
		if len(lc) >= minWordLength && lettersOnly.MatchString(lc) {
			ans[lc] = a.Analyze(lc)
		}
	}
	return ans
}

// NewCustomAnalyzer creates an analyzer with custom tables.
// The order of affixes affects the results.
func NewCustomAnalyzer(prefixes []Prefix, suffixes []Suffix, roots []string) *Analyzer {
	rootSet := make(map[string]struct{}, len(roots))
	for _, r := range roots {
		rootSet[r] = struct{}{}
	}
	return &Analyzer{
		prefixes: slices.Clone(prefixes),
		suffixes: slices.Clone(suffixes),
		roots:    rootSet,
	}
}

// NewAnalyzer creates an analyzer with the built-in English tables
func NewAnalyzer() *Analyzer {
	return NewCustomAnalyzer(defaultPrefixes, defaultSuffixes, defaultRoots)
}

var defaultAnalyzer = NewAnalyzer()

// Analyze decomposes a word using the built-in English tables
func Analyze(word string) Analysis {
	return defaultAnalyzer.Analyze(word)
}
