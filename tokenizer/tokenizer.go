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

// Package tokenizer splits raw English text into sentences
// and Penn Treebank-like tokens.
package tokenizer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// punctuation is anything except word characters, whitespace,
	// hyphens and apostrophes
	punctuation = regexp.MustCompile(`([^\w\s\-'])`)

	contraction = regexp.MustCompile(`(?i)^(.*?)(n't|'re|'ve|'ll|'d|'s|'m)$`)
)

// abbreviations suppress a sentence boundary when they
// precede `.`, `!` or `?`
var abbreviations = map[string]struct{}{
	"mr": {}, "mrs": {}, "ms": {}, "dr": {}, "prof": {}, "sr": {}, "jr": {},
	"vs": {}, "etc": {}, "inc": {}, "ltd": {}, "dept": {}, "est": {},
	"approx": {}, "govt": {}, "assn": {}, "bros": {}, "corp": {},
	"jan": {}, "feb": {}, "mar": {}, "apr": {}, "jun": {}, "jul": {},
	"aug": {}, "sep": {}, "oct": {}, "nov": {}, "dec": {},
	"st": {}, "ave": {}, "blvd": {}, "i.e": {}, "e.g": {}, "cf": {},
	"al": {}, "ed": {}, "vol": {},
}

// Sentence describes a sentence as a [Start, End) range
// in the global token space of a corpus.
type Sentence struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// Size returns number of tokens in the sentence
func (s Sentence) Size() int {
	return s.End - s.Start
}

// TokenizedCorpus is the result of TokenizeCorpus
type TokenizedCorpus struct {
	Tokens    []string
	Sentences []Sentence
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isBoundaryLookahead(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	if r >= 'A' && r <= 'Z' {
		return true
	}
	switch r {
	case '"', '\'', '“', '”', '(', '[':
		return true
	}
	return false
}

func lastWord(buff string) string {
	words := strings.Fields(buff)
	if len(words) == 0 {
		return ""
	}
	return strings.ToLower(strings.TrimRight(words[len(words)-1], ".!?"))
}

// SegmentSentences scans text left to right and splits it
// at `.`, `!` and `?` unless the preceding word is a known
// abbreviation or the next character cannot start a new sentence.
func SegmentSentences(text string) []string {
	sentences := make([]string, 0, 16)
	var current strings.Builder
	for i := 0; i < len(text); {
		r, width := utf8.DecodeRuneInString(text[i:])
		current.WriteString(text[i : i+width])
		i += width
		if !isTerminator(r) {
			continue
		}
		next, size := utf8.DecodeRuneInString(text[i:])
		if _, isAbbr := abbreviations[lastWord(current.String())]; isAbbr {
			continue
		}
		if size == 0 || isBoundaryLookahead(next) {
			if trimmed := strings.TrimSpace(current.String()); trimmed != "" {
				sentences = append(sentences, trimmed)
			}
			current.Reset()
		}
	}
	if trimmed := strings.TrimSpace(current.String()); trimmed != "" {
		sentences = append(sentences, trimmed)
	}
	return sentences
}

// Tokenize isolates punctuation, splits on whitespace and
// detaches English contraction suffixes (`n't`, `'s`, ...).
func Tokenize(text string) []string {
	words := strings.Fields(punctuation.ReplaceAllString(text, " ${1} "))
	ans := make([]string, 0, len(words)+len(words)/8)
	for _, w := range words {
		m := contraction.FindStringSubmatch(w)
		if m == nil {
			ans = append(ans, w)
			continue
		}
		if m[1] != "" {
			ans = append(ans, m[1])
		}
		ans = append(ans, m[2])
	}
	return ans
}

// TokenizeCorpus segments text into sentences and tokenizes
// each of them. Sentence ranges are contiguous and cover
// the whole token sequence.
func TokenizeCorpus(text string) TokenizedCorpus {
	sents := SegmentSentences(text)
	ans := TokenizedCorpus{
		Tokens:    make([]string, 0, len(text)/5),
		Sentences: make([]Sentence, 0, len(sents)),
	}
	for _, sent := range sents {
		start := len(ans.Tokens)
		ans.Tokens = append(ans.Tokens, Tokenize(sent)...)
		ans.Sentences = append(
			ans.Sentences,
			Sentence{Start: start, End: len(ans.Tokens), Text: sent},
		)
	}
	return ans
}
