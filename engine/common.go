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
	"github.com/czcorpus/corpstat/freqs"
	"github.com/czcorpus/corpstat/kwic"
	"github.com/czcorpus/corpstat/tokenizer"
)

const (
	DefaultWindowSize = kwic.DefaultWindowSize
	DefaultNgramSize  = 3
	DefaultMinFreq    = 2
	DefaultSpan       = 5
)

// CorpusRecord contains a corpus text along with all
// the structures derived from it. A record is never modified
// once created - re-processing a corpus creates a new record.
type CorpusRecord struct {
	Name          string               `json:"name"`
	Text          string               `json:"-"`
	Tokens        []string             `json:"-"`
	Sentences     []tokenizer.Sentence `json:"-"`
	Index         kwic.InvertedIndex   `json:"-"`
	Profile       *freqs.Profile       `json:"-"`
	WordCount     int                  `json:"wordCount"`
	SentenceCount int                  `json:"sentenceCount"`
	TypeCount     int                  `json:"typeCount"`

	// revision distinguishes records of the same name
	// created by different processing calls
	revision uint64
}

// Stats returns summary statistics of the corpus
func (rec *CorpusRecord) Stats() *CorpusStats {
	return &CorpusStats{
		Name:       rec.Name,
		Tokens:     rec.Profile.TokenCount,
		Types:      rec.Profile.Types,
		TTR:        rec.Profile.TTR,
		MATTR:      rec.Profile.MATTR,
		HapaxCount: rec.Profile.HapaxCount,
		HapaxRatio: rec.Profile.HapaxRatio,
		ZipfFit:    rec.Profile.ZipfFit,
		Sentences:  rec.SentenceCount,
	}
}

// NewCorpusRecord tokenizes text and builds all the derived
// structures. The result depends only on the arguments.
func NewCorpusRecord(name, text string) *CorpusRecord {
	tc := tokenizer.TokenizeCorpus(text)
	profile := freqs.BuildProfile(tc.Tokens)
	return &CorpusRecord{
		Name:          name,
		Text:          text,
		Tokens:        tc.Tokens,
		Sentences:     tc.Sentences,
		Index:         kwic.BuildIndex(tc.Tokens),
		Profile:       profile,
		WordCount:     len(tc.Tokens),
		SentenceCount: len(tc.Sentences),
		TypeCount:     profile.Types,
	}
}

// CorpusStats is a summary of corpus frequency statistics
type CorpusStats struct {
	Name       string  `json:"name"`
	Tokens     int     `json:"tokens"`
	Types      int     `json:"types"`
	TTR        float64 `json:"ttr"`
	MATTR      float64 `json:"mattr"`
	HapaxCount int     `json:"hapaxCount"`
	HapaxRatio float64 `json:"hapaxRatio"`
	ZipfFit    float64 `json:"zipfFit"`
	Sentences  int     `json:"sentences"`
}
