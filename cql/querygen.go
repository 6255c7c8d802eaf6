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

package cql

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	dfltWordAttr = "word"
)

// QueryGen builds CQL queries a concordancer can use to show
// examples of words, collocations and n-grams found by the engine.
type QueryGen struct {
	WordAttr   string `json:"wordAttr"`
	IgnoreCase bool   `json:"ignoreCase"`
}

func (qg QueryGen) attr() string {
	if qg.WordAttr == "" {
		return dfltWordAttr
	}
	return qg.WordAttr
}

// escape makes a word usable as a literal within
// a (regex based) CQL attribute value.
func escape(word string) string {
	return strings.ReplaceAll(regexp.QuoteMeta(word), `"`, `\"`)
}

func (qg QueryGen) position(word string) string {
	flags := ""
	if qg.IgnoreCase {
		flags = "%c"
	}
	return fmt.Sprintf(`[%s="%s"%s]`, qg.attr(), escape(word), flags)
}

// Word creates a query matching a single word
func (qg QueryGen) Word(word string) string {
	return qg.position(word)
}

// Collocation creates a query matching the node with
// the collocate occurring within +/- span positions
func (qg QueryGen) Collocation(node, collocate string, span int) string {
	return fmt.Sprintf(
		"(meet %s %s -%d %d)",
		qg.position(node), qg.position(collocate), span, span,
	)
}

// Ngram creates a query matching a sequence of words
func (qg QueryGen) Ngram(words []string) string {
	positions := make([]string, len(words))
	for i, w := range words {
		positions[i] = qg.position(w)
	}
	return strings.Join(positions, " ")
}
