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

package source

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tomachalek/vertigo/v5"
)

const (
	sentenceStruct = "s"
)

// TextCollector rebuilds running text out of a vertical file.
// Words are separated by spaces, each closed sentence structure
// ends a line.
type TextCollector struct {
	buff      strings.Builder
	lineStart bool
	numTokens int
}

func (tc *TextCollector) ProcToken(token *vertigo.Token, line int, err error) error {
	if err != nil {
		return err
	}
	if token.Word == "" {
		log.Warn().Int("line", line).Msg("empty token in vertical file, skipping")
		return nil
	}
	if tc.buff.Len() > 0 && !tc.lineStart {
		tc.buff.WriteByte(' ')
	}
	tc.buff.WriteString(token.Word)
	tc.lineStart = false
	tc.numTokens++
	return nil
}

func (tc *TextCollector) ProcStruct(strc *vertigo.Structure, line int, err error) error {
	return err
}

func (tc *TextCollector) ProcStructClose(strc *vertigo.StructureClose, line int, err error) error {
	if err != nil {
		return err
	}
	if strc.Name == sentenceStruct && !tc.lineStart && tc.buff.Len() > 0 {
		tc.buff.WriteByte('\n')
		tc.lineStart = true
	}
	return nil
}

func (tc *TextCollector) String() string {
	return tc.buff.String()
}

func (tc *TextCollector) NumTokens() int {
	return tc.numTokens
}

func loadVertical(path string) (string, error) {
	pc := &vertigo.ParserConf{
		InputFilePath:         path,
		Encoding:              "utf-8",
		StructAttrAccumulator: "comb",
	}
	proc := &TextCollector{}
	if err := vertigo.ParseVerticalFile(pc, proc); err != nil {
		return "", err
	}
	log.Info().Str("path", path).Int("tokens", proc.NumTokens()).Msg("vertical file parsed")
	return proc.String(), nil
}
