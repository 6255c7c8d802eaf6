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
	"fmt"

	"github.com/czcorpus/corpstat/source"
	"github.com/rs/zerolog/log"
)

// CorpusProps describes a corpus to be loaded from a file
// when the server starts.
type CorpusProps struct {
	Name   string        `json:"name"`
	Path   string        `json:"path"`
	Format source.Format `json:"format"`
}

func (conf *CorpusProps) ValidateAndDefaults(confContext string) error {
	if conf.Name == "" {
		return fmt.Errorf("missing `%s.name`", confContext)
	}
	if conf.Path == "" {
		return fmt.Errorf("missing `%s.path`", confContext)
	}
	if conf.Format == "" {
		conf.Format = source.FormatPlain
		log.Warn().Msgf("`%s.format` not set, using default %s", confContext, source.FormatPlain)

	} else if !conf.Format.Validate() {
		return fmt.Errorf("unsupported `%s.format`: %s", confContext, conf.Format)
	}
	return nil
}

type CorporaConf []*CorpusProps

func (cp CorporaConf) GetCorpusProps(corpusID string) *CorpusProps {
	for _, props := range cp {
		if props.Name == corpusID {
			return props
		}
	}
	return nil
}

func (cp CorporaConf) ValidateAndDefaults(confContext string) error {
	seen := make(map[string]struct{}, len(cp))
	for i, props := range cp {
		if err := props.ValidateAndDefaults(fmt.Sprintf("%s[%d]", confContext, i)); err != nil {
			return err
		}
		if _, ok := seen[props.Name]; ok {
			return fmt.Errorf("duplicate corpus `%s` in `%s`", props.Name, confContext)
		}
		seen[props.Name] = struct{}{}
	}
	return nil
}

// ProcessFile loads a corpus text from a file and processes it
func (p *Pipeline) ProcessFile(props *CorpusProps) (*CorpusRecord, error) {
	text, err := source.LoadText(props.Path, props.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to process corpus %s: %w", props.Name, err)
	}
	return p.ProcessCorpus(props.Name, text), nil
}
