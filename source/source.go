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
	"fmt"
	"os"

	"github.com/czcorpus/cnc-gokit/collections"
	"github.com/rs/zerolog/log"
)

// Format specifies how a corpus source file is encoded
type Format string

const (
	FormatPlain    Format = "plain"
	FormatVertical Format = "vertical"
	FormatPDF      Format = "pdf"
)

var SupportedFormats = []Format{FormatPlain, FormatVertical, FormatPDF}

func (f Format) Validate() bool {
	return collections.SliceContains(SupportedFormats, f)
}

// LoadText reads a corpus source file and returns its
// raw text suitable for tokenization.
func LoadText(path string, format Format) (string, error) {
	var text string
	var err error
	switch format {
	case FormatPlain, "":
		text, err = loadPlain(path)
	case FormatVertical:
		text, err = loadVertical(path)
	case FormatPDF:
		text, err = loadPDF(path)
	default:
		return "", fmt.Errorf("unsupported source format: %s", format)
	}
	if err != nil {
		return "", fmt.Errorf("failed to load %s source %s: %w", format, path, err)
	}
	log.Debug().
		Str("path", path).
		Str("format", string(format)).
		Int("size", len(text)).
		Msg("loaded corpus source")
	return text, nil
}

func loadPlain(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
