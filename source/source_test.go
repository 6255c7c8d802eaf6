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
	"os"
	"path/filepath"
	"testing"

	"github.com/tomachalek/vertigo/v5"
)

func writeFile(t *testing.T, name, data string) string {
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFormatValidate(t *testing.T) {
	for _, f := range SupportedFormats {
		if !f.Validate() {
			t.Errorf("format %s should be valid", f)
		}
	}
	if Format("docx").Validate() {
		t.Error("docx should not be valid")
	}
}

func TestLoadPlain(t *testing.T) {
	path := writeFile(t, "corpus.txt", "The dog ran. The dog barked.")
	text, err := LoadText(path, FormatPlain)
	if err != nil {
		t.Fatal(err)
	}
	if text != "The dog ran. The dog barked." {
		t.Errorf("unexpected text %q", text)
	}
}

func TestLoadUnsupported(t *testing.T) {
	path := writeFile(t, "corpus.docx", "foo")
	if _, err := LoadText(path, Format("docx")); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.txt")
	if _, err := LoadText(path, FormatPlain); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestTextCollector(t *testing.T) {
	tc := &TextCollector{}
	for _, w := range []string{"The", "dog", "ran", "."} {
		if err := tc.ProcToken(&vertigo.Token{Word: w}, 1, nil); err != nil {
			t.Fatal(err)
		}
	}
	if err := tc.ProcStructClose(&vertigo.StructureClose{Name: "s"}, 5, nil); err != nil {
		t.Fatal(err)
	}
	tc.ProcToken(&vertigo.Token{Word: "It"}, 6, nil)
	tc.ProcToken(&vertigo.Token{Word: "barked"}, 7, nil)
	tc.ProcStructClose(&vertigo.StructureClose{Name: "p"}, 8, nil)
	tc.ProcToken(&vertigo.Token{Word: "."}, 9, nil)

	if s := tc.String(); s != "The dog ran .\nIt barked ." {
		t.Errorf("unexpected text %q", s)
	}
	if tc.NumTokens() != 7 {
		t.Errorf("expected 7 tokens, got %d", tc.NumTokens())
	}
}

func TestLoadVertical(t *testing.T) {
	vert := "<doc id=\"d1\">\n<s>\nThe\tthe\tDT\ndog\tdog\tNN\nran\trun\tVBD\n.\t.\tPUNCT\n</s>\n" +
		"<s>\nThe\tthe\tDT\ndog\tdog\tNN\nbarked\tbark\tVBD\n.\t.\tPUNCT\n</s>\n</doc>\n"
	path := writeFile(t, "corpus.vert", vert)
	text, err := LoadText(path, FormatVertical)
	if err != nil {
		t.Fatal(err)
	}
	if text != "The dog ran .\nThe dog barked .\n" {
		t.Errorf("unexpected text %q", text)
	}
}
