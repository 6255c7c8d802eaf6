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

package freqs

const (
	// GenreTopWords is the number of top words each corpus
	// contributes to the shared matrix vocabulary
	GenreTopWords = 30

	// genreNorm - matrix values are frequencies per 10k tokens
	genreNorm = 10000
)

// Genre is a named corpus profile entering a GenreMatrix
type Genre struct {
	Name    string
	Profile *Profile
}

// GenreMatrix is a words x genres table of normalized
// frequencies (per 10,000 tokens).
type GenreMatrix struct {
	Words  []string    `json:"words"`
	Genres []string    `json:"genres"`
	Matrix [][]float64 `json:"matrix"`
}

// Value returns a normalized frequency of a word in a genre
// identified by their respective indices.
func (gm *GenreMatrix) Value(wordIdx, genreIdx int) float64 {
	return gm.Matrix[wordIdx][genreIdx]
}

// BuildGenreMatrix unions top GenreTopWords words of all genres
// (in order of appearance) and fills in their per-10k frequencies.
func BuildGenreMatrix(genres []Genre) *GenreMatrix {
	ans := &GenreMatrix{
		Words:  make([]string, 0, GenreTopWords*len(genres)),
		Genres: make([]string, len(genres)),
		Matrix: make([][]float64, 0, GenreTopWords*len(genres)),
	}
	seen := make(map[string]struct{})
	for i, g := range genres {
		ans.Genres[i] = g.Name
		top := g.Profile.TopWords
		if len(top) > GenreTopWords {
			top = top[:GenreTopWords]
		}
		for _, wf := range top {
			if _, ok := seen[wf.Word]; ok {
				continue
			}
			seen[wf.Word] = struct{}{}
			ans.Words = append(ans.Words, wf.Word)
		}
	}
	for _, word := range ans.Words {
		row := make([]float64, len(genres))
		for gi, g := range genres {
			if g.Profile.TokenCount == 0 {
				continue
			}
			row[gi] = float64(g.Profile.Count(word)) / float64(g.Profile.TokenCount) * genreNorm
		}
		ans.Matrix = append(ans.Matrix, row)
	}
	return ans
}
