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

package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/czcorpus/cnc-gokit/unireq"
	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/czcorpus/corpstat/colls"
	"github.com/czcorpus/corpstat/cql"
	"github.com/czcorpus/corpstat/engine"
	"github.com/czcorpus/corpstat/freqs"
	"github.com/czcorpus/corpstat/kwic"
	"github.com/czcorpus/corpstat/morph"
	"github.com/czcorpus/corpstat/ngrams"
	"github.com/czcorpus/corpstat/storage"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	sourceAPIUpload = "api"
)

type corporaResponse struct {
	Corpora []*engine.CorpusStats `json:"corpora"`
}

type vocabularyResponse struct {
	Corpus string           `json:"corpus"`
	Words  []freqs.WordFreq `json:"words"`
}

type concordanceResponse struct {
	Corpus        string       `json:"corpus"`
	Keyword       string       `json:"keyword"`
	Lines         []*kwic.Line `json:"lines"`
	ExamplesQuery string       `json:"examplesQuery"`
}

type ngramItem struct {
	*ngrams.Ngram
	ExamplesQuery string `json:"examplesQuery"`
}

type ngramsResponse struct {
	Corpus string      `json:"corpus"`
	N      int         `json:"n"`
	Items  []ngramItem `json:"items"`
}

type bigramsResponse struct {
	Corpus string           `json:"corpus"`
	Items  []*ngrams.Bigram `json:"items"`
}

type collocationItem struct {
	*colls.CollocatePair
	ExamplesQuery string `json:"examplesQuery"`
}

type collocationsResponse struct {
	Corpus string            `json:"corpus"`
	Node   string            `json:"node"`
	Items  []collocationItem `json:"items"`
}

type morphologyResponse struct {
	Word     string        `json:"word"`
	Analysis morph.Analysis `json:"analysis"`
}

type corpusMorphologyResponse struct {
	Corpus string                    `json:"corpus"`
	Words  map[string]morph.Analysis `json:"words"`
}

type frequenciesResponse struct {
	Corpus string            `json:"corpus"`
	Items  []freqs.WordCount `json:"items"`
}

type compareResponse struct {
	Corpora []*engine.CorpusStats `json:"corpora"`
}

// Actions contains HTTP handlers of the API.
// The store may be nil in which case corpora are not persisted.
type Actions struct {
	pipeline      *engine.Pipeline
	store         storage.CorpusStore
	queryGen      cql.QueryGen
	maxUploadSize int64
	location      *time.Location
}

func (a *Actions) corpusOrFail(ctx *gin.Context) (*engine.CorpusRecord, bool) {
	corpusID := ctx.Param("corpusId")
	rec := a.pipeline.GetProcessedCorpus(corpusID)
	if rec == nil {
		uniresp.RespondWithErrorJSON(
			ctx, fmt.Errorf("corpus %s not found", corpusID), http.StatusNotFound)
		return nil, false
	}
	return rec, true
}

func maxItemsArgOrFail(ctx *gin.Context, dflt int) (int, bool) {
	maxItems, ok := unireq.GetURLIntArgOrFail(ctx, "maxItems", dflt)
	if !ok {
		return 0, false
	}
	if maxItems < 0 {
		uniresp.RespondWithErrorJSON(
			ctx, uniresp.NewActionError("invalid maxItems value"), http.StatusUnprocessableEntity)
		return 0, false
	}
	return maxItems, true
}

func (a *Actions) ListCorpora(ctx *gin.Context) {
	recs := a.pipeline.AllCorpora()
	resp := corporaResponse{Corpora: make([]*engine.CorpusStats, len(recs))}
	for i, rec := range recs {
		resp.Corpora[i] = rec.Stats()
	}
	uniresp.WriteJSONResponse(ctx.Writer, resp)
}

// PutCorpus processes a raw text sent as the request body
// and stores it under the corpusId.
func (a *Actions) PutCorpus(ctx *gin.Context) {
	corpusID := ctx.Param("corpusId")
	body := http.MaxBytesReader(ctx.Writer, ctx.Request.Body, a.maxUploadSize)
	rawText, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			uniresp.RespondWithErrorJSON(
				ctx, uniresp.NewActionError("corpus text too large"), http.StatusRequestEntityTooLarge)
			return
		}
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusBadRequest)
		return
	}
	text := string(rawText)
	if a.store != nil {
		err := a.store.Save(
			ctx.Request.Context(),
			&storage.StoredCorpus{
				Name:       corpusID,
				Source:     sourceAPIUpload,
				Text:       text,
				ImportedAt: time.Now().In(a.location),
			},
		)
		if err != nil {
			uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
			return
		}
	}
	rec := a.pipeline.ProcessCorpus(corpusID, text)
	uniresp.WriteJSONResponse(ctx.Writer, rec.Stats())
}

func (a *Actions) DeleteCorpus(ctx *gin.Context) {
	corpusID := ctx.Param("corpusId")
	var found bool
	// storage first, on failure the loaded corpus stays
	if a.store != nil {
		err := a.store.Delete(ctx.Request.Context(), corpusID)
		if err == nil {
			found = true

		} else if !errors.Is(err, storage.ErrCorpusNotFound) {
			uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
			return
		}
	}
	if a.pipeline.RemoveCorpus(corpusID) {
		found = true
	}
	if !found {
		uniresp.RespondWithErrorJSON(
			ctx, fmt.Errorf("corpus %s not found", corpusID), http.StatusNotFound)
		return
	}
	uniresp.WriteJSONResponse(ctx.Writer, map[string]any{"ok": true})
}

// StoredFrequencies returns a frequency list written
// by the `precalc` action.
func (a *Actions) StoredFrequencies(ctx *gin.Context) {
	corpusID := ctx.Param("corpusId")
	if a.store == nil {
		uniresp.RespondWithErrorJSON(
			ctx, uniresp.NewActionError("no corpus storage configured"), http.StatusNotFound)
		return
	}
	items, err := a.store.Frequencies(ctx.Request.Context(), corpusID)
	if errors.Is(err, storage.ErrCorpusNotFound) {
		uniresp.RespondWithErrorJSON(
			ctx, fmt.Errorf("corpus %s not found", corpusID), http.StatusNotFound)
		return

	} else if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}
	maxItems, ok := maxItemsArgOrFail(ctx, len(items))
	if !ok {
		return
	}
	uniresp.WriteJSONResponse(
		ctx.Writer,
		frequenciesResponse{Corpus: corpusID, Items: items[:min(maxItems, len(items))]},
	)
}

func (a *Actions) CorpusStats(ctx *gin.Context) {
	rec, ok := a.corpusOrFail(ctx)
	if !ok {
		return
	}
	uniresp.WriteJSONResponse(ctx.Writer, rec.Stats())
}

func (a *Actions) Vocabulary(ctx *gin.Context) {
	rec, ok := a.corpusOrFail(ctx)
	if !ok {
		return
	}
	uniresp.WriteJSONResponse(
		ctx.Writer,
		vocabularyResponse{Corpus: rec.Name, Words: a.pipeline.GetVocabulary(rec.Name)},
	)
}

func (a *Actions) Concordance(ctx *gin.Context) {
	rec, ok := a.corpusOrFail(ctx)
	if !ok {
		return
	}
	keyword := ctx.Query("q")
	if keyword == "" {
		uniresp.RespondWithErrorJSON(
			ctx, uniresp.NewActionError("missing keyword (q)"), http.StatusUnprocessableEntity)
		return
	}
	windowSize, ok := unireq.GetURLIntArgOrFail(ctx, "window", engine.DefaultWindowSize)
	if !ok {
		return
	}
	sortMode := kwic.SortMode(ctx.DefaultQuery("sort", string(kwic.SortByPosition)))
	if !sortMode.Validate() {
		uniresp.RespondWithErrorJSON(
			ctx, uniresp.NewActionError("invalid sort mode"), http.StatusUnprocessableEntity)
		return
	}
	lines := a.pipeline.GetConcordance(rec.Name, keyword, windowSize)
	uniresp.WriteJSONResponse(
		ctx.Writer,
		concordanceResponse{
			Corpus:        rec.Name,
			Keyword:       keyword,
			Lines:         kwic.SortLines(lines, sortMode),
			ExamplesQuery: a.queryGen.Word(keyword),
		},
	)
}

func (a *Actions) Ngrams(ctx *gin.Context) {
	rec, ok := a.corpusOrFail(ctx)
	if !ok {
		return
	}
	n, ok := unireq.GetURLIntArgOrFail(ctx, "n", engine.DefaultNgramSize)
	if !ok {
		return
	}
	minFreq, ok := unireq.GetURLIntArgOrFail(ctx, "minFreq", engine.DefaultMinFreq)
	if !ok {
		return
	}
	maxItems, ok := maxItemsArgOrFail(ctx, ngrams.MaxResults)
	if !ok {
		return
	}
	items := a.pipeline.GetNgrams(rec.Name, n, minFreq).Cut(maxItems)
	resp := ngramsResponse{Corpus: rec.Name, N: n, Items: make([]ngramItem, len(items))}
	for i, item := range items {
		resp.Items[i] = ngramItem{Ngram: item, ExamplesQuery: a.queryGen.Ngram(item.Words)}
	}
	uniresp.WriteJSONResponse(ctx.Writer, resp)
}

func (a *Actions) Bigrams(ctx *gin.Context) {
	rec, ok := a.corpusOrFail(ctx)
	if !ok {
		return
	}
	minFreq, ok := unireq.GetURLIntArgOrFail(ctx, "minFreq", engine.DefaultMinFreq)
	if !ok {
		return
	}
	uniresp.WriteJSONResponse(
		ctx.Writer,
		bigramsResponse{Corpus: rec.Name, Items: a.pipeline.GetBigrams(rec.Name, minFreq)},
	)
}

func (a *Actions) Collocations(ctx *gin.Context) {
	rec, ok := a.corpusOrFail(ctx)
	if !ok {
		return
	}
	node := ctx.Query("node")
	if node == "" {
		uniresp.RespondWithErrorJSON(
			ctx, uniresp.NewActionError("missing node word"), http.StatusUnprocessableEntity)
		return
	}
	span, ok := unireq.GetURLIntArgOrFail(ctx, "span", engine.DefaultSpan)
	if !ok {
		return
	}
	minFreq, ok := unireq.GetURLIntArgOrFail(ctx, "minFreq", engine.DefaultMinFreq)
	if !ok {
		return
	}
	maxItems, ok := maxItemsArgOrFail(ctx, colls.MaxResults)
	if !ok {
		return
	}
	items := a.pipeline.GetCollocations(rec.Name, node, span, minFreq).Cut(maxItems)
	resp := collocationsResponse{Corpus: rec.Name, Node: node, Items: make([]collocationItem, len(items))}
	for i, item := range items {
		resp.Items[i] = collocationItem{
			CollocatePair: item,
			ExamplesQuery: a.queryGen.Collocation(node, item.Word, span),
		}
	}
	uniresp.WriteJSONResponse(ctx.Writer, resp)
}

func (a *Actions) CorpusMorphology(ctx *gin.Context) {
	rec, ok := a.corpusOrFail(ctx)
	if !ok {
		return
	}
	uniresp.WriteJSONResponse(
		ctx.Writer,
		corpusMorphologyResponse{Corpus: rec.Name, Words: a.pipeline.GetCorpusMorphology(rec.Name)},
	)
}

func (a *Actions) Morphology(ctx *gin.Context) {
	word := ctx.Param("word")
	uniresp.WriteJSONResponse(
		ctx.Writer,
		morphologyResponse{Word: word, Analysis: a.pipeline.GetMorphology(word)},
	)
}

func (a *Actions) Compare(ctx *gin.Context) {
	uniresp.WriteJSONResponse(
		ctx.Writer,
		compareResponse{Corpora: a.pipeline.CompareCorpora(ctx.QueryArray("corpus"))},
	)
}

func (a *Actions) FrequencyMatrix(ctx *gin.Context) {
	ans := a.pipeline.GetFrequencyMatrix(ctx.QueryArray("corpus"))
	if ans == nil {
		uniresp.RespondWithErrorJSON(
			ctx, uniresp.NewActionError("no matching corpora"), http.StatusNotFound)
		return
	}
	uniresp.WriteJSONResponse(ctx.Writer, ans)
}

func NewActions(
	pipeline *engine.Pipeline,
	store storage.CorpusStore,
	queryGen cql.QueryGen,
	maxUploadSize int64,
	location *time.Location,
) *Actions {
	if store == nil {
		log.Warn().Msg("no corpus storage configured, uploaded corpora will not be persisted")
	}
	if location == nil {
		location = time.Local
	}
	return &Actions{
		pipeline:      pipeline,
		store:         store,
		queryGen:      queryGen,
		maxUploadSize: maxUploadSize,
		location:      location,
	}
}
