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
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/czcorpus/corpstat/cql"
	"github.com/czcorpus/corpstat/engine"
	"github.com/czcorpus/corpstat/metrics"
	"github.com/czcorpus/corpstat/source"
	"github.com/czcorpus/corpstat/storage"
	"github.com/gin-gonic/gin"
)

const sampleText = "The dog ran. The dog barked."

type testServer struct {
	router   *gin.Engine
	pipeline *engine.Pipeline
	store    *storage.SQLiteStore
}

func newTestServer(t *testing.T) *testServer {
	gin.SetMode(gin.TestMode)
	store, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "corpstat.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	mtr := metrics.New()
	pipeline := engine.NewPipeline(10, mtr)
	actions := NewActions(pipeline, store, cql.QueryGen{}, 1024, time.FixedZone("CET", 3600))
	return &testServer{
		router:   setupRouter(actions, mtr, []string{}),
		pipeline: pipeline,
		store:    store,
	}
}

func (ts *testServer) do(t *testing.T, method, url, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, url, strings.NewReader(body))

	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	var ans T
	if err := json.Unmarshal(rec.Body.Bytes(), &ans); err != nil {
		t.Fatalf("failed to decode response %q: %s", rec.Body.String(), err)
	}
	return ans
}

func TestPutAndStats(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodPut, "/corpora/sample", sampleText)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	st := decode[engine.CorpusStats](t, rec)
	if st.Tokens != 8 || st.Types != 5 || st.Sentences != 2 {
		t.Errorf("unexpected stats %+v", st)
	}

	stored, err := ts.store.Load(context.Background(), "sample")
	if err != nil {
		t.Fatal(err)
	}
	if stored.Text != sampleText || stored.Source != sourceAPIUpload {
		t.Errorf("unexpected stored corpus %+v", stored)
	}

	rec = ts.do(t, http.MethodGet, "/corpora/sample/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if st := decode[engine.CorpusStats](t, rec); st.TTR != 0.625 || st.HapaxRatio != 0.4 {
		t.Errorf("unexpected stats %+v", st)
	}

	rec = ts.do(t, http.MethodGet, "/corpora", "")
	if resp := decode[corporaResponse](t, rec); len(resp.Corpora) != 1 || resp.Corpora[0].Name != "sample" {
		t.Errorf("unexpected corpora list %s", rec.Body.String())
	}
}

func TestPutTooLarge(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodPut, "/corpora/big", strings.Repeat("word ", 1000))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected status 413, got %d", rec.Code)
	}
	if ts.pipeline.GetProcessedCorpus("big") != nil {
		t.Error("corpus should not be processed")
	}
}

func TestUnknownCorpus(t *testing.T) {
	ts := newTestServer(t)
	for _, url := range []string{
		"/corpora/foo/stats",
		"/corpora/foo/vocabulary",
		"/corpora/foo/concordance?q=dog",
		"/corpora/foo/ngrams",
		"/corpora/foo/bigrams",
		"/corpora/foo/collocations?node=dog",
		"/corpora/foo/morphology",
		"/freq-matrix?corpus=foo",
	} {
		if rec := ts.do(t, http.MethodGet, url, ""); rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected status 404, got %d", url, rec.Code)
		}
	}
	if rec := ts.do(t, http.MethodDelete, "/corpora/foo", ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}

func TestConcordance(t *testing.T) {
	ts := newTestServer(t)
	ts.pipeline.ProcessCorpus("sample", sampleText)

	rec := ts.do(t, http.MethodGet, "/corpora/sample/concordance?q=dog", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	resp := decode[concordanceResponse](t, rec)
	if len(resp.Lines) != 2 || resp.Lines[0].Position != 1 || resp.Lines[1].Position != 5 {
		t.Fatalf("unexpected lines %s", rec.Body.String())
	}
	if resp.Lines[0].Right != "ran . The dog barked ." {
		t.Errorf("unexpected right context %q", resp.Lines[0].Right)
	}
	if resp.ExamplesQuery != `[word="dog"]` {
		t.Errorf("unexpected examples query %s", resp.ExamplesQuery)
	}

	rec = ts.do(t, http.MethodGet, "/corpora/sample/concordance?q=dog&window=1&sort=right", "")
	resp = decode[concordanceResponse](t, rec)
	if len(resp.Lines) != 2 || resp.Lines[0].Right != "barked" || resp.Lines[1].Right != "ran" {
		t.Errorf("unexpected sorted lines %s", rec.Body.String())
	}

	for _, url := range []string{
		"/corpora/sample/concordance",
		"/corpora/sample/concordance?q=dog&sort=random",
		"/corpora/sample/concordance?q=dog&window=abc",
	} {
		if rec := ts.do(t, http.MethodGet, url, ""); rec.Code < 400 {
			t.Errorf("%s: expected error status, got %d", url, rec.Code)
		}
	}
}

func TestNgramsAndCollocations(t *testing.T) {
	ts := newTestServer(t)
	ts.pipeline.ProcessCorpus("sample", "The dog ran. the dog barked. The dog ran")

	rec := ts.do(t, http.MethodGet, "/corpora/sample/ngrams", "")
	ngResp := decode[ngramsResponse](t, rec)
	if ngResp.N != 3 || len(ngResp.Items) != 2 {
		t.Fatalf("unexpected n-grams %s", rec.Body.String())
	}
	if ngResp.Items[0].Gram != "the dog ran" ||
		ngResp.Items[0].ExamplesQuery != `[word="the"] [word="dog"] [word="ran"]` {
		t.Errorf("unexpected first n-gram %s", rec.Body.String())
	}

	rec = ts.do(t, http.MethodGet, "/corpora/sample/bigrams?minFreq=3", "")
	bgResp := decode[bigramsResponse](t, rec)
	if len(bgResp.Items) != 1 || bgResp.Items[0].Bigram != "the dog" {
		t.Errorf("unexpected bigrams %s", rec.Body.String())
	}

	rec = ts.do(t, http.MethodGet, "/corpora/sample/collocations?node=dog&span=1&minFreq=2", "")
	clResp := decode[collocationsResponse](t, rec)
	if len(clResp.Items) == 0 {
		t.Fatalf("expected collocations, got %s", rec.Body.String())
	}
	for _, item := range clResp.Items {
		expected := `(meet [word="dog"] [word="` + item.Word + `"] -1 1)`
		if item.ExamplesQuery != expected {
			t.Errorf("unexpected examples query %s for %s", item.ExamplesQuery, item.Word)
		}
	}
	rec = ts.do(t, http.MethodGet, "/corpora/sample/collocations?node=dog&span=1&maxItems=1", "")
	if clResp := decode[collocationsResponse](t, rec); len(clResp.Items) != 1 {
		t.Errorf("expected a single collocate, got %s", rec.Body.String())
	}
	if rec := ts.do(t, http.MethodGet, "/corpora/sample/ngrams?maxItems=-1", ""); rec.Code < 400 {
		t.Errorf("expected error status for negative maxItems, got %d", rec.Code)
	}
	if rec := ts.do(t, http.MethodGet, "/corpora/sample/collocations", ""); rec.Code < 400 {
		t.Errorf("expected error status for missing node, got %d", rec.Code)
	}
}

func TestCollocationsExamplesQueryEscaping(t *testing.T) {
	ts := newTestServer(t)
	ts.router = setupRouter(
		NewActions(ts.pipeline, nil, cql.QueryGen{IgnoreCase: true}, 1024, time.UTC),
		nil,
		[]string{},
	)
	ts.pipeline.ProcessCorpus("pct", "Rates rose 100 % . Costs rose 100 % .")

	rec := ts.do(t, http.MethodGet, "/corpora/pct/collocations?node=%25&span=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	resp := decode[collocationsResponse](t, rec)
	queries := make(map[string]string)
	for _, item := range resp.Items {
		queries[item.Word] = item.ExamplesQuery
	}
	if q := queries["."]; q != `(meet [word="%"%c] [word="\."%c] -1 1)` {
		t.Errorf("unexpected query for `.`: %s", q)
	}
	if q := queries["100"]; q != `(meet [word="%"%c] [word="100"%c] -1 1)` {
		t.Errorf("unexpected query for `100`: %s", q)
	}
}

func TestMorphology(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/morphology/unhappiness", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	resp := decode[morphologyResponse](t, rec)
	if resp.Analysis.String() != "un-happy-ness" {
		t.Errorf("unexpected analysis %s", rec.Body.String())
	}

	ts.pipeline.ProcessCorpus("s", "Teachers are making progress.")
	rec = ts.do(t, http.MethodGet, "/corpora/s/morphology", "")
	cmResp := decode[corpusMorphologyResponse](t, rec)
	if an, ok := cmResp.Words["teachers"]; !ok || an.String() != "teach-er-s" {
		t.Errorf("unexpected corpus morphology %s", rec.Body.String())
	}
}

func TestCompareAndMatrix(t *testing.T) {
	ts := newTestServer(t)
	ts.pipeline.ProcessCorpus("a", sampleText)
	ts.pipeline.ProcessCorpus("b", "Hello world.")

	rec := ts.do(t, http.MethodGet, "/compare?corpus=b&corpus=x&corpus=a", "")
	resp := decode[compareResponse](t, rec)
	if len(resp.Corpora) != 2 || resp.Corpora[0].Name != "b" || resp.Corpora[1].Name != "a" {
		t.Errorf("unexpected comparison %s", rec.Body.String())
	}

	rec = ts.do(t, http.MethodGet, "/freq-matrix?corpus=a&corpus=b", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	var gm struct {
		Words  []string    `json:"words"`
		Genres []string    `json:"genres"`
		Matrix [][]float64 `json:"matrix"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &gm); err != nil {
		t.Fatal(err)
	}
	if len(gm.Genres) != 2 || len(gm.Words) != len(gm.Matrix) {
		t.Errorf("unexpected matrix %s", rec.Body.String())
	}
}

func TestDeleteCorpus(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodPut, "/corpora/sample", sampleText)
	if rec := ts.do(t, http.MethodDelete, "/corpora/sample", ""); rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if ts.pipeline.GetProcessedCorpus("sample") != nil {
		t.Error("corpus should be removed")
	}
	if names, _ := ts.store.List(context.Background()); len(names) != 0 {
		t.Errorf("corpus should be deleted from storage, found %v", names)
	}
}

func TestMetricsRoute(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodPut, "/corpora/sample", sampleText)
	rec := ts.do(t, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "corpstat_corpora 1") {
		t.Error("expected corpora gauge in metrics output")
	}
}

type failingStore struct {
	storage.CorpusStore
}

func (fs failingStore) Delete(ctx context.Context, name string) error {
	return errors.New("storage unavailable")
}

func TestDeleteCorpusStorageFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	pipeline := engine.NewPipeline(0, nil)
	pipeline.ProcessCorpus("sample", sampleText)
	router := setupRouter(
		NewActions(pipeline, failingStore{}, cql.QueryGen{}, 1024, time.UTC),
		nil,
		[]string{},
	)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/corpora/sample", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rec.Code)
	}
	if pipeline.GetProcessedCorpus("sample") == nil {
		t.Error("corpus should stay loaded when storage fails")
	}
}

func TestPutCorpusImportTime(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodPut, "/corpora/sample", sampleText)
	stored, err := ts.store.Load(context.Background(), "sample")
	if err != nil {
		t.Fatal(err)
	}
	if _, offset := stored.ImportedAt.Zone(); offset != 3600 {
		t.Errorf("expected import time in the configured zone, got %v", stored.ImportedAt)
	}
}

func TestStoredFrequencies(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	ts.do(t, http.MethodPut, "/corpora/sample", sampleText)
	rec := ts.pipeline.GetProcessedCorpus("sample")
	if err := ts.store.SaveFrequencies(ctx, "sample", rec.Profile.Sorted); err != nil {
		t.Fatal(err)
	}

	resp := ts.do(t, http.MethodGet, "/corpora/sample/freqs", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	freqsResp := decode[frequenciesResponse](t, resp)
	if len(freqsResp.Items) != 5 || freqsResp.Items[0].Word != "the" || freqsResp.Items[0].Count != 2 {
		t.Errorf("unexpected frequencies %s", resp.Body.String())
	}

	resp = ts.do(t, http.MethodGet, "/corpora/sample/freqs?maxItems=2", "")
	if freqsResp := decode[frequenciesResponse](t, resp); len(freqsResp.Items) != 2 {
		t.Errorf("expected 2 items, got %s", resp.Body.String())
	}
	if resp := ts.do(t, http.MethodGet, "/corpora/foo/freqs", ""); resp.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", resp.Code)
	}

	noStore := setupRouter(
		NewActions(ts.pipeline, nil, cql.QueryGen{}, 1024, nil), nil, []string{})
	resp = httptest.NewRecorder()
	noStore.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/corpora/sample/freqs", nil))
	if resp.Code != http.StatusNotFound {
		t.Errorf("expected status 404 without storage, got %d", resp.Code)
	}
}

func TestResolveCorpusSource(t *testing.T) {
	corpora := engine.CorporaConf{{Name: "news", Path: "/data/news.vert", Format: source.FormatVertical}}
	testCases := []struct {
		name    string
		corpus  string
		path    string
		format  source.Format
		expPath string
		expFmt  source.Format
		isErr   bool
	}{
		{name: "configured", corpus: "news", expPath: "/data/news.vert", expFmt: source.FormatVertical},
		{name: "explicit path", corpus: "web", path: "/tmp/web.txt", expPath: "/tmp/web.txt", expFmt: source.FormatPlain},
		{name: "explicit format", corpus: "doc", path: "/tmp/d.pdf", format: source.FormatPDF, expPath: "/tmp/d.pdf", expFmt: source.FormatPDF},
		{name: "not configured", corpus: "web", isErr: true},
		{name: "bad format", corpus: "web", path: "/tmp/web.docx", format: "docx", isErr: true},
		{name: "no name", isErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			props, err := resolveCorpusSource(corpora, tc.corpus, tc.path, tc.format)
			if tc.isErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if props.Name != tc.corpus || props.Path != tc.expPath || props.Format != tc.expFmt {
				t.Errorf("unexpected props %+v", props)
			}
		})
	}
}

func TestLoadImportPrecalc(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := storage.OpenSQLite(filepath.Join(dir, "corpstat.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	path := filepath.Join(dir, "sample.txt")
	if err := os.WriteFile(path, []byte(sampleText), 0644); err != nil {
		t.Fatal(err)
	}

	p1 := engine.NewPipeline(0, nil)
	props := &engine.CorpusProps{Name: "imported", Path: path, Format: source.FormatPlain}
	if err := importCorpus(ctx, p1, store, props, time.UTC); err != nil {
		t.Fatal(err)
	}
	if err := precalcFrequencies(ctx, p1, store, nil, "imported", time.UTC); err != nil {
		t.Fatal(err)
	}
	items, err := store.Frequencies(ctx, "imported")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 5 || items[0].Word != "the" || items[0].Count != 2 {
		t.Errorf("unexpected frequencies %v", items)
	}

	// configured but not yet stored corpus gets imported by precalc
	conf := engine.CorporaConf{{Name: "configured", Path: path, Format: source.FormatPlain}}
	if err := precalcFrequencies(ctx, p1, store, conf, "configured", time.UTC); err != nil {
		t.Fatal(err)
	}
	if items, err := store.Frequencies(ctx, "configured"); err != nil || len(items) != 5 {
		t.Errorf("unexpected frequencies %v (err: %v)", items, err)
	}
	if err := precalcFrequencies(ctx, p1, store, conf, "unknown", time.UTC); !errors.Is(err, storage.ErrCorpusNotFound) {
		t.Errorf("expected ErrCorpusNotFound, got %v", err)
	}

	p2 := engine.NewPipeline(0, nil)
	if err := loadCorpora(ctx, p2, store, conf); err != nil {
		t.Fatal(err)
	}
	if names := p2.ListCorpora(); len(names) != 2 || names[0] != "configured" || names[1] != "imported" {
		t.Errorf("unexpected corpora %v", names)
	}
	if err := precalcFrequencies(ctx, p2, nil, conf, "imported", time.UTC); err == nil {
		t.Error("expected error without storage")
	}
}
