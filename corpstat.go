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
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/czcorpus/cnc-gokit/cors"
	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/czcorpus/corpstat/cnf"
	"github.com/czcorpus/corpstat/engine"
	"github.com/czcorpus/corpstat/metrics"
	"github.com/czcorpus/corpstat/source"
	"github.com/czcorpus/corpstat/storage"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

var (
	version   string
	buildDate string
	gitCommit string
)

// VersionInfo provides a detailed information about the actual build
type VersionInfo struct {
	Version   string `json:"version"`
	BuildDate string `json:"buildDate"`
	GitCommit string `json:"gitCommit"`
}

func setupRouter(
	actions *Actions,
	mtr *metrics.Metrics,
	corsAllowedOrigins []string,
) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(logging.GinMiddleware())
	if mtr != nil {
		engine.Use(mtr.GinMiddleware())
	}
	engine.Use(uniresp.AlwaysJSONContentType())
	engine.Use(cors.CORSMiddleware(corsAllowedOrigins))
	engine.NoMethod(uniresp.NoMethodHandler)
	engine.NoRoute(uniresp.NotFoundHandler)

	engine.GET("/corpora", actions.ListCorpora)
	engine.PUT("/corpora/:corpusId", actions.PutCorpus)
	engine.DELETE("/corpora/:corpusId", actions.DeleteCorpus)
	engine.GET("/corpora/:corpusId/stats", actions.CorpusStats)
	engine.GET("/corpora/:corpusId/vocabulary", actions.Vocabulary)
	engine.GET("/corpora/:corpusId/concordance", actions.Concordance)
	engine.GET("/corpora/:corpusId/ngrams", actions.Ngrams)
	engine.GET("/corpora/:corpusId/bigrams", actions.Bigrams)
	engine.GET("/corpora/:corpusId/collocations", actions.Collocations)
	engine.GET("/corpora/:corpusId/morphology", actions.CorpusMorphology)
	engine.GET("/corpora/:corpusId/freqs", actions.StoredFrequencies)

	engine.GET("/morphology/:word", actions.Morphology)
	engine.GET("/compare", actions.Compare)
	engine.GET("/freq-matrix", actions.FrequencyMatrix)

	if mtr != nil {
		engine.GET("/metrics", gin.WrapH(mtr.Handler()))
	}
	return engine
}

// loadCorpora processes all the stored corpora and then the ones
// listed in the configuration (which replace stored corpora
// of the same name).
func loadCorpora(
	ctx context.Context,
	pipeline *engine.Pipeline,
	store storage.CorpusStore,
	corpora engine.CorporaConf,
) error {
	if store != nil {
		names, err := store.List(ctx)
		if err != nil {
			return err
		}
		for _, name := range names {
			corp, err := store.Load(ctx, name)
			if err != nil {
				return err
			}
			pipeline.ProcessCorpus(corp.Name, corp.Text)
		}
	}
	for _, props := range corpora {
		if _, err := pipeline.ProcessFile(props); err != nil {
			return err
		}
	}
	log.Info().Int("numCorpora", len(pipeline.ListCorpora())).Msg("corpora loaded")
	return nil
}

// resolveCorpusSource returns a source of a corpus to be imported.
// Without an explicit path, the corpus must be configured in `corpora`.
func resolveCorpusSource(
	corpora engine.CorporaConf,
	name, path string,
	format source.Format,
) (*engine.CorpusProps, error) {
	if name == "" {
		return nil, fmt.Errorf("missing corpus name")
	}
	if path == "" {
		props := corpora.GetCorpusProps(name)
		if props == nil {
			return nil, fmt.Errorf("corpus %s not configured and no path specified", name)
		}
		return props, nil
	}
	props := &engine.CorpusProps{Name: name, Path: path, Format: format}
	if err := props.ValidateAndDefaults("import"); err != nil {
		return nil, err
	}
	return props, nil
}

func importCorpus(
	ctx context.Context,
	pipeline *engine.Pipeline,
	store storage.CorpusStore,
	props *engine.CorpusProps,
	loc *time.Location,
) error {
	if store == nil {
		return fmt.Errorf("no corpus storage configured")
	}
	text, err := source.LoadText(props.Path, props.Format)
	if err != nil {
		return err
	}
	rec := pipeline.ProcessCorpus(props.Name, text)
	err = store.Save(
		ctx,
		&storage.StoredCorpus{
			Name:       props.Name,
			Source:     props.Path,
			Text:       text,
			ImportedAt: time.Now().In(loc),
		},
	)
	if err != nil {
		return err
	}
	log.Info().Str("corpus", props.Name).Int("tokens", rec.WordCount).Msg("corpus imported")
	return nil
}

// precalcFrequencies writes the frequency list of a stored corpus.
// A configured corpus missing in the storage is imported first.
func precalcFrequencies(
	ctx context.Context,
	pipeline *engine.Pipeline,
	store storage.CorpusStore,
	corpora engine.CorporaConf,
	name string,
	loc *time.Location,
) error {
	if store == nil {
		return fmt.Errorf("no corpus storage configured")
	}
	corp, err := store.Load(ctx, name)
	if errors.Is(err, storage.ErrCorpusNotFound) {
		props := corpora.GetCorpusProps(name)
		if props == nil {
			return err
		}
		if err := importCorpus(ctx, pipeline, store, props, loc); err != nil {
			return err
		}
		corp, err = store.Load(ctx, name)
	}
	if err != nil {
		return err
	}
	rec := pipeline.ProcessCorpus(corp.Name, corp.Text)
	return store.SaveFrequencies(ctx, name, rec.Profile.Sorted)
}

func runApiServer(
	conf *cnf.Conf,
	syscallChan chan os.Signal,
	exitEvent chan os.Signal,
	pipeline *engine.Pipeline,
	store storage.CorpusStore,
	mtr *metrics.Metrics,
) {
	if !conf.LogLevel.IsDebugMode() {
		gin.SetMode(gin.ReleaseMode)
	}

	actions := NewActions(
		pipeline, store, conf.Query, conf.MaxUploadSize(), conf.TimezoneLocation())
	engine := setupRouter(actions, mtr, conf.CorsAllowedOrigins)

	log.Info().Msgf("starting to listen at %s:%d", conf.ListenAddress, conf.ListenPort)
	srv := &http.Server{
		Handler:      engine,
		Addr:         fmt.Sprintf("%s:%d", conf.ListenAddress, conf.ListenPort),
		WriteTimeout: time.Duration(conf.ServerWriteTimeoutSecs) * time.Second,
		ReadTimeout:  time.Duration(conf.ServerReadTimeoutSecs) * time.Second,
	}
	go func() {
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("")
		}
		syscallChan <- syscall.SIGTERM
	}()

	<-exitEvent
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Info().Err(err).Msg("Shutdown request error")
	}
}

func main() {
	version := VersionInfo{
		Version:   version,
		BuildDate: buildDate,
		GitCommit: gitCommit,
	}

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "CORPSTAT - a corpus statistics and analysis server\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n\t%s [options] start config.json\n\t", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "%s [options] init config.json\n\t", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "%s [options] import config.json name [path [plain|vertical|pdf]]\n\t", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "%s [options] precalc config.json name\n\t", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "%s [options] test config.json\n\t", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "%s [options] version\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	forceInit := flag.Bool("f", false, "drop existing data when running the init action")
	flag.Parse()
	action := flag.Arg(0)
	if action == "version" {
		fmt.Printf("corpstat %s\nbuild date: %s\nlast commit: %s\n", version.Version, version.BuildDate, version.GitCommit)
		return
	}
	conf, err := cnf.LoadConfig(flag.Arg(1))
	if err != nil {
		log.Fatal().Err(err).Msg("")
	}

	if action == "test" {
		if err := cnf.ValidateAndDefaults(conf); err != nil {
			log.Fatal().Err(err).Msg("")
		}
		log.Info().Msg("config OK")
		return

	} else {
		logging.SetupLogging(conf.LogFile, conf.LogLevel)
	}
	log.Info().Str("config", conf.GetSourcePath()).Msg("Starting Corpstat")
	if err := cnf.ValidateAndDefaults(conf); err != nil {
		log.Fatal().Err(err).Msg("")
	}
	syscallChan := make(chan os.Signal, 1)
	signal.Notify(syscallChan, os.Interrupt)
	signal.Notify(syscallChan, syscall.SIGTERM)
	exitEvent := make(chan os.Signal)

	go func() {
		evt := <-syscallChan
		exitEvent <- evt
		close(exitEvent)
	}()

	ctx := context.Background()
	store, err := storage.Open(ctx, &conf.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open corpus storage")
	}
	if store != nil {
		defer store.Close()
	}

	var mtr *metrics.Metrics
	if conf.Metrics {
		mtr = metrics.New()
	}
	pipeline := engine.NewPipeline(conf.CacheSize, mtr)

	switch action {
	case "start":
		if err := loadCorpora(ctx, pipeline, store, conf.Corpora); err != nil {
			log.Fatal().Err(err).Msg("failed to load corpora")
		}
		runApiServer(conf, syscallChan, exitEvent, pipeline, store, mtr)
	case "init":
		if store == nil {
			log.Fatal().Msg("no corpus storage configured")
			return
		}
		if err := store.InitializeDB(ctx, *forceInit); err != nil {
			log.Fatal().Err(err).Msg("failed to initialize storage")
		}
		log.Info().Bool("force", *forceInit).Msg("storage initialized")
	case "import":
		props, err := resolveCorpusSource(
			conf.Corpora, flag.Arg(2), flag.Arg(3), source.Format(flag.Arg(4)))
		if err != nil {
			log.Fatal().Err(err).Msg("failed to import corpus")
			return
		}
		if err := importCorpus(ctx, pipeline, store, props, conf.TimezoneLocation()); err != nil {
			log.Fatal().Err(err).Msg("failed to import corpus")
		}
	case "precalc":
		err := precalcFrequencies(
			ctx, pipeline, store, conf.Corpora, flag.Arg(2), conf.TimezoneLocation())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to process")
		}
	default:
		log.Fatal().Msgf("Unknown action %s", action)
	}
}
