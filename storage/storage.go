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

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/czcorpus/cnc-gokit/collections"
	"github.com/czcorpus/corpstat/freqs"
	"github.com/rs/zerolog/log"
)

const (
	BackendNone     = ""
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"

	dfltSQLitePath = "corpstat.db"
	dfltDBPort     = 5432
	dfltPoolSize   = 4
)

var (
	ErrCorpusNotFound = errors.New("corpus not found")

	supportedBackends = []string{BackendNone, BackendPostgres, BackendSQLite}
)

// StoredCorpus is a persisted raw corpus text. All the derived
// structures are rebuilt from the text once the corpus is loaded.
type StoredCorpus struct {
	Name       string    `json:"name"`
	Source     string    `json:"source"`
	Text       string    `json:"-"`
	ImportedAt time.Time `json:"importedAt"`
}

// CorpusStore persists corpora texts and precalculated
// frequency lists.
type CorpusStore interface {

	// Save inserts a new corpus or replaces an existing one
	Save(ctx context.Context, corpus *StoredCorpus) error

	// Load returns ErrCorpusNotFound for unknown corpora
	Load(ctx context.Context, name string) (*StoredCorpus, error)

	// List returns names of all stored corpora, sorted
	List(ctx context.Context) ([]string, error)

	// Delete removes a corpus along with its frequency list.
	// It returns ErrCorpusNotFound for unknown corpora.
	Delete(ctx context.Context, name string) error

	// SaveFrequencies replaces the frequency list of a stored corpus.
	// The items are expected in rank order.
	// It returns ErrCorpusNotFound for unknown corpora.
	SaveFrequencies(ctx context.Context, name string, items []freqs.WordCount) error

	// Frequencies returns a stored frequency list in rank order.
	// It returns ErrCorpusNotFound for unknown corpora.
	Frequencies(ctx context.Context, name string) ([]freqs.WordCount, error)

	// InitializeDB creates the storage schema. With force,
	// all the existing data are removed first.
	InitializeDB(ctx context.Context, force bool) error

	Close() error
}

type DBConf struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Name     string `json:"name"`
	User     string `json:"user"`
	Password string `json:"password"`
	PoolSize int    `json:"poolSize"`
}

type Conf struct {

	// Backend is one of "postgres", "sqlite" or empty
	// for no persistence
	Backend    string  `json:"backend"`
	DB         *DBConf `json:"db"`
	SQLitePath string  `json:"sqlitePath"`
}

func (conf *Conf) ValidateAndDefaults(confContext string) error {
	if !collections.SliceContains(supportedBackends, conf.Backend) {
		return fmt.Errorf("unsupported `%s.backend`: %s", confContext, conf.Backend)
	}
	switch conf.Backend {
	case BackendPostgres:
		if conf.DB == nil {
			return fmt.Errorf("missing `%s.db`", confContext)
		}
		if conf.DB.Host == "" {
			return fmt.Errorf("missing `%s.db.host`", confContext)
		}
		if conf.DB.Name == "" {
			return fmt.Errorf("missing `%s.db.name`", confContext)
		}
		if conf.DB.Port == 0 {
			conf.DB.Port = dfltDBPort
			log.Warn().Msgf("`%s.db.port` not set, using default %d", confContext, dfltDBPort)
		}
		if conf.DB.PoolSize <= 0 {
			conf.DB.PoolSize = dfltPoolSize
			log.Warn().Msgf("`%s.db.poolSize` not set, using default %d", confContext, dfltPoolSize)
		}
	case BackendSQLite:
		if conf.SQLitePath == "" {
			conf.SQLitePath = dfltSQLitePath
			log.Warn().Msgf("`%s.sqlitePath` not set, using default %s", confContext, dfltSQLitePath)
		}
	}
	return nil
}

// Open creates a store based on the configured backend.
// For no backend, nil store and nil error are returned.
func Open(ctx context.Context, conf *Conf) (CorpusStore, error) {
	switch conf.Backend {
	case BackendPostgres:
		store, err := OpenPostgres(ctx, conf.DB)
		if err != nil {
			return nil, err
		}
		return store, nil
	case BackendSQLite:
		store, err := OpenSQLite(conf.SQLitePath)
		if err != nil {
			return nil, err
		}
		return store, nil
	case BackendNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", conf.Backend)
	}
}
