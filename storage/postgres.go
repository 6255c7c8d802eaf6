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

	"github.com/czcorpus/corpstat/freqs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const (
	bulkInsertChunkSize = 500
)

var freqsColumns = []string{"corpus", "rank", "word", "freq"}

// PostgresStore is a CorpusStore backed by a PostgreSQL
// connection pool.
type PostgresStore struct {
	db *pgxpool.Pool
}

func (store *PostgresStore) Save(ctx context.Context, corpus *StoredCorpus) error {
	_, err := store.db.Exec(
		ctx,
		`INSERT INTO corpora (name, source, text, imported_at)
		VALUES (@name, @source, @text, @importedAt)
		ON CONFLICT (name) DO UPDATE
		SET source = EXCLUDED.source, text = EXCLUDED.text, imported_at = EXCLUDED.imported_at`,
		pgx.NamedArgs{
			"name":       corpus.Name,
			"source":     corpus.Source,
			"text":       corpus.Text,
			"importedAt": corpus.ImportedAt,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to save corpus %s: %w", corpus.Name, err)
	}
	return nil
}

func (store *PostgresStore) Load(ctx context.Context, name string) (*StoredCorpus, error) {
	ans := &StoredCorpus{Name: name}
	row := store.db.QueryRow(
		ctx,
		"SELECT source, text, imported_at FROM corpora WHERE name = @name",
		pgx.NamedArgs{"name": name},
	)
	err := row.Scan(&ans.Source, &ans.Text, &ans.ImportedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCorpusNotFound

	} else if err != nil {
		return nil, fmt.Errorf("failed to load corpus %s: %w", name, err)
	}
	return ans, nil
}

func (store *PostgresStore) List(ctx context.Context) ([]string, error) {
	rows, err := store.db.Query(ctx, "SELECT name FROM corpora ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list corpora: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to list corpora: %w", err)
	}
	return names, nil
}

func (store *PostgresStore) Delete(ctx context.Context, name string) error {
	tag, err := store.db.Exec(
		ctx,
		"DELETE FROM corpora WHERE name = @name",
		pgx.NamedArgs{"name": name},
	)
	if err != nil {
		return fmt.Errorf("failed to delete corpus %s: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCorpusNotFound
	}
	return nil
}

func (store *PostgresStore) SaveFrequencies(ctx context.Context, name string, items []freqs.WordCount) error {
	tx, err := store.db.Begin(ctx)
	if err != nil {
		return err
	}
	if err := pgCorpusExists(ctx, tx, name); err != nil {
		tx.Rollback(ctx)
		return err
	}
	_, err = tx.Exec(ctx, "DELETE FROM corpus_freqs WHERE corpus = @name", pgx.NamedArgs{"name": name})
	if err != nil {
		tx.Rollback(ctx)
		return fmt.Errorf("failed to clear frequencies of %s: %w", name, err)
	}

	log.Info().Str("corpus", name).Int("items", len(items)).Msg("writing frequencies into database")
	t0 := time.Now()

	rows := make([][]any, 0, bulkInsertChunkSize)
	flush := func() error {
		copyCount, err := tx.CopyFrom(
			ctx,
			pgx.Identifier{"corpus_freqs"},
			freqsColumns,
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return err
		}
		log.Debug().Int64("items", copyCount).Msg("written bulk into database")
		rows = make([][]any, 0, bulkInsertChunkSize)
		return nil
	}
	for i, item := range items {
		if len(rows) == bulkInsertChunkSize {
			if err := flush(); err != nil {
				tx.Rollback(ctx)
				return fmt.Errorf("failed to write frequencies of %s: %w", name, err)
			}
		}
		rows = append(rows, []any{name, i + 1, clipWord(item.Word), item.Count})
	}
	if len(rows) > 0 {
		if err := flush(); err != nil {
			tx.Rollback(ctx)
			return fmt.Errorf("failed to write frequencies of %s: %w", name, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	log.Info().Float64("durationSec", time.Since(t0).Seconds()).Msg("...writing done")
	return nil
}

func (store *PostgresStore) Frequencies(ctx context.Context, name string) ([]freqs.WordCount, error) {
	if err := pgCorpusExists(ctx, store.db, name); err != nil {
		return nil, err
	}
	rows, err := store.db.Query(
		ctx,
		"SELECT word, freq FROM corpus_freqs WHERE corpus = @name ORDER BY rank",
		pgx.NamedArgs{"name": name},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read frequencies of %s: %w", name, err)
	}
	ans, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (freqs.WordCount, error) {
		var item freqs.WordCount
		err := row.Scan(&item.Word, &item.Count)
		return item, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read frequencies of %s: %w", name, err)
	}
	return ans, nil
}

type pgQueryer interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func pgCorpusExists(ctx context.Context, db pgQueryer, name string) error {
	var exists bool
	err := db.QueryRow(
		ctx,
		"SELECT EXISTS(SELECT 1 FROM corpora WHERE name = @name)",
		pgx.NamedArgs{"name": name},
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to look up corpus %s: %w", name, err)
	}
	if !exists {
		return ErrCorpusNotFound
	}
	return nil
}

func (store *PostgresStore) Close() error {
	store.db.Close()
	return nil
}

// clipWord makes sure a word fits the word column
func clipWord(w string) string {
	r := []rune(w)
	if len(r) > defaultWordColumnSize {
		return string(r[:defaultWordColumnSize])
	}
	return w
}

// OpenPostgres connects to the database and makes sure
// the required tables exist.
func OpenPostgres(ctx context.Context, conf *DBConf) (*PostgresStore, error) {
	dsn := fmt.Sprintf(
		"user=%s password=%s host=%s port=%d dbname=%s sslmode=disable pool_max_conns=%d",
		conf.User, conf.Password, conf.Host, conf.Port, conf.Name, max(conf.PoolSize, 1),
	)
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	store := &PostgresStore{db: pool}
	if err := store.InitializeDB(ctx, false); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	log.Info().Str("host", conf.Host).Str("db", conf.Name).Msg("connected to PostgreSQL")
	return store, nil
}
