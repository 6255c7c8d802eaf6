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
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/czcorpus/corpstat/freqs"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

const (
	sqliteDropTables = `
DROP TABLE IF EXISTS corpus_freqs;
DROP TABLE IF EXISTS corpora;
`

	sqliteSchema = `
CREATE TABLE IF NOT EXISTS corpora (
	name TEXT PRIMARY KEY,
	source TEXT NOT NULL DEFAULT '',
	text TEXT NOT NULL,
	imported_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS corpus_freqs (
	corpus TEXT NOT NULL REFERENCES corpora(name) ON DELETE CASCADE,
	rank INTEGER NOT NULL,
	word TEXT NOT NULL,
	freq INTEGER NOT NULL,
	PRIMARY KEY (corpus, rank)
);
`
)

// SQLiteStore is a CorpusStore backed by a single SQLite file
type SQLiteStore struct {
	db *sql.DB
}

func (store *SQLiteStore) Save(ctx context.Context, corpus *StoredCorpus) error {
	_, err := store.db.ExecContext(
		ctx,
		`INSERT INTO corpora (name, source, text, imported_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE
		SET source = excluded.source, text = excluded.text, imported_at = excluded.imported_at`,
		corpus.Name, corpus.Source, corpus.Text, corpus.ImportedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to save corpus %s: %w", corpus.Name, err)
	}
	return nil
}

func (store *SQLiteStore) Load(ctx context.Context, name string) (*StoredCorpus, error) {
	ans := &StoredCorpus{Name: name}
	var importedAt string
	row := store.db.QueryRowContext(
		ctx,
		"SELECT source, text, imported_at FROM corpora WHERE name = ?",
		name,
	)
	err := row.Scan(&ans.Source, &ans.Text, &importedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCorpusNotFound

	} else if err != nil {
		return nil, fmt.Errorf("failed to load corpus %s: %w", name, err)
	}
	ans.ImportedAt, err = time.Parse(time.RFC3339Nano, importedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus %s: invalid import time: %w", name, err)
	}
	return ans, nil
}

func (store *SQLiteStore) List(ctx context.Context) ([]string, error) {
	rows, err := store.db.QueryContext(ctx, "SELECT name FROM corpora ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list corpora: %w", err)
	}
	defer rows.Close()
	ans := make([]string, 0, 10)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to list corpora: %w", err)
		}
		ans = append(ans, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list corpora: %w", err)
	}
	return ans, nil
}

func (store *SQLiteStore) Delete(ctx context.Context, name string) error {
	tx, err := store.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM corpora WHERE name = ?", name)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete corpus %s: %w", name, err)
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		tx.Rollback()
		if err != nil {
			return fmt.Errorf("failed to delete corpus %s: %w", name, err)
		}
		return ErrCorpusNotFound
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM corpus_freqs WHERE corpus = ?", name); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete frequencies of %s: %w", name, err)
	}
	return tx.Commit()
}

func (store *SQLiteStore) SaveFrequencies(ctx context.Context, name string, items []freqs.WordCount) error {
	tx, err := store.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := sqliteCorpusExists(ctx, tx, name); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM corpus_freqs WHERE corpus = ?", name); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to clear frequencies of %s: %w", name, err)
	}
	stmt, err := tx.PrepareContext(
		ctx, "INSERT INTO corpus_freqs (corpus, rank, word, freq) VALUES (?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()
	for i, item := range items {
		if _, err := stmt.ExecContext(ctx, name, i+1, item.Word, item.Count); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to write frequencies of %s: %w", name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.Debug().Str("corpus", name).Int("items", len(items)).Msg("frequencies written")
	return nil
}

func (store *SQLiteStore) Frequencies(ctx context.Context, name string) ([]freqs.WordCount, error) {
	if err := sqliteCorpusExists(ctx, store.db, name); err != nil {
		return nil, err
	}
	rows, err := store.db.QueryContext(
		ctx, "SELECT word, freq FROM corpus_freqs WHERE corpus = ? ORDER BY rank", name)
	if err != nil {
		return nil, fmt.Errorf("failed to read frequencies of %s: %w", name, err)
	}
	defer rows.Close()
	ans := make([]freqs.WordCount, 0, 100)
	for rows.Next() {
		var item freqs.WordCount
		if err := rows.Scan(&item.Word, &item.Count); err != nil {
			return nil, fmt.Errorf("failed to read frequencies of %s: %w", name, err)
		}
		ans = append(ans, item)
	}
	return ans, rows.Err()
}

// InitializeDB creates the tables needed by the store.
// With force, existing tables (and data) are dropped first.
func (store *SQLiteStore) InitializeDB(ctx context.Context, force bool) error {
	if force {
		log.Info().Msg("dropping existing tables")
		if _, err := store.db.ExecContext(ctx, sqliteDropTables); err != nil {
			return fmt.Errorf("failed to drop tables: %w", err)
		}
	}
	if _, err := store.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

type sqlQueryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func sqliteCorpusExists(ctx context.Context, db sqlQueryer, name string) error {
	var n int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM corpora WHERE name = ?", name).Scan(&n)
	if err != nil {
		return fmt.Errorf("failed to look up corpus %s: %w", name, err)
	}
	if n == 0 {
		return ErrCorpusNotFound
	}
	return nil
}

func (store *SQLiteStore) Close() error {
	return store.db.Close()
}

// OpenSQLite opens (or creates) a database file and applies the schema
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	store := &SQLiteStore{db: db}
	if err := store.InitializeDB(context.Background(), false); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Info().Str("path", path).Msg("opened SQLite corpus storage")
	return store, nil
}
