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
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

const (
	defaultWordColumnSize   = 300
	defaultCorpusColumnSize = 200
)

func dropPgTables(ctx context.Context, tx pgx.Tx) error {
	for _, tbl := range []string{"corpus_freqs", "corpora"} {
		_, err := tx.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", tbl))
		if err != nil {
			return fmt.Errorf("failed to DROP table %s: %w", tbl, err)
		}
	}
	return nil
}

func createCorporaTable(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS corpora (
		name varchar(%d) NOT NULL,
		source varchar(500) NOT NULL DEFAULT '',
		text text NOT NULL,
		imported_at timestamptz NOT NULL,
		PRIMARY KEY (name)
	)`, defaultCorpusColumnSize))
	if err != nil {
		return fmt.Errorf("failed to CREATE table corpora: %w", err)
	}
	return nil
}

func createFreqsTable(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS corpus_freqs (
		corpus varchar(%d) NOT NULL REFERENCES corpora(name) ON DELETE CASCADE,
		rank int NOT NULL,
		word varchar(%d) NOT NULL,
		freq int NOT NULL,
		PRIMARY KEY (corpus, rank)
	)`, defaultCorpusColumnSize, defaultWordColumnSize))
	if err != nil {
		return fmt.Errorf("failed to CREATE table corpus_freqs: %w", err)
	}
	return nil
}

// InitializeDB creates the tables needed by the store.
// With force, existing tables (and data) are dropped first.
func (store *PostgresStore) InitializeDB(ctx context.Context, force bool) error {
	tx, err := store.db.Begin(ctx)
	if err != nil {
		return err
	}
	if force {
		log.Info().Msg("dropping existing tables")
		if err := dropPgTables(ctx, tx); err != nil {
			tx.Rollback(ctx)
			return err
		}
	}
	log.Info().Msg("creating tables")
	if err := createCorporaTable(ctx, tx); err != nil {
		tx.Rollback(ctx)
		return err
	}
	if err := createFreqsTable(ctx, tx); err != nil {
		tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}
