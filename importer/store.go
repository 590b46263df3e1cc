// The MIT License (MIT)
//
// Copyright (c) 2019 West Damron
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package importer

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/wdamron/flowtype"
	"github.com/wdamron/flowtype/serial"
	"github.com/wdamron/flowtype/types"
)

const schema = `CREATE TABLE IF NOT EXISTS packages (
	path TEXT PRIMARY KEY,
	body BLOB NOT NULL
)`

// Store is a persistent cache of package types backed by SQLite. Imports are memoized for the
// lifetime of the store; Put updates both the database and the memoized entry.
//
// A Store is safe for concurrent use.
type Store struct {
	db     *sql.DB
	logger *slog.Logger

	mu    sync.Mutex
	cache map[string]cached
}

type cached struct {
	p  types.PolyType
	ok bool
}

// Open opens or creates a store. An empty dsn opens a private in-memory database.
// A nil logger uses slog.Default().
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dsn == "" {
		dsn = ":memory:"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "importer: opening %s", dsn)
	}
	// every connection to :memory: is a distinct database
	db.SetMaxOpenConns(1)
	if _, err = db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "importer: creating schema")
	}
	return &Store{db: db, logger: logger, cache: make(map[string]cached)}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return errors.Wrap(s.db.Close(), "importer: closing store")
}

// Put stores the type of the package at path, replacing any previous entry.
func (s *Store) Put(ctx context.Context, path string, p types.PolyType) error {
	body, err := serial.MarshalPolyType(p)
	if err != nil {
		return errors.Wrapf(err, "importer: encoding %s", path)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO packages (path, body) VALUES (?, ?)
		ON CONFLICT (path) DO UPDATE SET body = excluded.body`, path, body)
	if err != nil {
		return errors.Wrapf(err, "importer: storing %s", path)
	}
	s.mu.Lock()
	s.cache[path] = cached{p: p, ok: true}
	s.mu.Unlock()
	return nil
}

// PutExports stores the exports of an inferred package.
func (s *Store) PutExports(ctx context.Context, path string, x *flowtype.PackageExports) error {
	return s.Put(ctx, path, x.PolyType())
}

// Load reads the type of the package at path, bypassing the memoized entries.
func (s *Store) Load(ctx context.Context, path string) (types.PolyType, bool, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx, `SELECT body FROM packages WHERE path = ?`, path).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return types.PolyType{}, false, nil
	}
	if err != nil {
		return types.PolyType{}, false, errors.Wrapf(err, "importer: loading %s", path)
	}
	p, err := serial.UnmarshalPolyType(body)
	if err != nil {
		return types.PolyType{}, false, errors.Wrapf(err, "importer: decoding %s", path)
	}
	return p, true, nil
}

// Paths returns the stored import paths in sorted order.
func (s *Store) Paths(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path FROM packages ORDER BY path`)
	if err != nil {
		return nil, errors.Wrap(err, "importer: listing packages")
	}
	defer rows.Close()
	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, errors.Wrap(err, "importer: listing packages")
		}
		paths = append(paths, path)
	}
	return paths, errors.Wrap(rows.Err(), "importer: listing packages")
}

// Import resolves path from the store. Results, including unknown paths, are memoized; read
// failures are logged and reported as unresolved without being memoized.
func (s *Store) Import(path string) (types.PolyType, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.cache[path]; ok {
		s.logger.Debug("import cache hit", "path", path, "found", c.ok)
		return c.p, c.ok
	}
	p, ok, err := s.Load(context.Background(), path)
	if err != nil {
		s.logger.Warn("import failed", "path", path, "error", err)
		return types.PolyType{}, false
	}
	s.cache[path] = cached{p: p, ok: ok}
	return p, ok
}
