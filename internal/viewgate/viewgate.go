// Package viewgate debounces anonymous article views.
//
// Authenticated views are deduplicated by the store's unique (article, user)
// index. Anonymous viewers have no stable identity in the relational store,
// so the gate keys a small Badger database on (anonymous ID, article ID) and
// lets each pair count once per window. Entries expire via Badger TTL; there
// is no sweeper to run.
package viewgate

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// DefaultWindow is how long a (viewer, article) pair stays counted.
const DefaultWindow = 24 * time.Hour

// Gate tracks recently counted anonymous views.
type Gate struct {
	db     *badger.DB
	window time.Duration
	logger *slog.Logger
}

// Open creates a gate backed by a Badger database at path.
// A window of 0 means DefaultWindow.
func Open(path string, window time.Duration, logger *slog.Logger) (*Gate, error) {
	if window <= 0 {
		window = DefaultWindow
	}

	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Disable Badger's internal logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}

	return &Gate{
		db:     db,
		window: window,
		logger: logger,
	}, nil
}

// OpenInMemory creates a gate with no disk backing. Used in tests and when
// the server runs without a data directory; debounce state then resets on
// restart, which only inflates view counts, never loses them.
func OpenInMemory(window time.Duration, logger *slog.Logger) (*Gate, error) {
	if window <= 0 {
		window = DefaultWindow
	}

	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open in-memory badger db: %w", err)
	}

	return &Gate{
		db:     db,
		window: window,
		logger: logger,
	}, nil
}

// ShouldCount reports whether a view from anonID on articleID should be
// recorded, and if so marks the pair as counted for the window. The check
// and the mark run in one transaction, so concurrent requests for the same
// pair resolve to a single count.
func (g *Gate) ShouldCount(anonID, articleID string) (bool, error) {
	key := []byte(anonID + "\x00" + articleID)

	count := false
	err := g.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return nil // seen within the window
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		count = true
		entry := badger.NewEntry(key, []byte{1}).WithTTL(g.window)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return false, fmt.Errorf("viewgate check: %w", err)
	}
	return count, nil
}

// Close closes the underlying database.
func (g *Gate) Close() error {
	return g.db.Close()
}
