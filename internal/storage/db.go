// Package storage provides the badger-backed persistence for eventcal.
package storage

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	badger "github.com/dgraph-io/badger/v4"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/errors"
)

// AppName is the application name used for data directories.
const AppName = "eventcal"

// DB wraps a Badger database connection.
type DB struct {
	db   *badger.DB
	path string
}

// Options configures the database connection.
type Options struct {
	// Path is the database directory. Empty means in-memory.
	Path string
	// InMemory forces in-memory mode regardless of Path.
	InMemory bool
}

// DefaultPath returns $XDG_DATA_HOME/eventcal/db.
func DefaultPath() string {
	return filepath.Join(xdg.DataHome, AppName, "db")
}

// Open opens or creates a database.
func Open(opts Options) (*DB, error) {
	var bopts badger.Options
	path := ""

	if opts.InMemory || opts.Path == "" {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		path = opts.Path
		if err := os.MkdirAll(path, 0o700); err != nil {
			return nil, errors.NewSystemErrorWithOp("open", "cannot create data directory", err)
		}
		bopts = badger.DefaultOptions(path)
	}

	bopts = bopts.WithLoggingLevel(badger.ERROR)

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, classifyOpenError(err)
	}

	return &DB{db: db, path: path}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Path returns the on-disk directory, or "" for in-memory databases.
func (d *DB) Path() string {
	return d.path
}

// Badger returns the underlying Badger database.
func (d *DB) Badger() *badger.DB {
	return d.db
}

// gcDiscardRatio is the stale share a value log file needs before it is
// rewritten.
const gcDiscardRatio = 0.5

// CollectGarbage rewrites value log files until none is worth rewriting.
// In-memory databases have no value log.
func (d *DB) CollectGarbage() error {
	if d.path == "" {
		return nil
	}
	for {
		err := d.db.RunValueLogGC(gcDiscardRatio)
		if err == nil {
			continue
		}
		if errors.Is(err, badger.ErrNoRewrite) {
			return nil
		}
		return err
	}
}

func classifyOpenError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "directory lock"):
		return errors.NewUserError(
			"the event database is in use by another eventcal process",
			"stop the daemon or wait for the other command to finish",
		).Because(err)
	case IsCorrupted(err):
		return errors.NewSystemErrorWithOp("open", "event database is corrupted",
			errors.Wrap(errors.ErrDatabaseCorrupted, err.Error()))
	default:
		return errors.NewSystemErrorWithOp("open", "cannot open event database", err)
	}
}

var corruptionPatterns = []string{
	"checksum mismatch",
	"corrupt",
	"unexpected eof",
	"bad magic",
	"truncated",
}

// IsCorrupted reports whether err looks like on-disk corruption.
func IsCorrupted(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, errors.ErrDatabaseCorrupted) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, p := range corruptionPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
