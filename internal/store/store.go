// Package store persists the decoration database with crash-safe replace
// semantics and loads it back for readers.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"

	"github.com/Girbilcannon/DecoToolsHelper/internal/decorations"
)

const (
	// FileName is the name of the decoration database file inside the data directory.
	FileName = "decorations.json"

	tempSuffix   = ".tmp"
	backupSuffix = ".bak"
)

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks -source=store.go Store

// Store defines the interface for decoration database persistence
type Store interface {
	// Save atomically replaces the stored database with db
	Save(ctx context.Context, db *decorations.Database) error

	// TryLoad returns the stored database, or false when none is usable.
	// Missing and corrupt files are both reported as absent.
	TryLoad(ctx context.Context) (*decorations.Database, bool)

	// Path returns the location of the database file
	Path() string
}

var _ Store = (*FileStore)(nil)

// FileStore implements Store on the local filesystem.
type FileStore struct {
	dir  string
	path string

	// replace and copyReplace are the primary and fallback commit mechanisms.
	replace     func(src, dst string) error
	copyReplace func(src, dst string) error
	// beforeCommit runs after the temp file is verified and before the target is touched.
	beforeCommit func() error
	retry        retryPolicy
}

// NewFileStore creates a store that keeps FileName inside dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{
		dir:         dir,
		path:        filepath.Join(dir, FileName),
		replace:     replaceFile,
		copyReplace: copyThenDelete,
		retry:       defaultRetryPolicy(),
	}
}

// Path returns the location of the database file.
func (s *FileStore) Path() string {
	return s.path
}

// Save writes db to a temp file next to the target, verifies it, and commits it.
// The previous file is left untouched unless the commit itself succeeds.
func (s *FileStore) Save(ctx context.Context, db *decorations.Database) error {
	if db == nil {
		return &PersistenceError{Op: OpEncode, Path: s.path, Err: errors.New("database is nil")}
	}
	if err := ctx.Err(); err != nil {
		return &PersistenceError{Op: OpWrite, Path: s.path, Err: err}
	}

	if err := os.MkdirAll(s.dir, 0750); err != nil {
		return &PersistenceError{Op: OpWrite, Path: s.dir, Err: fmt.Errorf("failed to create data directory: %w", err)}
	}

	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return &PersistenceError{Op: OpEncode, Path: s.path, Err: err}
	}

	tempPath := s.path + tempSuffix
	defer func() {
		if err := os.Remove(tempPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logr.FromContextOrDiscard(ctx).Error(err, "Failed to remove temporary database file", "path", tempPath)
		}
	}()

	if err := writeSynced(tempPath, data); err != nil {
		return &PersistenceError{Op: OpWrite, Path: tempPath, Err: err}
	}
	if err := verify(tempPath, data); err != nil {
		return &PersistenceError{Op: OpVerify, Path: tempPath, Err: err}
	}

	if s.beforeCommit != nil {
		if err := s.beforeCommit(); err != nil {
			return &PersistenceError{Op: OpCommit, Path: s.path, Err: err}
		}
	}
	if err := ctx.Err(); err != nil {
		return &PersistenceError{Op: OpCommit, Path: s.path, Err: err}
	}

	return s.commit(ctx, tempPath)
}

// TryLoad reads and decodes the database file. Temp and backup files are never read.
func (s *FileStore) TryLoad(ctx context.Context) (*decorations.Database, bool) {
	logger := logr.FromContextOrDiscard(ctx).WithValues("path", s.path)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Error(err, "Failed to read decoration database")
		}
		return nil, false
	}

	db, err := decode(data)
	if err != nil {
		logger.Info("Ignoring unusable decoration database", "reason", err.Error())
		return nil, false
	}
	return db, true
}

func decode(data []byte) (*decorations.Database, error) {
	var db decorations.Database
	if err := json.Unmarshal(data, &db); err != nil {
		return nil, fmt.Errorf("failed to unmarshal decoration database: %w", err)
	}
	if db.Version <= 0 {
		return nil, fmt.Errorf("invalid database version %d", db.Version)
	}
	if db.Decorations == nil {
		db.Decorations = []decorations.Entry{}
	}
	return &db, nil
}

// writeSynced writes data to path and flushes it to stable storage.
func writeSynced(path string, data []byte) error {
	// #nosec G304 -- path is derived from the configured data directory
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// verify re-reads path and checks it holds exactly data and decodes.
func verify(path string, data []byte) error {
	// #nosec G304 -- path is derived from the configured data directory
	onDisk, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if !bytes.Equal(onDisk, data) {
		return fmt.Errorf("temporary file content mismatch: wrote %d bytes, read %d", len(data), len(onDisk))
	}
	_, err = decode(onDisk)
	return err
}
