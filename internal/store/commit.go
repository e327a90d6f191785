package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/go-logr/logr"
)

type retryPolicy struct {
	initial  time.Duration
	max      time.Duration
	attempts uint
}

func defaultRetryPolicy() retryPolicy {
	return retryPolicy{
		initial:  50 * time.Millisecond,
		max:      500 * time.Millisecond,
		attempts: 5,
	}
}

func (p retryPolicy) backOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.initial
	b.MaxInterval = p.max
	return b
}

// commit moves tempPath over the database file. A hard-linked backup of the
// current file is kept until the new file is in place.
func (s *FileStore) commit(ctx context.Context, tempPath string) error {
	logger := logr.FromContextOrDiscard(ctx).WithValues("path", s.path)
	backupPath := s.path + backupSuffix

	hasBackup, err := linkBackup(s.path, backupPath)
	if err != nil {
		// The replace below is still atomic; only the restore path is lost.
		logger.Info("Could not create database backup", "error", err.Error())
	}

	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		rerr := s.replace(tempPath, s.path)
		if rerr != nil && !isTransientReplaceError(rerr) {
			return struct{}{}, backoff.Permanent(rerr)
		}
		return struct{}{}, rerr
	}, backoff.WithBackOff(s.retry.backOff()), backoff.WithMaxTries(s.retry.attempts))

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			s.dropBackup(logger, backupPath, hasBackup)
			return &PersistenceError{Op: OpCommit, Path: s.path, Err: ctxErr}
		}

		logger.Info("Atomic replace failed, falling back to copy", "error", err.Error())
		if ferr := s.copyReplace(tempPath, s.path); ferr != nil {
			if hasBackup {
				s.restoreBackup(logger, backupPath)
			}
			return &PersistenceError{Op: OpCommit, Path: s.path, Err: errors.Join(err, ferr)}
		}
	}

	s.dropBackup(logger, backupPath, hasBackup)
	return nil
}

// linkBackup hard-links path to backupPath, replacing any stale backup.
// It reports false with no error when there is nothing to back up.
func linkBackup(path, backupPath string) (bool, error) {
	if err := os.Remove(backupPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	if err := os.Link(path, backupPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *FileStore) restoreBackup(logger logr.Logger, backupPath string) {
	if err := s.replace(backupPath, s.path); err != nil {
		logger.Error(err, "Failed to restore database from backup", "backup", backupPath)
		return
	}
	logger.Info("Restored database from backup")
}

func (*FileStore) dropBackup(logger logr.Logger, backupPath string, hasBackup bool) {
	if !hasBackup {
		return
	}
	if err := os.Remove(backupPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Error(err, "Failed to remove database backup", "backup", backupPath)
	}
}

// copyThenDelete overwrites dst with the bytes of src and then removes src.
// Readers may observe a torn dst while the copy is in progress.
func copyThenDelete(src, dst string) error {
	// #nosec G304 -- src is the store's own temp file
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := writeSynced(dst, data); err != nil {
		return err
	}
	return os.Remove(src)
}
