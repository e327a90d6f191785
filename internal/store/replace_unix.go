//go:build !windows

package store

import (
	"errors"
	"os"
	"syscall"
)

// replaceFile atomically replaces dst with src. rename(2) is atomic within a filesystem.
func replaceFile(src, dst string) error {
	return os.Rename(src, dst)
}

func isTransientReplaceError(err error) bool {
	return errors.Is(err, syscall.EBUSY) || errors.Is(err, syscall.EINTR)
}
