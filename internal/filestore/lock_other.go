//go:build !unix

package filestore

import "os"

// Advisory locking is unix-only; elsewhere writers rely on the atomic rename.
func tryLock(*os.File) (bool, error) { return true, nil }

func unlock(*os.File) error { return nil }
