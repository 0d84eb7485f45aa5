package filestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
)

// LockTimeout bounds how long Write waits for another writer.
const LockTimeout = 5 * time.Second

// ErrLockTimeout is returned when the document lock cannot be acquired in time.
var ErrLockTimeout = errors.New("lock timeout")

const lockRetryInterval = 10 * time.Millisecond

// fileLock is an exclusive advisory lock on a sidecar ".lock" file.
type fileLock struct {
	file *os.File
}

// acquireLock polls for the lock until it is held, the timeout passes or ctx
// is done.
func acquireLock(ctx context.Context, path string, timeout time.Duration) (*fileLock, error) {
	file, err := os.OpenFile(path+".lock", os.O_CREATE|os.O_RDWR, filePerms)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	retry := time.NewTicker(lockRetryInterval)
	defer retry.Stop()

	for {
		ok, err := tryLock(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to lock %s: %w", path, err)
		}
		if ok {
			return &fileLock{file: file}, nil
		}
		select {
		case <-ctx.Done():
			file.Close()
			return nil, fmt.Errorf("waiting for lock on %s: %w", path, ctx.Err())
		case <-deadline.C:
			file.Close()
			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, path)
		case <-retry.C:
		}
	}
}

func (l *fileLock) release() {
	if l.file != nil {
		_ = unlock(l.file)
		_ = l.file.Close()
	}
}
