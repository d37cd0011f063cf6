package staging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"cloudproxy/internal/fileutil"
	"cloudproxy/internal/services"
)

// IDLock is an exclusive, cross-process claim on a correlation id.
type IDLock struct {
	path string
	lock *flock.Flock
}

// Lock claims id under lockDir. It fails immediately when another process
// holds the same id.
func Lock(lockDir string, id uuid.UUID) (*IDLock, error) {
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrStaging, "resolving_id", "lock", "create lock directory", err)
	}
	path := filepath.Join(lockDir, id.String()+".lock")
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrStaging, "resolving_id", "lock", "acquire id lock", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrStaging, "resolving_id", "lock", fmt.Sprintf("correlation id %s is already in use", id), nil)
	}
	return &IDLock{path: path, lock: fl}, nil
}

// Path returns the lock file location.
func (l *IDLock) Path() string {
	return l.path
}

// Release unlocks and removes the lock file. It is safe to call on a nil lock.
func (l *IDLock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release id lock: %w", err)
	}
	return fileutil.RemoveIfExists(l.path)
}
