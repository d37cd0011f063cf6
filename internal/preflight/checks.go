package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"cloudproxy/internal/adaptation"
	"cloudproxy/internal/journal"
)

const adaptationCheckTimeout = 10 * time.Second

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	if path == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckAdaptation connects a client to the adaptation service and closes it.
func CheckAdaptation(ctx context.Context, name string, client adaptation.Client) Result {
	if client == nil {
		return Result{Name: name, Detail: "no client"}
	}
	defer client.Close()

	checkCtx, cancel := context.WithTimeout(ctx, adaptationCheckTimeout)
	defer cancel()

	if err := client.Connect(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeConnectError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "Reachable"}
}

// CheckJournal opens the journal database and reads its outcome counts.
func CheckJournal(ctx context.Context, path string) Result {
	const name = "Journal"
	store, err := journal.Open(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	defer store.Close()

	stats, err := store.Stats(ctx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	total := 0
	for _, count := range stats {
		total += count
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d cycles recorded)", path, total)}
}

// summarizeConnectError produces a human-readable summary for connect failures.
func summarizeConnectError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "connect timed out (adaptation service unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "connect timed out (adaptation service unreachable)"
	}
	return err.Error()
}
