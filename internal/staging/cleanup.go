package staging

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"cloudproxy/internal/logging"
)

// CleanStaleResult contains the outcome of a stale file sweep.
type CleanStaleResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a file path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// FileInfo describes one staging file.
type FileInfo struct {
	Root    string
	Name    string
	Path    string
	ModTime time.Time
	Size    int64
}

// Roots returns the store roots in a stable order.
func (s *Store) Roots() []string {
	return []string{s.OriginalRoot, s.RebuiltRoot}
}

// CleanStale removes staging files older than maxAge from both store roots.
// Only regular files named by a correlation id are considered; anything else
// in a root belongs to someone else.
func (s *Store) CleanStale(ctx context.Context, maxAge time.Duration) CleanStaleResult {
	result := CleanStaleResult{}
	logger := logging.WithContext(ctx, s.logger)
	cutoff := time.Now().Add(-maxAge)

	for _, root := range s.Roots() {
		files, err := listRoot(root)
		if err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: root, Error: err})
			continue
		}
		for _, file := range files {
			if !file.ModTime.Before(cutoff) {
				continue
			}
			if err := os.Remove(file.Path); err != nil && !os.IsNotExist(err) {
				result.Errors = append(result.Errors, CleanupError{Path: file.Path, Error: err})
				logging.WarnWithContext(logger, "failed to remove stale staging file",
					"staging_cleanup_failed",
					logging.String("path", file.Path),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check store directory permissions"),
					logging.String(logging.FieldImpact, "disk space not reclaimed"),
				)
				continue
			}
			result.Removed = append(result.Removed, file.Path)
			logger.Info("removed stale staging file",
				logging.String("path", file.Path),
				logging.Duration("age", time.Since(file.ModTime)),
				logging.String(logging.FieldEventType, "staging_cleanup"),
			)
		}
	}
	return result
}

// List returns every staging file in both roots, oldest first.
func (s *Store) List() ([]FileInfo, error) {
	var all []FileInfo
	for _, root := range s.Roots() {
		files, err := listRoot(root)
		if err != nil {
			return nil, err
		}
		all = append(all, files...)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].ModTime.Before(all[j].ModTime)
	})
	return all, nil
}

func listRoot(root string) ([]FileInfo, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []FileInfo
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if _, err := uuid.Parse(entry.Name()); err != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Root:    root,
			Name:    entry.Name(),
			Path:    filepath.Join(root, entry.Name()),
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}
	return files, nil
}

