package staging

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"cloudproxy/internal/fileutil"
	"cloudproxy/internal/logging"
	"cloudproxy/internal/services"
)

// Paths is the pair of staging files owned by one cycle.
type Paths struct {
	Original string
	Rebuilt  string
}

// Store exchanges artifacts through the original and rebuilt store roots.
type Store struct {
	OriginalRoot string
	RebuiltRoot  string
	logger       *slog.Logger
}

// NewStore constructs a Store for the given roots.
func NewStore(originalRoot, rebuiltRoot string, logger *slog.Logger) *Store {
	return &Store{
		OriginalRoot: originalRoot,
		RebuiltRoot:  rebuiltRoot,
		logger:       logging.NewComponentLogger(logger, "staging"),
	}
}

// PathsFor returns the staging files keyed by id.
func (s *Store) PathsFor(id uuid.UUID) Paths {
	name := id.String()
	return Paths{
		Original: filepath.Join(s.OriginalRoot, name),
		Rebuilt:  filepath.Join(s.RebuiltRoot, name),
	}
}

// Stage copies the input artifact into the original store, overwriting any
// file already there.
func (s *Store) Stage(ctx context.Context, inputPath string, paths Paths) error {
	logging.WithContext(ctx, s.logger).Info("updating original store",
		logging.String("input", inputPath),
		logging.String("original_path", paths.Original),
	)
	if err := fileutil.CopyFile(ctx, inputPath, paths.Original); err != nil {
		return services.Wrap(services.ErrStaging, "resolving_id", "stage", "copy input into original store", err)
	}
	return nil
}

// Promote copies the rebuilt artifact to the caller's output path. An existing
// output is replaced only once the copy is complete and verified.
func (s *Store) Promote(ctx context.Context, rebuiltPath, outputPath string) error {
	logging.WithContext(ctx, s.logger).Info("copying rebuilt artifact to output",
		logging.String("rebuilt_path", rebuiltPath),
		logging.String("output", outputPath),
	)
	if err := fileutil.ReplaceFileVerified(ctx, rebuiltPath, outputPath); err != nil {
		return services.Wrap(services.ErrProcessing, "interpreting", "promote", "copy rebuilt artifact to output", err)
	}
	return nil
}

// Clear removes both staging files. Empty paths are skipped and missing files
// are not failures. Errors are logged and never returned.
func (s *Store) Clear(ctx context.Context, paths Paths) {
	logger := logging.WithContext(ctx, s.logger)
	logger.Info("clearing stores",
		logging.String("original_path", paths.Original),
		logging.String("rebuilt_path", paths.Rebuilt),
	)
	for _, path := range []string{paths.Original, paths.Rebuilt} {
		if strings.TrimSpace(path) == "" {
			continue
		}
		if err := fileutil.RemoveIfExists(path); err != nil {
			logging.WarnWithContext(logger, "error whilst attempting to clear store",
				"cleanup_failed",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check store directory permissions"),
				logging.String(logging.FieldImpact, "stale staging file left on disk"),
			)
		}
	}
}
