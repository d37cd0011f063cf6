package correlation

import (
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"cloudproxy/internal/logging"
)

// Resolve returns the identifier parsed from raw, or a freshly generated one
// when raw is absent or malformed. The substitution is logged; it is never an
// error.
func Resolve(raw string, logger *slog.Logger) uuid.UUID {
	trimmed := strings.TrimSpace(raw)
	if id, err := uuid.Parse(trimmed); err == nil {
		return id
	}

	id := uuid.New()
	if logger != nil {
		logger.Info("no valid file id provided, substituting generated id",
			logging.String("supplied", trimmed),
			logging.CorrelationID(id.String()),
			logging.String(logging.FieldEventType, "correlation_id_substituted"),
		)
	}
	return id
}
