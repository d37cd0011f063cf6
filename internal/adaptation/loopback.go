package adaptation

import (
	"context"
	"fmt"
	"strings"

	"cloudproxy/internal/fileutil"
)

// Loopback is a Processor that returns every artifact unchanged. It copies the
// original file to the rebuilt location and reports the configured verdict,
// letting a gateway be exercised end to end without a real service.
type Loopback struct {
	// Verdict is the file-outcome word reported for every request; it
	// defaults to "replace".
	Verdict string
}

// Process copies req.OriginalPath to req.RebuiltPath.
func (l Loopback) Process(ctx context.Context, req ProcessRequest) (ProcessResponse, error) {
	if err := ctx.Err(); err != nil {
		return ProcessResponse{}, err
	}
	verdict := strings.TrimSpace(l.Verdict)
	if verdict == "" {
		verdict = "replace"
	}
	if verdict != "unmodified" {
		if err := fileutil.CopyFile(ctx, req.OriginalPath, req.RebuiltPath); err != nil {
			return ProcessResponse{}, fmt.Errorf("loopback copy: %w", err)
		}
	}
	return ProcessResponse{Outcome: FileOutcome(verdict), Detail: "loopback"}, nil
}
