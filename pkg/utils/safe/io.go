package safe

import (
	"context"
	"io"

	"github.com/merlin-energy/merlinctl/pkg/utils/logging"
)

// Close closes c and logs a failure with the name of what was closed. A nil closer is ignored.
func Close(ctx context.Context, c io.Closer, target string) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		logging.From(ctx).Warn("Failed to close", "target", target, "error", err)
	}
}

// WriteString writes s to w. Command output is best effort, so a failure is only logged.
func WriteString(ctx context.Context, w io.Writer, s string) {
	if w == nil || s == "" {
		return
	}
	if _, err := io.WriteString(w, s); err != nil {
		logging.From(ctx).Warn("Failed to write output", "bytes", len(s), "error", err)
	}
}
