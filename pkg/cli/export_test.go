package cli

import (
	"context"
	"io"
)

func RunWithWriter(ctx context.Context, args []string, w io.Writer) error {
	return run(ctx, args, "test", w)
}

// SetConfirm replaces the confirmation prompt and returns a function restoring it
func SetConfirm(f func(string) (bool, error)) func() {
	orig := confirm
	confirm = f
	return func() { confirm = orig }
}

var UnifiedDiff = unifiedDiff
