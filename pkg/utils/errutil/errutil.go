package errutil

import (
	"context"
	"errors"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/merlin-energy/merlinctl/pkg/utils/logging"
)

// Handle logs a fatal error of a command at error level and returns it unchanged,
// so that callers can write `return errutil.Handle(ctx, err, "...")`.
// The stack trace is included for goerr errors.
func Handle(ctx context.Context, err error, msg string) error {
	if err == nil {
		return nil
	}
	logging.From(ctx).Error(msg, errorAttrs(err, true)...)
	return err
}

// Warn logs a recoverable failure. Processing is expected to continue.
func Warn(ctx context.Context, err error, msg string, args ...any) {
	if err == nil {
		return
	}
	logging.From(ctx).Warn(msg, append(args, errorAttrs(err, false)...)...)
}

func errorAttrs(err error, withStack bool) []any {
	attrs := []any{slog.String("error", err.Error())}

	var ge *goerr.Error
	if !errors.As(err, &ge) {
		return attrs
	}
	if values := ge.Values(); len(values) > 0 {
		attrs = append(attrs, slog.Any("values", values))
	}
	if withStack {
		attrs = append(attrs, slog.Any("stack", ge.Stacks()))
	}
	return attrs
}
