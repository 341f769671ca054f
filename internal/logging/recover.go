package logging

import (
	"context"
	"runtime/debug"
)

// RecoverEvent logs and swallows a panic raised while handling what.
// Use as: defer logging.RecoverEvent(ctx, "bookmark-sync")
func RecoverEvent(ctx context.Context, what string) {
	if r := recover(); r != nil {
		FromContext(ctx).Error().
			Str("handler", what).
			Interface("panic", r).
			Bytes("stack", debug.Stack()).
			Msg("recovered from panic")
	}
}
