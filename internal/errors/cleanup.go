// Package errors provides panic isolation for paths the core must never
// let escape into user code.
package errors

import (
	"github.com/rs/zerolog"
)

// Recover absorbs a panic on the calling goroutine and logs it instead of
// letting it propagate, satisfying spec.md's invariant that instrumentation
// failures never surface in the embedding program (e.g. a panic inside a
// tracing callback or a stats sample). Call via `defer errors.Recover(logger,
// "context")`.
func Recover(logger zerolog.Logger, context string) {
	if r := recover(); r != nil {
		logger.Error().Interface("panic", r).Str("context", context).Msg("recovered from panic in instrumentation code")
	}
}
