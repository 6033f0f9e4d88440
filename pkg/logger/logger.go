// Package logger constructs the structured logger used throughout the
// library, so every package logs through the same zap configuration
// instead of each picking its own.
package logger

import "go.uber.org/zap"

// New returns a production zap logger tagged with the given service name.
// Falls back to a no-op logger if zap's own config fails, since a logging
// failure should never prevent the store from opening.
func New(service string) *zap.SugaredLogger {
	base, err := zap.NewProduction()
	if err != nil {
		base = zap.NewNop()
	}
	return base.Named(service).Sugar()
}
