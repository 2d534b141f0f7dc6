// Package logger wires the service-wide zap logger.
package logger

import "go.uber.org/zap"

var sugar = zap.Must(zap.NewProduction()).Sugar()

// Init rebuilds the global logger. debug switches to development output
// with human-readable timestamps.
func Init(debug bool) {
	var l *zap.Logger
	if debug {
		l = zap.Must(zap.NewDevelopment())
	} else {
		l = zap.Must(zap.NewProduction())
	}
	zap.ReplaceGlobals(l)
	sugar = l.Sugar()
}

// S returns the shared sugared logger.
func S() *zap.SugaredLogger {
	return sugar
}
