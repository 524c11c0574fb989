// Package logging provides a minimal logging interface and adapters for reflectloop.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the loop controller and role agents use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - ReflectLogger with run/component context and loop specific helpers
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	loop := reflection.New(gen, critic, func(o *reflection.Options) { o.Logger = logger })
package logging
