// Package testutil contains deterministic role agent stubs and builders used
// across tests to reduce boilerplate when exercising the reflection loop.
// They are not intended for production usage.
package testutil
