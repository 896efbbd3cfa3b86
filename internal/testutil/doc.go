// Package testutil contains fakes and builders used across tests to reduce
// boilerplate when wiring graphs: a static Discovery, a scripted Invoker and
// a fluent builder for remote event streams. They are not intended for
// production usage.
package testutil
