// Package memory provides an in-memory ports.DocumentStore for tests and
// single-process servers.
package memory
