// Package cli holds process plumbing shared by the heddle commands: signal-aware
// contexts and the document watcher behind `heddle watch`.
package cli
