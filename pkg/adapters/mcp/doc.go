// Package mcp exposes the operator registry, and optionally stored workspaces, as
// Model Context Protocol tools and resources.
package mcp
