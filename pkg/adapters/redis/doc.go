// Package redis implements ports.DocumentStore and ports.DistributedLocker on Redis,
// so several heddle servers can share workspaces.
package redis
