/*
Package session implements workspace sessions over a ports.DocumentStore.

A Manager opens, updates and saves workspaces by id. Every access to one id is
serialized in-process, and across replicas when a ports.DistributedLocker is
configured, so concurrent editors never lose each other's changes.
*/
package session
