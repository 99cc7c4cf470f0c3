package domain

import "errors"

// ErrNodeNotFound is returned when a node id is not present in the workspace.
var ErrNodeNotFound = errors.New("node not found")

// ErrWorkspaceNotFound is returned when a workspace ID cannot be found in the store.
var ErrWorkspaceNotFound = errors.New("workspace not found")

// ErrOperatorNotFound is returned when an operator name or alias is not registered.
var ErrOperatorNotFound = errors.New("operator not found")

// ErrInvalidConnection is returned when an edge would break the graph invariants.
var ErrInvalidConnection = errors.New("invalid connection")
