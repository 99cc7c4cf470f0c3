/*
Package tree tracks the dependency graph of a workspace.

Nodes are drafts, operators and connections. Connections are nodes of their own, so
every edge from -> to is stored as from -> connection -> to and can be created,
queried and removed on its own. Callers asking for neighbours through Inputs and
Outputs see through connections.

A draft generated by an operator records that operator as its parent. The relation
is an id, not a pointer: removing an operator does not remove its drafts unless
RemoveOperatorCascade is used.

Each node follows the lifecycle Created -> Wired -> Clean <-> Dirty -> Removed.
MarkDirty propagates downstream, and RecomputeOrder lists the operators to run after
a change, upstream first.

The tree is not safe for concurrent mutation; hosts that need it serialize access
(see package session). Operations on ids that were never created or were removed
are programmer errors and panic with an error wrapping domain.ErrNodeNotFound.
*/
package tree
