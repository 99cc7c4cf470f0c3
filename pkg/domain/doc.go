/*
Package domain contains the shared, dependency-free types of the Heddle workspace.

It defines how graph nodes are identified and classified, the persisted document shape
exchanged with storage collaborators, the lifecycle hooks hosts attach for observability,
and the sentinel errors returned across packages. Nothing in this package performs I/O.

# Key Entities

  - NodeID / NodeKind: identity and classification of draft, operator and connection nodes.
  - Document: the flat node, edge and seed-draft lists a workspace is saved as.
  - LifecycleHooks: callbacks fired around node creation, removal, invocation and recompute.
*/
package domain
