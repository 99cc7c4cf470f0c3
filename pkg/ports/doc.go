/*
Package ports defines the driven ports (interfaces) of heddle.

These interfaces decouple workspaces from where they are kept, allowing the same
session manager to run over memory, the filesystem or Redis.

# Key Interfaces

  - DocumentStore: persists and loads workspace documents by id.
  - DistributedLocker: serializes access to one workspace across replicas.
*/
package ports
