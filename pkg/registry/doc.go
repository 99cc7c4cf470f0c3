// Package registry keeps the operators known to a workspace, addressable by current
// name or by any historical alias so older documents keep loading.
package registry
