/*
Package http exposes operators and stored workspaces over a JSON API built on chi.

	GET    /health
	GET    /info
	GET    /operators
	GET    /operators/{name}
	POST   /operators/{name}/invoke
	GET    /workspaces
	POST   /workspaces
	GET    /workspaces/{id}
	PUT    /workspaces/{id}
	DELETE /workspaces/{id}
	GET    /workspaces/{id}/mermaid
	GET    /workspaces/{id}/events
	POST   /workspaces/{id}/nodes
	DELETE /workspaces/{id}/nodes/{node}
	PUT    /workspaces/{id}/nodes/{node}/params
	GET    /workspaces/{id}/drafts/{node}
	POST   /workspaces/{id}/connections
	GET    /metrics (when a gatherer is configured)

Every workspace mutation is broadcast to the subscribers of /workspaces/{id}/events
as a server-sent event.
*/
package http
