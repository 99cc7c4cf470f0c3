package ports

import (
	"context"

	"github.com/aretw0/heddle/pkg/domain"
)

// DocumentStore persists workspace documents so a session can be closed and resumed.
type DocumentStore interface {
	// Save persists the document under id, replacing any previous version.
	Save(ctx context.Context, id string, doc *domain.Document) error

	// Load retrieves the document stored under id.
	// Returns domain.ErrWorkspaceNotFound if there is none.
	Load(ctx context.Context, id string) (*domain.Document, error)

	// Delete removes the document. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the ids of every stored document.
	List(ctx context.Context) ([]string, error)
}
