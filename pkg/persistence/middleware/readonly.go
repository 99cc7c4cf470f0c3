package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/heddle/pkg/domain"
	"github.com/aretw0/heddle/pkg/ports"
)

// ErrReadOnly is returned by writes through a ReadOnly store.
var ErrReadOnly = errors.New("store is read-only")

type readOnly struct {
	ports.DocumentStore
}

// ReadOnly rejects Save and Delete, for surfaces that only inspect workspaces.
func ReadOnly() Middleware {
	return func(next ports.DocumentStore) ports.DocumentStore {
		return readOnly{next}
	}
}

func (readOnly) Save(ctx context.Context, id string, doc *domain.Document) error {
	return fmt.Errorf("save %s: %w", id, ErrReadOnly)
}

func (readOnly) Delete(ctx context.Context, id string) error {
	return fmt.Errorf("delete %s: %w", id, ErrReadOnly)
}
