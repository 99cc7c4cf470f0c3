package document

import (
	"context"
	"fmt"

	"github.com/aretw0/heddle"
	"github.com/aretw0/heddle/pkg/domain"
	"github.com/aretw0/heddle/pkg/draft"
)

// Import rebuilds a workspace from a document and recomputes every generated draft.
// Node ids are reassigned in ascending order of the stored ids. Unless opts set one,
// the workspace keeps the document id.
func Import(ctx context.Context, doc *domain.Document, opts ...heddle.Option) (*heddle.Workspace, error) {
	if doc.Version > domain.DocumentVersion {
		return nil, fmt.Errorf("document version %d is newer than supported version %d", doc.Version, domain.DocumentVersion)
	}
	if doc.ID != "" {
		opts = append([]heddle.Option{heddle.WithID(doc.ID)}, opts...)
	}
	ws := heddle.New(opts...)

	drafts := make(map[domain.NodeID]domain.DraftRecord, len(doc.Drafts))
	for _, rec := range doc.Drafts {
		drafts[rec.Node] = rec
	}
	operators := make(map[domain.NodeID]domain.OperatorRecord, len(doc.Operators))
	for _, rec := range doc.Operators {
		operators[rec.Node] = rec
	}
	edges := make(map[domain.NodeID]domain.EdgeRecord, len(doc.Edges))
	for _, rec := range doc.Edges {
		edges[rec.Node] = rec
	}

	ids := make(map[domain.NodeID]domain.NodeID, len(doc.Nodes))
	var connections []domain.NodeID
	for _, n := range doc.Nodes {
		if _, dup := ids[n.ID]; dup {
			return nil, fmt.Errorf("node %d listed twice", n.ID)
		}
		switch n.Kind {
		case domain.KindDraft:
			var d *draft.Draft
			if rec, ok := drafts[n.ID]; ok {
				var err error
				if d, err = restoreDraft(rec); err != nil {
					return nil, fmt.Errorf("node %d: %w", n.ID, err)
				}
			}
			ids[n.ID] = ws.AddDraft(ctx, d)
		case domain.KindOperator:
			rec, ok := operators[n.ID]
			if !ok {
				return nil, fmt.Errorf("operator node %d has no operator record", n.ID)
			}
			id, err := ws.AddOperator(ctx, rec.Operator, rec.Params)
			if err != nil {
				return nil, fmt.Errorf("node %d: %w", n.ID, err)
			}
			ids[n.ID] = id
		case domain.KindConnection:
			connections = append(connections, n.ID)
		default:
			return nil, fmt.Errorf("node %d has unknown kind %s", n.ID, n.Kind)
		}
	}

	resolve := func(old domain.NodeID) (domain.NodeID, error) {
		id, ok := ids[old]
		if !ok {
			return domain.NoNode, fmt.Errorf("%w: %d", domain.ErrNodeNotFound, old)
		}
		return id, nil
	}

	for _, c := range connections {
		rec := edges[c]
		if len(rec.Inputs) != 1 || len(rec.Outputs) != 1 {
			return nil, fmt.Errorf("%w: connection %d is not wired at both ends", domain.ErrInvalidConnection, c)
		}
		from, err := resolve(rec.Inputs[0].Node)
		if err != nil {
			return nil, fmt.Errorf("connection %d: %w", c, err)
		}
		to, err := resolve(rec.Outputs[0].Node)
		if err != nil {
			return nil, fmt.Errorf("connection %d: %w", c, err)
		}
		if ids[c], err = ws.Connect(ctx, from, to, rec.Outputs[0].Inlet); err != nil {
			return nil, fmt.Errorf("connection %d: %w", c, err)
		}
	}

	for _, rec := range doc.Edges {
		if rec.Parent == domain.NoNode {
			continue
		}
		child, err := resolve(rec.Node)
		if err != nil {
			return nil, err
		}
		parent, err := resolve(rec.Parent)
		if err != nil {
			return nil, err
		}
		if err := ws.SetParent(child, parent); err != nil {
			return nil, err
		}
	}

	// operators first: moving one shifts its children, which are then placed exactly
	for _, pass := range []bool{true, false} {
		for _, n := range doc.Nodes {
			if (n.Kind == domain.KindOperator) != pass {
				continue
			}
			if _, err := ws.Move(ids[n.ID], n.Bounds); err != nil {
				return nil, err
			}
		}
	}

	if err := ws.RecomputeAll(ctx); err != nil {
		return nil, err
	}
	return ws, nil
}

func restoreDraft(rec domain.DraftRecord) (*draft.Draft, error) {
	d, err := draft.FromPattern(rec.Pattern...)
	if err != nil {
		return nil, err
	}
	if len(rec.Rows) == d.Wefts() {
		for i, m := range rec.Rows {
			d.SetRowMeta(i, m)
		}
	}
	if len(rec.Cols) == d.Warps() {
		for j, m := range rec.Cols {
			d.SetColMeta(j, m)
		}
	}
	d.MarkSelvedge(rec.Selvedge)
	d.SetName(rec.Name)
	return d, nil
}
