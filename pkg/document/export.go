package document

import (
	"github.com/aretw0/heddle"
	"github.com/aretw0/heddle/pkg/domain"
	"github.com/aretw0/heddle/pkg/draft"
	"github.com/aretw0/heddle/pkg/tree"
)

// Export snapshots the workspace graph.
func Export(ws *heddle.Workspace) *domain.Document {
	t := ws.Tree()
	doc := &domain.Document{ID: ws.ID(), Version: domain.DocumentVersion}

	for _, id := range t.Nodes() {
		kind := t.Kind(id)
		doc.Nodes = append(doc.Nodes, domain.NodeRecord{ID: id, Kind: kind, Bounds: ws.Bounds(id)})

		inputs, outputs := t.Edges(id)
		doc.Edges = append(doc.Edges, domain.EdgeRecord{
			Node:    id,
			Parent:  t.Parent(id),
			Inputs:  links(inputs),
			Outputs: links(outputs),
		})

		switch kind {
		case domain.KindDraft:
			if t.Parent(id) != domain.NoNode {
				continue
			}
			if d, ok := ws.Draft(id); ok {
				doc.Drafts = append(doc.Drafts, draftRecord(id, d))
			}
		case domain.KindOperator:
			op, params, _ := ws.Operator(id)
			rec := domain.OperatorRecord{Node: id, Operator: op.Name}
			if len(params) > 0 {
				rec.Params = params
			}
			doc.Operators = append(doc.Operators, rec)
		}
	}
	return doc
}

func links(in []tree.Link) []domain.Link {
	if len(in) == 0 {
		return nil
	}
	out := make([]domain.Link, len(in))
	for i, l := range in {
		out[i] = domain.Link{Node: l.Node, Inlet: l.Inlet}
	}
	return out
}

func draftRecord(id domain.NodeID, d *draft.Draft) domain.DraftRecord {
	rec := domain.DraftRecord{
		Node:     id,
		Name:     d.UserName(),
		Pattern:  d.Pattern(),
		Selvedge: d.HasSelvedge(),
	}
	for i := 0; i < d.Wefts(); i++ {
		rec.Rows = append(rec.Rows, d.RowMeta(i))
	}
	for j := 0; j < d.Warps(); j++ {
		rec.Cols = append(rec.Cols, d.ColMeta(j))
	}
	return rec
}
