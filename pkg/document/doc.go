/*
Package document converts a heddle.Workspace to and from its persisted form.

A domain.Document stores the flat node list, the edge bookkeeping of every node,
the payload of seed drafts and the operator of every operator node. Generated
drafts are not stored: Import replays the graph and recomputes them.

	doc := document.Export(ws)
	_ = document.Encode(f, doc, document.YAML)

	doc, _ = document.Decode(f, document.YAML)
	ws, _ = document.Import(ctx, doc)
*/
package document
