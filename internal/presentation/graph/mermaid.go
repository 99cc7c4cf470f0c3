package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/heddle"
	"github.com/aretw0/heddle/pkg/domain"
)

// Overlay contains dynamic state to visualize on the graph.
type Overlay struct {
	Dirty    []domain.NodeID
	Selected domain.NodeID
}

// DirtyOverlay highlights every node the workspace still has to recompute.
func DirtyOverlay(ws *heddle.Workspace) *Overlay {
	return &Overlay{Dirty: ws.Tree().DirtyNodes()}
}

// GenerateMermaid produces a Mermaid flowchart of the workspace graph.
// Shapes:
// - Draft: [Rectangle] labelled with its name and size
// - Operator: [[Subroutine]] labelled with the operator title
// - Connection: an arrow, labelled with the inlet name on multi-inlet operators
// Drafts generated by an operator hang off it with a dotted arrow.
func GenerateMermaid(ws *heddle.Workspace, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	t := ws.Tree()

	for _, id := range t.Nodes() {
		switch t.Kind(id) {
		case domain.KindDraft:
			label := "empty"
			if d, ok := ws.Draft(id); ok {
				label = fmt.Sprintf("%s <br/> %dx%d", d.Name(), d.Wefts(), d.Warps())
			}
			fmt.Fprintf(&sb, "    %s[\"%s\"]\n", nodeID(id), escape(label))
		case domain.KindOperator:
			op, _, _ := ws.Operator(id)
			fmt.Fprintf(&sb, "    %s[[\"%s\"]]\n", nodeID(id), escape(op.Title()))
		}
	}

	for _, c := range t.Connections() {
		in, out := t.Edges(c)
		if len(in) != 1 || len(out) != 1 {
			continue
		}
		from, to := in[0].Node, out[0]
		arrow := "-->"
		if t.Kind(to.Node) == domain.KindDraft && t.Parent(to.Node) == from {
			arrow = "-.->"
		} else if op, _, ok := ws.Operator(to.Node); ok {
			if inlets := op.ResolvedInlets(); len(inlets) > 1 && to.Inlet < len(inlets) {
				arrow = fmt.Sprintf("-- \"%s\" -->", escape(inlets[to.Inlet].Name))
			}
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", nodeID(from), arrow, nodeID(to.Node))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// black text for contrast on light fills regardless of theme
		sb.WriteString("    classDef dirty fill:#fff3e0,stroke:#e65100,stroke-dasharray:4,color:#000;\n")
		sb.WriteString("    classDef selected fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		for _, id := range overlay.Dirty {
			if t.Has(id) && t.Kind(id) != domain.KindConnection {
				fmt.Fprintf(&sb, "    class %s dirty;\n", nodeID(id))
			}
		}
		if overlay.Selected != domain.NoNode && t.Has(overlay.Selected) {
			fmt.Fprintf(&sb, "    class %s selected;\n", nodeID(overlay.Selected))
		}
	}

	return sb.String()
}

func nodeID(id domain.NodeID) string { return fmt.Sprintf("n%d", id) }

func escape(s string) string { return strings.ReplaceAll(s, "\"", "'") }
