package graph_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/heddle"
	"github.com/aretw0/heddle/internal/presentation/graph"
	"github.com/aretw0/heddle/pkg/draft"
	"github.com/aretw0/heddle/pkg/operator"
)

func TestGenerateMermaid(t *testing.T) {
	ctx := context.Background()
	ws := heddle.New()

	src := draft.MustPattern("x.", ".x")
	src.SetName(`say "hi"`)
	a := ws.AddDraft(ctx, src)
	mask, err := ws.AddOperator(ctx, "mask", operator.Params{})
	if err != nil {
		t.Fatalf("AddOperator failed: %v", err)
	}
	tabby, err := ws.AddOperator(ctx, "tabby", nil)
	if err != nil {
		t.Fatalf("AddOperator failed: %v", err)
	}
	if _, err := ws.Connect(ctx, a, mask, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := ws.Connect(ctx, tabby, mask, 1); err != nil {
		t.Fatal(err)
	}

	before := graph.GenerateMermaid(ws, graph.DirtyOverlay(ws))
	if err := ws.RecomputeAll(ctx); err != nil {
		t.Fatal(err)
	}
	after := graph.GenerateMermaid(ws, &graph.Overlay{Selected: mask})

	tests := []struct {
		name     string
		got      string
		contains []string
		excludes []string
	}{
		{
			name: "Shapes",
			got:  after,
			contains: []string{
				`n1["say 'hi' <br/> 2x2"]`,
				`n2[["Mask"]]`,
				`n3[["Tabby"]]`,
			},
		},
		{
			name: "Inlet Labels",
			got:  after,
			contains: []string{
				"n1 -- \"a\" --> n2",
				"n3 -- \"b\" --> n2",
			},
		},
		{
			name:     "Generated Drafts",
			got:      after,
			contains: []string{"n2 -.-> n", "n3 -.-> n", "class n2 selected;"},
		},
		{
			name:     "Dirty Overlay",
			got:      before,
			contains: []string{"class n1 dirty;", "class n2 dirty;", "class n3 dirty;"},
			excludes: []string{"-.->", "class n4 dirty;"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, want := range tt.contains {
				if !strings.Contains(tt.got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", tt.got, want)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(tt.got, unwanted) {
					t.Errorf("GenerateMermaid() = \n%v\nUnexpected substring: %v", tt.got, unwanted)
				}
			}
		})
	}
}
