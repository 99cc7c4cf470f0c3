package dsl

import (
	"context"
	"slices"
	"testing"
)

func TestBuilder_Chain(t *testing.T) {
	b := New()
	b.Op("tw", "twill").Param("up", 2).Param("down", 2)
	b.Op("out", "flip-vertical").From("tw")

	ws, ids, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	outs := ws.Outputs(ids["out"])
	if len(outs) != 1 {
		t.Fatalf("Expected 1 output, got %d", len(outs))
	}
	d, _ := ws.Draft(outs[0])
	if d.Name() != "flip-vertical(twill)" {
		t.Errorf("Expected name 'flip-vertical(twill)', got '%s'", d.Name())
	}
	want := []string{"x..x", "..xx", ".xx.", "xx.."}
	if got := d.Pattern(); !slices.Equal(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestBuilder_DraftsAndMerge(t *testing.T) {
	b := New()
	b.Draft("a").Pattern("xx")
	b.Draft("b").Pattern("..").Name("blank")
	b.Op("mix", "interlace").From("a", "b").At(100, 40)

	ws, ids, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	a, _ := ws.Draft(ids["a"])
	if a.Name() != "a" {
		t.Errorf("Expected draft named after its key, got '%s'", a.Name())
	}
	if bounds := ws.Bounds(ids["mix"]); bounds.X != 100 || bounds.Y != 40 {
		t.Errorf("Expected bounds (100,40), got %+v", bounds)
	}

	outs := ws.Outputs(ids["mix"])
	if len(outs) != 1 {
		t.Fatalf("Expected 1 output, got %d", len(outs))
	}
	d, _ := ws.Draft(outs[0])
	if d.Name() != "interlace(a,blank)" {
		t.Errorf("Expected name 'interlace(a,blank)', got '%s'", d.Name())
	}
	if got := d.Pattern(); !slices.Equal(got, []string{"xx", ".."}) {
		t.Errorf("Unexpected pattern %v", got)
	}
}

func TestBuilder_ReusesKeys(t *testing.T) {
	b := New()
	b.Op("tw", "twill").Param("up", 1)
	b.Op("tw", "twill").Param("down", 1)

	_, ids, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if len(ids) != 1 {
		t.Errorf("Expected 1 node, got %d", len(ids))
	}
}

func TestBuilder_Errors(t *testing.T) {
	cases := map[string]func(b *Builder){
		"bad pattern":      func(b *Builder) { b.Draft("d").Pattern("xz") },
		"unknown input":    func(b *Builder) { b.Op("inv", "invert").From("ghost") },
		"unknown operator": func(b *Builder) { b.Op("x", "warp-drive") },
		"kind conflict": func(b *Builder) {
			b.Draft("n")
			b.Op("n", "invert")
		},
		"bad inlet": func(b *Builder) {
			b.Draft("d").Pattern("x")
			b.Op("inv", "invert").Into(3, "d")
		},
	}
	for name, build := range cases {
		t.Run(name, func(t *testing.T) {
			b := New()
			build(b)
			if _, _, err := b.Build(context.Background()); err == nil {
				t.Fatal("Expected Build() to fail")
			}
		})
	}
}
