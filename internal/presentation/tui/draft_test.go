package tui

import (
	"strings"
	"testing"

	"github.com/aretw0/heddle/pkg/draft"
	"github.com/muesli/termenv"
)

func TestRenderDraftASCII(t *testing.T) {
	style := DefaultDraftStyle()
	style.Profile = termenv.Ascii

	got := RenderDraft(draft.MustPattern("x.", "?x"), style)
	if want := "x.\n?x\n"; got != want {
		t.Errorf("RenderDraft() = %q, want %q", got, want)
	}
	if RenderDraft(nil, style) != "" {
		t.Error("nil draft should render empty")
	}
}

func TestRenderDraftColor(t *testing.T) {
	style := DefaultDraftStyle()
	style.Profile = termenv.TrueColor

	got := RenderDraft(draft.MustPattern("x.", ".x"), style)
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), got)
	}
	if strings.Count(got, style.Cell) != 4 {
		t.Errorf("expected 4 cells in %q", got)
	}
	if !strings.Contains(got, "\x1b[") {
		t.Errorf("expected ANSI color sequences in %q", got)
	}
}
