package tui

import (
	"strings"

	"github.com/aretw0/heddle/pkg/draft"
	"github.com/muesli/termenv"
)

// DraftStyle controls how a drawdown is drawn in the terminal.
type DraftStyle struct {
	Profile termenv.Profile
	Up      string // color of raised cells
	Down    string // color of lowered cells
	Unset   string
	Cell    string // glyph printed for every cell
}

// DefaultDraftStyle detects the terminal color profile. On terminals without color
// the cells fall back to their pattern characters.
func DefaultDraftStyle() DraftStyle {
	return DraftStyle{
		Profile: termenv.ColorProfile(),
		Up:      "#1e1b4b",
		Down:    "#e0e7ff",
		Unset:   "#6b7280",
		Cell:    "██",
	}
}

// RenderDraft draws d one row per line, top row first. Raised cells are dark, as a
// warp end showing on the face of the cloth.
func RenderDraft(d *draft.Draft, style DraftStyle) string {
	if d == nil {
		return ""
	}
	var sb strings.Builder
	for i := 0; i < d.Wefts(); i++ {
		for j := 0; j < d.Warps(); j++ {
			c := d.Get(i, j)
			if style.Profile == termenv.Ascii {
				sb.WriteRune(c.Rune())
				continue
			}
			color := style.Unset
			switch c {
			case draft.Up:
				color = style.Up
			case draft.Down:
				color = style.Down
			}
			sb.WriteString(termenv.String(style.Cell).Foreground(style.Profile.Color(color)).String())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
