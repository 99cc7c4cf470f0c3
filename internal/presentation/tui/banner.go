package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the heddle banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct{ text, color string }{
		{` _               _     _ _`, "#818cf8"},
		{`| |__   ___  __| | __| | | ___`, "#a78bfa"},
		{`| '_ \ / _ \/ _' |/ _' | |/ _ \`, "#c084fc"},
		{`| | | |  __/ (_| | (_| | |  __/`, "#e879f9"},
		{`|_| |_|\___|\__,_|\__,_|_|\___|`, "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
