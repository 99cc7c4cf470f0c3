package main

import (
	"fmt"
	"io"
	"os"

	"github.com/aretw0/heddle"
	"github.com/aretw0/heddle/internal/presentation/tui"
	"github.com/aretw0/heddle/pkg/document"
	"github.com/aretw0/heddle/pkg/draft"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// draftStyle draws colored cells on terminals and pattern characters everywhere else.
func draftStyle(cmd *cobra.Command) tui.DraftStyle {
	style := tui.DefaultDraftStyle()
	ascii, _ := cmd.Flags().GetBool("ascii")
	f, ok := cmd.OutOrStdout().(*os.File)
	if ascii || !ok || !term.IsTerminal(int(f.Fd())) {
		style.Profile = termenv.Ascii
	}
	return style
}

func printDraft(w io.Writer, d *draft.Draft, style tui.DraftStyle) {
	fmt.Fprintf(w, "%s [%dx%d]\n", d.Name(), d.Wefts(), d.Warps())
	fmt.Fprint(w, tui.RenderDraft(d, style))
}

// loadDocument reads a workspace document from path; the extension picks the format.
func loadDocument(cmd *cobra.Command, path string) (*heddle.Workspace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := document.Decode(f, document.FormatFromPath(path))
	if err != nil {
		return nil, err
	}
	ws, err := document.Import(cmd.Context(), doc, heddle.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return ws, nil
}
