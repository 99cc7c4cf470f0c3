package main

import (
	"fmt"

	"github.com/aretw0/heddle/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <document>",
	Short: "Export the workspace graph visualization",
	Long:  `Loads a workspace document and outputs a Mermaid diagram (graph TD) of its drafts, operators and connections.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadDocument(cmd, args[0])
		if err != nil {
			return err
		}
		overlay := &graph.Overlay{}
		if dirty, _ := cmd.Flags().GetBool("dirty"); dirty {
			overlay = graph.DirtyOverlay(ws)
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(ws, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Bool("dirty", false, "Highlight nodes that still need a recompute")
}
