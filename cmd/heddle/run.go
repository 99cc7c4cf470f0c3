package main

import (
	"fmt"
	"os"

	"github.com/aretw0/heddle/pkg/document"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <document>",
	Short: "Recompute a workspace document and print its drafts",
	Long: `Loads a workspace document (JSON or YAML), recomputes every operator in dependency
order and prints the resulting drafts. With --out the recomputed document is written back.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadDocument(cmd, args[0])
		if err != nil {
			return err
		}
		if err := ws.RecomputeAll(cmd.Context()); err != nil {
			return err
		}

		leaves, _ := cmd.Flags().GetBool("leaves")
		style := draftStyle(cmd)
		w := cmd.OutOrStdout()
		for _, id := range ws.Drafts() {
			if leaves && len(ws.Tree().Outputs(id)) > 0 {
				continue
			}
			d, _ := ws.Draft(id)
			printDraft(w, d, style)
			fmt.Fprintln(w)
		}

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			return nil
		}
		data, err := document.Marshal(document.Export(ws), document.FormatFromPath(out))
		if err != nil {
			return err
		}
		return os.WriteFile(out, data, 0o644)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("ascii", false, "Print pattern characters instead of colored cells")
	runCmd.Flags().Bool("leaves", false, "Only print drafts that feed no other node")
	runCmd.Flags().StringP("out", "o", "", "Write the recomputed document to this file")
}
