package main

import (
	"context"
	"fmt"

	"github.com/aretw0/heddle/internal/cli"
	"github.com/aretw0/heddle/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <document>",
	Short: "Reprint the drafts of a document whenever it changes",
	Long: `Development mode: loads a workspace document, prints its leaf drafts and reloads
whenever the file is saved. Errors are reported and the watch goes on.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		w := cmd.OutOrStdout()
		style := draftStyle(cmd)
		tui.PrintBanner(w)

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		cli.SystemMessage(w, "Watching '%s'.", path)
		err := cli.RunWatch(ctx, path, func(ctx context.Context) error {
			cmd.SetContext(ctx)
			ws, err := loadDocument(cmd, path)
			if err != nil {
				cli.SystemMessage(w, "Failed to load: %v", err)
				return err
			}
			for _, id := range ws.Drafts() {
				if len(ws.Tree().Outputs(id)) > 0 {
					continue
				}
				d, _ := ws.Draft(id)
				printDraft(w, d, style)
				fmt.Fprintln(w)
			}
			cli.SystemMessage(w, "Waiting for changes...")
			return nil
		}, logger)
		if sig := ctx.Signal(); sig != nil {
			logger.Info("stopping watcher", "signal", sig)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().Bool("ascii", false, "Print pattern characters instead of colored cells")
}
