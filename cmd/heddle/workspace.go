package main

import (
	"fmt"

	"github.com/aretw0/heddle"
	"github.com/aretw0/heddle/pkg/document"
	"github.com/spf13/cobra"
)

var workspaceCmd = &cobra.Command{
	Use:     "workspace",
	Aliases: []string{"ws"},
	Short:   "Manage stored workspaces",
	Long:    `List, import, export and remove workspaces kept in the configured store.`,
}

var workspaceLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored workspaces",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, closeStore, err := newManager(cfg, nil)
		if err != nil {
			return err
		}
		defer closeStore()

		ids, err := mgr.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No workspaces found.")
			return nil
		}
		for _, id := range ids {
			fmt.Fprintln(cmd.OutOrStdout(), "- "+id)
		}
		return nil
	},
}

var workspaceImportCmd = &cobra.Command{
	Use:   "import <document> [id]",
	Short: "Store a workspace document, under its own id unless one is given",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadDocument(cmd, args[0])
		if err != nil {
			return err
		}
		if len(args) == 2 {
			doc := document.Export(ws)
			if ws, err = document.Import(cmd.Context(), doc, heddle.WithID(args[1]), heddle.WithLogger(logger)); err != nil {
				return err
			}
		}
		mgr, closeStore, err := newManager(cfg, nil)
		if err != nil {
			return err
		}
		defer closeStore()

		if err := mgr.Save(cmd.Context(), ws); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Stored workspace '%s'\n", ws.ID())
		return nil
	},
}

var workspaceExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Print a stored workspace document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, closeStore, err := newManager(cfg, nil)
		if err != nil {
			return err
		}
		defer closeStore()

		ws, err := mgr.Open(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to load workspace '%s': %w", args[0], err)
		}
		format, _ := cmd.Flags().GetString("format")
		return document.Encode(cmd.OutOrStdout(), document.Export(ws), document.Format(format))
	},
}

var workspaceRmCmd = &cobra.Command{
	Use:   "rm <id>...",
	Short: "Remove one or more workspaces",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, closeStore, err := newManager(cfg, nil)
		if err != nil {
			return err
		}
		defer closeStore()

		failed := 0
		for _, id := range args {
			if err := mgr.Delete(cmd.Context(), id); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error removing '%s': %v\n", id, err)
				failed++
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed workspace '%s'\n", id)
		}
		if failed > 0 {
			return fmt.Errorf("failed to remove %d workspace(s)", failed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(workspaceCmd)
	workspaceCmd.AddCommand(workspaceLsCmd)
	workspaceCmd.AddCommand(workspaceImportCmd)
	workspaceCmd.AddCommand(workspaceExportCmd)
	workspaceCmd.AddCommand(workspaceRmCmd)
	workspaceExportCmd.Flags().String("format", "yaml", "Output format: json or yaml")
}
