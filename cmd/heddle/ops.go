package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/aretw0/heddle/internal/presentation/tui"
	"github.com/aretw0/heddle/pkg/ops"
	"github.com/spf13/cobra"
)

var opsCmd = &cobra.Command{
	Use:   "ops",
	Short: "Inspect the operator catalog",
}

var opsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every operator with its classification",
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tCLASS\tSTANDALONE\tDESCRIPTION")
		for _, op := range ops.Default().List() {
			fmt.Fprintf(w, "%s\t%s\t%t\t%s\n", op.Name, op.Classification, op.Classification.Standalone(), op.Description)
		}
		w.Flush()
	},
}

var opsDescribeCmd = &cobra.Command{
	Use:   "describe <operator>",
	Short: "Show the reference page of an operator",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		op, err := ops.Default().Get(args[0])
		if err != nil {
			return err
		}
		raw, _ := cmd.Flags().GetBool("raw")
		out := op.Doc()
		if !raw {
			if out, err = tui.NewRenderer()(out); err != nil {
				return err
			}
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(opsCmd)
	opsCmd.AddCommand(opsListCmd)
	opsCmd.AddCommand(opsDescribeCmd)
	opsDescribeCmd.Flags().Bool("raw", false, "Print markdown without terminal styling")
}
