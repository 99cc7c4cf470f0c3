package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/heddle"
	"github.com/aretw0/heddle/pkg/draft"
	"github.com/aretw0/heddle/pkg/operator"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var stepCmd = &cobra.Command{
	Use:   "step <operator>",
	Short: "Invoke one operator outside a graph",
	Long: `Steps a standalone operator (a pipe with required parameters, or a seed with optional
drafts) on the current draft, the way a loom pedal advances a pattern.

  heddle step shift --draft x...,.... --param amount=1 --times 3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, _ := cmd.Flags().GetStringSlice("draft")
		pairs, _ := cmd.Flags().GetStringArray("param")
		times, _ := cmd.Flags().GetInt("times")

		var current *draft.Draft
		if len(rows) > 0 {
			d, err := draft.FromPattern(rows...)
			if err != nil {
				return err
			}
			d.SetName("input")
			current = d
		}
		params, err := parseParams(pairs)
		if err != nil {
			return err
		}

		ws := heddle.New(heddle.WithLogger(logger))
		for i := 0; i < times; i++ {
			next, err := ws.InvokeStandalone(cmd.Context(), args[0], current, params)
			if err != nil {
				return err
			}
			if next == nil {
				return fmt.Errorf("%s produced no draft: check its mandatory inputs", args[0])
			}
			current = next
		}
		printDraft(cmd.OutOrStdout(), current, draftStyle(cmd))
		return nil
	},
}

// parseParams reads key=value pairs. Values are YAML scalars, so 2 is an int, 0.5 a
// float, true a bool and anything else a string.
func parseParams(pairs []string) (operator.Params, error) {
	params := operator.Params{}
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q, want key=value", pair)
		}
		var value any
		if err := yaml.Unmarshal([]byte(raw), &value); err != nil || value == nil {
			value = raw
		}
		params[key] = value
	}
	return params, nil
}

func init() {
	rootCmd.AddCommand(stepCmd)
	stepCmd.Flags().StringSlice("draft", nil, "Current draft as comma-separated rows, e.g. x.,.x")
	stepCmd.Flags().StringArrayP("param", "p", nil, "Parameter as key=value (repeatable)")
	stepCmd.Flags().IntP("times", "n", 1, "Number of times to step")
	stepCmd.Flags().Bool("ascii", false, "Print pattern characters instead of colored cells")
}
