package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/heddle"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of heddle",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "heddle version %s\n", strings.TrimSpace(heddle.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
