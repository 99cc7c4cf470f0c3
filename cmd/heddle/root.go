package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/heddle/internal/config"
	"github.com/aretw0/heddle/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	logger = logging.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "heddle",
	Short: "Heddle composes woven-textile drafts from operator graphs",
	Long: `Heddle builds weave drafts (interlacement grids) by connecting operators such as
tabby, twill, interlace or flip into a graph, and recomputes them when inputs change.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(path, cmd.Flags())
		if err != nil {
			return err
		}
		level, err := logging.ParseLevel(loaded.Log.Level)
		if err != nil {
			return err
		}
		cfg = loaded
		logger = logging.NewWithWriter(os.Stderr, level, logging.Format(loaded.Log.Format))
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands). Names mirror config keys.
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (default: ./heddle.yaml or $HOME/.heddle/heddle.yaml)")
	pf.String("log-level", "info", "Log level: debug, info, warn or error")
	pf.String("log-format", "text", "Log format: text or json")
	pf.String("store-backend", "file", "Workspace store: memory, file or redis")
	pf.String("store-dir", ".heddle/workspaces", "Directory of the file store")
	pf.String("store-format", "json", "Document format of the file store: json or yaml")
	pf.String("redis-addr", "localhost:6379", "Redis address")
	pf.String("redis-prefix", "heddle:workspace:", "Redis key prefix")
	pf.Duration("redis-ttl", 0, "Expiry of stored workspaces in redis (0 keeps them)")
	pf.Bool("redis-lock", true, "Serialize workspace updates across processes with redis locks")
}
