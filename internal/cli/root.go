package cli

import (
	"fmt"

	"github.com/sandeepkv93/apolo/internal/config"
	"github.com/spf13/cobra"
)

// Version is stamped at build time.
var Version = "dev"

type rootOptions struct {
	configFile string
	store      string
	dbPath     string
	logFile    string
	logLevel   string

	cfg config.RuntimeConfig
}

func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:   "apolo",
		Short: "APOLO - tasks, reminders and an oracle in your terminal",
		Long: `APOLO is a personal task and reminder manager.

It keeps a kanban board of tasks with subtasks, birthday and event
reminders, and conversations with a generative-language oracle that
can break tasks down, write, draw and search the web.

Run without a subcommand to open the terminal UI.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configFile)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("store") {
				cfg.Store = opts.store
			}
			if flags.Changed("db") {
				cfg.SQLitePath = opts.dbPath
			}
			if flags.Changed("log-file") {
				cfg.LogPath = opts.logFile
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = opts.logLevel
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid flags: %w", err)
			}
			opts.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default: apolo.yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.store, "store", "", "storage backend: sqlite or redis")
	rootCmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "sqlite database path")
	rootCmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "log file path")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(newExportCommand(opts))
	rootCmd.AddCommand(newImportCommand(opts))
	rootCmd.AddCommand(newClassroomCommand(opts))

	return rootCmd
}
