package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sydlexius/cratediff/internal/version"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var sheetFlag string
	var logLevelFlag string

	rootCmd := &cobra.Command{
		Use:   "cratediff",
		Short: "Reconcile a Google Sheets record collection against Discogs",
		Long: `cratediff compares the releases tracked in a Google Sheets
spreadsheet against the matching Discogs collection folders and reports
year mismatches and records present on only one side. It is read-only on
both sources.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, runOptions{
				configPath:  resolveConfigPath(configFlag),
				sheetFilter: sheetFlag,
				logLevel:    logLevelFlag,
			})
		},
	}

	rootCmd.Flags().StringVarP(&configFlag, "config", "c", "", "configuration file path")
	rootCmd.Flags().StringVar(&sheetFlag, "sheet", "", "only compare the pair with this sheet name")
	rootCmd.Flags().StringVar(&logLevelFlag, "log-level", "", "override the configured log level")

	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cratediff %s (%s)\n", version.Version, version.Commit)
		},
	}
}

func resolveConfigPath(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv("CD_CONFIG_PATH"); env != "" {
		return env
	}
	return "config.yaml"
}
