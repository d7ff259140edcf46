package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/a11y-reference/guideline-export/config"
)

var (
	cfgFile  string
	envFiles []string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "guideline-export",
	Short: "Export accessibility guideline tables",
	Long: `guideline-export turns WCAG, readability, and other guideline tables into
downloadable CSV, PDF, XLSX, JSON, HTML, or SQLite files.

Rows come from a JSON/YAML dataset or a SQLite query; the HTTP server accepts
the same table as a JSON request body.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (YAML)")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", []string{".env"}, "dotenv files to read before environment overrides")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile, envFiles...)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
		if err := config.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
