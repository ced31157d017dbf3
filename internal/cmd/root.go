// Package cmd provides the CLI commands for Plead.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verdictlabs/plead/internal/api"
	"github.com/verdictlabs/plead/internal/config"
	"github.com/verdictlabs/plead/internal/logging"
)

var (
	// Global flags
	configPath    string
	backendURL    string
	debug         bool
	logLevel      string
	logFile       string
	logComponents string

	// Loaded configuration
	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "plead",
	Short: "Plead - a client for a remote legal petition drafting service",
	Long: `Plead is a command-line client for drafting formal court petitions
with a remote legal-drafting service.

Use "plead chat" for a free-form conversation that accumulates a petition
incrementally, or "plead draft" for the structured form-plus-chat workflow
with validation, finalization, and document export.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		if err := loadConfiguration(); err != nil {
			return err
		}

		// Priority: --log-level flag > --debug flag > config file > info
		effectiveLogLevel := "info"
		if cfg.Logging.Level != "" {
			effectiveLogLevel = cfg.Logging.Level
		}
		if debug {
			effectiveLogLevel = "debug"
		}
		if logLevel != "" {
			effectiveLogLevel = logLevel
		}

		var components []string
		if logComponents != "" {
			for _, c := range strings.Split(logComponents, ",") {
				c = strings.TrimSpace(c)
				if c != "" {
					components = append(components, c)
				}
			}
		}

		effectiveLogFile := cfg.Logging.File
		if logFile != "" {
			effectiveLogFile = logFile
		}
		var fileLog *logging.FileLogConfig
		if effectiveLogFile != "" {
			fileLog = &logging.FileLogConfig{
				Path:       effectiveLogFile,
				MaxSizeMB:  cfg.Logging.MaxSizeMB,
				MaxBackups: cfg.Logging.MaxBackups,
			}
		}

		if err := logging.Initialize(logging.Config{
			Level:      effectiveLogLevel,
			FileLog:    fileLog,
			Components: components,
		}); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.Close()
	},
}

// loadConfiguration resolves the config file and applies flag overrides.
// A missing file is not an error; built-in defaults apply.
func loadConfiguration() error {
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg = config.Default()
	} else {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if backendURL != "" {
		cfg.Backend.BaseURL = backendURL
	}
	return nil
}

// newAPIClient builds the backend client from the resolved configuration.
func newAPIClient() *api.Client {
	return api.New(cfg.Backend.BaseURL,
		api.WithAPIPrefix(cfg.Backend.APIPrefix),
		api.WithTimeout(cfg.Backend.Timeout),
	)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default ~/.pleadrc)")
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "Drafting service base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().StringVar(&logComponents, "log-components", "", "Comma-separated list of components to log (chat, draft, feedback, api, config)")
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}
