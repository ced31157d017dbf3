package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// configCmd prints the resolved configuration.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		resolved := map[string]any{
			"backend": map[string]any{
				"url":        cfg.Backend.BaseURL,
				"api_prefix": cfg.Backend.APIPrefix,
				"timeout":    cfg.Backend.Timeout.String(),
			},
			"defaults": map[string]any{
				"case_type":    cfg.Defaults.CaseType,
				"jurisdiction": cfg.Defaults.Jurisdiction,
			},
			"snippets_dir": cfg.SnippetsDir,
			"logging": map[string]any{
				"level": cfg.Logging.Level,
				"file":  cfg.Logging.File,
			},
		}

		out, err := yaml.Marshal(resolved)
		if err != nil {
			return err
		}
		fmt.Print(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
