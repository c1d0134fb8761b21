package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/htinter/config"
)

// validateCmd validates a config file without starting the server.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate an htinter configuration file without starting the server.

This command parses the YAML, expands environment variables, and validates
all fields, including that root is an existing directory.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  htinter validate -c htinter.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	maxRequests := "unlimited"
	if cfg.MaxRequests > 0 {
		maxRequests = fmt.Sprint(cfg.MaxRequests)
	}
	metricsAddr := "disabled"
	if cfg.MetricsAddress != "" {
		metricsAddr = cfg.MetricsAddress
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config is valid!\n")
	fmt.Fprintf(out, "  Listen:       %s\n", cfg.Addr())
	fmt.Fprintf(out, "  Root:         %s\n", cfg.Root)
	fmt.Fprintf(out, "  Max requests: %s\n", maxRequests)
	fmt.Fprintf(out, "  Read timeout: %s\n", cfg.ReadTimeout.Duration())
	fmt.Fprintf(out, "  Logging:      %s (%s)\n", cfg.LogLevel, cfg.LogFormat)
	fmt.Fprintf(out, "  Metrics:      %s\n", metricsAddr)

	return nil
}
