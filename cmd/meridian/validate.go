package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"meridian-hq/meridian/pkg/cli"
	"meridian-hq/meridian/pkg/protocol"
)

var validateFlags struct {
	file string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a protocol rule file",
	Long: `Validate a protocol rule file without installing it.

All validation errors are collected and reported together, so a single
pass surfaces every problem in the document.

Examples:
  # Validate a rule file
  meridian validate --file rules/clinical-protocols.yaml`,
	RunE: validateRules,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateFlags.file, "file", "f", "", "rule file to validate (required)")
	_ = validateCmd.MarkFlagRequired("file")
}

func validateRules(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(validateFlags.file)
	if err != nil {
		return cli.NewCommandError("validate", err)
	}

	cfg, err := protocol.ValidateConfig(data)
	if err != nil {
		var cfgErr *protocol.ConfigError
		if errors.As(err, &cfgErr) {
			fmt.Fprintf(os.Stderr, "%s: %d validation error(s)\n", validateFlags.file, len(cfgErr.Errors))
			for _, fe := range cfgErr.Errors {
				fmt.Fprintf(os.Stderr, "  - %s\n", fe.Error())
			}
			return cli.NewCommandError("validate", fmt.Errorf("rule file is invalid"))
		}
		return cli.NewCommandError("validate", err)
	}

	fmt.Printf("%s is valid\n", validateFlags.file)
	fmt.Printf("  version:  %s\n", cfg.Version)
	fmt.Printf("  checkers: %v\n", cfg.EnabledCheckers())
	fmt.Printf("  rules:    %d\n", cfg.ActiveRuleCount())
	return nil
}
