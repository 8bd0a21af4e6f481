package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "meridian",
	Short: "Meridian - deterministic compliance engine for clinical AI output",
	Long: `Meridian verifies AI-extracted clinical documentation against patient
context and configurable safety protocols before it reaches the record.

Every extraction is checked deterministically:
  - Date integrity against the patient's encounter windows
  - Protocol adherence for critical clinical triggers
  - PII leak detection in narrative fields
  - Configurable drug interaction, allergy, and required-field rules

Documents classify as verified, warning, or rejected, and every finding
is a typed alert that explains itself.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
