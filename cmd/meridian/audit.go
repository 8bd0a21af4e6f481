package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"meridian-hq/meridian/pkg/audit"
	"meridian-hq/meridian/pkg/cli"
)

var auditQueryFlags struct {
	outcome      string
	patientRef   string
	documentType string
	since        string
	until        string
	limit        int
	format       string
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the audit trail",
}

var auditQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query verification records",
	Long: `Query the audit trail for verification records.

Records carry only hashed references to clinical content; the original
patient data and extractions are never stored.

Examples:
  # Most recent rejections
  meridian audit query --outcome rejected --limit 20

  # Records for one patient reference in a window
  meridian audit query --patient-ref <sha256> --since 2026-08-01T00:00:00Z

  # JSON output for tooling
  meridian audit query --format json`,
	RunE: queryAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditQueryCmd)

	auditQueryCmd.Flags().StringVar(&auditQueryFlags.outcome, "outcome", "", "filter by outcome (verified, warning, rejected)")
	auditQueryCmd.Flags().StringVar(&auditQueryFlags.patientRef, "patient-ref", "", "filter by hashed patient reference")
	auditQueryCmd.Flags().StringVar(&auditQueryFlags.documentType, "document-type", "", "filter by document type")
	auditQueryCmd.Flags().StringVar(&auditQueryFlags.since, "since", "", "start of time range (RFC3339)")
	auditQueryCmd.Flags().StringVar(&auditQueryFlags.until, "until", "", "end of time range (RFC3339)")
	auditQueryCmd.Flags().IntVar(&auditQueryFlags.limit, "limit", 100, "maximum records to return")
	auditQueryCmd.Flags().StringVar(&auditQueryFlags.format, "format", "text", "output format (text, json)")
}

func queryAudit(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(auditQueryFlags.format)
	if err != nil {
		return cli.NewCommandError("audit query", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	store, err := openAuditStorage(cfg)
	if err != nil {
		return cli.NewCommandError("audit query", err)
	}
	defer store.Close()

	query := &audit.Query{
		Outcome:      auditQueryFlags.outcome,
		PatientRef:   auditQueryFlags.patientRef,
		DocumentType: auditQueryFlags.documentType,
		Limit:        auditQueryFlags.limit,
	}
	if auditQueryFlags.since != "" {
		t, err := time.Parse(time.RFC3339, auditQueryFlags.since)
		if err != nil {
			return cli.NewCommandError("audit query", fmt.Errorf("invalid --since: %w", err))
		}
		query.StartTime = &t
	}
	if auditQueryFlags.until != "" {
		t, err := time.Parse(time.RFC3339, auditQueryFlags.until)
		if err != nil {
			return cli.NewCommandError("audit query", fmt.Errorf("invalid --until: %w", err))
		}
		query.EndTime = &t
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	records, err := store.Query(ctx, query)
	if err != nil {
		return cli.NewCommandError("audit query", err)
	}

	if format == cli.FormatJSON {
		return cli.WriteJSON(os.Stdout, records)
	}

	if len(records) == 0 {
		fmt.Println("no records found")
		return nil
	}
	for _, rec := range records {
		fmt.Printf("%s  %-8s  %-20s  alerts=%d (crit=%d high=%d)  %s\n",
			rec.VerifiedTime.Format(time.RFC3339),
			rec.Outcome,
			rec.DocumentType,
			len(rec.Alerts),
			rec.CriticalCount,
			rec.HighCount,
			rec.ID,
		)
	}
	fmt.Printf("%d record(s)\n", len(records))
	return nil
}
