package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"meridian-hq/meridian/pkg/cli"
	"meridian-hq/meridian/pkg/review"
)

var reviewFlags struct {
	limit      int
	format     string
	reviewer   string
	itemID     string
	resolution string
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Work the manual review queue",
}

var reviewPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List pending review items",
	RunE:  listPendingReviews,
}

var reviewClaimCmd = &cobra.Command{
	Use:   "claim",
	Short: "Claim the oldest pending review item",
	RunE:  claimReview,
}

var reviewResolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve a claimed review item",
	RunE:  resolveReview,
}

func init() {
	rootCmd.AddCommand(reviewCmd)
	reviewCmd.AddCommand(reviewPendingCmd, reviewClaimCmd, reviewResolveCmd)

	reviewPendingCmd.Flags().IntVar(&reviewFlags.limit, "limit", 50, "maximum items to list")
	reviewPendingCmd.Flags().StringVar(&reviewFlags.format, "format", "text", "output format (text, json)")

	reviewClaimCmd.Flags().StringVar(&reviewFlags.reviewer, "reviewer", "", "reviewer identifier (required)")
	_ = reviewClaimCmd.MarkFlagRequired("reviewer")

	reviewResolveCmd.Flags().StringVar(&reviewFlags.itemID, "id", "", "review item ID (required)")
	reviewResolveCmd.Flags().StringVar(&reviewFlags.resolution, "resolution", "", "resolution note (required)")
	_ = reviewResolveCmd.MarkFlagRequired("id")
	_ = reviewResolveCmd.MarkFlagRequired("resolution")
}

func openReviewStore() (*review.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	return review.NewStore(review.StoreConfig{
		Path:        cfg.Review.Path,
		BusyTimeout: cfg.Review.BusyTimeout,
	})
}

func listPendingReviews(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(reviewFlags.format)
	if err != nil {
		return cli.NewCommandError("review pending", err)
	}

	store, err := openReviewStore()
	if err != nil {
		return cli.NewCommandError("review pending", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	items, err := store.Pending(ctx, reviewFlags.limit)
	if err != nil {
		return cli.NewCommandError("review pending", err)
	}

	if format == cli.FormatJSON {
		return cli.WriteJSON(os.Stdout, items)
	}

	if len(items) == 0 {
		fmt.Println("no pending items")
		return nil
	}
	for _, item := range items {
		fmt.Printf("%s  %-8s  %-20s  %s\n",
			item.CreatedAt.Format(time.RFC3339),
			item.Outcome,
			item.DocumentType,
			item.ID,
		)
	}
	fmt.Printf("%d pending item(s)\n", len(items))
	return nil
}

func claimReview(cmd *cobra.Command, args []string) error {
	store, err := openReviewStore()
	if err != nil {
		return cli.NewCommandError("review claim", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	item, err := store.Claim(ctx, reviewFlags.reviewer)
	if errors.Is(err, review.ErrNonePending) {
		fmt.Println("no pending items to claim")
		return nil
	}
	if err != nil {
		return cli.NewCommandError("review claim", err)
	}

	fmt.Printf("claimed %s\n", item.ID)
	fmt.Printf("  record:        %s\n", item.RecordID)
	fmt.Printf("  document type: %s\n", item.DocumentType)
	fmt.Printf("  outcome:       %s\n", item.Outcome)
	return nil
}

func resolveReview(cmd *cobra.Command, args []string) error {
	store, err := openReviewStore()
	if err != nil {
		return cli.NewCommandError("review resolve", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := store.Resolve(ctx, reviewFlags.itemID, reviewFlags.resolution); err != nil {
		return cli.NewCommandError("review resolve", err)
	}

	fmt.Printf("resolved %s\n", reviewFlags.itemID)
	return nil
}
