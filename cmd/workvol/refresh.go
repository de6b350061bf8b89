package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kovalyshyn/workvol/internal/cli"
	"github.com/kovalyshyn/workvol/internal/common"
	"github.com/kovalyshyn/workvol/internal/model"
)

func refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Fetch the work list and rebuild the local cache",
		Long: `Fetch the authoritative work list from the backend and replace the
local snapshot cache with it. Other commands fall back to this cache
when the backend is unreachable.`,
		RunE: runRefresh,
	}
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	client, _, err := newAPIClient()
	if err != nil {
		return err
	}

	items, err := fetchWithSpinner(ctx, os.Stderr, client.FetchWorks)
	if err != nil {
		return fmt.Errorf("failed to fetch work list: %w", err)
	}

	store, err := openSnapshotStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.ReplaceSnapshot(ctx, items); err != nil {
		return fmt.Errorf("failed to write snapshot cache: %w", err)
	}

	common.LogInfo("Snapshot cached", common.Fields{"count": len(items)})

	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Cached %d work items", len(items))))
	return nil
}

// fetchWithSpinner animates a spinner on out while the fetch blocks.
func fetchWithSpinner(ctx context.Context, out io.Writer, fetch func(context.Context) ([]model.WorkItem, error)) ([]model.WorkItem, error) {
	spinner := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription("Fetching work list..."),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(out); err != nil {
				slog.Warn("Failed to write newline after spinner", "error", err)
			}
		}),
	)
	_ = spinner.RenderBlank()

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = spinner.Add(1)
			}
		}
	}()

	items, err := fetch(ctx)
	close(done)
	_ = spinner.Finish()

	return items, err
}
