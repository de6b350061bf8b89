package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kovalyshyn/workvol/internal/cli"
	"github.com/kovalyshyn/workvol/internal/ledger"
	"github.com/kovalyshyn/workvol/internal/model"
)

func editLastCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit-last",
		Short: "Amend the most recent entry of a work item",
		Long: `Replace the amount of the most recent entry of a work item.

Zero is allowed and effectively voids the entry. The backend recomputes
the completed total and the corrected state shown afterwards is its
answer, not a local guess.`,
		RunE: runEditLast,
	}

	cmd.Flags().String("work", "", "work item ID (required)")
	cmd.Flags().String("amount", "", "replacement quantity (required)")
	_ = cmd.MarkFlagRequired("work")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func runEditLast(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	workID, _ := cmd.Flags().GetString("work")
	amount, _ := cmd.Flags().GetString("amount")

	client, _, err := newAPIClient()
	if err != nil {
		return err
	}

	items, err := loadWorks(ctx, client)
	if err != nil {
		return err
	}

	item := findWork(items, workID)
	if item == nil {
		return fmt.Errorf("work item %q not found", workID)
	}

	engine := ledger.NewEngine(client)
	if err := engine.EditLast(ctx, item, amount); err != nil {
		return err
	}

	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Amended last entry of %s (total %s %s)",
		item.Name, model.FormatQuantity(item.Done), item.Unit)))
	return nil
}
