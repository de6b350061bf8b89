package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kovalyshyn/workvol/internal/cli"
	"github.com/kovalyshyn/workvol/internal/ledger"
	"github.com/kovalyshyn/workvol/internal/model"
)

func addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a completed quantity against a work item",
		Long: `Record a completed quantity against one work item.

Quantities accept either a comma or a dot as the decimal separator, so
39,3 and 39.3 mean the same thing. Every addition asks for confirmation
before it is submitted; when the projected total would exceed the
contracted volume the prompt says so.`,
		RunE: runAdd,
	}

	cmd.Flags().String("work", "", "work item ID (required)")
	cmd.Flags().String("amount", "", "quantity to add (required)")
	cmd.Flags().Bool("yes", false, "skip the confirmation prompt unless the volume would be exceeded")
	_ = cmd.MarkFlagRequired("work")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func runAdd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	workID, _ := cmd.Flags().GetString("work")
	amount, _ := cmd.Flags().GetString("amount")
	yes, _ := cmd.Flags().GetBool("yes")

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
	pending, err := engine.StageAdd(item, amount)
	if err != nil {
		return err
	}

	prompter := cli.NewPrompter(nil, nil)

	// An overage is always confirmed interactively, even under --yes.
	if !yes || pending.Overage {
		ok, err := prompter.ConfirmAdd(ctx, pending)
		if err != nil {
			return err
		}
		if !ok {
			_ = pending.Cancel()
			prompter.Noticef("Entry cancelled.")
			return nil
		}
	}

	if err := pending.Confirm(ctx); err != nil {
		return err
	}

	prompter.Successf("✓ Added %s %s to %s (total %s)",
		model.FormatQuantity(pending.Amount), item.Unit, item.Name,
		model.FormatQuantity(item.Done))
	return nil
}

func findWork(items []model.WorkItem, id string) *model.WorkItem {
	for i := range items {
		if items[i].ID == id {
			return &items[i]
		}
	}
	return nil
}
