package main

import (
	"github.com/spf13/cobra"

	"github.com/kovalyshyn/workvol/internal/catalog"
	"github.com/kovalyshyn/workvol/internal/ledger"
	"github.com/kovalyshyn/workvol/internal/tui"
)

func worksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "works",
		Short: "Browse work items interactively and record quantities",
		Long: `Open the interactive browser: pick a location, object, work type and
category, then record or amend quantities in place. Objects whose items
carry no work type or category jump straight to the work list.`,
		RunE: runWorks,
	}
}

func runWorks(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	client, _, err := newAPIClient()
	if err != nil {
		return err
	}

	items, err := loadWorks(ctx, client)
	if err != nil {
		return err
	}

	return tui.Run(tui.Config{
		Ctx:    ctx,
		Engine: ledger.NewEngine(client),
		Index:  catalog.NewIndex(items),
	})
}
