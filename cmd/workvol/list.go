package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kovalyshyn/workvol/internal/catalog"
	"github.com/kovalyshyn/workvol/internal/cli"
	"github.com/kovalyshyn/workvol/internal/model"
)

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List work items and their completed quantities",
		RunE:  runList,
	}

	cmd.Flags().String("city", "", "only items in this city")
	cmd.Flags().String("object", "", "only items of this object")
	cmd.Flags().String("subname", "", "only items of this work type")
	cmd.Flags().String("category", "", "only items of this category")
	cmd.Flags().Bool("cached", false, "read the local snapshot cache instead of the backend")

	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cached, _ := cmd.Flags().GetBool("cached")
	city, _ := cmd.Flags().GetString("city")
	object, _ := cmd.Flags().GetString("object")
	subname, _ := cmd.Flags().GetString("subname")
	category, _ := cmd.Flags().GetString("category")

	var (
		items []model.WorkItem
		err   error
	)
	if cached {
		items, err = loadCachedWorks(ctx)
	} else {
		client, _, cerr := newAPIClient()
		if cerr != nil {
			return cerr
		}
		items, err = loadWorks(ctx, client)
	}
	if err != nil {
		return err
	}

	index := catalog.NewIndex(items)
	selected := index.Resolve(model.SelectionPath{
		City:     city,
		Object:   object,
		Subname:  subname,
		Category: category,
	})
	if len(selected) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No work items match."))
		return nil
	}

	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Work items (%d)", len(selected))))

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tOBJECT\tNAME\tUNIT\tDONE\tVOLUME\tREMAINING")
	for _, item := range selected {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			item.ID,
			item.Object,
			item.Name,
			item.Unit,
			model.FormatQuantity(item.Done),
			model.FormatQuantity(item.Volume),
			model.FormatQuantity(item.Remaining()),
		)
	}
	return w.Flush()
}
