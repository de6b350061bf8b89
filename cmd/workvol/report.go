package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kovalyshyn/workvol/internal/catalog"
	"github.com/kovalyshyn/workvol/internal/cli"
	"github.com/kovalyshyn/workvol/internal/common"
	"github.com/kovalyshyn/workvol/internal/model"
	"github.com/kovalyshyn/workvol/internal/report"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export a per-object spreadsheet report",
		Long: `Export a spreadsheet report for one object, covering your own entries.

The period is "all", "current", or a specific month as YYYY-MM. The
spreadsheet is rendered by the backend and saved as
<object>_report.xlsx in the output directory.`,
		RunE: runReport,
	}

	cmd.Flags().String("object", "", "object to report on (required)")
	cmd.Flags().String("period", "current", "time window: all, current, or YYYY-MM")
	cmd.Flags().String("out", "", "output directory (default: report.dir config, else current directory)")
	cmd.Flags().Bool("preview", false, "print the filtered entries instead of downloading the spreadsheet")
	_ = cmd.MarkFlagRequired("object")

	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	object, _ := cmd.Flags().GetString("object")
	periodFlag, _ := cmd.Flags().GetString("period")
	outDir, _ := cmd.Flags().GetString("out")
	preview, _ := cmd.Flags().GetBool("preview")

	period, err := report.ParsePeriod(periodFlag)
	if err != nil {
		return err
	}

	client, _, err := newAPIClient()
	if err != nil {
		return err
	}

	items, err := loadWorks(ctx, client)
	if err != nil {
		return err
	}

	// Filter locally first so an empty window is caught before asking the
	// backend to render anything.
	filtered, err := report.BuildPreview(items, object, period, time.Now())
	if err != nil {
		if errors.Is(err, common.ErrNoDataForPeriod) {
			fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf(
				"No entries for %s in %s.", object, period)))
			if months := catalog.NewIndex(items).Months(); len(months) > 0 {
				fmt.Println(cli.SubtleStyle.Render(
					"Months with activity: " + strings.Join(months, ", ")))
			}
			return nil
		}
		return err
	}

	if preview {
		printPreview(object, period, filtered)
		return nil
	}

	data, err := client.GenerateReport(ctx, report.BuildRequest(object, period))
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	if outDir == "" {
		outDir = viper.GetString("report.dir")
	}
	path, err := report.SaveWorkbook(outDir, object, data)
	if err != nil {
		return err
	}

	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Report saved to %s", path)))
	return nil
}

func printPreview(object string, period report.Period, items []model.WorkItem) {
	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("%s (%s)", object, period)))

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tUNIT\tENTRIES\tPERIOD TOTAL")
	for _, item := range items {
		var total float64
		for _, e := range item.History {
			total += e.Amount
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
			item.Name, item.Unit, len(item.History), model.FormatQuantity(total))
	}
	_ = w.Flush()
}
