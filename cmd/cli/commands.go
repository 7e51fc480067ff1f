package main

import (
	"fmt"
	"strconv"
	"strings"

	"adspend/app"
	"adspend/domain/dataset"
	"adspend/internal/analysis"
	"adspend/internal/cache"
	"adspend/internal/errors"
	"adspend/internal/profiling"
	"adspend/internal/testkit"

	"github.com/spf13/cobra"
)

// filterFlags maps summary flags to dataset fields
var filterFlags = []struct {
	flag  string
	field string
}{
	{"category", dataset.FieldCategory},
	{"sku", dataset.FieldSKU},
	{"signal-amz", dataset.FieldSignalAMZ},
	{"action-amz", dataset.FieldActionAMZ},
	{"signal-2025", dataset.FieldSignal2025},
	{"action-2025", dataset.FieldAction2025},
}

func newColumnsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "columns [workbook]",
		Short: "Show the header found under every mapped column",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := opts.loader()
			if err != nil {
				return err
			}

			path := workbookArg(args)
			checks, err := loader.Inspect(cmd.Context(), path)
			if err != nil {
				return err
			}

			// Counts are only available when the workbook loads cleanly
			profiles := make(map[string]profiling.ColumnProfile)
			if ds, err := loader.Load(cmd.Context(), path); err == nil {
				for _, p := range profiling.ProfileDataset(ds) {
					profiles[p.Field] = p
				}
			}

			table := newTextTable(fmt.Sprintf("Columns in %s (header row %d)", path, loader.Layout().HeaderRow),
				"Letter", "Field", "Kind", "Expected", "Found", "Status", "Present", "Missing")
			table.RightAlign[6] = true
			table.RightAlign[7] = true
			for _, p := range checks {
				status := "ok"
				switch {
				case !p.InRange:
					status = errorStyle.Render("out of range")
				case p.Found == "":
					status = errorStyle.Render("blank")
				case !p.Matches():
					status = warnStyle.Render("renamed")
				}
				present, missing := "", ""
				if profile, ok := profiles[p.Field]; ok {
					present, missing = strconv.Itoa(profile.Present), strconv.Itoa(profile.Missing)
				}
				table.AddRow(p.Letter, p.Field, string(p.Kind), p.Expected, p.Found, status, present, missing)
			}
			fmt.Fprint(cmd.OutOrStdout(), table.Render())
			return nil
		},
	}
}

func newSummaryCmd(opts *globalOptions) *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "summary [workbook]",
		Short: "Print KPIs, top SKUs and the signal mix for a filter selection",
		Long: `Print the dashboard figures for a selection.

Each filter flag may be repeated or given comma-separated values. Values are
matched exactly, so a category named "None" is an ordinary value. To select
nothing for a filter, name it in --none (for example --none signal-2025).

Example: adspend summary "SKU WISE AD SPEND.xlsx" --category Footwear --signal-2025 Scale,Hold --top 5`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if top < 1 {
				return errors.InvalidInput("--top must be at least 1")
			}
			loader, err := opts.loader()
			if err != nil {
				return err
			}

			sel, err := selectionFromFlags(cmd)
			if err != nil {
				return err
			}

			svc := app.NewDashboardService(cache.NewDatasetCache(loader, opts.logger()), workbookArg(args), top, opts.logger())
			d, err := svc.Build(cmd.Context(), sel)
			if errors.HasCode(err, errors.CodeEmptySelection) {
				fmt.Fprintln(cmd.OutOrStdout(), warnStyle.Render(app.EmptySelectionWarning))
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), renderSummary(d))
			return nil
		},
	}

	for _, f := range filterFlags {
		cmd.Flags().StringSlice(f.flag, nil, fmt.Sprintf("filter on %s", f.field))
	}
	cmd.Flags().StringSlice("none", nil, "filters that select nothing (e.g. signal-2025)")
	cmd.Flags().IntVar(&top, "top", 10, "number of SKUs in the top lists")
	return cmd
}

func selectionFromFlags(cmd *cobra.Command) (analysis.Selection, error) {
	sel := make(analysis.Selection)
	byFlag := make(map[string]string, len(filterFlags))
	for _, f := range filterFlags {
		byFlag[f.flag] = f.field
		if !cmd.Flags().Changed(f.flag) {
			continue
		}
		values, err := cmd.Flags().GetStringSlice(f.flag)
		if err != nil {
			return nil, errors.Wrapf(errors.InvalidInput(err.Error()), "invalid --%s", f.flag)
		}
		sel[f.field] = values
	}

	none, err := cmd.Flags().GetStringSlice("none")
	if err != nil {
		return nil, errors.Wrap(errors.InvalidInput(err.Error()), "invalid --none")
	}
	for _, name := range none {
		field, ok := byFlag[strings.TrimPrefix(strings.TrimSpace(name), "--")]
		if !ok {
			return nil, errors.Newf(errors.CodeInvalidInput, "--none: unknown filter %q", name)
		}
		sel[field] = []string{}
	}
	return sel, nil
}

func renderSummary(d *app.Dashboard) string {
	var sb strings.Builder
	sb.WriteString(mutedStyle.Render(fmt.Sprintf("%s: %d of %d SKUs selected", d.Source, d.FilteredRows, d.TotalRows)))
	sb.WriteString("\n\n")

	kpis := newTextTable("KPIs", "Metric", "Value", "")
	kpis.RightAlign[1] = true
	for _, k := range d.KPIs {
		kpis.AddRow(k.Label, k.Display, mutedStyle.Render(k.Subtext))
	}
	sb.WriteString(kpis.Render())

	sb.WriteString(groupTable("Top SKUs by Revenue 2025", "Revenue", d.TopRevenue, true).Render())
	sb.WriteString(groupTable("Top SKUs by Ad Spend 2025", "Ad Spend", d.TopSpend, true).Render())
	sb.WriteString(groupTable("Signal 2025 mix", "SKUs", d.SignalMix, false).Render())
	return sb.String()
}

func groupTable(title, valueHeader string, groups []analysis.GroupTotal, currency bool) *textTable {
	table := newTextTable(title, "#", "Key", valueHeader)
	table.RightAlign[0] = true
	table.RightAlign[2] = true
	for i, g := range groups {
		value := strconv.Itoa(g.Count)
		if currency {
			value = analysis.FormatCurrency(g.Value, true)
		}
		table.AddRow(strconv.Itoa(i+1), g.Key, value)
	}
	return table
}

func newSampleCmd() *cobra.Command {
	config := testkit.DefaultWorkbookConfig()

	cmd := &cobra.Command{
		Use:   "sample <out.xlsx>",
		Short: "Write a synthetic workbook in the ad spend layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.SKUCount < 1 {
				return errors.InvalidInput("--skus must be at least 1")
			}
			gen := testkit.NewWorkbookGenerator(config)
			records := gen.GenerateRecords()
			if err := gen.WriteWorkbook(args[0], dataset.SKUAdSpendLayout(), records); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d SKUs to %s\n", len(records), args[0])
			return nil
		},
	}

	cmd.Flags().IntVar(&config.SKUCount, "skus", config.SKUCount, "number of SKU rows")
	cmd.Flags().Int64Var(&config.Seed, "seed", config.Seed, "random seed")
	cmd.Flags().IntVar(&config.BlankRowEvery, "blank-every", config.BlankRowEvery, "insert a blank row every N SKUs (0 disables)")
	return cmd
}
