package main

import (
	"fmt"
	"os"

	"adspend/adapters/excel"
	"adspend/internal"
	"adspend/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type globalOptions struct {
	sheet     string
	headerRow int
	logLevel  string
}

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	rootCmd := &cobra.Command{
		Use:           "adspend",
		Short:         "Inspect and summarise the SKU-wise ad spend workbook",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.sheet, "sheet", os.Getenv("WORKBOOK_SHEET"), "worksheet name (default: first sheet)")
	rootCmd.PersistentFlags().IntVar(&opts.headerRow, "header-row", 3, "1-based row holding the column headers")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "WARN", "log level (ERROR, WARN, INFO, DEBUG, TRACE)")

	rootCmd.AddCommand(
		newColumnsCmd(opts),
		newSummaryCmd(opts),
		newSampleCmd(),
	)
	return rootCmd
}

func (o *globalOptions) logger() *internal.Logger {
	return internal.NewLogger(internal.ParseLogLevel(o.logLevel))
}

func (o *globalOptions) loader() (*excel.Loader, error) {
	if o.headerRow < 1 {
		return nil, fmt.Errorf("--header-row must be at least 1")
	}
	cfg := excel.DefaultLoaderConfig()
	cfg.Layout.Sheet = o.sheet
	cfg.Layout.HeaderRow = o.headerRow
	return excel.NewLoader(cfg, o.logger()), nil
}

// workbookArg returns the positional path or the configured default
func workbookArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	if path := os.Getenv("WORKBOOK_PATH"); path != "" {
		return path
	}
	return config.DefaultWorkbookPath
}
