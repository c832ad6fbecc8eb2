package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "routecalc",
		Short:        "Delivery route profitability and fuel calculator",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(calculateCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(templateCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(dashboardCmd())
	rootCmd.AddCommand(compareCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func calculateCmd() *cobra.Command {
	var (
		driver    string
		origin    string
		dests     []string
		routeCost float64
		noSave    bool
	)

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Calculate distance, fuel and profit of a route",
		Example: `  routecalc calculate --driver "Ana" --origin "São Paulo" \
    --dest "Campinas:30:12.5" --dest "Sorocaba:20:10" --route-cost 200`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCalculate(cmd.Context(), driver, origin, dests, routeCost, !noSave)
		},
	}

	cmd.Flags().StringVar(&driver, "driver", "", "driver name")
	cmd.Flags().StringVar(&origin, "origin", "", "origin city")
	cmd.Flags().StringArrayVar(&dests, "dest", nil, `destination as "city:packages:value_per_package" (repeatable, in route order)`)
	cmd.Flags().Float64Var(&routeCost, "route-cost", 0, "operational cost of the route")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not record the result in the history")
	return cmd
}

func importCmd() *cobra.Command {
	var calculate bool

	cmd := &cobra.Command{
		Use:   "import [file.xlsx]",
		Short: "Validate routes from a spreadsheet and optionally calculate them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), args[0], calculate)
		},
	}

	cmd.Flags().BoolVar(&calculate, "calculate", false, "calculate and record every valid row")
	return cmd
}

func templateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "template [file.xlsx]",
		Short: "Write the spreadsheet import template",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runTemplate(args[0])
		},
	}
}

func exportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export the route history as a spreadsheet or a JSON backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), args[0], format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "xlsx", "output format: xlsx or json")
	return cmd
}

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and manage the route history",
	}

	var (
		query string
		page  int
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List recorded routes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistoryList(cmd.Context(), query, page)
		},
	}
	list.Flags().StringVarP(&query, "query", "q", "", "filter by driver, origin or destination")
	list.Flags().IntVarP(&page, "page", "p", 1, "page number")

	show := &cobra.Command{
		Use:   "show [id]",
		Short: "Show one recorded route",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryShow(cmd.Context(), args[0])
		},
	}

	del := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete one recorded route",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryDelete(cmd.Context(), args[0])
		},
	}

	clearAll := &cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded route",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistoryClear(cmd.Context())
		},
	}

	restore := &cobra.Command{
		Use:   "restore [file]",
		Short: "Restore routes from a JSON backup, keeping their ids",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryRestore(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(list, show, del, clearAll, restore)
	return cmd
}

func reportCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "report [id] [file.pdf]",
		Short: "Render a PDF report of one route, or of the whole history with --all",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				if len(args) != 1 {
					return cobra.ExactArgs(1)(cmd, args)
				}
				return runHistoryReport(cmd.Context(), args[0])
			}
			if len(args) != 2 {
				return cobra.ExactArgs(2)(cmd, args)
			}
			return runRouteReport(cmd.Context(), args[0], args[1])
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "report the whole history; the only argument is the output file")
	return cmd
}

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Summarise the route history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDashboard(cmd.Context())
		},
	}
}

func compareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare [id]...",
		Short: "Compare up to five recorded routes and suggest improvements",
		Args:  cobra.RangeArgs(1, 5),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd.Context(), args)
		},
	}
}
