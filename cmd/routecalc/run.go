package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"route-profit-service/internal/adapters/report"
	"route-profit-service/internal/adapters/repositories"
	"route-profit-service/internal/adapters/spreadsheet"
	"route-profit-service/internal/app"
	"route-profit-service/internal/config"
	"route-profit-service/internal/domain"
	"route-profit-service/internal/services"
	"strconv"
	"strings"
	"time"
)

func openApp() (*app.App, error) {
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return app.New(cfg)
}

// parseDestination parses "city:packages:value". The city may itself contain colons.
func parseDestination(s string) (domain.Destination, error) {
	valueAt := strings.LastIndex(s, ":")
	if valueAt < 0 {
		return domain.Destination{}, fmt.Errorf("destination %q: want city:packages:value", s)
	}
	packagesAt := strings.LastIndex(s[:valueAt], ":")
	if packagesAt < 0 {
		return domain.Destination{}, fmt.Errorf("destination %q: want city:packages:value", s)
	}

	packages, err := strconv.Atoi(strings.TrimSpace(s[packagesAt+1 : valueAt]))
	if err != nil {
		return domain.Destination{}, fmt.Errorf("destination %q: packages: %w", s, err)
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(strings.Replace(s[valueAt+1:], ",", ".", 1)), 64)
	if err != nil {
		return domain.Destination{}, fmt.Errorf("destination %q: value: %w", s, err)
	}

	return domain.Destination{
		City:            strings.TrimSpace(s[:packagesAt]),
		Packages:        packages,
		ValuePerPackage: value,
	}, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid history id %q", s)
	}
	return id, nil
}

func runCalculate(ctx context.Context, driver, origin string, dests []string, routeCost float64, save bool) error {
	req := services.CalculateRouteRequest{
		Driver:    driver,
		Origin:    origin,
		RouteCost: routeCost,
	}
	for _, d := range dests {
		dest, err := parseDestination(d)
		if err != nil {
			return err
		}
		req.Destinations = append(req.Destinations, dest)
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if !save {
		result, err := services.CalculateRoute(ctx, req, a.Geocoder, a.ResolveOptions())
		if err != nil {
			return err
		}
		printRouteResult(os.Stdout, *result)
		return nil
	}

	entry, err := services.CalculateAndRecord(ctx, req, a.Geocoder, a.History, a.ResolveOptions())
	if err != nil {
		return err
	}
	fmt.Printf("Recorded as #%d\n\n", entry.ID)
	printRouteResult(os.Stdout, entry.RouteResult)
	return nil
}

func runImport(ctx context.Context, path string, calculate bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	defer f.Close()

	res, err := spreadsheet.ImportRoutes(f)
	if err != nil {
		return err
	}
	printImport(os.Stdout, res)

	if !calculate || len(res.Routes) == 0 {
		return nil
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	failed := 0
	for i, p := range res.Routes {
		entry, err := services.CalculateAndRecord(ctx, services.RequestFromProcessed(p), a.Geocoder, a.History, a.ResolveOptions())
		if err != nil {
			failed++
			fmt.Printf("  route %d (%s): %v\n", i+1, p.Driver, err)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}
		fmt.Printf("  route %d (%s): recorded #%d profit=%.2f\n", i+1, p.Driver, entry.ID, entry.Profit)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d routes could not be calculated", failed, len(res.Routes))
	}
	return nil
}

// writeFile creates path and renders into it, removing the file when rendering fails.
func writeFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := render(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", path)
	return nil
}

func runTemplate(path string) error {
	return writeFile(path, spreadsheet.WriteTemplate)
}

func runExport(ctx context.Context, path, format string) error {
	var render func(io.Writer, []*domain.HistoryEntry) error
	switch strings.ToLower(format) {
	case "xlsx":
		render = spreadsheet.ExportHistory
	case "json":
		render = repositories.WriteHistoryJSON
	default:
		return fmt.Errorf("unknown export format %q (want xlsx or json)", format)
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	entries, err := a.History.List(ctx)
	if err != nil {
		return err
	}

	return writeFile(path, func(w io.Writer) error { return render(w, entries) })
}

func runHistoryList(ctx context.Context, query string, page int) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	entries, err := a.History.List(ctx)
	if err != nil {
		return err
	}

	p := services.Paginate(services.FilterHistory(entries, query), page, services.HistoryPageSize)
	printHistoryPage(os.Stdout, p)
	return nil
}

func runHistoryShow(ctx context.Context, arg string) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	entry, err := a.History.Get(ctx, id)
	if err != nil {
		return err
	}

	fmt.Printf("#%d  %s\n\n", entry.ID, entry.Date.Local().Format(time.DateTime))
	printRouteResult(os.Stdout, entry.RouteResult)
	return nil
}

func runHistoryDelete(ctx context.Context, arg string) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.History.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Printf("Deleted #%d\n", id)
	return nil
}

func runHistoryClear(ctx context.Context) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.History.Clear(ctx); err != nil {
		return err
	}
	fmt.Println("History cleared")
	return nil
}

func runHistoryRestore(ctx context.Context, path string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := repositories.SeedHistoryFromJSON(ctx, a.History, path)
	if err != nil {
		return err
	}
	fmt.Printf("Restored %d routes\n", n)
	return nil
}

func runRouteReport(ctx context.Context, arg, path string) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	entry, err := a.History.Get(ctx, id)
	if err != nil {
		return err
	}

	return writeFile(path, func(w io.Writer) error { return report.RenderRouteReport(w, entry) })
}

func runHistoryReport(ctx context.Context, path string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	entries, err := a.History.List(ctx)
	if err != nil {
		return err
	}

	return writeFile(path, func(w io.Writer) error { return report.RenderHistoryReport(w, entries) })
}

func runDashboard(ctx context.Context) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	entries, err := a.History.List(ctx)
	if err != nil {
		return err
	}

	printDashboard(os.Stdout, services.Summarize(entries))
	return nil
}

func runCompare(ctx context.Context, args []string) error {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	entries := make([]*domain.HistoryEntry, 0, len(ids))
	for _, id := range ids {
		e, err := a.History.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("route #%d: %w", id, err)
		}
		entries = append(entries, e)
	}

	c, err := services.Compare(entries)
	if err != nil {
		return err
	}
	printComparison(os.Stdout, c)
	return nil
}
