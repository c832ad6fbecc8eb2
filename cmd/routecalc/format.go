package main

import (
	"fmt"
	"io"
	"route-profit-service/internal/adapters/report"
	"route-profit-service/internal/adapters/spreadsheet"
	"route-profit-service/internal/domain"
	"route-profit-service/internal/services"
	"text/tabwriter"
	"time"
)

func printRouteResult(w io.Writer, r domain.RouteResult) {
	m := services.Metrics(r)

	fmt.Fprintf(w, "Driver:    %s\n", r.Driver)
	fmt.Fprintf(w, "Route:     %s\n", r.RouteName())
	fmt.Fprintf(w, "Distance:  %d km (%s)\n", r.TotalDistance, m.FormattedTravelTime)
	fmt.Fprintf(w, "Packages:  %d\n\n", r.TotalPackages)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FROM\tTO\tKM\tTIME")
	for _, s := range r.DistanceBreakdown {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", s.From, s.To, s.Distance,
			services.FormatTravelTime(float64(s.Distance)/services.AverageSpeedKmh))
	}
	tw.Flush()

	fa := r.FuelAnalysis
	fmt.Fprintf(w, "\nFuel (%s):\n", fa.Region)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  TYPE\tPRICE/L\tLITERS\tCOST\tCOST/KM")
	for _, t := range []domain.FuelType{domain.FuelDiesel, domain.FuelGasoline} {
		o := fa.Option(t)
		fmt.Fprintf(tw, "  %s\t%s\t%.1f\t%s\t%s\n", t, report.Money(o.FuelPrice), o.Liters, report.Money(o.FuelCost), report.Money(o.CostPerKm))
	}
	tw.Flush()
	fmt.Fprintf(w, "  recommended: %s (saves %s)\n\n", fa.Recommendation, report.Money(fa.Savings))

	fmt.Fprintf(w, "Revenue:   %s\n", report.Money(r.TotalRevenue))
	fmt.Fprintf(w, "Costs:     %s\n", report.Money(r.TotalCost))
	fmt.Fprintf(w, "Profit:    %s (%.1f%%, %s)\n", report.Money(r.Profit), r.ProfitMargin, m.MarginClass)
	fmt.Fprintf(w, "With fuel: %s (%.1f%%, %s)\n", report.Money(m.ProfitWithFuel), m.ProfitMarginWithFuel, m.MarginClassWithFuel)
}

func printImport(w io.Writer, res *spreadsheet.ImportResult) {
	fmt.Fprintf(w, "Valid routes: %d\n", len(res.Routes))
	for i, p := range res.Routes {
		fmt.Fprintf(w, "  %d. %s: %s", i+1, p.Driver, p.Origin)
		for _, d := range p.Destinations {
			fmt.Fprintf(w, " -> %s (%d)", d.City, d.Packages)
		}
		fmt.Fprintln(w)
	}

	if len(res.Errors) > 0 {
		fmt.Fprintf(w, "Rejected rows: %d\n", len(res.Errors))
		for _, e := range res.Errors {
			fmt.Fprintf(w, "  %s\n", e.Error())
		}
	}
}

func printHistoryPage(w io.Writer, p services.HistoryPage) {
	if p.TotalItems == 0 {
		fmt.Fprintln(w, "No routes recorded")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tDRIVER\tROUTE\tKM\tREVENUE\tPROFIT\tMARGIN")
	for _, e := range p.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\t%s\t%.1f%%\n",
			e.ID, e.Date.Local().Format(time.DateOnly), e.Driver, e.RouteName(),
			e.TotalDistance, report.Money(e.TotalRevenue), report.Money(e.Profit), e.ProfitMargin)
	}
	tw.Flush()
	fmt.Fprintf(w, "\nPage %d of %d (%d routes)\n", p.Page, p.TotalPages, p.TotalItems)
}

func printDashboard(w io.Writer, d services.Dashboard) {
	fmt.Fprintf(w, "Routes:             %d\n", d.TotalRoutes)
	fmt.Fprintf(w, "Revenue:            %s\n", report.Money(d.TotalRevenue))
	fmt.Fprintf(w, "Profit:             %s\n", report.Money(d.TotalProfit))
	fmt.Fprintf(w, "Average margin:     %.1f%%\n", d.AverageMargin)
	fmt.Fprintf(w, "Packages:           %d\n", d.TotalPackages)
	fmt.Fprintf(w, "Profit per package: %s\n", report.Money(d.AverageProfitPerPackage))

	if len(d.RouteTypes) > 0 {
		fmt.Fprintln(w, "\nRoute types:")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, t := range d.RouteTypes {
			fmt.Fprintf(tw, "  %s\t%dx\t%s\t%.1f%%\n", t.RouteType, t.Count, report.Money(t.TotalProfit), t.AverageMargin)
		}
		tw.Flush()
	}

	if len(d.LosingRouteTypes) > 0 {
		fmt.Fprintln(w, "\nLosing route types:")
		for _, t := range d.LosingRouteTypes {
			fmt.Fprintf(w, "  %s: %s\n", t.RouteType, report.Money(t.TotalProfit))
		}
	}

	printRanking(w, "Top by volume", d.TopByVolume)
	printRanking(w, "Top by profit", d.TopByProfit)
}

func printRanking(w io.Writer, title string, rows []services.DriverRouteRanking) {
	if len(rows) == 0 {
		return
	}

	fmt.Fprintf(w, "\n%s:\n", title)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, r := range rows {
		fmt.Fprintf(tw, "  %d.\t%s\t%s\t%d pkgs\t%s\n", i+1, r.Driver, r.RouteName, r.TotalPackages, report.Money(r.TotalProfit))
	}
	tw.Flush()
}

func printComparison(w io.Writer, c *services.Comparison) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tROUTE\tDRIVER\tPROFIT\tMARGIN\tKM\tEFFICIENCY\tPROFIT/H")
	for _, r := range c.Routes {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.1f%%\t%d\t%.2fx\t%s\n",
			r.ID, r.Name, r.Driver, report.Money(r.Profit), r.Margin, r.Distance, r.Efficiency, report.Money(r.ProfitPerHour))
	}
	tw.Flush()

	fmt.Fprintf(w, "\nBest profit: #%d  best margin: #%d  best efficiency: #%d\n", c.Best.Profit, c.Best.Margin, c.Best.Efficiency)

	if len(c.Suggestions) == 0 {
		return
	}
	fmt.Fprintln(w, "\nSuggestions:")
	for _, s := range c.Suggestions {
		fmt.Fprintf(w, "  [%s, %s] %s: %s (potential gain %s)\n", s.Type, s.Difficulty, s.Title, s.Description, report.Money(s.PotentialGain))
	}
}
