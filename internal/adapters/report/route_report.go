package report

import (
	"fmt"
	"io"
	"route-profit-service/internal/domain"
	"route-profit-service/internal/services"
	"strconv"
)

// RenderRouteReport writes a one route PDF: summary, distance breakdown,
// fuel comparison, financials with and without fuel, and unit metrics.
func RenderRouteReport(w io.Writer, entry *domain.HistoryEntry) error {
	if entry == nil {
		return fmt.Errorf("render route report: nil entry")
	}

	r := entry.RouteResult
	m := services.Metrics(r)
	d := newDocument("P", "Relatório de Rota")

	d.title("Relatório de Rota", fmt.Sprintf("Rota #%d  |  %s", entry.ID, entry.Date.Local().Format("02/01/2006 15:04")))

	d.section("Resumo")
	d.field("Motorista", r.Driver)
	d.field("Origem", r.Origin)
	d.field("Destinos", cities(r))
	d.field("Distância total", number(float64(r.TotalDistance), 0)+" km")
	d.field("Tempo estimado", m.FormattedTravelTime)
	d.field("Pacotes", strconv.Itoa(r.TotalPackages))

	d.section("Trechos")
	rows := make([][]string, 0, len(r.DistanceBreakdown))
	for _, s := range r.DistanceBreakdown {
		hours := float64(s.Distance) / services.AverageSpeedKmh
		rows = append(rows, []string{s.From, s.To, number(float64(s.Distance), 0) + " km", services.FormatTravelTime(hours)})
	}
	d.table([]float64{65, 65, 25, 25}, []string{"De", "Para", "Distância", "Tempo"}, rows)

	fa := r.FuelAnalysis
	d.section("Combustível")
	d.field("Região", fa.Region)
	d.table(
		[]float64{40, 35, 35, 35, 35},
		[]string{"Combustível", "Preço/litro", "Consumo", "Custo", "Custo/km"},
		[][]string{
			fuelRow(domain.FuelDiesel, fa.Diesel),
			fuelRow(domain.FuelGasoline, fa.Gasoline),
		},
	)
	d.pdf.Ln(2)
	d.field("Recomendado", fuelName(fa.Recommendation))
	d.field("Economia", Money(fa.Savings))

	d.section("Financeiro")
	d.field("Receita", Money(r.TotalRevenue))
	d.field("Custos operacionais", Money(r.TotalCost))
	d.field("Lucro", Money(r.Profit))
	d.field("Margem", fmt.Sprintf("%s (%s)", percent(r.ProfitMargin), marginName(m.MarginClass)))
	d.field("Custo de combustível", Money(r.FuelCost))
	d.field("Lucro com combustível", Money(m.ProfitWithFuel))
	d.field("Margem com combustível", fmt.Sprintf("%s (%s)", percent(m.ProfitMarginWithFuel), marginName(m.MarginClassWithFuel)))

	d.section("Indicadores")
	d.field("Receita por km", Money(m.RevenuePerKm))
	d.field("Custo por km", Money(m.OperationalCostPerKm))
	d.field("Custo total por km", Money(m.TotalCostPerKm))
	d.field("Receita por pacote", Money(m.RevenuePerPackage))
	d.field("Lucro por hora", Money(m.ProfitPerHour))
	d.field("Pacotes por hora", number(m.PackagesPerHour, 1))
	d.field("Eficiência", number(m.Efficiency, 2)+"x")

	if err := d.output(w); err != nil {
		return fmt.Errorf("render route report: %w", err)
	}
	return nil
}

func fuelRow(t domain.FuelType, o domain.FuelOption) []string {
	return []string{
		fuelName(t),
		Money(o.FuelPrice),
		number(o.Liters, 1) + " L",
		Money(o.FuelCost),
		Money(o.CostPerKm),
	}
}
