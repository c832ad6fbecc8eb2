package report

import (
	"fmt"
	"io"
	"route-profit-service/internal/domain"
	"route-profit-service/internal/services"
	"strconv"
	"time"
)

var historyColumns = []struct {
	title string
	width float64
}{
	{"Data", 28},
	{"Motorista", 35},
	{"Rota", 80},
	{"Km", 18},
	{"Pacotes", 18},
	{"Receita", 28},
	{"Custos", 26},
	{"Lucro", 26},
	{"Margem", 18},
}

// RenderHistoryReport writes a landscape PDF table of entries followed by totals.
func RenderHistoryReport(w io.Writer, entries []*domain.HistoryEntry) error {
	d := newDocument("L", "Histórico de Rotas")
	d.title("Histórico de Rotas", fmt.Sprintf("%d rotas  |  gerado em %s", len(entries), time.Now().Format("02/01/2006 15:04")))

	widths := make([]float64, len(historyColumns))
	header := make([]string, len(historyColumns))
	for i, c := range historyColumns {
		widths[i] = c.width
		header[i] = c.title
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Date.Local().Format("02/01/2006"),
			e.Driver,
			e.RouteName(),
			strconv.Itoa(e.TotalDistance),
			strconv.Itoa(e.TotalPackages),
			Money(e.TotalRevenue),
			Money(e.TotalCost),
			Money(e.Profit),
			percent(e.ProfitMargin),
		})
	}
	d.table(widths, header, rows)

	s := services.Summarize(entries)
	d.section("Totais")
	d.field("Rotas", strconv.Itoa(s.TotalRoutes))
	d.field("Pacotes", strconv.Itoa(s.TotalPackages))
	d.field("Receita", Money(s.TotalRevenue))
	d.field("Lucro", Money(s.TotalProfit))
	d.field("Margem média", percent(s.AverageMargin))
	d.field("Lucro médio por pacote", Money(s.AverageProfitPerPackage))

	if err := d.output(w); err != nil {
		return fmt.Errorf("render history report: %w", err)
	}
	return nil
}
