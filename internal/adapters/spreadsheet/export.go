package spreadsheet

import (
	"fmt"
	"io"
	"route-profit-service/internal/domain"
	"strings"

	"github.com/xuri/excelize/v2"
)

const HistorySheet = "Histórico"

var historyHeader = []interface{}{
	"ID", "Data", "Motorista", "Origem", "Destinos", "Distância (km)", "Tempo (h)",
	"Pacotes", "Receita (R$)", "Custos (R$)", "Combustível (R$)", "Lucro (R$)",
	"Margem (%)", "Combustível recomendado", "Região",
}

var historyWidths = []float64{16, 18, 18, 18, 40, 14, 10, 10, 14, 14, 16, 14, 12, 22, 16}

// ExportHistory writes the given history entries as a single sheet workbook.
func ExportHistory(w io.Writer, entries []*domain.HistoryEntry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", HistorySheet); err != nil {
		return fmt.Errorf("export history: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("export history: %w", err)
	}

	rows := make([][]interface{}, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, historyRow(e))
	}

	if err := writeSheet(f, HistorySheet, historyWidths, historyHeader, rows, bold); err != nil {
		return fmt.Errorf("export history: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("export history: %w", err)
	}
	return nil
}

func historyRow(e *domain.HistoryEntry) []interface{} {
	cities := make([]string, 0, len(e.Destinations))
	for _, d := range e.Destinations {
		cities = append(cities, d.City)
	}

	return []interface{}{
		e.ID,
		e.Date.Local().Format("02/01/2006 15:04"),
		e.Driver,
		e.Origin,
		strings.Join(cities, ", "),
		e.TotalDistance,
		round2(e.TotalTravelTime),
		e.TotalPackages,
		round2(e.TotalRevenue),
		round2(e.TotalCost),
		round2(e.FuelCost),
		round2(e.Profit),
		round2(e.ProfitMargin),
		string(e.FuelAnalysis.Recommendation),
		e.FuelAnalysis.Region,
	}
}
