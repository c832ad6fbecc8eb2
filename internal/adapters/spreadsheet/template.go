package spreadsheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	TemplateSheet     = "Rotas"
	instructionsSheet = "Instruções"
)

var templateHeader = []interface{}{
	ColDriver, ColOrigin, ColDestination1, ColDestination2, ColDestination3,
	ColPackages, ColValue, ColOtherCosts,
}

var templateRows = [][]interface{}{
	{"João Silva", "São Paulo", "Rio de Janeiro", "Belo Horizonte", "", 50, 25.5, 400},
	{"Maria Santos", "Curitiba", "Florianópolis", "Porto Alegre", "Caxias do Sul", 75, 30, 600},
	{"Pedro Costa", "Salvador", "Recife", "", "", 30, 40, 350},
}

var (
	templateWidths    = []float64{18, 18, 18, 18, 18, 20, 16, 14}
	instructionWidths = []float64{20, 46, 16, 12, 16}
)

var instructionRows = [][]interface{}{
	{"Campo", "Descrição", "Exemplo", "Obrigatório", "Tipo"},
	{ColDriver, "Nome do motorista responsável", "João Silva", "Sim", "Texto"},
	{ColOrigin, "Cidade de partida", "São Paulo", "Sim", "Texto"},
	{ColDestination1, "Primeira cidade de entrega", "Rio de Janeiro", "Sim", "Texto"},
	{ColDestination2, "Segunda cidade de entrega", "Belo Horizonte", "Não", "Texto"},
	{ColDestination3, "Terceira cidade de entrega", "Vitória", "Não", "Texto"},
	{ColPackages, "Total de pacotes, dividido entre os destinos", "50", "Sim", "Número inteiro"},
	{ColValue, "Valor pago por pacote (R$)", "25,50", "Sim", "Número"},
	{ColOtherCosts, "Custos operacionais da rota (R$)", "400", "Sim", "Número"},
}

// WriteTemplate writes the import template workbook: an example sheet
// followed by a sheet describing every column.
func WriteTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", TemplateSheet); err != nil {
		return fmt.Errorf("write template: %w", err)
	}
	if _, err := f.NewSheet(instructionsSheet); err != nil {
		return fmt.Errorf("write template: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("write template: %w", err)
	}

	if err := writeSheet(f, TemplateSheet, templateWidths, templateHeader, templateRows, bold); err != nil {
		return fmt.Errorf("write template: %w", err)
	}
	if err := writeSheet(f, instructionsSheet, instructionWidths, instructionRows[0], instructionRows[1:], bold); err != nil {
		return fmt.Errorf("write template: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write template: %w", err)
	}
	return nil
}

// writeSheet streams a header row and data rows into an existing sheet.
// Column widths must be set before the first row is written.
func writeSheet(f *excelize.File, sheet string, widths []float64, header []interface{}, rows [][]interface{}, headerStyle int) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}

	for i, w := range widths {
		if err := sw.SetColWidth(i+1, i+1, w); err != nil {
			return err
		}
	}

	if err := sw.SetRow("A1", header, excelize.RowOpts{StyleID: headerStyle}); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}

	return sw.Flush()
}
