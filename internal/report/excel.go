package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"superstore-bi/internal/models"
)

// BuildWorkbook assembles the downloadable KPI report: one sheet of
// headline figures, one per-category sheet and one per-state sheet.
func BuildWorkbook(kpi models.GlobalKPI, categories []models.CategoryPerformance, states []models.StatePerformance) (*excelize.File, error) {
	f := excelize.NewFile()

	const kpiSheet = "KPI"
	if err := f.SetSheetName("Sheet1", kpiSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	kpiRows := [][]any{
		{"Indicateur", "Valeur"},
		{"CA total", kpi.CATotal},
		{"Commandes", kpi.NbCommandes},
		{"Clients", kpi.NbClients},
		{"Panier moyen", kpi.PanierMoyen},
		{"Quantite vendue", kpi.QuantiteVendue},
		{"Profit total", kpi.ProfitTotal},
		{"Marge moyenne (%)", kpi.MargeMoyenne},
	}
	if err := writeRows(f, kpiSheet, kpiRows); err != nil {
		return nil, err
	}

	catRows := [][]any{{"Categorie", "CA", "Profit", "Commandes", "Marge (%)"}}
	for _, c := range categories {
		catRows = append(catRows, []any{c.Categorie, c.CA, c.Profit, c.NbCommandes, c.MargePct})
	}
	if err := addSheet(f, "Categories", catRows); err != nil {
		return nil, err
	}

	stateRows := [][]any{{"Etat", "Region", "CA", "Profit", "Marge (%)", "Clients", "CA / client"}}
	for _, s := range states {
		stateRows = append(stateRows, []any{s.Etat, s.Region, s.CA, s.Profit, s.MargePct, s.NbClients, s.CAParClient})
	}
	if err := addSheet(f, "Etats", stateRows); err != nil {
		return nil, err
	}

	return f, nil
}

func addSheet(f *excelize.File, name string, rows [][]any) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("new sheet %s: %w", name, err)
	}
	return writeRows(f, name, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("set cell %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}
