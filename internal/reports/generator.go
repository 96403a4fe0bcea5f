package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// Generator renders a day report as PDF or CSV bytes.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(report DayReport, format Format) ([]byte, error) {
	switch format {
	case FormatPDF:
		return g.generatePDF(report)
	case FormatCSV:
		return g.generateCSV(report)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// generateCSV writes one row per meal plus a totals row. Item-level detail
// stays in the PDF; the CSV is for spreadsheets.
func (g *Generator) generateCSV(report DayReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"date", "meal", "kcal", "carbs_g", "protein_g", "fat_g"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, m := range report.Meals {
		row := []string{
			report.Date,
			m.Name,
			fmt.Sprintf("%.1f", m.TotalKcal),
			fmt.Sprintf("%.1f", m.TotalCarbsG),
			fmt.Sprintf("%.1f", m.TotalProteinG),
			fmt.Sprintf("%.1f", m.TotalFatG),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	kcal, carbs, protein, fat := report.Totals()
	totals := []string{
		report.Date,
		"total",
		fmt.Sprintf("%.1f", kcal),
		fmt.Sprintf("%.1f", carbs),
		fmt.Sprintf("%.1f", protein),
		fmt.Sprintf("%.1f", fat),
	}
	if err := w.Write(totals); err != nil {
		return nil, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (g *Generator) generatePDF(report DayReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Daily report - %s", report.Date))
	pdf.Ln(14)

	pdf.SetFont("Arial", "B", 10)
	colWidths := []float64{70, 30, 30, 30, 30}
	headers := []string{"Meal", "Kcal", "Carbs (g)", "Protein (g)", "Fat (g)"}
	for i, h := range headers {
		pdf.CellFormat(colWidths[i], 8, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, m := range report.Meals {
		pdf.CellFormat(colWidths[0], 7, m.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 7, fmt.Sprintf("%.1f", m.TotalKcal), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[2], 7, fmt.Sprintf("%.1f", m.TotalCarbsG), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[3], 7, fmt.Sprintf("%.1f", m.TotalProteinG), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[4], 7, fmt.Sprintf("%.1f", m.TotalFatG), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)

		for _, it := range m.Items {
			label := fmt.Sprintf("  %s (%.0fg)", it.FoodName, it.QuantityG)
			pdf.CellFormat(colWidths[0], 6, label, "1", 0, "L", false, 0, "")
			pdf.CellFormat(colWidths[1], 6, fmt.Sprintf("%.1f", it.TotalKcal), "1", 0, "R", false, 0, "")
			pdf.CellFormat(colWidths[2], 6, fmt.Sprintf("%.1f", it.TotalCarbsG), "1", 0, "R", false, 0, "")
			pdf.CellFormat(colWidths[3], 6, fmt.Sprintf("%.1f", it.TotalProteinG), "1", 0, "R", false, 0, "")
			pdf.CellFormat(colWidths[4], 6, fmt.Sprintf("%.1f", it.TotalFatG), "1", 0, "R", false, 0, "")
			pdf.Ln(-1)
		}
	}

	kcal, carbs, protein, fat := report.Totals()
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(colWidths[0], 8, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(colWidths[1], 8, fmt.Sprintf("%.1f", kcal), "1", 0, "R", false, 0, "")
	pdf.CellFormat(colWidths[2], 8, fmt.Sprintf("%.1f", carbs), "1", 0, "R", false, 0, "")
	pdf.CellFormat(colWidths[3], 8, fmt.Sprintf("%.1f", protein), "1", 0, "R", false, 0, "")
	pdf.CellFormat(colWidths[4], 8, fmt.Sprintf("%.1f", fat), "1", 0, "R", false, 0, "")
	pdf.Ln(12)

	if p := report.Profile; p != nil && p.Macros != nil {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, "Daily targets")
		pdf.Ln(10)

		pdf.SetFont("Arial", "", 10)
		pdf.Cell(0, 6, fmt.Sprintf("Calories: %.1f / %d kcal", kcal, p.Macros.DailyKcal))
		pdf.Ln(6)
		pdf.Cell(0, 6, fmt.Sprintf("Protein: %.1f / %.1f g", protein, p.Macros.DailyProteinG))
		pdf.Ln(6)
		pdf.Cell(0, 6, fmt.Sprintf("Carbs: %.1f / %.1f g", carbs, p.Macros.DailyCarbsG))
		pdf.Ln(6)
		pdf.Cell(0, 6, fmt.Sprintf("Fat: %.1f / %.1f g", fat, p.Macros.DailyFatG))
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}
