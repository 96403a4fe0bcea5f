package reports

import "nutritrack/internal/api"

// Format is the export format of a report.
type Format string

const (
	FormatPDF Format = "pdf"
	FormatCSV Format = "csv"
)

// DayReport is everything a daily export needs. Profile is optional; when
// present the report includes the daily macro targets next to the consumed
// totals.
type DayReport struct {
	Date    string
	Meals   []api.Meal
	Profile *api.Profile
}

// Totals sums the backend-computed meal totals for the day.
func (r DayReport) Totals() (kcal, carbs, protein, fat float64) {
	for _, m := range r.Meals {
		kcal += m.TotalKcal
		carbs += m.TotalCarbsG
		protein += m.TotalProteinG
		fat += m.TotalFatG
	}
	return
}
