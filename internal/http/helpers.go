package http

import (
	"strings"

	"budgeter/internal/core"
)

// sanitizeInput removes control characters except tab, newline and carriage
// return, and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

type categoryMeta struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type metaResponse struct {
	Currencies      []string         `json:"currencies"`
	Categories      []categoryMeta   `json:"categories"`
	TimeRanges      []core.TimeRange `json:"time_ranges"`
	DefaultCategory string           `json:"default_category"`
}

func newMetaResponse() metaResponse {
	cats := core.Categories()
	meta := metaResponse{
		Currencies:      core.Currencies(),
		Categories:      make([]categoryMeta, 0, len(cats)),
		TimeRanges:      core.TimeRanges(),
		DefaultCategory: core.CategoryFood,
	}
	for _, c := range cats {
		meta.Categories = append(meta.Categories, categoryMeta{Name: c, Color: core.CategoryColor(c)})
	}
	return meta
}

type summaryDisplay struct {
	TotalSpent     string `json:"total_spent"`
	AvgTransaction string `json:"avg_transaction"`
}

type summaryView struct {
	core.Summary
	Display summaryDisplay `json:"display"`
}

type breakdownView struct {
	core.CategoryAmount
	Display string `json:"display"`
}

type entryView struct {
	core.Entry
	Display string `json:"display_amount"`
}

type dashboardResponse struct {
	Filter    core.Filter     `json:"filter"`
	Summary   summaryView     `json:"summary"`
	Breakdown []breakdownView `json:"breakdown"`
	Entries   []entryView     `json:"entries"`
}

// newDashboardResponse adds display strings to the derived views. Totals
// show two decimals and the average none.
func newDashboardResponse(d core.Dashboard) dashboardResponse {
	cur := d.Filter.Currency
	resp := dashboardResponse{
		Filter: d.Filter,
		Summary: summaryView{
			Summary: d.Summary,
			Display: summaryDisplay{
				TotalSpent:     core.FormatMoney(cur, d.Summary.TotalSpent, 2),
				AvgTransaction: core.FormatMoney(cur, d.Summary.AvgTransaction, 0),
			},
		},
		Breakdown: make([]breakdownView, 0, len(d.Breakdown)),
		Entries:   make([]entryView, 0, len(d.Entries)),
	}
	for _, c := range d.Breakdown {
		resp.Breakdown = append(resp.Breakdown, breakdownView{CategoryAmount: c, Display: core.FormatMoney(cur, c.Amount, 2)})
	}
	for _, e := range d.Entries {
		resp.Entries = append(resp.Entries, entryView{Entry: e, Display: core.FormatMoney(e.Currency, e.Amount, 2)})
	}
	return resp
}
