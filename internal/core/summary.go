package core

// CategoryAmount is one bar of the category breakdown.
type CategoryAmount struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Color    string  `json:"color"`
}

// Summary holds the headline statistics of a filtered entry set.
type Summary struct {
	TotalSpent       float64 `json:"total_spent"`
	TransactionCount int     `json:"transaction_count"`
	AvgTransaction   float64 `json:"avg_transaction"`
}

// Filter is the pair of selections controlling which entries are visible.
type Filter struct {
	TimeRange TimeRange `json:"range"`
	Currency  string    `json:"currency"`
}

// Dashboard bundles the three derived views for one filter.
type Dashboard struct {
	Filter    Filter           `json:"filter"`
	Summary   Summary          `json:"summary"`
	Breakdown []CategoryAmount `json:"breakdown"`
	Entries   []Entry          `json:"entries"`
}
