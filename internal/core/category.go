package core

const (
	CategoryFood          = "Food & Dining"
	CategoryShopping      = "Shopping"
	CategoryTransport     = "Transport"
	CategoryBills         = "Bills & Utilities"
	CategoryEntertainment = "Entertainment"
	CategoryHealth        = "Health & Wellness"
	CategoryOther         = "Other"

	// DefaultCategoryColor is used for category strings outside the known set.
	DefaultCategoryColor = "#64748b"
)

var categoryColors = map[string]string{
	CategoryFood:          "#ef4444",
	CategoryShopping:      "#f97316",
	CategoryTransport:     "#3b82f6",
	CategoryBills:         "#6366f1",
	CategoryEntertainment: "#8b5cf6",
	CategoryHealth:        "#10b981",
	CategoryOther:         "#64748b",
}

// Categories returns the closed category set in form order.
func Categories() []string {
	return []string{
		CategoryFood,
		CategoryShopping,
		CategoryTransport,
		CategoryBills,
		CategoryEntertainment,
		CategoryHealth,
		CategoryOther,
	}
}

// CategoryColor returns the display colour for a category.
func CategoryColor(category string) string {
	if c, ok := categoryColors[category]; ok {
		return c
	}
	return DefaultCategoryColor
}

// IsKnownCategory reports whether category belongs to the closed set.
func IsKnownCategory(category string) bool {
	_, ok := categoryColors[category]
	return ok
}
