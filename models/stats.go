package models

// CatalogStats is the fixed-shape dashboard summary computed over the full
// catalog. All fields are zero when the catalog is empty.
type CatalogStats struct {
	Total       int64   `json:"total"`
	Ongoing     int64   `json:"ongoing"`
	Completed   int64   `json:"completed"`
	Residential int64   `json:"residential"`
	Commercial  int64   `json:"commercial"`
	TotalBudget float64 `json:"totalBudget"`
}
