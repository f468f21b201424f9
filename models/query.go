package models

import (
	"net/url"
	"strconv"
)

const (
	DefaultPage      = 1
	DefaultLimit     = 10
	DefaultSortBy    = "createdAt"
	DefaultSortOrder = "desc"
)

// sortColumns whitelists sortable fields and maps their JSON names onto
// database columns. Unknown sort keys fall back to createdAt.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"title":     "title",
	"company":   "company",
	"location":  "location",
	"value":     "value",
	"type":      "type",
	"status":    "status",
	"budget":    "budget",
	"teamSize":  "team_size",
	"startDate": "start_date",
	"endDate":   "end_date",
}

// ListQuery is the sanitized request for a catalog page:
// exact-match filters, an optional free-text search, a single-key sort
// and a page window.
type ListQuery struct {
	Page      int
	Limit     int
	Status    string
	Type      string
	Search    string
	SortBy    string
	SortOrder string
}

// ParseListQuery builds a ListQuery from raw request parameters. Malformed
// numeric values fall back to the defaults and page/limit are clamped to a
// minimum of 1, so a ListQuery is always safe to execute.
func ParseListQuery(values url.Values) ListQuery {
	q := ListQuery{
		Page:      intOrDefault(values.Get("page"), DefaultPage),
		Limit:     intOrDefault(values.Get("limit"), DefaultLimit),
		Status:    values.Get("status"),
		Type:      values.Get("type"),
		Search:    values.Get("search"),
		SortBy:    values.Get("sortBy"),
		SortOrder: values.Get("sortOrder"),
	}
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if _, ok := sortColumns[q.SortBy]; !ok {
		q.SortBy = DefaultSortBy
	}
	if q.SortOrder != "asc" && q.SortOrder != "desc" {
		q.SortOrder = DefaultSortOrder
	}
	return q
}

// HasListParams reports whether values carry any recognized list parameter.
// The projects endpoint returns the bare listing when none are present and
// the paginated envelope otherwise.
func HasListParams(values url.Values) bool {
	for _, key := range []string{"page", "limit", "status", "type", "search", "sortBy", "sortOrder"} {
		if values.Has(key) {
			return true
		}
	}
	return false
}

// Offset is the zero-based start of the page window.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// SortColumn is the database column backing the sort key.
func (q ListQuery) SortColumn() string {
	return sortColumns[q.SortBy]
}

func intOrDefault(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// ProjectPage is the paginated envelope returned by the query endpoint.
type ProjectPage struct {
	Projects    []Project `json:"projects"`
	Total       int64     `json:"total"`
	TotalPages  int       `json:"totalPages"`
	CurrentPage int       `json:"currentPage"`
	HasNext     bool      `json:"hasNext"`
	HasPrev     bool      `json:"hasPrev"`
}

// NewProjectPage assembles the envelope for a window of projects. Total is
// the match count ignoring pagination; totalPages is ceil(total/limit).
func NewProjectPage(projects []Project, total int64, q ListQuery) ProjectPage {
	totalPages := int((total + int64(q.Limit) - 1) / int64(q.Limit))
	if projects == nil {
		projects = []Project{}
	}
	return ProjectPage{
		Projects:    projects,
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: q.Page,
		HasNext:     q.Page < totalPages,
		HasPrev:     q.Page > 1,
	}
}
