package client

import (
	"context"
	"strings"
	"sync"

	"github.com/rpupo63/portfolio-catalog-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Filter is a named predicate narrowing the displayed project set.
type Filter string

const (
	FilterAll         Filter = "all"
	FilterOngoing     Filter = "ongoing"
	FilterCompleted   Filter = "completed"
	FilterCommercial  Filter = "commercial"
	FilterResidential Filter = "residential"
)

// ValidFilter reports whether f is one of the recognized catalog filters.
func ValidFilter(f Filter) bool {
	switch f {
	case FilterAll, FilterOngoing, FilterCompleted, FilterCommercial, FilterResidential:
		return true
	}
	return false
}

// Catalog holds the client-side presentation state: the last normalized
// full fetch, the active filter and the active search term. It is one
// explicit object rather than ambient globals, passed to whatever renders
// the views. Safe for concurrent use.
type Catalog struct {
	api    *API
	logger zerolog.Logger

	mu       sync.Mutex
	projects []models.Project
	filter   Filter
	search   string

	// Refresh sequencing: issuedSeq numbers every refresh as it starts,
	// appliedSeq records the newest one whose response has landed. A
	// response for an older sequence than the one already applied is
	// discarded instead of clobbering the cache.
	issuedSeq  uint64
	appliedSeq uint64

	// onLoading, when set, is told when a fetch starts (true) and when it
	// settles (false). The false call always happens, success or failure.
	onLoading func(bool)
}

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithLoadingHook registers the loading-indicator callback.
func WithLoadingHook(hook func(bool)) CatalogOption {
	return func(c *Catalog) {
		c.onLoading = hook
	}
}

func NewCatalog(api *API, opts ...CatalogOption) *Catalog {
	c := &Catalog{
		api:    api,
		logger: log.With().Str("component", "catalog").Logger(),
		filter: FilterAll,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Refresh fetches the catalog, normalizes the payload and replaces the
// cached project set. Concurrent refreshes are not coalesced; instead each
// carries a sequence number and a response resolving after a newer one has
// already been applied is dropped.
func (c *Catalog) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.issuedSeq++
	seq := c.issuedSeq
	c.mu.Unlock()

	if c.onLoading != nil {
		c.onLoading(true)
		defer c.onLoading(false)
	}

	projects, err := c.api.FetchProjects(ctx)
	if err != nil {
		return err
	}

	c.applyRefresh(seq, projects)
	return nil
}

// applyRefresh installs a refresh result unless a newer one already landed.
// It reports whether the result was applied.
func (c *Catalog) applyRefresh(seq uint64, projects []models.Project) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq <= c.appliedSeq {
		c.logger.Debug().Uint64("seq", seq).Uint64("applied", c.appliedSeq).Msg("discarding stale refresh response")
		return false
	}
	c.appliedSeq = seq
	c.projects = projects
	return true
}

// ApplyFilter sets the active filter. Selecting a filter clears any active
// search term: the two are never composed, and the filter chosen last wins.
// Unrecognized filter names fall back to all.
func (c *Catalog) ApplyFilter(f Filter) {
	if !ValidFilter(f) {
		c.logger.Warn().Str("filter", string(f)).Msg("unknown filter, using all")
		f = FilterAll
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = f
	c.search = ""
}

// ApplySearch sets the active search term. While non-empty it overrides the
// category filter; the empty term reverts to the filtered view.
func (c *Catalog) ApplySearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.search = strings.TrimSpace(term)
}

// All returns a copy of the cached full project set.
func (c *Catalog) All() []models.Project {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyProjects(c.projects)
}

// ActiveFilter returns the filter currently applied.
func (c *Catalog) ActiveFilter() Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// ActiveSearch returns the search term currently applied, or "".
func (c *Catalog) ActiveSearch() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.search
}

// Visible derives the displayed project set from the cached one. An active
// search takes precedence over the category filter; otherwise the filter
// predicate applies. Relative order of the cached set is preserved.
func (c *Catalog) Visible() []models.Project {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.search != "" {
		return filterProjects(c.projects, func(p models.Project) bool {
			return matchesSearch(p, c.search)
		})
	}

	switch c.filter {
	case FilterOngoing:
		return filterProjects(c.projects, func(p models.Project) bool {
			return p.Status == models.StatusOngoing
		})
	case FilterCompleted:
		return filterProjects(c.projects, func(p models.Project) bool {
			return p.Status == models.StatusCompleted
		})
	case FilterCommercial:
		return filterProjects(c.projects, func(p models.Project) bool {
			return containsFold(p.Type, "commercial")
		})
	case FilterResidential:
		return filterProjects(c.projects, func(p models.Project) bool {
			return containsFold(p.Type, "residential")
		})
	default:
		return copyProjects(c.projects)
	}
}

// CompanyGroups buckets the cached set by exact company value for the
// grouped list views. Companies are data values, not schema: a project
// whose company matches none of the requested names appears in no group.
func (c *Catalog) CompanyGroups(companies ...string) map[string][]models.Project {
	c.mu.Lock()
	defer c.mu.Unlock()

	groups := make(map[string][]models.Project, len(companies))
	for _, company := range companies {
		groups[company] = filterProjects(c.projects, func(p models.Project) bool {
			return p.Company == company
		})
	}
	return groups
}

// matchesSearch is a case-insensitive substring match over the searchable
// fields: title, company, location, type and description.
func matchesSearch(p models.Project, term string) bool {
	return containsFold(p.Title, term) ||
		containsFold(p.Company, term) ||
		containsFold(p.Location, term) ||
		containsFold(p.Type, term) ||
		containsFold(p.Description, term)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func filterProjects(projects []models.Project, keep func(models.Project) bool) []models.Project {
	out := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func copyProjects(projects []models.Project) []models.Project {
	out := make([]models.Project, len(projects))
	copy(out, projects)
	return out
}
