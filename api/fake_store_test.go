package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-catalog-backend/models"
)

// fakeStore is an in-memory ProjectStore for handler tests. It mirrors the
// store semantics the handlers rely on: nil result for a missing id,
// newest-first listing, window math via NewProjectPage.
type fakeStore struct {
	projects []models.Project
	pingErr  error
}

func (f *fakeStore) FindAll() ([]models.Project, error) {
	out := make([]models.Project, 0, len(f.projects))
	for i := len(f.projects) - 1; i >= 0; i-- {
		out = append(out, f.projects[i])
	}
	return out, nil
}

func (f *fakeStore) FindPage(q models.ListQuery) (models.ProjectPage, error) {
	all, _ := f.FindAll()

	matched := make([]models.Project, 0, len(all))
	for _, p := range all {
		if q.Status != "" && string(p.Status) != q.Status {
			continue
		}
		if q.Type != "" && p.Type != q.Type {
			continue
		}
		if q.Search != "" && !fakeSearchMatch(p, q.Search) {
			continue
		}
		matched = append(matched, p)
	}

	total := int64(len(matched))
	start := q.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + q.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return models.NewProjectPage(matched[start:end], total, q), nil
}

func fakeSearchMatch(p models.Project, term string) bool {
	term = strings.ToLower(term)
	for _, field := range []string{p.Title, p.Description, p.Company, p.Location} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func (f *fakeStore) FindByID(id uuid.UUID) (*models.Project, error) {
	for i := range f.projects {
		if f.projects[i].ID == id {
			p := f.projects[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) Add(project *models.Project) error {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	now := time.Now().UTC().Truncate(time.Second)
	project.CreatedAt = now
	project.UpdatedAt = now
	f.projects = append(f.projects, *project)
	return nil
}

func (f *fakeStore) Update(project *models.Project) error {
	for i := range f.projects {
		if f.projects[i].ID == project.ID {
			project.UpdatedAt = time.Now().UTC().Truncate(time.Second)
			f.projects[i] = *project
			return nil
		}
	}
	return fmt.Errorf("project %s not found", project.ID)
}

func (f *fakeStore) Delete(id uuid.UUID) error {
	for i := range f.projects {
		if f.projects[i].ID == id {
			f.projects = append(f.projects[:i], f.projects[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeStore) Stats() (models.CatalogStats, error) {
	var stats models.CatalogStats
	for _, p := range f.projects {
		stats.Total++
		if p.Status == models.StatusOngoing {
			stats.Ongoing++
		}
		if p.Status == models.StatusCompleted {
			stats.Completed++
		}
		if p.Type == "residential" {
			stats.Residential++
		}
		if p.Type == "commercial" {
			stats.Commercial++
		}
		if p.Budget != nil {
			stats.TotalBudget += *p.Budget
		}
	}
	return stats, nil
}

func (f *fakeStore) ImagePaths() ([]string, error) {
	var paths []string
	for _, p := range f.projects {
		if p.Image != "" {
			paths = append(paths, p.Image)
		}
	}
	return paths, nil
}

func (f *fakeStore) Count() (int64, error) {
	return int64(len(f.projects)), nil
}

func (f *fakeStore) Ping() error {
	return f.pingErr
}
