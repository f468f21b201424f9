package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-catalog-backend/errs"
	"github.com/rpupo63/portfolio-catalog-backend/models"
	"gorm.io/gorm"
)

// ProjectRepo is the gorm-backed ProjectStore implementation.
type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

var _ ProjectStore = (*ProjectRepo)(nil)

// FindAll returns all projects from the database, newest first. This backs
// the simple listing variant of the projects endpoint.
func (r *ProjectRepo) FindAll() ([]models.Project, error) {
	var projects []models.Project
	err := r.db.Order("created_at desc").Find(&projects).Error
	return projects, err
}

// FindPage applies the list query as a conjunctive filter: exact-match
// status/type clauses ANDed with a disjunctive case-insensitive substring
// match over title, description, company and location when a search term
// is present. Records sharing the same sort key keep store order; no
// secondary tie-break is applied.
func (r *ProjectRepo) FindPage(q models.ListQuery) (models.ProjectPage, error) {
	tx := r.db.Model(&models.Project{})

	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	if q.Type != "" {
		tx = tx.Where("type = ?", q.Type)
	}
	if q.Search != "" {
		like := "%" + q.Search + "%"
		tx = tx.Where(
			r.db.Where("title ILIKE ?", like).
				Or("description ILIKE ?", like).
				Or("company ILIKE ?", like).
				Or("location ILIKE ?", like),
		)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return models.ProjectPage{}, err
	}

	var projects []models.Project
	err := tx.
		Order(fmt.Sprintf("%s %s", q.SortColumn(), q.SortOrder)).
		Offset(q.Offset()).
		Limit(q.Limit).
		Find(&projects).Error
	if err != nil {
		return models.ProjectPage{}, err
	}

	return models.NewProjectPage(projects, total, q), nil
}

// FindByID returns a project by its ID, or nil when no record matches.
func (r *ProjectRepo) FindByID(id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Add inserts a new project. The entity is re-validated here so nothing
// unvalidated can reach the store regardless of the call path.
func (r *ProjectRepo) Add(project *models.Project) error {
	if violations := project.Validate(time.Now()); len(violations) > 0 {
		return errs.NewValidationError(violations)
	}
	return r.db.Create(project).Error
}

// Update performs a full-field replace of an existing project. Omitted
// optional fields are overwritten with their zero values; callers must
// resend every field they want retained.
func (r *ProjectRepo) Update(project *models.Project) error {
	if violations := project.Validate(time.Now()); len(violations) > 0 {
		return errs.NewValidationError(violations)
	}
	return r.db.Save(project).Error
}

// Delete removes a project from the database by id
func (r *ProjectRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Project{}, "id = ?", id).Error
}

// Stats computes the dashboard summary in the store. An empty catalog
// yields the zero-valued summary, never an error.
func (r *ProjectRepo) Stats() (models.CatalogStats, error) {
	var stats models.CatalogStats
	model := func() *gorm.DB { return r.db.Model(&models.Project{}) }

	if err := model().Count(&stats.Total).Error; err != nil {
		return models.CatalogStats{}, err
	}
	if err := model().Where("status = ?", models.StatusOngoing).Count(&stats.Ongoing).Error; err != nil {
		return models.CatalogStats{}, err
	}
	if err := model().Where("status = ?", models.StatusCompleted).Count(&stats.Completed).Error; err != nil {
		return models.CatalogStats{}, err
	}
	if err := model().Where("type = ?", "residential").Count(&stats.Residential).Error; err != nil {
		return models.CatalogStats{}, err
	}
	if err := model().Where("type = ?", "commercial").Count(&stats.Commercial).Error; err != nil {
		return models.CatalogStats{}, err
	}
	// Absent budgets count as zero.
	if err := model().Select("COALESCE(SUM(budget), 0)").Scan(&stats.TotalBudget).Error; err != nil {
		return models.CatalogStats{}, err
	}
	return stats, nil
}

// ImagePaths lists the image paths referenced by the catalog, used by the
// orphaned-upload sweep.
func (r *ProjectRepo) ImagePaths() ([]string, error) {
	var paths []string
	err := r.db.Model(&models.Project{}).
		Where("image <> ''").
		Pluck("image", &paths).Error
	return paths, err
}

// Count returns the catalog size for the health endpoint.
func (r *ProjectRepo) Count() (int64, error) {
	var total int64
	err := r.db.Model(&models.Project{}).Count(&total).Error
	return total, err
}

// Ping verifies store connectivity.
func (r *ProjectRepo) Ping() error {
	var result int
	return r.db.Raw("SELECT 1").Scan(&result).Error
}
