package database

import (
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-catalog-backend/models"
	"gorm.io/gorm"
)

// ProjectStore abstracts the persistence layer for the catalog. Handlers
// and the aggregation reporter depend on this interface, not on gorm.
type ProjectStore interface {
	// FindAll returns the full catalog, newest first.
	FindAll() ([]models.Project, error)
	// FindPage returns the window selected by q plus the pagination envelope.
	FindPage(q models.ListQuery) (models.ProjectPage, error)
	// FindByID returns the matching project, or nil when no record exists.
	FindByID(id uuid.UUID) (*models.Project, error)
	Add(project *models.Project) error
	Update(project *models.Project) error
	Delete(id uuid.UUID) error
	// Stats computes the dashboard summary over the full catalog.
	Stats() (models.CatalogStats, error)
	// ImagePaths lists every image path currently referenced by a project.
	ImagePaths() ([]string, error)
	Count() (int64, error)
	Ping() error
}

type Database struct {
	projectRepo *ProjectRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		projectRepo: NewProjectRepo(db),
	}
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}
