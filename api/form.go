package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rpupo63/portfolio-catalog-backend/errs"
	"github.com/rpupo63/portfolio-catalog-backend/models"
	"github.com/rpupo63/portfolio-catalog-backend/services"
)

const dateLayout = "2006-01-02"

// parseProjectForm maps the non-file multipart fields onto a project.
// Create and update both use it: updates are full-field replaces, so any
// field absent from the form ends up cleared on the entity.
func parseProjectForm(r *http.Request) (models.Project, error) {
	if err := r.ParseMultipartForm(services.MaxImageSize + 1024*1024); err != nil {
		return models.Project{}, errs.NewBadRequestError("malformed multipart form")
	}

	project := models.Project{
		Title:        r.FormValue("title"),
		Company:      r.FormValue("company"),
		Location:     r.FormValue("location"),
		Value:        r.FormValue("value"),
		Type:         r.FormValue("type"),
		Status:       models.Status(r.FormValue("status")),
		Description:  r.FormValue("description"),
		Technologies: models.ParseTechnologies(r.FormValue("technologies")),
	}

	var violations []models.FieldViolation

	if raw := r.FormValue("teamSize"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			violations = append(violations, models.FieldViolation{Field: "teamSize", Message: "must be an integer"})
		} else {
			project.TeamSize = &n
		}
	}

	if raw := r.FormValue("budget"); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			violations = append(violations, models.FieldViolation{Field: "budget", Message: "must be a number"})
		} else {
			project.Budget = &f
		}
	}

	if raw := r.FormValue("startDate"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			violations = append(violations, models.FieldViolation{Field: "startDate", Message: "must be a date in YYYY-MM-DD form"})
		} else {
			project.StartDate = &t
		}
	}

	if raw := r.FormValue("endDate"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			violations = append(violations, models.FieldViolation{Field: "endDate", Message: "must be a date in YYYY-MM-DD form"})
		} else {
			project.EndDate = &t
		}
	}

	if len(violations) > 0 {
		return models.Project{}, errs.NewValidationError(violations)
	}
	return project, nil
}
