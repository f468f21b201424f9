package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-catalog-backend/database"
	"github.com/rpupo63/portfolio-catalog-backend/errs"
	"github.com/rpupo63/portfolio-catalog-backend/models"
	"github.com/rpupo63/portfolio-catalog-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	store     database.ProjectStore
	images    *services.ImageStore
}

func newProjectHandler(store database.ProjectStore, images *services.ImageStore, exposeDetails bool) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger, exposeDetails),
		logger:    logger,
		store:     store,
		images:    images,
	}
}

// listProjects serves both variants of the projects endpoint: with no
// recognized query parameter it returns the bare listing (newest first),
// with any filter/sort/pagination parameter it returns the paginated
// envelope. The client normalizer tolerates both shapes.
func (h projectHandler) listProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		values := r.URL.Query()

		if !models.HasListParams(values) {
			projects, err := h.store.FindAll()
			if err != nil {
				h.responder.WriteError(w, wrapDatabaseError("find", "projects", err))
				return
			}
			if projects == nil {
				projects = []models.Project{}
			}
			h.responder.WriteJSON(w, projects)
			return
		}

		page, err := h.store.FindPage(models.ParseListQuery(values))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("query", "projects", err))
			return
		}

		h.responder.WriteJSON(w, page)
	}
}

// getProject retrieves a specific project by ID.
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, apiErr := parseProjectID(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		project, err := h.store.FindByID(projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}
		if project == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("project not found"))
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// createProject accepts a multipart form with the project fields and an
// optional single image file, validates the entity and inserts it.
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := parseProjectForm(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		imagePath, err := h.saveUploadedImage(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		project.Image = imagePath

		if violations := project.Validate(time.Now()); len(violations) > 0 {
			// Don't strand the upload when the entity is rejected.
			if imagePath != "" {
				h.images.Remove(imagePath)
			}
			h.responder.WriteError(w, errs.NewValidationError(violations))
			return
		}

		if err := h.store.Add(&project); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "project", err))
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, project)
	}
}

// updateProject performs a full-field replace of an existing project.
// Omitted optional fields are cleared; callers resend everything they want
// retained. A new image replaces (and removes) the previous file.
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, apiErr := parseProjectID(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		existing, err := h.store.FindByID(projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}
		if existing == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("project not found"))
			return
		}

		project, err := parseProjectForm(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		project.ID = projectID
		project.CreatedAt = existing.CreatedAt

		imagePath, err := h.saveUploadedImage(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if imagePath != "" {
			project.Image = imagePath
		} else {
			project.Image = existing.Image
		}

		if violations := project.Validate(time.Now()); len(violations) > 0 {
			if imagePath != "" {
				h.images.Remove(imagePath)
			}
			h.responder.WriteError(w, errs.NewValidationError(violations))
			return
		}

		if err := h.store.Update(&project); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "project", err))
			return
		}

		if imagePath != "" && existing.Image != "" && existing.Image != imagePath {
			h.images.Remove(existing.Image)
		}

		h.responder.WriteJSON(w, &project)
	}
}

// deleteProject removes a project, then attempts best-effort removal of its
// image file. The two operations are not atomic; the startup sweep reclaims
// any file stranded by a crash in between.
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, apiErr := parseProjectID(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		project, err := h.store.FindByID(projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}
		if project == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("project not found"))
			return
		}

		if err := h.store.Delete(projectID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "project", err))
			return
		}

		if project.Image != "" {
			h.images.Remove(project.Image)
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "project deleted successfully",
		})
	}
}

// saveUploadedImage stores the optional single image file of a multipart
// request and returns its stored path, or "" when no file was sent.
func (h projectHandler) saveUploadedImage(r *http.Request) (string, error) {
	file, header, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		return "", nil
	}
	if err != nil {
		if r.MultipartForm == nil || r.MultipartForm.File == nil || len(r.MultipartForm.File["image"]) == 0 {
			return "", nil
		}
		return "", errs.NewBadRequestError("unreadable image upload")
	}
	defer file.Close()

	return h.images.Save(file, header)
}

func parseProjectID(r *http.Request) (uuid.UUID, *errs.ApiErr) {
	projectIDStr := chi.URLParam(r, "projectID")
	if projectIDStr == "" {
		return uuid.Nil, errs.NewBadRequestError("missing projectID")
	}
	projectID, err := uuid.Parse(projectIDStr)
	if err != nil {
		return uuid.Nil, errs.NewBadRequestError("invalid projectID")
	}
	return projectID, nil
}

// wrapDatabaseError wraps a store error with context information. Errors
// that are already ApiErrs (validation raised at the store boundary) pass
// through untouched.
func wrapDatabaseError(operation, entity string, cause error) error {
	if apiErr, ok := cause.(*errs.ApiErr); ok {
		return apiErr
	}
	return errs.NewDatabaseError(operation, entity, cause)
}
