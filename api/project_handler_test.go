package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-catalog-backend/models"
	"github.com/rpupo63/portfolio-catalog-backend/services"
)

const testAdminPassword = "correct-horse"

type testEnv struct {
	router     *chi.Mux
	store      *fakeStore
	adminToken string
	uploadsDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	uploadsDir := t.TempDir()
	images, err := services.NewImageStore(uploadsDir)
	require.NoError(t, err)

	store := &fakeStore{}
	tokens := newAdminTokens("test-secret", time.Hour)
	handlers := initializeHandlers(store, images, testAdminPassword, tokens, time.Millisecond, true)
	auth := newAuthMiddleware(tokens, NewResponder(log.Logger, true))

	router := chi.NewRouter()
	setupRoutes(router, handlers, auth)

	token, _, err := tokens.Issue(time.Now())
	require.NoError(t, err)

	return &testEnv{router: router, store: store, adminToken: token, uploadsDir: uploadsDir}
}

func (e *testEnv) seed(t *testing.T, projects ...models.Project) {
	t.Helper()
	for i := range projects {
		require.NoError(t, e.store.Add(&projects[i]))
	}
}

func (e *testEnv) do(t *testing.T, method, target string, body *bytes.Buffer, contentType, token string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, body)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func seedProject(title, company, projectType string, status models.Status) models.Project {
	return models.Project{
		Title:    title,
		Company:  company,
		Location: "Mumbai",
		Value:    "₹50 Cr",
		Type:     projectType,
		Status:   status,
	}
}

type projectFormData struct {
	fields    map[string]string
	imageName string
	imageType string
	imageData []byte
}

func multipartBody(t *testing.T, form projectFormData) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, value := range form.fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	if form.imageName != "" {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, form.imageName))
		header.Set("Content-Type", form.imageType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(form.imageData)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func validFormFields() map[string]string {
	return map[string]string{
		"title":    "Skyline Tower",
		"company":  "UMIYA GROUP",
		"location": "Mumbai",
		"value":    "₹120 Cr",
		"type":     "commercial",
		"status":   "ongoing",
	}
}

func TestListProjectsBareList(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t,
		seedProject("Skyline Tower", "UMIYA GROUP", "commercial", models.StatusOngoing),
		seedProject("Palm Residences", "UMIYA GROUP", "residential", models.StatusCompleted),
	)

	rr := env.do(t, http.MethodGet, "/api/projects", nil, "", "")
	require.Equal(t, http.StatusOK, rr.Code)

	body := bytes.TrimSpace(rr.Body.Bytes())
	require.NotEmpty(t, body)
	assert.Equal(t, byte('['), body[0], "simple listing must be a bare JSON array")

	var projects []models.Project
	require.NoError(t, json.Unmarshal(body, &projects))
	assert.Len(t, projects, 2)
}

func TestListProjectsEmptyCatalogIsEmptyArray(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/api/projects", nil, "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", string(bytes.TrimSpace(rr.Body.Bytes())))
}

func TestListProjectsPaginatedEnvelope(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 25; i++ {
		env.seed(t, seedProject(fmt.Sprintf("Project %02d", i), "UMIYA GROUP", "commercial", models.StatusOngoing))
	}

	rr := env.do(t, http.MethodGet, "/api/projects?page=3&limit=10", nil, "", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var page models.ProjectPage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	assert.Equal(t, int64(25), page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 3, page.CurrentPage)
	assert.False(t, page.HasNext)
	assert.True(t, page.HasPrev)
	assert.Len(t, page.Projects, 5)
}

func TestListProjectsFilterAndSearch(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t,
		seedProject("Skyline Tower", "UMIYA GROUP", "commercial", models.StatusOngoing),
		seedProject("Palm Residences", "UMIYA GROUP", "residential", models.StatusOngoing),
		seedProject("Steel Mill", "TABUK STEEL COMPANY", "industrial", models.StatusCompleted),
	)

	rr := env.do(t, http.MethodGet, "/api/projects?status=ongoing&search=palm", nil, "", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var page models.ProjectPage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	require.Len(t, page.Projects, 1)
	assert.Equal(t, "Palm Residences", page.Projects[0].Title)
}

func TestGetProjectNotFound(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/api/projects/"+uuid.NewString(), nil, "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "project not found")
}

func TestGetProjectInvalidID(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/api/projects/not-a-uuid", nil, "", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetProjectIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	project := seedProject("Skyline Tower", "UMIYA GROUP", "commercial", models.StatusOngoing)
	env.seed(t, project)

	id := env.store.projects[0].ID.String()
	first := env.do(t, http.MethodGet, "/api/projects/"+id, nil, "", "")
	second := env.do(t, http.MethodGet, "/api/projects/"+id, nil, "", "")

	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, first.Body.Bytes(), second.Body.Bytes())
}

func TestCreateRequiresAdminToken(t *testing.T) {
	env := newTestEnv(t)
	body, contentType := multipartBody(t, projectFormData{fields: validFormFields()})

	rr := env.do(t, http.MethodPost, "/api/projects", body, contentType, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = env.do(t, http.MethodPost, "/api/projects", body, contentType, "garbage-token")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCreateProject(t *testing.T) {
	env := newTestEnv(t)
	fields := validFormFields()
	fields["technologies"] = " precast , steel frame ,glass"
	fields["teamSize"] = "45"
	fields["budget"] = "1200000.50"
	body, contentType := multipartBody(t, projectFormData{fields: fields})

	rr := env.do(t, http.MethodPost, "/api/projects", body, contentType, env.adminToken)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var created models.Project
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "Skyline Tower", created.Title)
	assert.Equal(t, []string{"precast", "steel frame", "glass"}, created.Technologies)
	require.NotNil(t, created.TeamSize)
	assert.Equal(t, 45, *created.TeamSize)
	require.Len(t, env.store.projects, 1)
}

func TestCreateProjectWithImage(t *testing.T) {
	env := newTestEnv(t)
	body, contentType := multipartBody(t, projectFormData{
		fields:    validFormFields(),
		imageName: "site.png",
		imageType: "image/png",
		imageData: []byte("png-bytes"),
	})

	rr := env.do(t, http.MethodPost, "/api/projects", body, contentType, env.adminToken)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var created models.Project
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	require.NotEmpty(t, created.Image)

	_, err := os.Stat(filepath.Join(env.uploadsDir, filepath.Base(created.Image)))
	assert.NoError(t, err)
}

func TestUploadedImageIsServedStatically(t *testing.T) {
	env := newTestEnv(t)
	body, contentType := multipartBody(t, projectFormData{
		fields:    validFormFields(),
		imageName: "site.jpg",
		imageType: "image/jpeg",
		imageData: []byte("jpeg-bytes"),
	})

	create := env.do(t, http.MethodPost, "/api/projects", body, contentType, env.adminToken)
	require.Equal(t, http.StatusCreated, create.Code)

	var created models.Project
	require.NoError(t, json.Unmarshal(create.Body.Bytes(), &created))
	require.NotEmpty(t, created.Image)

	rr := env.do(t, http.MethodGet, created.Image, nil, "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "jpeg-bytes", rr.Body.String())
}

func TestCreateProjectEndDateBeforeStartDate(t *testing.T) {
	env := newTestEnv(t)
	fields := validFormFields()
	fields["startDate"] = "2024-06-01"
	fields["endDate"] = "2024-05-01"
	body, contentType := multipartBody(t, projectFormData{fields: fields})

	rr := env.do(t, http.MethodPost, "/api/projects", body, contentType, env.adminToken)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var response struct {
		Errors []models.FieldViolation `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	require.Len(t, response.Errors, 1)
	assert.Equal(t, "endDate", response.Errors[0].Field)
	assert.Contains(t, response.Errors[0].Message, "earlier than startDate")
	assert.Empty(t, env.store.projects)
}

func TestCreateProjectMissingRequiredFields(t *testing.T) {
	env := newTestEnv(t)
	body, contentType := multipartBody(t, projectFormData{fields: map[string]string{"title": "Lonely"}})

	rr := env.do(t, http.MethodPost, "/api/projects", body, contentType, env.adminToken)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	for _, field := range []string{"company", "location", "value", "type"} {
		assert.Contains(t, rr.Body.String(), field)
	}
}

func TestUpdateProjectIsFullFieldReplace(t *testing.T) {
	env := newTestEnv(t)
	project := seedProject("Skyline Tower", "UMIYA GROUP", "commercial", models.StatusOngoing)
	project.Description = "Original description"
	teamSize := 30
	project.TeamSize = &teamSize
	env.seed(t, project)
	id := env.store.projects[0].ID.String()

	// Resend everything except description and teamSize: both get cleared.
	fields := validFormFields()
	fields["status"] = "completed"
	body, contentType := multipartBody(t, projectFormData{fields: fields})

	rr := env.do(t, http.MethodPut, "/api/projects/"+id, body, contentType, env.adminToken)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var updated models.Project
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Equal(t, models.StatusCompleted, updated.Status)
	assert.Empty(t, updated.Description)
	assert.Nil(t, updated.TeamSize)
}

func TestUpdateProjectNotFound(t *testing.T) {
	env := newTestEnv(t)
	body, contentType := multipartBody(t, projectFormData{fields: validFormFields()})

	rr := env.do(t, http.MethodPut, "/api/projects/"+uuid.NewString(), body, contentType, env.adminToken)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteProjectRemovesRecordAndImage(t *testing.T) {
	env := newTestEnv(t)

	imageName := "image-site.png"
	require.NoError(t, os.WriteFile(filepath.Join(env.uploadsDir, imageName), []byte("x"), 0o644))

	project := seedProject("Skyline Tower", "UMIYA GROUP", "commercial", models.StatusOngoing)
	project.Image = "/uploads/" + imageName
	env.seed(t, project)
	id := env.store.projects[0].ID.String()

	rr := env.do(t, http.MethodDelete, "/api/projects/"+id, nil, "", env.adminToken)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, env.store.projects)

	_, statErr := os.Stat(filepath.Join(env.uploadsDir, imageName))
	assert.True(t, os.IsNotExist(statErr))
}

func TestDeleteMissingProjectIsNotFoundNever500(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodDelete, "/api/projects/"+uuid.NewString(), nil, "", env.adminToken)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "message")
}

func TestStatsEmptyCatalogIsZeroValued(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/api/stats", nil, "", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var stats models.CatalogStats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	assert.Equal(t, models.CatalogStats{}, stats)
}

func TestStatsCounts(t *testing.T) {
	env := newTestEnv(t)
	budget := 500000.0
	withBudget := seedProject("Skyline Tower", "UMIYA GROUP", "commercial", models.StatusOngoing)
	withBudget.Budget = &budget
	env.seed(t,
		withBudget,
		seedProject("Palm Residences", "UMIYA GROUP", "residential", models.StatusOngoing),
		seedProject("Steel Mill", "TABUK STEEL COMPANY", "industrial", models.StatusCompleted),
	)

	rr := env.do(t, http.MethodGet, "/api/stats", nil, "", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var stats models.CatalogStats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.Ongoing)
	assert.Equal(t, int64(1), stats.Completed)
	assert.Equal(t, int64(1), stats.Residential)
	assert.Equal(t, int64(1), stats.Commercial)
	assert.Equal(t, 500000.0, stats.TotalBudget)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, seedProject("Skyline Tower", "UMIYA GROUP", "commercial", models.StatusOngoing))

	rr := env.do(t, http.MethodGet, "/api/health", nil, "", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var health struct {
		Status   string `json:"status"`
		Database string `json:"database"`
		Projects int64  `json:"projects"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "connected", health.Database)
	assert.Equal(t, int64(1), health.Projects)
}

func TestHealthStoreDown(t *testing.T) {
	env := newTestEnv(t)
	env.store.pingErr = fmt.Errorf("connection refused")

	rr := env.do(t, http.MethodGet, "/api/health", nil, "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
