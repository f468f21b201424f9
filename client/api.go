package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rpupo63/portfolio-catalog-backend/errs"
	"github.com/rpupo63/portfolio-catalog-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// API is the HTTP client for the catalog backend. Token, when set, is
// consulted per request so a fresh login is picked up without rebuilding
// the client.
type API struct {
	baseURL    string
	httpClient *http.Client
	token      func() string
	logger     zerolog.Logger
}

// APIOption configures an API client.
type APIOption func(*API)

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(hc *http.Client) APIOption {
	return func(a *API) {
		a.httpClient = hc
	}
}

// WithTokenSource supplies the admin credential attached to mutating
// requests, typically AdminGate.Token.
func WithTokenSource(token func() string) APIOption {
	return func(a *API) {
		a.token = token
	}
}

func NewAPI(baseURL string, opts ...APIOption) *API {
	a := &API{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     log.With().Str("component", "apiClient").Logger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// FetchProjects retrieves the full catalog and normalizes whatever shape
// the server answered with.
func (a *API) FetchProjects(ctx context.Context) ([]models.Project, error) {
	body, err := a.get(ctx, "/api/projects", nil)
	if err != nil {
		return nil, err
	}
	_, projects, err := Normalize(body)
	return projects, err
}

// QueryProjects retrieves one page of the catalog using the server-side
// query builder parameters.
func (a *API) QueryProjects(ctx context.Context, q models.ListQuery) (models.ProjectPage, error) {
	values := url.Values{}
	values.Set("page", strconv.Itoa(q.Page))
	values.Set("limit", strconv.Itoa(q.Limit))
	if q.Status != "" {
		values.Set("status", q.Status)
	}
	if q.Type != "" {
		values.Set("type", q.Type)
	}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	if q.SortBy != "" {
		values.Set("sortBy", q.SortBy)
	}
	if q.SortOrder != "" {
		values.Set("sortOrder", q.SortOrder)
	}

	body, err := a.get(ctx, "/api/projects", values)
	if err != nil {
		return models.ProjectPage{}, err
	}

	var page models.ProjectPage
	if err := json.Unmarshal(body, &page); err != nil {
		return models.ProjectPage{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return page, nil
}

// FetchProject retrieves a single project by id.
func (a *API) FetchProject(ctx context.Context, id string) (*models.Project, error) {
	body, err := a.get(ctx, "/api/projects/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	var project models.Project
	if err := json.Unmarshal(body, &project); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return &project, nil
}

// ProjectForm carries the multipart fields of a create or update. Fields
// map one-to-one onto the entity; Technologies is sent comma-separated.
// ImageFile, when set, is a local file attached as the single image upload.
type ProjectForm struct {
	Title        string
	Company      string
	Location     string
	Value        string
	Type         string
	Status       string
	Description  string
	Technologies []string
	TeamSize     string
	Budget       string
	StartDate    string
	EndDate      string
	ImageFile    string
}

// CreateProject submits a new project as a multipart form.
func (a *API) CreateProject(ctx context.Context, form ProjectForm) (*models.Project, error) {
	return a.submitProject(ctx, http.MethodPost, "/api/projects", form)
}

// UpdateProject replaces an existing project. This is a full-field replace:
// fields left blank on the form are cleared server-side.
func (a *API) UpdateProject(ctx context.Context, id string, form ProjectForm) (*models.Project, error) {
	return a.submitProject(ctx, http.MethodPut, "/api/projects/"+url.PathEscape(id), form)
}

// DeleteProject removes a project by id.
func (a *API) DeleteProject(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, a.baseURL+"/api/projects/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	_, err = a.do(req)
	return err
}

// Stats retrieves the dashboard summary.
func (a *API) Stats(ctx context.Context) (models.CatalogStats, error) {
	body, err := a.get(ctx, "/api/stats", nil)
	if err != nil {
		return models.CatalogStats{}, err
	}
	var stats models.CatalogStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return models.CatalogStats{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return stats, nil
}

// LoginResult is the credential returned by the admin login endpoint.
type LoginResult struct {
	Success   bool      `json:"success"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Login exchanges the admin password for an expiring admin token.
func (a *API) Login(ctx context.Context, password string) (LoginResult, error) {
	body, err := a.postJSON(ctx, "/api/admin/login", map[string]string{"password": password})
	if err != nil {
		return LoginResult{}, err
	}
	var result LoginResult
	if err := json.Unmarshal(body, &result); err != nil {
		return LoginResult{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return result, nil
}

// Verify checks the admin password without issuing a credential.
func (a *API) Verify(ctx context.Context, password string) (bool, error) {
	body, err := a.postJSON(ctx, "/api/admin/verify", map[string]string{"password": password})
	if err != nil {
		if errs.IsUnauthorized(err) {
			return false, nil
		}
		return false, err
	}
	var result struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return result.Success, nil
}

// Health retrieves the store diagnostics.
func (a *API) Health(ctx context.Context) (map[string]any, error) {
	body, err := a.get(ctx, "/api/health", nil)
	if err != nil {
		return nil, err
	}
	var health map[string]any
	if err := json.Unmarshal(body, &health); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return health, nil
}

func (a *API) submitProject(ctx context.Context, method, path string, form ProjectForm) (*models.Project, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fields := map[string]string{
		"title":        form.Title,
		"company":      form.Company,
		"location":     form.Location,
		"value":        form.Value,
		"type":         form.Type,
		"status":       form.Status,
		"description":  form.Description,
		"technologies": strings.Join(form.Technologies, ","),
		"teamSize":     form.TeamSize,
		"budget":       form.Budget,
		"startDate":    form.StartDate,
		"endDate":      form.EndDate,
	}
	for name, value := range fields {
		if value == "" {
			continue
		}
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("writing form field %s: %w", name, err)
		}
	}

	if form.ImageFile != "" {
		if err := attachImage(writer, form.ImageFile); err != nil {
			return nil, err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	body, err := a.do(req)
	if err != nil {
		return nil, err
	}
	var project models.Project
	if err := json.Unmarshal(body, &project); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return &project, nil
}

func attachImage(writer *multipart.Writer, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening image file: %w", err)
	}
	defer file.Close()

	part, err := writer.CreateFormFile("image", filepath.Base(path))
	if err != nil {
		return fmt.Errorf("attaching image: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("copying image: %w", err)
	}
	return nil
}

func (a *API) get(ctx context.Context, path string, values url.Values) ([]byte, error) {
	target := a.baseURL + path
	if len(values) > 0 {
		target += "?" + values.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	return a.do(req)
}

func (a *API) postJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return a.do(req)
}

// do executes the request, attaching the admin token when one is held, and
// maps error statuses onto the client error taxonomy.
func (a *API) do(req *http.Request) ([]byte, error) {
	if a.token != nil {
		if token := a.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", req.URL.Path, err)
	}

	if resp.StatusCode >= 400 {
		return nil, apiError(resp.StatusCode, body)
	}
	return body, nil
}

// apiError turns an error response into an ApiErr carrying the server's
// message when one can be extracted.
func apiError(status int, body []byte) error {
	message := http.StatusText(status)
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			message = payload.Message
		} else if payload.Error != "" {
			message = payload.Error
		}
	}
	return errs.NewStatusError(status, message)
}
