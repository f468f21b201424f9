package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rpupo63/portfolio-catalog-backend/models"
	"github.com/rs/zerolog/log"
)

// ErrInvalidResponse marks a body that is not valid JSON at all, as opposed
// to a network failure or a JSON payload of an unexpected shape.
var ErrInvalidResponse = errors.New("invalid response from server")

// PayloadShape tags the recognized response shapes of the catalog API.
type PayloadShape int

const (
	// ShapeList is a bare JSON array of projects (simple listing endpoint).
	ShapeList PayloadShape = iota
	// ShapeDataEnvelope is an object carrying the list under "data".
	ShapeDataEnvelope
	// ShapeProjectsEnvelope is the paginated envelope carrying the list
	// under "projects".
	ShapeProjectsEnvelope
	// ShapeSingle is one project-shaped object, normalized to a singleton.
	ShapeSingle
	// ShapeUnknown is anything else; it normalizes to an empty list.
	ShapeUnknown
)

func (s PayloadShape) String() string {
	switch s {
	case ShapeList:
		return "list"
	case ShapeDataEnvelope:
		return "data-envelope"
	case ShapeProjectsEnvelope:
		return "projects-envelope"
	case ShapeSingle:
		return "single"
	default:
		return "unknown"
	}
}

// Normalize reconciles the variable response shapes of the catalog API
// into one canonical project list. The backend's query endpoint returns a
// paginated envelope while the simple listing returns a bare array; both
// must be tolerated without versioning. Unrecognized shapes fail closed:
// empty list, logged diagnostic, no error. A body that is not JSON at all
// yields ErrInvalidResponse.
func Normalize(body []byte) (PayloadShape, []models.Project, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return ShapeUnknown, nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	if string(bytes.TrimSpace(raw)) == "null" {
		log.Warn().Msg("unexpected response shape: null")
		return ShapeUnknown, []models.Project{}, nil
	}

	// Bare list.
	var list []models.Project
	if err := json.Unmarshal(raw, &list); err == nil {
		if list == nil {
			list = []models.Project{}
		}
		return ShapeList, list, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		log.Warn().Str("body", truncate(body)).Msg("unexpected response shape")
		return ShapeUnknown, []models.Project{}, nil
	}

	if inner, ok := envelope["data"]; ok {
		if projects, ok := decodeList(inner); ok {
			return ShapeDataEnvelope, projects, nil
		}
	}
	if inner, ok := envelope["projects"]; ok {
		if projects, ok := decodeList(inner); ok {
			return ShapeProjectsEnvelope, projects, nil
		}
	}

	// A single project-shaped object wraps into a singleton list. The
	// title key is the marker: every stored project has one.
	if _, ok := envelope["title"]; ok {
		var single models.Project
		if err := json.Unmarshal(raw, &single); err == nil {
			return ShapeSingle, []models.Project{single}, nil
		}
	}

	log.Warn().Str("body", truncate(body)).Msg("unexpected response shape")
	return ShapeUnknown, []models.Project{}, nil
}

func decodeList(raw json.RawMessage) ([]models.Project, bool) {
	var projects []models.Project
	if err := json.Unmarshal(raw, &projects); err != nil {
		return nil, false
	}
	if projects == nil {
		projects = []models.Project{}
	}
	return projects, true
}

func truncate(body []byte) string {
	const max = 256
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
