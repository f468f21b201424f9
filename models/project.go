package models

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Status is the lifecycle state of a project.
type Status string

const (
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
	StatusPlanned   Status = "planned"
	StatusOnHold    Status = "on-hold"
)

// ValidStatus reports whether s is one of the recognized project statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusOngoing, StatusCompleted, StatusPlanned, StatusOnHold:
		return true
	}
	return false
}

// ProjectTypes is the closed set of project types accepted at the store
// boundary. Type stays free text in storage so substring filters
// (e.g. "commercial") keep working against values like "mixed-use".
var ProjectTypes = []string{
	"residential",
	"commercial",
	"industrial",
	"infrastructure",
	"mixed-use",
	"luxury-villas",
}

// ValidProjectType reports whether t is a recognized project type.
func ValidProjectType(t string) bool {
	for _, known := range ProjectTypes {
		if t == known {
			return true
		}
	}
	return false
}

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// RecognizedImagePath reports whether p is empty or ends in a recognized
// image extension.
func RecognizedImagePath(p string) bool {
	if p == "" {
		return true
	}
	ext := strings.ToLower(path.Ext(p))
	for _, known := range imageExtensions {
		if ext == known {
			return true
		}
	}
	return false
}

// Project represents a single portfolio catalog entry.
type Project struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Title        string     `json:"title" gorm:"type:text;not null" validate:"required,max=100"`
	Company      string     `json:"company" gorm:"type:text;not null" validate:"required"`
	Location     string     `json:"location" gorm:"type:text;not null" validate:"required"`
	Value        string     `json:"value" gorm:"type:text;not null" validate:"required"`
	Type         string     `json:"type" gorm:"type:text;not null" validate:"required"`
	Status       Status     `json:"status" gorm:"type:text;not null;default:ongoing"`
	Description  string     `json:"description,omitempty" gorm:"type:text" validate:"max=1000"`
	Image        string     `json:"image,omitempty" gorm:"type:text"`
	StartDate    *time.Time `json:"startDate,omitempty"`
	EndDate      *time.Time `json:"endDate,omitempty"`
	Technologies []string   `json:"technologies,omitempty" gorm:"type:jsonb;serializer:json"`
	TeamSize     *int       `json:"teamSize,omitempty" validate:"omitempty,min=1,max=1000"`
	Budget       *float64   `json:"budget,omitempty" validate:"omitempty,min=0"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// FieldViolation is a single field-level validation failure.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v FieldViolation) String() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

var validate = validator.New()

// Validate checks the project against the schema constraints and returns
// one violation per failing field. An empty slice means the project is
// acceptable at the store boundary. A missing status is defaulted to
// ongoing rather than rejected.
func (p *Project) Validate(now time.Time) []FieldViolation {
	var violations []FieldViolation

	if err := validate.Struct(p); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrs {
				violations = append(violations, FieldViolation{
					Field:   jsonFieldName(fe.Field()),
					Message: tagMessage(fe),
				})
			}
		}
	}

	if p.Status == "" {
		p.Status = StatusOngoing
	} else if !ValidStatus(p.Status) {
		violations = append(violations, FieldViolation{
			Field:   "status",
			Message: fmt.Sprintf("must be one of ongoing, completed, planned, on-hold (got %q)", p.Status),
		})
	}

	if p.Type != "" && !ValidProjectType(p.Type) {
		violations = append(violations, FieldViolation{
			Field:   "type",
			Message: fmt.Sprintf("must be one of %s (got %q)", strings.Join(ProjectTypes, ", "), p.Type),
		})
	}

	if !RecognizedImagePath(p.Image) {
		violations = append(violations, FieldViolation{
			Field:   "image",
			Message: "must be empty or a path ending in a recognized image extension",
		})
	}

	if p.StartDate != nil && p.StartDate.After(now) {
		violations = append(violations, FieldViolation{
			Field:   "startDate",
			Message: "must not be in the future",
		})
	}

	if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
		violations = append(violations, FieldViolation{
			Field:   "endDate",
			Message: "endDate must not be earlier than startDate",
		})
	}

	return violations
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func jsonFieldName(field string) string {
	switch field {
	case "TeamSize":
		return "teamSize"
	case "StartDate":
		return "startDate"
	case "EndDate":
		return "endDate"
	default:
		return strings.ToLower(field[:1]) + field[1:]
	}
}

// ParseTechnologies splits a comma-separated technologies value as it
// arrives over a multipart form, trimming whitespace and dropping empties.
// Order is preserved for display.
func ParseTechnologies(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	technologies := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			technologies = append(technologies, trimmed)
		}
	}
	if len(technologies) == 0 {
		return nil
	}
	return technologies
}
