package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProject() Project {
	return Project{
		Title:    "Skyline Tower",
		Company:  "UMIYA GROUP",
		Location: "Mumbai",
		Value:    "₹120 Cr",
		Type:     "commercial",
		Status:   StatusOngoing,
	}
}

func violationFields(violations []FieldViolation) []string {
	fields := make([]string, len(violations))
	for i, v := range violations {
		fields[i] = v.Field
	}
	return fields
}

func TestValidateAcceptsCompleteProject(t *testing.T) {
	p := validProject()
	assert.Empty(t, p.Validate(time.Now()))
}

func TestValidateRequiredFields(t *testing.T) {
	p := Project{}
	violations := p.Validate(time.Now())

	fields := violationFields(violations)
	for _, required := range []string{"title", "company", "location", "value", "type"} {
		assert.Contains(t, fields, required)
	}
}

func TestValidateTitleLength(t *testing.T) {
	p := validProject()
	p.Title = strings.Repeat("x", 101)

	violations := p.Validate(time.Now())
	require.Len(t, violations, 1)
	assert.Equal(t, "title", violations[0].Field)
}

func TestValidateDescriptionLength(t *testing.T) {
	p := validProject()
	p.Description = strings.Repeat("x", 1001)

	violations := p.Validate(time.Now())
	require.Len(t, violations, 1)
	assert.Equal(t, "description", violations[0].Field)
}

func TestValidateEndDateBeforeStartDate(t *testing.T) {
	p := validProject()
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, -1, 0)
	p.StartDate = &start
	p.EndDate = &end

	violations := p.Validate(time.Now())
	require.Len(t, violations, 1)
	assert.Equal(t, "endDate", violations[0].Field)
	assert.Contains(t, violations[0].Message, "earlier than startDate")
}

func TestValidateStartDateInFuture(t *testing.T) {
	p := validProject()
	now := time.Now()
	future := now.AddDate(0, 0, 7)
	p.StartDate = &future

	violations := p.Validate(now)
	require.Len(t, violations, 1)
	assert.Equal(t, "startDate", violations[0].Field)
}

func TestValidateDefaultsEmptyStatus(t *testing.T) {
	p := validProject()
	p.Status = ""

	assert.Empty(t, p.Validate(time.Now()))
	assert.Equal(t, StatusOngoing, p.Status)
}

func TestValidateRejectsUnknownStatus(t *testing.T) {
	p := validProject()
	p.Status = "paused"

	violations := p.Validate(time.Now())
	require.Len(t, violations, 1)
	assert.Equal(t, "status", violations[0].Field)
}

func TestValidateRejectsUnknownType(t *testing.T) {
	p := validProject()
	p.Type = "theme-park"

	violations := p.Validate(time.Now())
	require.Len(t, violations, 1)
	assert.Equal(t, "type", violations[0].Field)
}

func TestValidateTeamSizeBounds(t *testing.T) {
	p := validProject()

	zero := 0
	p.TeamSize = &zero
	violations := p.Validate(time.Now())
	require.Len(t, violations, 1)
	assert.Equal(t, "teamSize", violations[0].Field)

	tooMany := 1001
	p.TeamSize = &tooMany
	violations = p.Validate(time.Now())
	require.Len(t, violations, 1)
	assert.Equal(t, "teamSize", violations[0].Field)

	fine := 1000
	p.TeamSize = &fine
	assert.Empty(t, p.Validate(time.Now()))
}

func TestValidateNegativeBudget(t *testing.T) {
	p := validProject()
	negative := -1.0
	p.Budget = &negative

	violations := p.Validate(time.Now())
	require.Len(t, violations, 1)
	assert.Equal(t, "budget", violations[0].Field)
}

func TestValidateImageExtension(t *testing.T) {
	p := validProject()

	p.Image = "/uploads/image-abc.png"
	assert.Empty(t, p.Validate(time.Now()))

	p.Image = "/uploads/payload.exe"
	violations := p.Validate(time.Now())
	require.Len(t, violations, 1)
	assert.Equal(t, "image", violations[0].Field)

	p.Image = ""
	assert.Empty(t, p.Validate(time.Now()))
}

func TestParseTechnologies(t *testing.T) {
	assert.Nil(t, ParseTechnologies(""))
	assert.Nil(t, ParseTechnologies("  ,  ,"))
	assert.Equal(t, []string{"Go", "Postgres", "React"}, ParseTechnologies(" Go , Postgres ,React,,"))
}
