package client

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-catalog-backend/models"
)

func TestNormalizeRecognizedShapesAgree(t *testing.T) {
	projects := []models.Project{
		{Title: "Skyline Tower", Company: "UMIYA GROUP", Status: models.StatusOngoing},
		{Title: "Harbor Bridge", Company: "TABUK STEEL COMPANY", Status: models.StatusCompleted},
	}
	list, err := json.Marshal(projects)
	require.NoError(t, err)

	cases := []struct {
		name  string
		body  string
		shape PayloadShape
	}{
		{"bare list", string(list), ShapeList},
		{"data envelope", fmt.Sprintf(`{"data":%s}`, list), ShapeDataEnvelope},
		{"projects envelope", fmt.Sprintf(`{"projects":%s,"totalPages":1,"currentPage":1}`, list), ShapeProjectsEnvelope},
	}

	var canonical []models.Project
	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			shape, got, err := Normalize([]byte(tc.body))
			require.NoError(t, err)
			assert.Equal(t, tc.shape, shape)
			if i == 0 {
				canonical = got
			} else {
				assert.Equal(t, canonical, got)
			}
		})
	}
}

func TestNormalizeSingleObjectWrapsToSingleton(t *testing.T) {
	project := models.Project{Title: "Skyline Tower", Company: "UMIYA GROUP"}
	body, err := json.Marshal(project)
	require.NoError(t, err)

	shape, got, err := Normalize(body)
	require.NoError(t, err)
	assert.Equal(t, ShapeSingle, shape)
	require.Len(t, got, 1)
	assert.Equal(t, project.Title, got[0].Title)
}

func TestNormalizeUnknownShapeFailsClosed(t *testing.T) {
	for _, body := range []string{`{"count": 3}`, `"just a string"`, `42`, `null`, `true`} {
		shape, got, err := Normalize([]byte(body))
		require.NoError(t, err, "body %s", body)
		assert.Equal(t, ShapeUnknown, shape, "body %s", body)
		assert.Empty(t, got, "body %s", body)
		assert.NotNil(t, got, "body %s", body)
	}
}

func TestNormalizeInvalidJSON(t *testing.T) {
	_, _, err := Normalize([]byte(`<html>502 Bad Gateway</html>`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestNormalizeEmptyList(t *testing.T) {
	shape, got, err := Normalize([]byte(`[]`))
	require.NoError(t, err)
	assert.Equal(t, ShapeList, shape)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
