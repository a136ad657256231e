package schemas_test

import (
	"encoding/json"
	"io/fs"
	"testing"

	"github.com/jonathan/grade-calculator/internal/schemas"
	rootschemas "github.com/jonathan/grade-calculator/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	files, err := fs.Glob(rootschemas.FS, "*.schema.json")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, schemaFile := range files {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := rootschemas.FS.ReadFile(schemaFile)
			require.NoError(t, err, "should be able to read schema file")

			var v map[string]interface{}
			require.NoError(t, json.Unmarshal(data, &v), "schema file should be valid JSON: %s", schemaFile)
			assert.Contains(t, v, "$schema")
			assert.Contains(t, v, "type")
		})
	}
}

func TestCalculatorSchema_Documents(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantError bool
	}{
		{
			name: "minimal",
			doc: `{"name": "Physics", "categories": [
				{"name": "Final", "total_weight": 100, "items": [{"weight": 1}]}
			]}`,
		},
		{
			name: "numeric and text scores",
			doc: `{"name": "Physics", "slug": "physics", "linear": true, "categories": [
				{"id": "mid", "name": "Mid", "total_weight": 60, "items": [
					{"id": "q1", "name": "Quiz", "score": 85, "weight": 1},
					{"name": "Lab", "score": "90%", "weight": 2}
				]},
				{"name": "Final", "total_weight": 40, "items": [{"weight": 1}]}
			]}`,
		},
		{
			name:      "missing categories",
			doc:       `{"name": "Physics"}`,
			wantError: true,
		},
		{
			name:      "empty categories",
			doc:       `{"name": "Physics", "categories": []}`,
			wantError: true,
		},
		{
			name: "category without items",
			doc: `{"name": "Physics", "categories": [
				{"name": "Final", "total_weight": 100, "items": []}
			]}`,
			wantError: true,
		},
		{
			name: "weight as text",
			doc: `{"name": "Physics", "categories": [
				{"name": "Final", "total_weight": "100", "items": [{"weight": 1}]}
			]}`,
			wantError: true,
		},
		{
			name: "bad slug",
			doc: `{"name": "Physics", "slug": "Physics 101", "categories": [
				{"name": "Final", "total_weight": 100, "items": [{"weight": 1}]}
			]}`,
			wantError: true,
		},
		{
			name: "unknown field",
			doc: `{"name": "Physics", "formula": "a+b", "categories": [
				{"name": "Final", "total_weight": 100, "items": [{"weight": 1}]}
			]}`,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schemas.ValidateEmbedded(rootschemas.Calculator, []byte(tt.doc))
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
