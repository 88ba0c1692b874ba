package schemas

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/a11y-toolkit/internal/color"
	"github.com/jonathan/a11y-toolkit/internal/validation"
)

func TestValidateBytes_Analysis(t *testing.T) {
	valid := `{
  "summary": {"errorCount": 1, "warningCount": 0, "infoCount": 0, "overallScore": 72},
  "issues": [{"severity": "error", "wcagCriteria": "1.1.1", "title": "Missing alt text",
    "description": "d", "location": "page 1", "recommendation": "r"}]
}`
	assert.NoError(t, ValidateBytes(Analysis, []byte(valid)))
	assert.NoError(t, ValidateBytes(Analysis, []byte(`{"issues": []}`)))
}

func TestValidateBytes_AnalysisInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing issues", `{"summary": {}}`},
		{"bad severity", `{"issues": [{"severity": "critical", "title": "x"}]}`},
		{"score out of range", `{"issues": [], "summary": {"overallScore": 140}}`},
		{"issues not array", `{"issues": "none"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBytes(Analysis, []byte(tt.doc))
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "error should be ValidationError type")
			assert.NotEmpty(t, verr.Errors)
			assert.Equal(t, Analysis, verr.Schema)
		})
	}
}

func TestValidateBytes_MalformedDocument(t *testing.T) {
	err := ValidateBytes(Analysis, []byte(`{not json`))
	assert.Error(t, err)
}

func TestValidateBytes_UnknownSchema(t *testing.T) {
	err := ValidateBytes("missing.schema.json", []byte(`{}`))
	var lerr *SchemaLoadError
	require.True(t, errors.As(err, &lerr))
	assert.Contains(t, err.Error(), "missing.schema.json")
}

func TestValidateBytes_ValidationReport(t *testing.T) {
	report := validation.NewReport(validation.ValidateHTML(validation.SampleHTML))
	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.NoError(t, ValidateBytes(ValidationReport, data))
}

func TestValidateBytes_Contrast(t *testing.T) {
	for _, pair := range [][2]string{{"#777", "white"}, {"black", "white"}, {"nope", "white"}} {
		data, err := json.Marshal(color.Evaluate(pair[0], pair[1]))
		require.NoError(t, err)
		assert.NoError(t, ValidateBytes(Contrast, data), "%s on %s", pair[0], pair[1])
	}
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "analysis.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"issues": []}`), 0o644))

	assert.NoError(t, ValidateFile(Analysis, path))

	err := ValidateFile(Analysis, filepath.Join(dir, "nope.json"))
	assert.ErrorContains(t, err, "not found")
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"name": "x"}`))

	err := ValidateJSONString(schema, `{}`)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "(root)", verr.Errors[0].Field)
	assert.Contains(t, err.Error(), "validation against (string schema) failed")
}
