package schemas

import (
	"encoding/json"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	schemaFiles := []string{
		"analysis.schema.json",
		"validation_report.schema.json",
		"contrast.schema.json",
	}

	for _, schemaFile := range schemaFiles {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := fs.ReadFile(FS, schemaFile)
			require.NoError(t, err, "should be able to read schema file")

			var v map[string]any
			err = json.Unmarshal(data, &v)
			require.NoError(t, err, "schema file should be valid JSON: %s", schemaFile)
			assert.NotEmpty(t, v["title"])
			assert.Equal(t, "object", v["type"])
		})
	}
}

func TestFS_OnlySchemas(t *testing.T) {
	matches, err := fs.Glob(FS, "*")
	require.NoError(t, err)
	for _, m := range matches {
		assert.Regexp(t, `\.schema\.json$`, m)
	}
}
