package schemas

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/auto-applier/internal/schemas"
)

var schemaFiles = []string{
	"candidate_profile.schema.json",
	"job_targets.schema.json",
}

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	for _, schemaFile := range schemaFiles {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join(".", schemaFile))
			require.NoError(t, err, "should be able to read schema file")

			var v interface{}
			err = json.Unmarshal(data, &v)
			assert.NoError(t, err, "schema file should be valid JSON: %s", schemaFile)
		})
	}
}

func TestCandidateProfileSchema(t *testing.T) {
	schemaPath := filepath.Join(".", "candidate_profile.schema.json")

	t.Run("accepts a full profile", func(t *testing.T) {
		doc := `{
			"user_id": "u1",
			"full_name": "Priya Sharma",
			"email": "priya@example.com",
			"phone": "+91 98765 43210",
			"current_ctc": 12,
			"notice_period_days": 30
		}`
		schema, err := os.ReadFile(schemaPath)
		require.NoError(t, err)
		assert.NoError(t, schemas.ValidateJSONString(string(schema), doc))
	})

	t.Run("rejects a profile without email", func(t *testing.T) {
		doc := `{"user_id": "u1", "full_name": "Priya Sharma"}`
		schema, err := os.ReadFile(schemaPath)
		require.NoError(t, err)

		err = schemas.ValidateJSONString(string(schema), doc)
		var ve *schemas.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.NotEmpty(t, ve.Errors)
	})
}

func TestJobTargetsSchema(t *testing.T) {
	schemaPath := filepath.Join(".", "job_targets.schema.json")

	t.Run("accepts a target list", func(t *testing.T) {
		doc := `[{"id": "job-1", "external_url": "https://jobs.example.com/1/apply", "company": "Example Co"}]`
		schema, err := os.ReadFile(schemaPath)
		require.NoError(t, err)
		assert.NoError(t, schemas.ValidateJSONString(string(schema), doc))
	})

	t.Run("rejects an empty list", func(t *testing.T) {
		schema, err := os.ReadFile(schemaPath)
		require.NoError(t, err)
		assert.Error(t, schemas.ValidateJSONString(string(schema), `[]`))
	})
}
