package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiveml/hivehost/domain/entities"
)

func TestGenerate(t *testing.T) {
	data, err := Generate(entities.TrainingRequest{})
	require.NoError(t, err)

	var schema map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &schema))

	props, ok := schema["properties"].(map[string]interface{})
	require.True(t, ok, "schema should expose properties")
	assert.Contains(t, props, "hive_url")
	assert.Contains(t, props, "num_workers")
	assert.Contains(t, props, "protocol")
}

func TestWireSchemas(t *testing.T) {
	schemas, err := WireSchemas()
	require.NoError(t, err)

	for _, name := range []string{
		"training_request",
		"start_run_request",
		"start_run_response",
		"run_status",
		"error",
	} {
		data, ok := schemas[name]
		require.True(t, ok, "missing schema %q", name)
		assert.True(t, json.Valid(data), "schema %q is not valid JSON", name)
	}

	var runStatus map[string]interface{}
	require.NoError(t, json.Unmarshal(schemas["run_status"], &runStatus))
	props := runStatus["properties"].(map[string]interface{})
	assert.Contains(t, props, "run_id")
	assert.Contains(t, props, "state")
}
