// Package schema provides JSON schema generation for the hive service's
// wire contract.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/hiveml/hivehost/domain/entities"
	"github.com/hiveml/hivehost/infrastructure/orchestrator"
)

// Generate creates a JSON schema from a Go struct.
// It uses the `invopop/jsonschema` library to reflect on the struct
// and generate a standard JSON Schema (Draft 2020-12).
func Generate(v interface{}) ([]byte, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true, // Expand struct definitions inline
	}
	schema := reflector.Reflect(v)

	jsonBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	return jsonBytes, nil
}

// WireSchemas generates schemas for every JSON body exchanged with the hive
// service, keyed by a stable name. Useful for documenting the contract and
// for validating captured traffic offline.
func WireSchemas() (map[string][]byte, error) {
	types := map[string]interface{}{
		"training_request":   entities.TrainingRequest{},
		"start_run_request":  orchestrator.StartRunRequestWire{},
		"start_run_response": orchestrator.StartRunResponseWire{},
		"run_status":         orchestrator.RunStatusWire{},
		"error":              orchestrator.ErrorWire{},
	}

	out := make(map[string][]byte, len(types))
	for name, v := range types {
		data, err := Generate(v)
		if err != nil {
			return nil, fmt.Errorf("generate %s schema: %w", name, err)
		}
		out[name] = data
	}
	return out, nil
}
