// Package orchestrator contains the HTTP client for the remote hive
// training service. Everything here belongs to the remote service's
// contract; the boundary core never sees these types.
package orchestrator

import "github.com/hiveml/hivehost/domain/entities"

// StartRunRequestWire is the JSON body submitted to POST /v1/runs.
// These types define the wire contract with the hive service and must stay
// backward compatible.
type StartRunRequestWire struct {
	HiveURL         string                  `json:"hive_url"`
	HivePort        uint32                  `json:"hive_port"`
	Game            string                  `json:"game"`
	Experiment      string                  `json:"experiment"`
	NumWorkers      uint32                  `json:"num_workers"`
	Config          string                  `json:"config,omitempty"`
	Checkpoint      string                  `json:"checkpoint,omitempty"`
	DurationSeconds uint64                  `json:"duration_seconds"`
	Protocol        entities.ProtocolConfig `json:"protocol"`
}

// StartRunResponseWire is the JSON body returned by POST /v1/runs.
type StartRunResponseWire struct {
	RunID string `json:"run_id"`
}

// RunStatusWire is the JSON body returned by GET /v1/runs/{id}.
type RunStatusWire struct {
	RunID     string `json:"run_id"`
	State     string `json:"state"`
	Workers   uint32 `json:"workers,omitempty"`
	StepsDone uint64 `json:"steps_done,omitempty"`
}

// ErrorWire is the JSON error body the hive service returns on non-2xx
// responses.
type ErrorWire struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// runState maps the service's state strings onto the domain enumeration.
func runState(s string) entities.RunState {
	switch s {
	case "pending", "queued":
		return entities.RunPending
	case "running":
		return entities.RunRunning
	case "stopping":
		return entities.RunStopping
	case "completed":
		return entities.RunCompleted
	default:
		return entities.RunFailed
	}
}
