package entities

// TrainingRequest is the decoded, typed form of a start_training call.
// The boundary layer only guarantees the strings are valid UTF-8 read from
// in-bounds guest memory; business validation (URL shape, worker counts)
// happens in the orchestrator client against the remote service's contract.
type TrainingRequest struct {
	HiveURL         string         `json:"hive_url" validate:"required,url"`
	HivePort        uint32         `json:"hive_port" validate:"required,lte=65535"`
	Game            string         `json:"game" validate:"required"`
	Experiment      string         `json:"experiment" validate:"required"`
	NumWorkers      uint32         `json:"num_workers" validate:"gte=1"`
	Config          string         `json:"config"`
	Checkpoint      string         `json:"checkpoint"`
	DurationSeconds uint64         `json:"duration_seconds" validate:"gte=1"`
	Protocol        ProtocolConfig `json:"protocol"`
}
