package entities

import (
	"encoding/binary"
	"fmt"
)

// FutureHandle is an opaque reference to host-side asynchronous operation
// state. The host guarantees a handle is unique among currently outstanding
// operations and is never reused before its operation is retired. The zero
// value is never a valid handle.
type FutureHandle uint64

// IsZero reports whether h is the invalid zero handle.
func (h FutureHandle) IsZero() bool { return h == 0 }

// PodSize implements guestmem.Pod.
func (h *FutureHandle) PodSize() uint32 { return 8 }

// EncodePod implements guestmem.Pod.
func (h *FutureHandle) EncodePod(b []byte) {
	binary.LittleEndian.PutUint64(b, uint64(*h))
}

// DecodePod implements guestmem.Pod.
func (h *FutureHandle) DecodePod(b []byte) {
	*h = FutureHandle(binary.LittleEndian.Uint64(b))
}

// RunState enumerates the lifecycle of a training run.
type RunState uint32

const (
	// RunPending means the run was accepted locally but not yet submitted
	// to the orchestrator.
	RunPending RunState = iota

	// RunRunning means the orchestrator accepted the run.
	RunRunning

	// RunStopping means cancellation was requested but not yet confirmed.
	RunStopping

	// RunCompleted means the run finished normally.
	RunCompleted

	// RunFailed means submission or the run itself failed.
	RunFailed
)

func (s RunState) String() string {
	switch s {
	case RunPending:
		return "pending"
	case RunRunning:
		return "running"
	case RunStopping:
		return "stopping"
	case RunCompleted:
		return "completed"
	case RunFailed:
		return "failed"
	default:
		return fmt.Sprintf("runstate(%d)", uint32(s))
	}
}

// TrainingStatus is the fixed-layout status record written back to guest
// memory by poll_training and stop_training. Layout: state u32, workers u32,
// steps_done u64, all little-endian.
type TrainingStatus struct {
	State     RunState
	Workers   uint32
	StepsDone uint64
}

// PodSize implements guestmem.Pod.
func (s *TrainingStatus) PodSize() uint32 { return 16 }

// EncodePod implements guestmem.Pod.
func (s *TrainingStatus) EncodePod(b []byte) {
	binary.LittleEndian.PutUint32(b[0:4], uint32(s.State))
	binary.LittleEndian.PutUint32(b[4:8], s.Workers)
	binary.LittleEndian.PutUint64(b[8:16], s.StepsDone)
}

// DecodePod implements guestmem.Pod.
func (s *TrainingStatus) DecodePod(b []byte) {
	s.State = RunState(binary.LittleEndian.Uint32(b[0:4]))
	s.Workers = binary.LittleEndian.Uint32(b[4:8])
	s.StepsDone = binary.LittleEndian.Uint64(b[8:16])
}
