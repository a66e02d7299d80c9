package hostapi

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hiveml/hivehost/domain/entities"
	"github.com/hiveml/hivehost/domain/ports"
	"github.com/hiveml/hivehost/internal/guestmem"
)

// TrainingCapability is the name the training module is resolved under.
const TrainingCapability = "training"

// Import namespace and wire-name prefix for the training host module.
const (
	TrainingNamespace = "hive"
	TrainingPrefix    = "training"
)

// TrainingModule is the host capability behind the "hive" import namespace.
// It submits runs to the remote orchestrator and tracks them by FutureHandle.
//
// start_training never blocks the guest thread: the handle is allocated
// immediately and submission plus status tracking run on a goroutine owned
// by the module.
type TrainingModule struct {
	trainer        ports.Trainer
	logger         *slog.Logger
	futures        *Futures[*trainingRun]
	statusInterval time.Duration

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

type trainingRun struct {
	mu     sync.Mutex
	runID  string
	status entities.TrainingStatus
	cancel context.CancelFunc
}

func (r *trainingRun) snapshot() entities.TrainingStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

func (r *trainingRun) update(fn func(*entities.TrainingStatus)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(&r.status)
}

// TrainingOption configures a TrainingModule.
type TrainingOption func(*TrainingModule)

// WithTrainingLogger sets the module's logger (default slog.Default()).
func WithTrainingLogger(logger *slog.Logger) TrainingOption {
	return func(m *TrainingModule) {
		m.logger = logger
	}
}

// WithStatusInterval sets how often outstanding runs are refreshed from the
// orchestrator.
func WithStatusInterval(d time.Duration) TrainingOption {
	return func(m *TrainingModule) {
		if d > 0 {
			m.statusInterval = d
		}
	}
}

// NewTrainingModule creates the training capability around a Trainer port.
func NewTrainingModule(trainer ports.Trainer, opts ...TrainingOption) *TrainingModule {
	ctx, cancel := context.WithCancel(context.Background())
	m := &TrainingModule{
		trainer:        trainer,
		logger:         slog.Default(),
		futures:        NewFutures[*trainingRun](),
		statusInterval: 5 * time.Second,
		baseCtx:        ctx,
		cancel:         cancel,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CapabilityName implements Capability.
func (m *TrainingModule) CapabilityName() string { return TrainingCapability }

// Close cancels every outstanding run and waits for the tracking goroutines.
// Called by the instance context at teardown.
func (m *TrainingModule) Close() error {
	m.cancel()
	m.wg.Wait()
	return nil
}

// StartTraining registers a new run and returns its handle immediately.
// Submission to the orchestrator happens asynchronously; failures surface
// through the run's status, not through this call.
func (m *TrainingModule) StartTraining(req entities.TrainingRequest) (entities.FutureHandle, error) {
	runCtx, cancel := context.WithCancel(m.baseCtx)
	run := &trainingRun{
		cancel: cancel,
		status: entities.TrainingStatus{State: entities.RunPending, Workers: req.NumWorkers},
	}
	h := m.futures.Register(run)

	m.wg.Add(1)
	go m.track(runCtx, h, run, req)
	return h, nil
}

// Poll returns the current status of an outstanding run. An unknown or
// retired handle is a benign lookup miss.
func (m *TrainingModule) Poll(h entities.FutureHandle) (entities.TrainingStatus, error) {
	run, ok := m.futures.Get(h)
	if !ok {
		return entities.TrainingStatus{}, NotFound("no outstanding run for handle")
	}
	return run.snapshot(), nil
}

// Stop cancels an outstanding run and retires its handle. The returned
// status is the final snapshot observed by the guest.
func (m *TrainingModule) Stop(h entities.FutureHandle) (entities.TrainingStatus, error) {
	run, ok := m.futures.Retire(h)
	if !ok {
		return entities.TrainingStatus{}, NotFound("no outstanding run for handle")
	}
	run.update(func(s *entities.TrainingStatus) {
		if s.State == entities.RunPending || s.State == entities.RunRunning {
			s.State = entities.RunStopping
		}
	})
	run.cancel()
	return run.snapshot(), nil
}

// track submits the run and refreshes its status until it reaches a terminal
// state or is cancelled.
func (m *TrainingModule) track(ctx context.Context, h entities.FutureHandle, run *trainingRun, req entities.TrainingRequest) {
	defer m.wg.Done()

	runID, err := m.trainer.StartTraining(ctx, req)
	if err != nil {
		m.logger.Warn("training submission failed",
			slog.Uint64("handle", uint64(h)),
			slog.String("experiment", req.Experiment),
			slog.String("error", ChainMessage(err)))
		run.update(func(s *entities.TrainingStatus) { s.State = entities.RunFailed })
		return
	}
	run.mu.Lock()
	run.runID = runID
	run.mu.Unlock()
	run.update(func(s *entities.TrainingStatus) {
		if s.State == entities.RunPending {
			s.State = entities.RunRunning
		}
	})
	m.logger.Info("training run submitted",
		slog.Uint64("handle", uint64(h)),
		slog.String("run_id", runID),
		slog.String("experiment", req.Experiment))

	ticker := time.NewTicker(m.statusInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			// Cancellation requested via Stop or module teardown. Best
			// effort: tell the orchestrator, bounded by its own timeout.
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := m.trainer.StopTraining(stopCtx, runID); err != nil {
				m.logger.Warn("orchestrator stop failed",
					slog.String("run_id", runID),
					slog.String("error", ChainMessage(err)))
			}
			cancel()
			run.update(func(s *entities.TrainingStatus) {
				if s.State != entities.RunCompleted && s.State != entities.RunFailed {
					s.State = entities.RunCompleted
				}
			})
			return
		case <-ticker.C:
			st, err := m.trainer.TrainingStatus(ctx, runID)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				m.logger.Warn("training status refresh failed",
					slog.String("run_id", runID),
					slog.String("error", ChainMessage(err)))
				continue
			}
			run.update(func(s *entities.TrainingStatus) {
				s.State = st.State
				s.StepsDone = st.StepsDone
				if st.Workers != 0 {
					s.Workers = st.Workers
				}
			})
			if st.State == entities.RunCompleted || st.State == entities.RunFailed {
				return
			}
		}
	}
}

func resolveTraining(ic *InstanceContext) (*TrainingModule, error) {
	return ResolveCapability[*TrainingModule](ic, TrainingCapability)
}

// TrainingHostModule returns the declarative shape of every export of the
// training module. The descriptor lists drive the generic marshaler; no
// per-operation decoding code exists.
func TrainingHostModule() HostModule {
	return HostModule{
		Namespace: TrainingNamespace,
		Prefix:    TrainingPrefix,
		Ops: []Operation{
			{
				Name: "start_training",
				Args: []Arg{
					{Kind: StringArg}, // hive_url
					{Kind: Scalar32},  // hive_port
					{Kind: StringArg}, // game_name
					{Kind: StringArg}, // experiment_name
					{Kind: Scalar32},  // num_remote_workers
					{Kind: StringArg}, // config
					{Kind: StringArg}, // checkpoint
					{Kind: Scalar64},  // training_duration_in_seconds
					{Kind: StructArg, NewPod: func() guestmem.Pod { return new(entities.ProtocolConfig) }},
				},
				Invoke: invokeStartTraining,
			},
			{
				Name:   "poll_training",
				Args:   []Arg{{Kind: Scalar64}}, // handle
				Invoke: invokePollTraining,
			},
			{
				Name:   "stop_training",
				Args:   []Arg{{Kind: Scalar64}}, // handle
				Invoke: invokeStopTraining,
			},
		},
	}
}

func invokeStartTraining(ctx context.Context, ic *InstanceContext, args []any) (guestmem.Pod, error) {
	m, err := resolveTraining(ic)
	if err != nil {
		return nil, err
	}
	req := entities.TrainingRequest{
		HiveURL:         args[0].(string),
		HivePort:        args[1].(uint32),
		Game:            args[2].(string),
		Experiment:      args[3].(string),
		NumWorkers:      args[4].(uint32),
		Config:          args[5].(string),
		Checkpoint:      args[6].(string),
		DurationSeconds: args[7].(uint64),
		Protocol:        *(args[8].(*entities.ProtocolConfig)),
	}
	h, err := m.StartTraining(req)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func invokePollTraining(ctx context.Context, ic *InstanceContext, args []any) (guestmem.Pod, error) {
	m, err := resolveTraining(ic)
	if err != nil {
		return nil, err
	}
	st, err := m.Poll(entities.FutureHandle(args[0].(uint64)))
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func invokeStopTraining(ctx context.Context, ic *InstanceContext, args []any) (guestmem.Pod, error) {
	m, err := resolveTraining(ic)
	if err != nil {
		return nil, err
	}
	st, err := m.Stop(entities.FutureHandle(args[0].(uint64)))
	if err != nil {
		return nil, err
	}
	return &st, nil
}
