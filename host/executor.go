package host

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/hiveml/hivehost/hostapi"
)

// Executor owns the wazero runtime and the host API bound to it. Host
// modules are registered exactly once at construction; guests are
// instantiated per run with a fresh InstanceContext.
type Executor struct {
	runtime wazero.Runtime
	logger  *slog.Logger
	modules []hostapi.HostModule
}

// NewExecutor creates a runtime and binds the configured host modules as
// named imports. Any import rejection (including a duplicate operation
// name) aborts construction; nothing that fails here is retried at runtime.
func NewExecutor(ctx context.Context, opts ...Option) (*Executor, error) {
	e := &Executor{logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}

	rt := wazero.NewRuntime(ctx)
	wasi_snapshot_preview1.MustInstantiate(ctx, rt)
	e.runtime = rt

	if err := e.bindHostModules(ctx); err != nil {
		rt.Close(ctx)
		return nil, err
	}
	return e, nil
}

// Close releases the runtime. Outstanding guest instances become invalid.
func (e *Executor) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

// GuestInstance is one instantiated guest module together with its
// per-instance host context. The context is created here and closed at
// teardown; it never outlives the instance.
type GuestInstance struct {
	module api.Module
	ictx   *hostapi.InstanceContext
}

// Instantiate compiles and instantiates a guest module and attaches the
// given capabilities to a fresh instance context. The guest must export its
// linear memory as "memory"; a guest without one cannot use the host API.
func (e *Executor) Instantiate(ctx context.Context, wasmBytes []byte, caps ...hostapi.Capability) (*GuestInstance, error) {
	ictx := hostapi.NewInstanceContext()
	for _, c := range caps {
		if err := ictx.AddCapability(c); err != nil {
			return nil, &InstantiationError{Err: err}
		}
	}

	// Host imports resolve during instantiation, so the instance context
	// must already be reachable from the context here: the guest's start
	// function may call back into the host API.
	mod, err := e.runtime.InstantiateWithConfig(hostapi.WithInstanceContext(ctx, ictx), wasmBytes,
		wazero.NewModuleConfig().WithStartFunctions("_initialize", "_start"))
	if err != nil {
		ictx.Close()
		return nil, &InstantiationError{Err: err}
	}
	if mod.Memory() == nil {
		mod.Close(ctx)
		ictx.Close()
		return nil, &InstantiationError{Err: fmt.Errorf("guest module does not export a memory")}
	}

	return &GuestInstance{module: mod, ictx: ictx}, nil
}

// Call invokes a guest export. The per-instance context is attached to ctx
// so host functions can re-resolve their state on every call.
func (g *GuestInstance) Call(ctx context.Context, export string, params ...uint64) ([]uint64, error) {
	fn := g.module.ExportedFunction(export)
	if fn == nil {
		return nil, fmt.Errorf("guest export %q not found", export)
	}
	return fn.Call(hostapi.WithInstanceContext(ctx, g.ictx), params...)
}

// Context exposes the instance's host context, mainly for tests and
// embedding hosts that add capabilities before the first call.
func (g *GuestInstance) Context() *hostapi.InstanceContext {
	return g.ictx
}

// Close tears the instance down: the guest module first, then the host
// context and its capabilities.
func (g *GuestInstance) Close(ctx context.Context) error {
	modErr := g.module.Close(ctx)
	ictxErr := g.ictx.Close()
	if modErr != nil {
		return modErr
	}
	return ictxErr
}
