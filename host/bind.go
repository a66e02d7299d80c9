package host

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero/api"

	"github.com/hiveml/hivehost/hostapi"
	"github.com/hiveml/hivehost/internal/guestmem"
)

// bindHostModules registers every configured host module with the runtime.
// Each operation becomes the import "{prefix}__{name}" in its namespace. A
// duplicate wire name within a namespace is an ImportError; the first
// registration wins and setup aborts.
func (e *Executor) bindHostModules(ctx context.Context) error {
	for _, hm := range e.modules {
		builder := e.runtime.NewHostModuleBuilder(hm.Namespace)
		seen := make(map[string]bool, len(hm.Ops))

		for i := range hm.Ops {
			op := &hm.Ops[i]
			wire := hm.WireName(op)
			if seen[wire] {
				return &ImportError{
					Namespace: hm.Namespace,
					Name:      wire,
					Err:       fmt.Errorf("duplicate operation name"),
				}
			}
			seen[wire] = true

			prefix := hm.Prefix
			builder.NewFunctionBuilder().
				WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
					e.dispatch(ctx, mod, prefix, op, stack)
				}), paramTypes(op), []api.ValueType{api.ValueTypeI32}).
				Export(wire)
		}

		if _, err := builder.Instantiate(ctx); err != nil {
			return &ImportError{Namespace: hm.Namespace, Name: hm.Prefix, Err: err}
		}
	}
	return nil
}

// dispatch handles one guest call. Memory and instance context are resolved
// fresh on every call: the guest may have grown its memory or mutated host
// state since the last one, so nothing is cached across calls.
func (e *Executor) dispatch(ctx context.Context, mod api.Module, prefix string, op *hostapi.Operation, stack []uint64) {
	mem := mod.Memory()
	if mem == nil {
		// Instantiate rejects guests without an exported memory, so this is
		// a host wiring defect. Panicking surfaces it as a trap the
		// embedding runtime observes instead of a silent bad code.
		panic(fmt.Sprintf("hivehost: %s__%s called on a guest without exported memory", prefix, op.Name))
	}
	ictx, ok := hostapi.InstanceContextFrom(ctx)
	if !ok {
		panic(fmt.Sprintf("hivehost: %s__%s called without an instance context", prefix, op.Name))
	}

	view := guestmem.NewView(mem)
	err := op.Marshal(ctx, view, ictx, stack[:op.StackWidth()])
	stack[0] = uint64(hostapi.LogResult(e.logger, prefix, op.Name, err))
}

// paramTypes derives the wazero signature from the descriptor list: i32 for
// pointers, lengths and 32-bit scalars, i64 for 64-bit scalars, plus the
// trailing i32 output pointer.
func paramTypes(op *hostapi.Operation) []api.ValueType {
	types := make([]api.ValueType, 0, op.StackWidth())
	for _, a := range op.Args {
		switch a.Kind {
		case hostapi.Scalar64:
			types = append(types, api.ValueTypeI64)
		case hostapi.StringArg:
			types = append(types, api.ValueTypeI32, api.ValueTypeI32)
		default: // Scalar32, StructArg
			types = append(types, api.ValueTypeI32)
		}
	}
	return append(types, api.ValueTypeI32) // output pointer
}
