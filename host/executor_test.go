package host

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero/api"

	"github.com/hiveml/hivehost/hostapi"
	"github.com/hiveml/hivehost/internal/guestmem"
)

// emptyWasm is the smallest valid module: magic and version, no sections.
var emptyWasm = []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}

func noopOp(name string) hostapi.Operation {
	return hostapi.Operation{
		Name: name,
		Args: []hostapi.Arg{{Kind: hostapi.Scalar64}},
		Invoke: func(ctx context.Context, ic *hostapi.InstanceContext, args []any) (guestmem.Pod, error) {
			return nil, nil
		},
	}
}

func TestNewExecutorBindsTrainingModule(t *testing.T) {
	ctx := context.Background()
	exec, err := NewExecutor(ctx, WithHostModules(hostapi.TrainingHostModule()))
	require.NoError(t, err)
	require.NoError(t, exec.Close(ctx))
}

func TestNewExecutorRejectsDuplicateOperation(t *testing.T) {
	ctx := context.Background()
	hm := hostapi.HostModule{
		Namespace: "hive",
		Prefix:    "training",
		Ops:       []hostapi.Operation{noopOp("poll_training"), noopOp("poll_training")},
	}

	_, err := NewExecutor(ctx, WithHostModules(hm))
	var ie *ImportError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "hive", ie.Namespace)
	assert.Equal(t, "training__poll_training", ie.Name)
}

func TestInstantiateRejectsGuestWithoutMemory(t *testing.T) {
	ctx := context.Background()
	exec, err := NewExecutor(ctx)
	require.NoError(t, err)
	defer exec.Close(ctx)

	_, err = exec.Instantiate(ctx, emptyWasm)
	var ie *InstantiationError
	require.ErrorAs(t, err, &ie)
	assert.Contains(t, err.Error(), "memory")
}

func TestInstantiateRejectsDuplicateCapability(t *testing.T) {
	ctx := context.Background()
	exec, err := NewExecutor(ctx)
	require.NoError(t, err)
	defer exec.Close(ctx)

	a := &stubCapability{name: "training"}
	b := &stubCapability{name: "training"}
	_, err = exec.Instantiate(ctx, emptyWasm, a, b)
	var ie *InstantiationError
	require.ErrorAs(t, err, &ie)
	assert.Contains(t, err.Error(), "duplicate capability")
}

type stubCapability struct{ name string }

func (c *stubCapability) CapabilityName() string { return c.name }

func TestParamTypes(t *testing.T) {
	op := hostapi.Operation{
		Name: "start_training",
		Args: []hostapi.Arg{
			{Kind: hostapi.StringArg},
			{Kind: hostapi.Scalar32},
			{Kind: hostapi.Scalar64},
			{Kind: hostapi.StructArg},
		},
	}

	got := paramTypes(&op)
	want := []api.ValueType{
		api.ValueTypeI32, api.ValueTypeI32, // string ptr, len
		api.ValueTypeI32, // scalar32
		api.ValueTypeI64, // scalar64
		api.ValueTypeI32, // struct ptr
		api.ValueTypeI32, // output ptr
	}
	assert.Equal(t, want, got)
	assert.Len(t, got, op.StackWidth())
}

func TestParamTypesStartTraining(t *testing.T) {
	hm := hostapi.TrainingHostModule()
	for i := range hm.Ops {
		op := &hm.Ops[i]
		types := paramTypes(op)
		assert.Len(t, types, op.StackWidth(), op.Name)
		// The trailing output pointer is always a 32-bit address.
		assert.Equal(t, api.ValueTypeI32, types[len(types)-1], op.Name)
	}
}
