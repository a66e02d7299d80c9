package hostapi

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedCap struct {
	name   string
	closed bool
	err    error
}

func (c *namedCap) CapabilityName() string { return c.name }
func (c *namedCap) Close() error {
	c.closed = true
	return c.err
}

func TestAddCapability(t *testing.T) {
	ic := NewInstanceContext()
	require.NoError(t, ic.AddCapability(&namedCap{name: "training"}))

	t.Run("duplicate name rejected", func(t *testing.T) {
		err := ic.AddCapability(&namedCap{name: "training"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate capability")
	})

	t.Run("empty name rejected", func(t *testing.T) {
		require.Error(t, ic.AddCapability(&namedCap{name: ""}))
	})
}

func TestCapabilityLookup(t *testing.T) {
	ic := NewInstanceContext()
	c := &namedCap{name: "training"}
	require.NoError(t, ic.AddCapability(c))

	got, err := ic.Capability("training")
	require.NoError(t, err)
	assert.Same(t, c, got)

	_, err = ic.Capability("storage")
	var ae *ApiError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, CodeInternal, ae.Code())
}

func TestResolveCapability(t *testing.T) {
	ic := NewInstanceContext()
	c := &namedCap{name: "training"}
	require.NoError(t, ic.AddCapability(c))

	got, err := ResolveCapability[*namedCap](ic, "training")
	require.NoError(t, err)
	assert.Same(t, c, got)

	t.Run("wrong type is internal", func(t *testing.T) {
		_, err := ResolveCapability[*TrainingModule](ic, "training")
		var ae *ApiError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, CodeInternal, ae.Code())
	})
}

func TestInstanceContextClose(t *testing.T) {
	ic := NewInstanceContext()
	a := &namedCap{name: "a", err: errors.New("close a")}
	b := &namedCap{name: "b"}
	require.NoError(t, ic.AddCapability(a))
	require.NoError(t, ic.AddCapability(b))

	err := ic.Close()
	require.Error(t, err)
	assert.True(t, a.closed)
	assert.True(t, b.closed)
}

func TestInstanceContextRoundTrip(t *testing.T) {
	ic := NewInstanceContext()
	ctx := WithInstanceContext(context.Background(), ic)

	got, ok := InstanceContextFrom(ctx)
	require.True(t, ok)
	assert.Same(t, ic, got)

	_, ok = InstanceContextFrom(context.Background())
	assert.False(t, ok)
}
