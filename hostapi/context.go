package hostapi

import (
	"context"
	"fmt"
	"io"
)

// Capability is a named host service resolved from an InstanceContext and
// invoked by marshaled guest calls.
type Capability interface {
	CapabilityName() string
}

// InstanceContext carries the mutable host state for one guest instance.
// The executor creates it at instantiation and closes it at teardown; it is
// never global and never shared between instances. Capabilities are added
// before the first guest call and the set is fixed afterwards.
type InstanceContext struct {
	caps map[string]Capability
}

// NewInstanceContext returns an empty per-instance context.
func NewInstanceContext() *InstanceContext {
	return &InstanceContext{caps: make(map[string]Capability)}
}

// AddCapability registers a capability by name. A duplicate name is a host
// wiring error.
func (ic *InstanceContext) AddCapability(c Capability) error {
	name := c.CapabilityName()
	if name == "" {
		return fmt.Errorf("capability name cannot be empty")
	}
	if _, exists := ic.caps[name]; exists {
		return fmt.Errorf("duplicate capability name: %q", name)
	}
	ic.caps[name] = c
	return nil
}

// Capability resolves a registered capability by name.
func (ic *InstanceContext) Capability(name string) (Capability, error) {
	c, ok := ic.caps[name]
	if !ok {
		return nil, Internal(fmt.Errorf("capability %q not registered on instance", name))
	}
	return c, nil
}

// Close releases every capability that holds resources. Called by the
// executor during instance teardown.
func (ic *InstanceContext) Close() error {
	var firstErr error
	for _, c := range ic.caps {
		if closer, ok := c.(io.Closer); ok {
			if err := closer.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// ResolveCapability resolves and type-asserts a capability in one step.
func ResolveCapability[T Capability](ic *InstanceContext, name string) (T, error) {
	var zero T
	c, err := ic.Capability(name)
	if err != nil {
		return zero, err
	}
	typed, ok := c.(T)
	if !ok {
		return zero, Internal(fmt.Errorf("capability %q has unexpected type %T", name, c))
	}
	return typed, nil
}

type instanceContextKey struct{}

// WithInstanceContext attaches the per-instance context to a call context.
// The executor does this for every guest invocation so host functions can
// re-resolve their state on each call.
func WithInstanceContext(ctx context.Context, ic *InstanceContext) context.Context {
	return context.WithValue(ctx, instanceContextKey{}, ic)
}

// InstanceContextFrom extracts the per-instance context attached by the
// executor.
func InstanceContextFrom(ctx context.Context) (*InstanceContext, bool) {
	ic, ok := ctx.Value(instanceContextKey{}).(*InstanceContext)
	return ic, ok
}
