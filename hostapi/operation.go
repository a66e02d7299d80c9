package hostapi

import (
	"context"

	"github.com/hiveml/hivehost/internal/guestmem"
)

// ArgKind describes how one flat boundary argument (or pair) is decoded.
type ArgKind int

const (
	// Scalar32 is a single 32-bit integer passed through unchanged.
	Scalar32 ArgKind = iota

	// Scalar64 is a single 64-bit integer passed through unchanged.
	Scalar64

	// StringArg is a (pointer, length) pair decoded as UTF-8 text.
	StringArg

	// StructArg is a single pointer to a fixed-layout Pod value.
	StructArg
)

// Arg is one entry in an operation's ordered argument descriptor list.
type Arg struct {
	Kind ArgKind

	// NewPod allocates the Pod to decode into. Set for StructArg only.
	NewPod func() guestmem.Pod
}

// InvokeFunc is a host capability entry point. It receives decoded arguments
// in declaration order: uint32 for Scalar32, uint64 for Scalar64, string for
// StringArg, and guestmem.Pod for StructArg. On success it returns the Pod
// to write at the operation's trailing output pointer (nil writes nothing).
type InvokeFunc func(ctx context.Context, ic *InstanceContext, args []any) (guestmem.Pod, error)

// Operation declares one exported host call: its wire name suffix, the
// ordered argument descriptors, and the handler invoked with the decoded
// values. Every operation carries an implicit trailing output pointer.
type Operation struct {
	Name   string
	Args   []Arg
	Invoke InvokeFunc
}

// StackWidth returns how many raw integers the operation consumes, including
// the trailing output pointer.
func (op *Operation) StackWidth() int {
	n := 1 // output pointer
	for _, a := range op.Args {
		if a.Kind == StringArg {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// HostModule is a named group of operations bound once at instance setup.
// The wire-visible name of each operation is "{Prefix}__{op.Name}" exported
// from the import namespace Namespace.
type HostModule struct {
	Namespace string
	Prefix    string
	Ops       []Operation
}

// WireName returns the guest-visible import name for an operation.
func (m HostModule) WireName(op *Operation) string {
	return m.Prefix + "__" + op.Name
}
