// Package host provides the runtime environment for executing untrusted
// experiment guest modules.
//
// It owns the wazero runtime, binds the declarative host API as named
// imports once at setup, and manages the per-instance context lifecycle.
// At call time it resolves the guest's exported memory and the instance
// context fresh, runs the generic marshaler, and pushes the boundary code.
package host
