// Package hostapi is the boundary core between untrusted guest modules and
// host capabilities. It has no WASM runtime dependency: operations are
// declared as ordered argument descriptors and interpreted by one generic
// marshaler against a guestmem.View, and every outcome is reduced to a small
// stable integer code before it crosses back to the guest.
package hostapi
