// Package testutil provides shared test doubles for host boundary tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// guardWidth is the number of sentinel bytes placed on each side of a
// GuardedMemory window.
const guardWidth = 16

// guardByte is the sentinel value. A failed bounds check must leave every
// guard byte untouched.
const guardByte = 0xA5

// GuardedMemory is an in-process stand-in for a guest's linear memory. The
// usable window is surrounded by sentinel bytes so tests can prove that a
// rejected access never wrote a single byte outside the window.
type GuardedMemory struct {
	buf []byte
}

// NewGuardedMemory allocates a memory of size usable bytes, zeroed, with
// guard bytes on both sides.
func NewGuardedMemory(size uint32) *GuardedMemory {
	buf := make([]byte, int(size)+2*guardWidth)
	for i := 0; i < guardWidth; i++ {
		buf[i] = guardByte
		buf[len(buf)-1-i] = guardByte
	}
	return &GuardedMemory{buf: buf}
}

// Size returns the usable window size in bytes.
func (m *GuardedMemory) Size() uint32 {
	return uint32(len(m.buf) - 2*guardWidth)
}

// Read returns the window bytes in [offset, offset+byteCount), or false when
// the range is out of bounds.
func (m *GuardedMemory) Read(offset, byteCount uint32) ([]byte, bool) {
	if uint64(offset)+uint64(byteCount) > uint64(m.Size()) {
		return nil, false
	}
	start := guardWidth + int(offset)
	return m.buf[start : start+int(byteCount)], true
}

// Write copies v into the window at offset, or returns false when the range
// is out of bounds.
func (m *GuardedMemory) Write(offset uint32, v []byte) bool {
	if uint64(offset)+uint64(len(v)) > uint64(m.Size()) {
		return false
	}
	copy(m.buf[guardWidth+int(offset):], v)
	return true
}

// Window returns the usable bytes for direct inspection in tests.
func (m *GuardedMemory) Window() []byte {
	return m.buf[guardWidth : len(m.buf)-guardWidth]
}

// AssertGuardsIntact fails the test if any sentinel byte was overwritten.
func (m *GuardedMemory) AssertGuardsIntact(t *testing.T) {
	t.Helper()
	for i := 0; i < guardWidth; i++ {
		assert.EqualValues(t, guardByte, m.buf[i], "low guard byte %d was overwritten", i)
		assert.EqualValues(t, guardByte, m.buf[len(m.buf)-1-i], "high guard byte %d was overwritten", i)
	}
}
