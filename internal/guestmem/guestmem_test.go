package guestmem

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiveml/hivehost/internal/testutil"
)

func TestBytes(t *testing.T) {
	mem := testutil.NewGuardedMemory(64)
	copy(mem.Window(), "hello world")
	v := NewView(mem)

	b, err := v.Bytes(6, 5)
	require.NoError(t, err)
	assert.Equal(t, []byte("world"), b)

	// The returned slice is a copy, not an alias of guest memory.
	b[0] = 'X'
	assert.EqualValues(t, 'w', mem.Window()[6])
}

func TestBytesOutOfBounds(t *testing.T) {
	mem := testutil.NewGuardedMemory(64)
	v := NewView(mem)

	tests := []struct {
		name   string
		ptr    uint32
		length uint32
	}{
		{"past end", 60, 8},
		{"ptr past end", 65, 1},
		{"ptr plus len wraps u32", math.MaxUint32, 2},
		{"whole buffer plus one", 0, 65},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Bytes(tt.ptr, tt.length)
			var oob *OutOfBoundsError
			require.ErrorAs(t, err, &oob)
			assert.Equal(t, tt.ptr, oob.Ptr)
			mem.AssertGuardsIntact(t)
		})
	}
}

func TestBytesZeroLengthAtEdge(t *testing.T) {
	mem := testutil.NewGuardedMemory(64)
	v := NewView(mem)

	b, err := v.Bytes(64, 0)
	require.NoError(t, err)
	assert.Empty(t, b)
}

func TestString(t *testing.T) {
	mem := testutil.NewGuardedMemory(64)
	copy(mem.Window(), "héllo")
	v := NewView(mem)

	s, err := v.String(0, uint32(len("héllo")))
	require.NoError(t, err)
	assert.Equal(t, "héllo", s)
}

func TestStringInvalidUTF8(t *testing.T) {
	mem := testutil.NewGuardedMemory(64)
	copy(mem.Window(), []byte{'o', 'k', 0xFF, 0xFE})
	v := NewView(mem)

	_, err := v.String(0, 4)
	var invalid *InvalidUTF8Error
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 2, invalid.Offset)
}

func TestScalarRoundTrip(t *testing.T) {
	mem := testutil.NewGuardedMemory(64)
	v := NewView(mem)

	require.NoError(t, v.WriteUint32(8, 0xDEADBEEF))
	got32, err := v.ReadUint32(8)
	require.NoError(t, err)
	assert.EqualValues(t, 0xDEADBEEF, got32)

	require.NoError(t, v.WriteUint64(16, 0x0102030405060708))
	got64, err := v.ReadUint64(16)
	require.NoError(t, err)
	assert.EqualValues(t, 0x0102030405060708, got64)

	// Scalars are little-endian on the wire.
	assert.Equal(t, []byte{0xEF, 0xBE, 0xAD, 0xDE}, mem.Window()[8:12])
}

func TestScalarOutOfBounds(t *testing.T) {
	mem := testutil.NewGuardedMemory(16)
	v := NewView(mem)

	_, err := v.ReadUint32(13)
	var oob *OutOfBoundsError
	require.ErrorAs(t, err, &oob)

	require.Error(t, v.WriteUint64(9, 1))
	mem.AssertGuardsIntact(t)
}

type testPod struct {
	A uint32
	B uint64
}

func (p *testPod) PodSize() uint32 { return 12 }
func (p *testPod) EncodePod(b []byte) {
	binary.LittleEndian.PutUint32(b[0:4], p.A)
	binary.LittleEndian.PutUint64(b[4:12], p.B)
}
func (p *testPod) DecodePod(b []byte) {
	p.A = binary.LittleEndian.Uint32(b[0:4])
	p.B = binary.LittleEndian.Uint64(b[4:12])
}

func TestPodRoundTrip(t *testing.T) {
	mem := testutil.NewGuardedMemory(64)
	v := NewView(mem)

	in := &testPod{A: 7, B: 900}
	require.NoError(t, v.WritePod(20, in))

	var out testPod
	require.NoError(t, v.ReadPod(20, &out))
	assert.Equal(t, *in, out)
}

func TestWritePodOutOfBounds(t *testing.T) {
	mem := testutil.NewGuardedMemory(16)
	before := append([]byte(nil), mem.Window()...)
	v := NewView(mem)

	err := v.WritePod(8, &testPod{A: 1, B: 2})
	var oob *OutOfBoundsError
	require.ErrorAs(t, err, &oob)

	// A rejected write leaves the window byte-for-byte untouched.
	assert.Equal(t, before, mem.Window())
	mem.AssertGuardsIntact(t)
}

func TestSlice(t *testing.T) {
	mem := testutil.NewGuardedMemory(64)
	v := NewView(mem)
	require.NoError(t, v.WriteUint32(0, 10))
	require.NoError(t, v.WriteUint32(4, 20))
	require.NoError(t, v.WriteUint32(8, 30))

	got, err := Slice[uint32](v, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, []uint32{10, 20, 30}, got)

	empty, err := Slice[uint32](v, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSliceOverflow(t *testing.T) {
	mem := testutil.NewGuardedMemory(64)
	v := NewView(mem)

	// count * elemSize exceeds the 32-bit address space before any memory
	// is touched.
	_, err := Slice[uint64](v, 0, math.MaxUint32)
	var ovf *OverflowError
	require.ErrorAs(t, err, &ovf)
	assert.EqualValues(t, math.MaxUint32, ovf.Count)
	assert.EqualValues(t, 8, ovf.ElemSize)
}

func TestSliceOutOfBounds(t *testing.T) {
	mem := testutil.NewGuardedMemory(16)
	v := NewView(mem)

	_, err := Slice[uint64](v, 0, 3)
	var oob *OutOfBoundsError
	require.ErrorAs(t, err, &oob)
}
