// Package guestmem provides bounds-checked access to a guest module's linear
// memory. All reinterpretation of guest bytes into native values goes through
// a View; no other package performs raw offset arithmetic on guest memory.
//
// Guest memory is untrusted input on every access: each operation re-validates
// its byte range against the current buffer length, and no access is ever
// derived from a previously validated pointer.
package guestmem

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"
)

// Memory is the subset of the runtime's linear-memory surface a View needs.
// wazero's api.Memory satisfies it.
type Memory interface {
	// Size returns the current size of the buffer in bytes.
	Size() uint32

	// Read returns the bytes in [offset, offset+byteCount), or false if the
	// range is out of bounds.
	Read(offset, byteCount uint32) ([]byte, bool)

	// Write copies v into the buffer at offset, or returns false if the
	// range is out of bounds.
	Write(offset uint32, v []byte) bool
}

// Pod is implemented by plain-old-data values: copyable, with a fixed byte
// layout independent of the guest, safe to share across goroutines. Only Pod
// values may be read from or written to guest memory as structs.
type Pod interface {
	// PodSize returns the encoded size in bytes. It must be constant for a
	// given type.
	PodSize() uint32

	// EncodePod writes the value into b, which is exactly PodSize() bytes.
	EncodePod(b []byte)

	// DecodePod reads the value from b, which is exactly PodSize() bytes.
	DecodePod(b []byte)
}

// Scalar is the set of fixed-width types readable as slices from guest
// memory.
type Scalar interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// OutOfBoundsError reports an access outside the guest's current buffer.
type OutOfBoundsError struct {
	Ptr  uint32
	Size uint64
	Len  uint32
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("guest memory access [%d, %d) exceeds buffer length %d", e.Ptr, uint64(e.Ptr)+e.Size, e.Len)
}

// OverflowError reports a slice length computation that overflowed.
type OverflowError struct {
	Count    uint32
	ElemSize uint32
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("guest slice length overflows: %d elements of %d bytes", e.Count, e.ElemSize)
}

// InvalidUTF8Error reports a string argument that is not valid UTF-8.
type InvalidUTF8Error struct {
	// Offset is the byte offset of the first invalid sequence within the
	// argument, not within guest memory.
	Offset int
}

func (e *InvalidUTF8Error) Error() string {
	return fmt.Sprintf("guest string is not valid utf-8 at byte %d", e.Offset)
}

// View is a transient, non-owning accessor over the guest's linear memory.
// A View is valid only for the duration of the host call that created it:
// the guest may grow or relocate its memory between calls, so views must
// never be cached, stored, or shared across calls.
type View struct {
	mem Memory
}

// NewView wraps the guest's current memory. Call once per host call.
func NewView(mem Memory) View {
	return View{mem: mem}
}

// span validates [ptr, ptr+size) against the current buffer length and
// returns the backing bytes.
func (v View) span(ptr uint32, size uint64) ([]byte, error) {
	length := v.mem.Size()
	if size > math.MaxUint32 || uint64(ptr)+size > uint64(length) {
		return nil, &OutOfBoundsError{Ptr: ptr, Size: size, Len: length}
	}
	b, ok := v.mem.Read(ptr, uint32(size))
	if !ok {
		return nil, &OutOfBoundsError{Ptr: ptr, Size: size, Len: length}
	}
	return b, nil
}

// Bytes reads length bytes starting at ptr. The returned slice is a copy and
// remains valid after the call completes.
func (v View) Bytes(ptr, length uint32) ([]byte, error) {
	b, err := v.span(ptr, uint64(length))
	if err != nil {
		return nil, err
	}
	out := make([]byte, length)
	copy(out, b)
	return out, nil
}

// String reads length bytes at ptr and validates them as UTF-8 text.
func (v View) String(ptr, length uint32) (string, error) {
	b, err := v.span(ptr, uint64(length))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", &InvalidUTF8Error{Offset: firstInvalidUTF8(b)}
	}
	return string(b), nil
}

// ReadUint32 reads a little-endian u32 scalar at ptr.
func (v View) ReadUint32(ptr uint32) (uint32, error) {
	b, err := v.span(ptr, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadUint64 reads a little-endian u64 scalar at ptr.
func (v View) ReadUint64(ptr uint32) (uint64, error) {
	b, err := v.span(ptr, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// WriteUint32 overwrites the u32 scalar at ptr in place.
func (v View) WriteUint32(ptr uint32, val uint32) error {
	if _, err := v.span(ptr, 4); err != nil {
		return err
	}
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], val)
	if !v.mem.Write(ptr, b[:]) {
		return &OutOfBoundsError{Ptr: ptr, Size: 4, Len: v.mem.Size()}
	}
	return nil
}

// WriteUint64 overwrites the u64 scalar at ptr in place.
func (v View) WriteUint64(ptr uint32, val uint64) error {
	if _, err := v.span(ptr, 8); err != nil {
		return err
	}
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], val)
	if !v.mem.Write(ptr, b[:]) {
		return &OutOfBoundsError{Ptr: ptr, Size: 8, Len: v.mem.Size()}
	}
	return nil
}

// ReadPod decodes the fixed-layout value at ptr into p.
func (v View) ReadPod(ptr uint32, p Pod) error {
	b, err := v.span(ptr, uint64(p.PodSize()))
	if err != nil {
		return err
	}
	p.DecodePod(b)
	return nil
}

// WritePod encodes p and overwrites guest memory at ptr.
func (v View) WritePod(ptr uint32, p Pod) error {
	size := p.PodSize()
	if _, err := v.span(ptr, uint64(size)); err != nil {
		return err
	}
	buf := make([]byte, size)
	p.EncodePod(buf)
	if !v.mem.Write(ptr, buf) {
		return &OutOfBoundsError{Ptr: ptr, Size: uint64(size), Len: v.mem.Size()}
	}
	return nil
}

// Slice reads count little-endian elements of a fixed-width scalar type
// starting at ptr. The required byte length is computed with overflow-checked
// arithmetic before any memory is touched.
func Slice[T Scalar](v View, ptr, count uint32) ([]T, error) {
	var zero T
	elemSize := uint32(binary.Size(zero))
	total := uint64(count) * uint64(elemSize)
	if total > math.MaxUint32 {
		return nil, &OverflowError{Count: count, ElemSize: elemSize}
	}
	raw, err := v.span(ptr, total)
	if err != nil {
		return nil, err
	}
	out := make([]T, count)
	if count > 0 {
		if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, out); err != nil {
			return nil, fmt.Errorf("decode guest slice: %w", err)
		}
	}
	return out, nil
}

// firstInvalidUTF8 returns the byte offset of the first invalid sequence.
func firstInvalidUTF8(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}
