package host

import (
	"fmt"
	"os"
)

// wasmMagic is the header every binary guest module starts with.
var wasmMagic = []byte{0x00, 0x61, 0x73, 0x6d}

// LoadGuestFile reads a compiled guest module from disk and checks it looks
// like a WASM binary before handing it to the runtime.
func LoadGuestFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read guest module: %w", err)
	}
	if len(data) < len(wasmMagic) || string(data[:4]) != string(wasmMagic) {
		return nil, fmt.Errorf("%s is not a WASM binary", path)
	}
	return data, nil
}
