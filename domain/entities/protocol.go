package entities

import "encoding/binary"

// Transport selects how workers talk to the orchestrator.
const (
	TransportGRPC uint32 = 0
	TransportHTTP uint32 = 1
)

// ProtocolConfig is the fixed 16-byte protocol block the guest places in
// linear memory for start_training. Layout: version u32, transport u32,
// compression_level u32, heartbeat_seconds u32, all little-endian.
type ProtocolConfig struct {
	Version          uint32 `json:"version"`
	Transport        uint32 `json:"transport"`
	CompressionLevel uint32 `json:"compression_level"`
	HeartbeatSeconds uint32 `json:"heartbeat_seconds"`
}

// PodSize implements guestmem.Pod.
func (p *ProtocolConfig) PodSize() uint32 { return 16 }

// EncodePod implements guestmem.Pod.
func (p *ProtocolConfig) EncodePod(b []byte) {
	binary.LittleEndian.PutUint32(b[0:4], p.Version)
	binary.LittleEndian.PutUint32(b[4:8], p.Transport)
	binary.LittleEndian.PutUint32(b[8:12], p.CompressionLevel)
	binary.LittleEndian.PutUint32(b[12:16], p.HeartbeatSeconds)
}

// DecodePod implements guestmem.Pod.
func (p *ProtocolConfig) DecodePod(b []byte) {
	p.Version = binary.LittleEndian.Uint32(b[0:4])
	p.Transport = binary.LittleEndian.Uint32(b[4:8])
	p.CompressionLevel = binary.LittleEndian.Uint32(b[8:12])
	p.HeartbeatSeconds = binary.LittleEndian.Uint32(b[12:16])
}
