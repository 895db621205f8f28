package protocol

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"strconv"
	"strings"
)

// Header is the fixed 24-byte frame header, packed network-order. The
// session_id field is numeric and reserved; the actual session token
// travels in the payload, so the two are independent by design.
type Header struct {
	Magic         uint32
	Version       uint16
	Type          MessageType
	PayloadLength uint32
	SequenceID    uint32
	SessionID     uint32
	Checksum      uint32
}

// Message is one framed protocol message: a header plus an ordered set of
// string key/value pairs. Field order in the payload is preserved so that
// Serialize is deterministic, which the checksum and round-trip encoding
// both depend on.
type Message struct {
	Header Header

	keys   []string
	values map[string]string
}

// New creates an empty message of the given type with default header
// values (version 1, zero sequence/session ids).
func New(t MessageType) *Message {
	return &Message{
		Header: Header{Magic: Magic, Version: Version, Type: t},
		values: make(map[string]string),
	}
}

func (m *Message) Type() MessageType { return m.Header.Type }

func (m *Message) SetSequenceID(id uint32) { m.Header.SequenceID = id }
func (m *Message) SequenceID() uint32      { return m.Header.SequenceID }

func (m *Message) SetSessionID(id uint32) { m.Header.SessionID = id }
func (m *Message) SessionID() uint32      { return m.Header.SessionID }

// --- typed setters -----------------------------------------------------

func (m *Message) ensure() {
	if m.values == nil {
		m.values = make(map[string]string)
	}
}

func (m *Message) SetString(key, value string) {
	m.ensure()
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

func (m *Message) SetInt(key string, value int64) {
	m.SetString(key, strconv.FormatInt(value, 10))
}

// SetDouble encodes a double using C++'s std::to_string default of six
// fractional digits, so numeric payload fields are stable across languages.
func (m *Message) SetDouble(key string, value float64) {
	m.SetString(key, fmt.Sprintf("%.6f", value))
}

func (m *Message) SetBool(key string, value bool) {
	if value {
		m.SetString(key, "true")
	} else {
		m.SetString(key, "false")
	}
}

func (m *Message) SetBinary(key string, data []byte) {
	parts := make([]string, len(data))
	for i, b := range data {
		parts[i] = strconv.Itoa(int(b))
	}
	m.SetString(key, strings.Join(parts, ","))
}

// --- typed getters -------------------------------------------------------
// A missing key decodes as empty/zero/false rather than an error.

func (m *Message) GetString(key string) string {
	if m.values == nil {
		return ""
	}
	return m.values[key]
}

func (m *Message) GetInt(key string) int64 {
	v, err := strconv.ParseInt(m.GetString(key), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func (m *Message) GetDouble(key string) float64 {
	v, err := strconv.ParseFloat(m.GetString(key), 64)
	if err != nil {
		return 0
	}
	return v
}

func (m *Message) GetBool(key string) bool {
	return m.GetString(key) == "true"
}

func (m *Message) GetBinary(key string) []byte {
	s := m.GetString(key)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]byte, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > 255 {
			return nil
		}
		out = append(out, byte(n))
	}
	return out
}

func (m *Message) HasKey(key string) bool {
	if m.values == nil {
		return false
	}
	_, ok := m.values[key]
	return ok
}

// Keys returns the payload keys in insertion order.
func (m *Message) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// --- serialization ---------------------------------------------------

// encodePayload lays out (key_len, key, value_len, value) tuples in
// insertion order with no terminator.
func (m *Message) encodePayload() []byte {
	var buf []byte
	var lenBuf [4]byte
	for _, k := range m.keys {
		v := m.values[k]
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(k)))
		buf = append(buf, lenBuf[:]...)
		buf = append(buf, k...)
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(v)))
		buf = append(buf, lenBuf[:]...)
		buf = append(buf, v...)
	}
	return buf
}

func decodePayload(data []byte) ([]string, map[string]string, error) {
	keys := make([]string, 0)
	values := make(map[string]string)
	off := 0
	for off < len(data) {
		if off+4 > len(data) {
			return nil, nil, fmt.Errorf("protocol: truncated key length at offset %d", off)
		}
		klen := int(binary.BigEndian.Uint32(data[off : off+4]))
		off += 4
		if off+klen > len(data) {
			return nil, nil, fmt.Errorf("protocol: truncated key at offset %d", off)
		}
		key := string(data[off : off+klen])
		off += klen

		if off+4 > len(data) {
			return nil, nil, fmt.Errorf("protocol: truncated value length at offset %d", off)
		}
		vlen := int(binary.BigEndian.Uint32(data[off : off+4]))
		off += 4
		if off+vlen > len(data) {
			return nil, nil, fmt.Errorf("protocol: truncated value at offset %d", off)
		}
		value := string(data[off : off+vlen])
		off += vlen

		if _, exists := values[key]; !exists {
			keys = append(keys, key)
		}
		values[key] = value
	}
	return keys, values, nil
}

// Serialize encodes header+payload into bytes, computing the checksum over
// the full frame with the checksum field zeroed.
func (m *Message) Serialize() []byte {
	payload := m.encodePayload()
	m.Header.PayloadLength = uint32(len(payload))

	buf := make([]byte, HeaderSize+len(payload))
	writeHeader(buf, m.Header, 0)
	copy(buf[HeaderSize:], payload)

	crc := crc32.ChecksumIEEE(buf)
	m.Header.Checksum = crc
	binary.BigEndian.PutUint32(buf[20:24], crc)

	return buf
}

// Deserialize parses a complete header+payload buffer into m. It does not
// itself reject a bad checksum — callers check IsValid(). A payload that
// cannot be parsed and whose bytes also fail the checksum is returned as
// the header with an empty payload, so IsValid reports it as invalid.
func Deserialize(data []byte) (*Message, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("protocol: buffer shorter than header (%d bytes)", len(data))
	}
	h := readHeader(data, 0)
	payload := data[HeaderSize:]
	if uint32(len(payload)) != h.PayloadLength {
		return nil, fmt.Errorf("protocol: payload_length mismatch: header says %d, got %d", h.PayloadLength, len(payload))
	}
	keys, values, err := decodePayload(payload)
	if err != nil {
		zeroed := append([]byte(nil), data...)
		binary.BigEndian.PutUint32(zeroed[20:24], 0)
		if crc32.ChecksumIEEE(zeroed) != h.Checksum {
			return &Message{Header: h, values: make(map[string]string)}, nil
		}
		return nil, err
	}
	return &Message{Header: h, keys: keys, values: values}, nil
}

func writeHeader(buf []byte, h Header, off int) {
	binary.BigEndian.PutUint32(buf[off:], h.Magic)
	binary.BigEndian.PutUint16(buf[off+4:], h.Version)
	binary.BigEndian.PutUint16(buf[off+6:], uint16(h.Type))
	binary.BigEndian.PutUint32(buf[off+8:], h.PayloadLength)
	binary.BigEndian.PutUint32(buf[off+12:], h.SequenceID)
	binary.BigEndian.PutUint32(buf[off+16:], h.SessionID)
	binary.BigEndian.PutUint32(buf[off+20:], h.Checksum)
}

func readHeader(buf []byte, off int) Header {
	return Header{
		Magic:         binary.BigEndian.Uint32(buf[off:]),
		Version:       binary.BigEndian.Uint16(buf[off+4:]),
		Type:          MessageType(binary.BigEndian.Uint16(buf[off+6:])),
		PayloadLength: binary.BigEndian.Uint32(buf[off+8:]),
		SequenceID:    binary.BigEndian.Uint32(buf[off+12:]),
		SessionID:     binary.BigEndian.Uint32(buf[off+16:]),
		Checksum:      binary.BigEndian.Uint32(buf[off+20:]),
	}
}

// VerifyChecksum recomputes the CRC-32 over the serialized frame with the
// checksum field zeroed and compares it to Header.Checksum.
func (m *Message) VerifyChecksum() bool {
	payload := m.encodePayload()
	h := m.Header
	h.PayloadLength = uint32(len(payload))
	want := h.Checksum
	h.Checksum = 0

	buf := make([]byte, HeaderSize+len(payload))
	writeHeader(buf, h, 0)
	copy(buf[HeaderSize:], payload)

	return crc32.ChecksumIEEE(buf) == want
}

// IsValid holds iff magic, version, and checksum all agree.
func (m *Message) IsValid() bool {
	return m.Header.Magic == Magic && m.Header.Version == Version && m.VerifyChecksum()
}
