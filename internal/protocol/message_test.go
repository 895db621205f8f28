package protocol

import "testing"

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	m := New(ReserveSeat)
	m.SetSequenceID(42)
	m.SetString("urn", "1234567890123")
	m.SetInt("vehicle_type", 1)
	m.SetDouble("price", 1.5)
	m.SetBool("retry", true)
	m.SetBinary("blob", []byte{1, 2, 255})

	encoded := m.Serialize()

	decoded, err := Deserialize(encoded)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	if decoded.Type() != m.Type() {
		t.Errorf("type = %v, want %v", decoded.Type(), m.Type())
	}
	if decoded.SequenceID() != 42 {
		t.Errorf("sequence id = %d, want 42", decoded.SequenceID())
	}
	if decoded.GetString("urn") != "1234567890123" {
		t.Errorf("urn = %q", decoded.GetString("urn"))
	}
	if decoded.GetInt("vehicle_type") != 1 {
		t.Errorf("vehicle_type = %d", decoded.GetInt("vehicle_type"))
	}
	if decoded.GetDouble("price") != 1.5 {
		t.Errorf("price = %v", decoded.GetDouble("price"))
	}
	if !decoded.GetBool("retry") {
		t.Errorf("retry = false, want true")
	}
	got := decoded.GetBinary("blob")
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 255 {
		t.Errorf("blob = %v", got)
	}
	if !decoded.IsValid() {
		t.Errorf("decoded frame should be valid")
	}
	for _, k := range m.Keys() {
		if decoded.GetString(k) != m.GetString(k) {
			t.Errorf("key %q: got %q want %q", k, decoded.GetString(k), m.GetString(k))
		}
	}
}

func TestMissingKeyDecodesAsZeroValue(t *testing.T) {
	t.Parallel()

	m := New(Heartbeat)
	if m.GetString("missing") != "" {
		t.Errorf("expected empty string for missing key")
	}
	if m.GetInt("missing") != 0 {
		t.Errorf("expected 0 for missing key")
	}
	if m.GetBool("missing") {
		t.Errorf("expected false for missing key")
	}
	if m.HasKey("missing") {
		t.Errorf("HasKey should be false for missing key")
	}
}

func TestCorruptedByteFailsChecksum(t *testing.T) {
	t.Parallel()

	m := NewErrorResponse("bad frame", 400)
	encoded := m.Serialize()

	// Corrupt a byte after the header — anywhere in the payload.
	corrupt := append([]byte(nil), encoded...)
	corrupt[HeaderSize] ^= 0xFF

	decoded, err := Deserialize(corrupt)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if decoded.VerifyChecksum() {
		t.Errorf("corrupted frame should fail checksum verification")
	}
	if decoded.IsValid() {
		t.Errorf("corrupted frame should not be valid")
	}
}

func TestIsValidRejectsBadMagicAndVersion(t *testing.T) {
	t.Parallel()

	m := New(Heartbeat)
	encoded := m.Serialize()

	badMagic, err := Deserialize(encoded)
	if err != nil {
		t.Fatal(err)
	}
	badMagic.Header.Magic = 0
	if badMagic.IsValid() {
		t.Errorf("bad magic should be invalid")
	}

	badVersion, err := Deserialize(encoded)
	if err != nil {
		t.Fatal(err)
	}
	badVersion.Header.Version = 2
	if badVersion.IsValid() {
		t.Errorf("bad version should be invalid")
	}
}
