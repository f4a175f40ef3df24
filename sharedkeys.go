package fleece

import "github.com/scigolib/fleece/internal/structures"

// SharedKeys is a bidirectional string<->uint16 table used to compress
// frequently repeated dict keys into 2-byte Shorts on the wire. Safe
// for concurrent Encode/Decode; EncodeAndInsert serializes writers.
type SharedKeys struct {
	inner *structures.SharedKeys
}

// NewSharedKeys returns an empty table.
func NewSharedKeys() *SharedKeys {
	return &SharedKeys{inner: structures.New()}
}

// Len returns the number of keys currently assigned an id.
func (s *SharedKeys) Len() int { return s.inner.Len() }

// Encode looks up key's id without inserting. ok is false if key hasn't
// been assigned one.
func (s *SharedKeys) Encode(key string) (uint16, bool) { return s.inner.Encode(key) }

// Decode reverses Encode.
func (s *SharedKeys) Decode(id uint16) (string, bool) { return s.inner.Decode(id) }

// EncodeAndInsert returns key's id, assigning a new one if the table
// has room and key is eligible (short enough, ASCII-only per the
// table's admission policy). ok is false on any admission failure; the
// caller should fall back to encoding key as a plain String.
func (s *SharedKeys) EncodeAndInsert(key string) (uint16, bool) {
	id, ok := s.inner.EncodeAndInsert(key)
	if ok {
		activeMetrics.ObserveSharedKeysSize(s.inner.Len())
	}
	return id, ok
}

// StateBytes serializes the table as a Fleece array of strings in
// assignment order, using a fresh Encoder.
func (s *SharedKeys) StateBytes() ([]byte, error) {
	e := NewEncoder()
	return s.inner.StateBytes(e.inner)
}

// FromStateBytes reconstructs a SharedKeys table from the array
// StateBytes produced, re-inserting keys in order so ids match.
func FromStateBytes(data []byte) (*SharedKeys, error) {
	inner, err := structures.FromStateBytes(data)
	if err != nil {
		return nil, err
	}
	return &SharedKeys{inner: inner}, nil
}
