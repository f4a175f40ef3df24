// Package structures implements the SharedKeys table and the process-wide
// Scope registry: the two side channels consulted during decode and
// encode but not part of the core Value/Array/Dict view layer.
package structures

import (
	"sync"
	"unicode"

	"github.com/scigolib/fleece/internal/core"
	"github.com/scigolib/fleece/internal/utils"
)

// MaxSharedKeys is the largest number of entries a SharedKeys table may
// hold — 2048, so the largest assigned index (2047) fits in a Fleece
// Short's 12-bit signed payload.
const MaxSharedKeys = 2048

// MaxSharedKeyLength is the longest string SharedKeys will admit.
const MaxSharedKeyLength = 16

// SharedKeys is a bidirectional, grow-only table mapping short,
// identifier-like strings to u16 indices in insertion order. Safe for
// concurrent Encode/Decode readers; EncodeAndInsert takes an exclusive
// lock.
type SharedKeys struct {
	mu      sync.RWMutex
	forward map[string]uint16
	reverse []string
}

// New returns an empty SharedKeys table.
func New() *SharedKeys {
	return &SharedKeys{forward: make(map[string]uint16)}
}

// Len returns the number of entries currently assigned.
func (s *SharedKeys) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reverse)
}

// Encode is a read-only lookup: it returns the integer id assigned to
// key, if any.
func (s *SharedKeys) Encode(key string) (uint16, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.forward[key]
	return id, ok
}

// Decode is the reverse lookup: the string assigned to id, if any.
func (s *SharedKeys) Decode(id uint16) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if int(id) >= len(s.reverse) {
		return "", false
	}
	return s.reverse[id], true
}

// CanEncode reports whether key's characters are all admissible for
// SharedKeys: ASCII letters and digits, underscore, or hyphen.
func CanEncode(key string) bool {
	for _, c := range key {
		if c > unicode.MaxASCII || (!unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '_' && c != '-') {
			return false
		}
	}
	return true
}

// canAdd reports whether key could be inserted: within length and count
// limits and made only of admissible characters. Caller must hold at
// least a read lock to check length safely.
func (s *SharedKeys) canAdd(key string) bool {
	return len(s.reverse) < MaxSharedKeys && len(key) <= MaxSharedKeyLength && CanEncode(key)
}

// EncodeAndInsert returns key's existing id if already present, else
// inserts it and returns the newly assigned id. Returns ok=false if key
// is absent and cannot be admitted (too long, disallowed characters, or
// table full).
func (s *SharedKeys) EncodeAndInsert(key string) (uint16, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.forward[key]; ok {
		return id, true
	}
	if !s.canAdd(key) {
		return 0, false
	}
	id := uint16(len(s.reverse))
	s.reverse = append(s.reverse, key)
	s.forward[key] = id
	return id, true
}

// StateBytes encodes the table as a Fleece array of strings in
// assignment order, suitable for persisting and restoring via
// FromStateBytes. Grounded in the reference's
// SharedKeys::{get_state_bytes, write_state}.
func (s *SharedKeys) StateBytes(enc Encoder) ([]byte, error) {
	s.mu.RLock()
	keys := append([]string(nil), s.reverse...)
	s.mu.RUnlock()

	if err := enc.BeginArray(len(keys)); err != nil {
		return nil, err
	}
	for _, k := range keys {
		if err := enc.WriteString(k); err != nil {
			return nil, err
		}
	}
	if err := enc.EndArray(); err != nil {
		return nil, err
	}
	return enc.Finish()
}

// Encoder is the minimal capability StateBytes needs from
// internal/writer.Encoder, kept local to avoid a structures->writer
// import (writer already depends on structures for dict-key encoding).
type Encoder interface {
	BeginArray(hint int) error
	WriteString(s string) error
	EndArray() error
	Finish() ([]byte, error)
}

// FromStateBytes decodes data (as produced by StateBytes) back into a
// SharedKeys table, re-inserting entries in order so indices line up.
func FromStateBytes(data []byte) (*SharedKeys, error) {
	root, err := core.FromBytes(data)
	if err != nil {
		return nil, utils.WrapError("structures.FromStateBytes", err)
	}
	if root.Kind() != core.KindArray {
		return nil, utils.WrapError("structures.FromStateBytes", core.ErrValueOutOfBounds)
	}
	sk := New()
	it := root.AsArray().Iter()
	for {
		v, ok := it.Next()
		if !ok {
			break
		}
		if _, ok := sk.EncodeAndInsert(v.ToStr()); !ok {
			return nil, utils.WrapError("structures.FromStateBytes", core.ErrValueOutOfBounds)
		}
	}
	return sk, nil
}
