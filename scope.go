package fleece

import "github.com/scigolib/fleece/internal/structures"

// Scope is the process-wide registry mapping a buffer's address range
// to the SharedKeys it was encoded with, so code holding only a raw
// pointer into a buffer (e.g. an interior Value) can recover the table
// needed to decode its dict keys.
type Scope struct {
	inner *structures.Scope
}

// GlobalScope returns the process-wide Scope singleton.
func GlobalScope() *Scope { return &Scope{inner: structures.Global()} }

// Remove drops the registration covering data's address range, if any.
func (s *Scope) Remove(data []byte) { s.inner.Remove(data) }

// Containing returns the registered buffer containing ptr, if any.
func (s *Scope) Containing(ptr *byte) ([]byte, bool) { return s.inner.Containing(ptr) }

// FindSharedKeys returns the SharedKeys registered for the buffer
// containing ptr, if any.
func (s *Scope) FindSharedKeys(ptr *byte) (*SharedKeys, bool) {
	sk, ok := s.inner.FindSharedKeys(ptr)
	if !ok || sk == nil {
		return nil, false
	}
	return &SharedKeys{inner: sk}, true
}
