package structures

import (
	"sort"
	"sync"
	"unsafe"
)

// scopeEntry records one registered buffer and the SharedKeys (if any)
// used to encode it.
type scopeEntry struct {
	start, end uintptr
	data       []byte
	sharedKeys *SharedKeys
}

// Scope is a process-wide, address-range-keyed registry letting an
// unparented byte pointer recover its owning buffer and any associated
// SharedKeys. The reference implementation prunes entries when the
// buffer's reference count drops to zero (via a weak map); this port has
// no weak-reference primitive for plain byte slices, so entries persist
// until Remove is called explicitly. Registering transient buffers that
// are never removed is a caller bug, documented here rather than papered
// over with a finalizer.
type Scope struct {
	mu      sync.RWMutex
	entries []*scopeEntry
}

var global = &Scope{}

// Global returns the process-wide Scope registry singleton.
func Global() *Scope { return global }

func addrRange(data []byte) (uintptr, uintptr) {
	if len(data) == 0 {
		return 0, 0
	}
	start := uintptr(unsafe.Pointer(&data[0]))
	return start, start + uintptr(len(data))
}

// Register associates data's address range with sharedKeys (which may be
// nil). Passing the same data to Remove later drops the registration.
func (s *Scope) Register(data []byte, sharedKeys *SharedKeys) {
	start, end := addrRange(data)
	if start == end {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := append(s.entries, &scopeEntry{start: start, end: end, data: data, sharedKeys: sharedKeys})
	sort.Slice(entries, func(i, j int) bool { return entries[i].start < entries[j].start })
	s.entries = entries
}

// Remove drops the registration for data's address range, if present.
func (s *Scope) Remove(data []byte) {
	start, _ := addrRange(data)
	if start == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.entries {
		if e.start == start {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
}

// containing finds the unique registered range holding addr, using
// binary search over the sorted start addresses followed by a bounds
// check — the ranges are disjoint by construction (Register always
// operates on a whole buffer).
func (s *Scope) containing(addr uintptr) *scopeEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.entries
	i := sort.Search(len(entries), func(i int) bool { return entries[i].start > addr })
	if i == 0 {
		return nil
	}
	e := entries[i-1]
	if addr >= e.start && addr < e.end {
		return e
	}
	return nil
}

// Containing returns the buffer registered as containing ptr's address,
// or ok=false if no scope claims it.
func (s *Scope) Containing(ptr *byte) ([]byte, bool) {
	addr := uintptr(unsafe.Pointer(ptr))
	e := s.containing(addr)
	if e == nil {
		return nil, false
	}
	return e.data, true
}

// FindSharedKeys returns the SharedKeys registered for the buffer
// containing ptr's address, or ok=false if none is registered there.
func (s *Scope) FindSharedKeys(ptr *byte) (*SharedKeys, bool) {
	addr := uintptr(unsafe.Pointer(ptr))
	e := s.containing(addr)
	if e == nil || e.sharedKeys == nil {
		return nil, false
	}
	return e.sharedKeys, true
}
