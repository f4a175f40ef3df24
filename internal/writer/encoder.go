package writer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/scigolib/fleece/internal/core"
	"github.com/scigolib/fleece/internal/structures"
)

// Encode-path error taxonomy, mirroring the decode-path sentinels in
// internal/core/errors.go.
var (
	ErrCollectionNotOpen    = errors.New("fleece: no array or dict is open")
	ErrArrayNotOpen         = errors.New("fleece: the open collection is not an array")
	ErrDictNotOpen          = errors.New("fleece: the open collection is not a dict")
	ErrDictWaitingForKey    = errors.New("fleece: dict expects WriteKey next, not a value")
	ErrDictWaitingForValue  = errors.New("fleece: dict expects a value next, not a key")
	ErrSharedKeysInvalidKey = errors.New("fleece: key rejected by the attached shared keys table")
	ErrPointerTooLarge      = errors.New("fleece: value lies too far from its pointer to encode, even wide")
	ErrIO                   = errors.New("fleece: encoder already finished")
)

// maxNarrowPointerOffset is the largest back-offset a 2-byte pointer can
// carry before a container must re-emit its slots as 4 bytes wide. The
// root slot is always narrow (never promotes), so documents whose root
// lies further than this from the tail cannot be encoded — a real
// ceiling of the wire format, not an encoder bug.
const maxNarrowPointerOffset = 0x3FFE

// maxWidePointerOffset bounds the 4-byte pointer's field width.
const maxWidePointerOffset = 0x7FFFFFFE

// slot is one pending container element: either an inline encoding (no
// more than 2 bytes — anything larger is always written out-of-line,
// regardless of the container's eventual width, so a scalar's
// inlineability never depends on a decision made later) or the offset
// of a value already appended to the buffer.
type slot struct {
	inline []byte
	out    bool
	outAt  uint64
}

type dictPair struct {
	sortShort bool
	sortID    uint16
	sortStr   string
	keySlot   slot
	valSlot   slot
}

type frame struct {
	isDict     bool
	arrSlots   []slot
	pairs      []dictPair
	pendingKey *dictPair
}

// Encoder is a postorder Fleece builder: values are appended to a
// growing buffer as they're written, containers close by emitting a
// header and slot array referencing their (already-written) children,
// and the whole document ends with a 2-byte root slot.
type Encoder struct {
	buf        []byte
	end        uint64
	frames     []*frame
	sharedKeys *structures.SharedKeys
	interned   map[string]uint64
	root       *slot
	finished   bool
}

// NewEncoder returns an empty Encoder ready for BeginArray/BeginDict or
// a single top-level WriteValue.
func NewEncoder() *Encoder {
	return &Encoder{interned: make(map[string]uint64)}
}

// SetSharedKeys attaches a table that WriteKey consults before falling
// back to plain string keys.
func (e *Encoder) SetSharedKeys(sk *structures.SharedKeys) {
	e.sharedKeys = sk
}

// emit appends encoded (padding it to an even length, since every
// Fleece value begins at an even address) to the buffer and returns the
// offset the value begins at. String and Data encodings are deduplicated
// against identical ones already written; other values (containers,
// whose slots hold position-relative pointers) are always appended.
func (e *Encoder) emit(encoded []byte) uint64 {
	kind := core.KindFromByte(encoded[0])
	intern := kind == core.KindString || kind == core.KindData
	if off, ok := e.interned[string(encoded)]; ok && intern {
		return off
	}
	off := e.end
	e.buf = append(e.buf, encoded...)
	e.end += uint64(len(encoded))
	if e.end%2 != 0 {
		e.buf = append(e.buf, 0x00)
		e.end++
	}
	if intern {
		e.interned[string(encoded)] = off
	}
	return off
}

func (e *Encoder) slotFromBytes(encoded []byte) slot {
	if len(encoded) <= 2 {
		return slot{inline: encoded}
	}
	return slot{out: true, outAt: e.emit(encoded)}
}

func (e *Encoder) makeSlot(v Encodable) slot {
	return e.slotFromBytes(appendFleeceBytes(v))
}

func (e *Encoder) currentFrame() (*frame, error) {
	if len(e.frames) == 0 {
		return nil, ErrCollectionNotOpen
	}
	return e.frames[len(e.frames)-1], nil
}

// checkValueContext reports whether a value (scalar or container) may
// be written right now: always true at the top level or inside an open
// array, but only once a dict has a pending key waiting for its value.
func (e *Encoder) checkValueContext() error {
	if len(e.frames) == 0 {
		return nil
	}
	f := e.frames[len(e.frames)-1]
	if f.isDict && f.pendingKey == nil {
		return ErrDictWaitingForKey
	}
	return nil
}

func (e *Encoder) pushSlot(s slot) error {
	if len(e.frames) == 0 {
		if e.root != nil {
			return ErrCollectionNotOpen
		}
		e.root = &s
		return nil
	}
	f := e.frames[len(e.frames)-1]
	if f.isDict {
		f.pendingKey.valSlot = s
		f.pairs = append(f.pairs, *f.pendingKey)
		f.pendingKey = nil
		return nil
	}
	f.arrSlots = append(f.arrSlots, s)
	return nil
}

// BeginArray opens a new array collecting subsequent writes as
// elements, up to the matching EndArray.
func (e *Encoder) BeginArray(sizeHint int) error {
	if e.finished {
		return ErrIO
	}
	if err := e.checkValueContext(); err != nil {
		return err
	}
	e.frames = append(e.frames, &frame{arrSlots: make([]slot, 0, sizeHint)})
	return nil
}

// BeginDict opens a new dict; each element must be written as a
// WriteKey followed by exactly one value (scalar or container).
func (e *Encoder) BeginDict(sizeHint int) error {
	if e.finished {
		return ErrIO
	}
	if err := e.checkValueContext(); err != nil {
		return err
	}
	e.frames = append(e.frames, &frame{isDict: true, pairs: make([]dictPair, 0, sizeHint)})
	return nil
}

// WriteKey records the key for the next dict value, preferring the
// attached SharedKeys table and falling back to a plain string.
func (e *Encoder) WriteKey(key string) error {
	if e.finished {
		return ErrIO
	}
	f, err := e.currentFrame()
	if err != nil {
		return err
	}
	if !f.isDict {
		return ErrDictNotOpen
	}
	if f.pendingKey != nil {
		return ErrDictWaitingForValue
	}
	if !utf8.ValidString(key) {
		return ErrSharedKeysInvalidKey
	}

	pair := dictPair{sortStr: key}
	if e.sharedKeys != nil {
		if id, ok := e.sharedKeys.EncodeAndInsert(key); ok {
			pair.sortShort = true
			pair.sortID = id
			pair.keySlot = e.makeSlot(fleeceUint(id))
		}
	}
	if !pair.sortShort {
		pair.keySlot = e.makeSlot(fleeceString(key))
	}
	f.pendingKey = &pair
	return nil
}

// WriteValue writes a scalar Go value (nil, bool, any int/uint/float
// width, string, []byte, or an Encodable) as the next array element or
// dict value.
func (e *Encoder) WriteValue(v any) error {
	if e.finished {
		return ErrIO
	}
	if err := e.checkValueContext(); err != nil {
		return err
	}
	enc, err := toEncodable(v)
	if err != nil {
		return err
	}
	return e.pushSlot(e.makeSlot(enc))
}

// WriteString is WriteValue specialized to strings — the minimal
// capability structures.SharedKeys.StateBytes needs from an Encoder.
func (e *Encoder) WriteString(s string) error {
	return e.WriteValue(s)
}

func containerHeaderBytes(tag core.Tag, wide bool, count int) []byte {
	field := uint16(tag) << 8
	if wide {
		field |= 0x0800
	}
	if count >= 0x7FF {
		field |= 0x7FF
		buf := make([]byte, 2)
		binary.BigEndian.PutUint16(buf, field)
		var vbuf [10]byte
		n := writeVarintLocal(vbuf[:], uint64(count))
		return append(buf, vbuf[:n]...)
	}
	field |= uint16(count)
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, field)
	return buf
}

// writeVarintLocal avoids importing internal/utils's reader-oriented
// varint helpers for this one write call; LEB128 encoding is identical
// to utils.WriteVarint.
func writeVarintLocal(out []byte, value uint64) int {
	n := 0
	for value >= 0x80 {
		out[n] = byte(value&0x7F) | 0x80
		value >>= 7
		n++
	}
	out[n] = byte(value)
	return n + 1
}

func writePointerInto(buf []byte, offset uint64, wide bool) {
	raw := offset >> 1
	if wide {
		binary.BigEndian.PutUint32(buf, uint32(raw)|0x80000000)
		return
	}
	binary.BigEndian.PutUint16(buf, uint16(raw)|0x8000)
}

// encodeContainer builds the full header+slots encoding for an array
// (tag=TagArray) or dict (tag=TagDict, slots already interleaved
// key,value in sorted-pair order). count is the header's element count
// field: the slot count for an array, the pair count for a dict.
func encodeContainer(startOffset uint64, tag core.Tag, slots []slot, count int) ([]byte, error) {
	wide := false
	for attempt := 0; attempt < 2; attempt++ {
		header := containerHeaderBytes(tag, wide, count)
		width := 2
		if wide {
			width = 4
		}
		base := startOffset + uint64(len(header))
		needsWide := false
		for i, s := range slots {
			if !s.out {
				continue
			}
			slotAddr := base + uint64(i*width)
			if slotAddr <= s.outAt {
				return nil, fmt.Errorf("fleece: internal error: child at %d not before slot %d", s.outAt, slotAddr)
			}
			offset := slotAddr - s.outAt
			limit := uint64(maxNarrowPointerOffset)
			if wide {
				limit = maxWidePointerOffset
			}
			if offset > limit {
				if wide {
					return nil, ErrPointerTooLarge
				}
				needsWide = true
				break
			}
		}
		if needsWide {
			wide = true
			continue
		}

		out := make([]byte, 0, len(header)+width*len(slots))
		out = append(out, header...)
		for i, s := range slots {
			slotAddr := base + uint64(i*width)
			slotBuf := make([]byte, width)
			if s.out {
				writePointerInto(slotBuf, slotAddr-s.outAt, wide)
			} else {
				copy(slotBuf, s.inline)
			}
			out = append(out, slotBuf...)
		}
		return out, nil
	}
	return nil, ErrPointerTooLarge
}

// EndArray closes the innermost array, emitting its header and slots
// and pushing the result (inline if the whole array is empty, a
// pointer otherwise) into the enclosing context.
func (e *Encoder) EndArray() error {
	if e.finished {
		return ErrIO
	}
	f, err := e.currentFrame()
	if err != nil {
		return err
	}
	if f.isDict {
		return ErrArrayNotOpen
	}
	e.frames = e.frames[:len(e.frames)-1]
	encoded, err := encodeContainer(e.end, core.TagArray, f.arrSlots, len(f.arrSlots))
	if err != nil {
		return err
	}
	return e.pushSlot(e.slotFromBytes(encoded))
}

func dictPairLess(a, b dictPair) bool {
	switch {
	case a.sortShort && b.sortShort:
		return a.sortID < b.sortID
	case a.sortShort != b.sortShort:
		return a.sortShort
	default:
		return a.sortStr < b.sortStr
	}
}

// EndDict closes the innermost dict, sorting its pairs into the order
// Dict.Get's binary search requires (Shorts before Strings, each
// ordered within its kind) before emitting.
func (e *Encoder) EndDict() error {
	if e.finished {
		return ErrIO
	}
	f, err := e.currentFrame()
	if err != nil {
		return err
	}
	if !f.isDict {
		return ErrDictNotOpen
	}
	if f.pendingKey != nil {
		return ErrDictWaitingForValue
	}
	e.frames = e.frames[:len(e.frames)-1]

	sort.Slice(f.pairs, func(i, j int) bool { return dictPairLess(f.pairs[i], f.pairs[j]) })
	slots := make([]slot, 0, len(f.pairs)*2)
	for _, p := range f.pairs {
		slots = append(slots, p.keySlot, p.valSlot)
	}
	encoded, err := encodeContainer(e.end, core.TagDict, slots, len(f.pairs))
	if err != nil {
		return err
	}
	return e.pushSlot(e.slotFromBytes(encoded))
}

// Finish emits the trailing 2-byte root slot and returns the completed
// buffer. The encoder must not be reused afterward.
func (e *Encoder) Finish() ([]byte, error) {
	if e.finished {
		return nil, ErrIO
	}
	if len(e.frames) != 0 {
		return nil, ErrCollectionNotOpen
	}
	if e.root == nil {
		return nil, ErrCollectionNotOpen
	}
	e.finished = true

	root := *e.root
	tail := make([]byte, 2)
	if !root.out {
		copy(tail, root.inline)
		e.buf = append(e.buf, tail...)
		return e.buf, nil
	}
	rootPos := e.end
	if rootPos <= root.outAt || rootPos-root.outAt > maxNarrowPointerOffset {
		return nil, ErrPointerTooLarge
	}
	writePointerInto(tail, rootPos-root.outAt, false)
	e.buf = append(e.buf, tail...)
	return e.buf, nil
}

// FinishScoped finishes the buffer and registers it (and any attached
// SharedKeys) in the process-wide Scope registry.
func (e *Encoder) FinishScoped() ([]byte, error) {
	buf, err := e.Finish()
	if err != nil {
		return nil, err
	}
	structures.Global().Register(buf, e.sharedKeys)
	return buf, nil
}
