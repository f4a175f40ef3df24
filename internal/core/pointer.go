package core

import (
	"encoding/binary"
)

// RawPointer is a RawValue known to have KindPointer.
type RawPointer struct {
	RawValue
}

// getOffset reads a pointer's back-offset. The top two bits of the
// 2-byte (narrow) or 4-byte (wide) field are the tag bits and are
// masked off; the remaining bits are left-shifted by one, since offsets
// are halved on the wire (every value starts at an even address).
func (p RawPointer) getOffset(wide bool) int {
	if wide {
		v := binary.BigEndian.Uint32(p.data[p.pos : p.pos+4])
		return int((v &^ 0xC0000000) << 1)
	}
	v := binary.BigEndian.Uint16(p.data[p.pos : p.pos+2])
	return int((v &^ 0xC000) << 1)
}

// Deref resolves this pointer to the RawValue it targets, recursively
// chasing pointer-to-pointer chains. Every hop after the first is
// always wide, since only the initial array/dict slot width is known to
// the caller. Returns an error for malformed or external pointers, and
// ErrPointerTargetOutOfBounds if the target lies before dataStart.
func (p RawPointer) Deref(wide bool, dataStart int) (RawValue, error) {
	width := 2
	if wide {
		width = 4
	}
	if p.available() < width {
		return RawValue{}, ErrPointerTooSmall
	}

	offset := p.getOffset(wide)
	if offset == 0 {
		return RawValue{}, ErrPointerOffsetZero
	}

	targetPos := p.pos - offset

	if p.byteAt(0)&0x40 != 0 {
		return RawValue{}, ErrPointerExternalUnsupported
	}
	if targetPos < dataStart {
		return RawValue{}, ErrPointerTargetOutOfBounds
	}

	target := NewRawValue(p.data, targetPos)
	if target.Kind() == KindPointer {
		return target.AsPointer().Deref(true, dataStart)
	}
	return target, nil
}

// DerefUnchecked resolves this pointer without any validation. Only
// safe to call on data that has already passed Validate.
func (p RawPointer) DerefUnchecked(wide bool) RawValue {
	offset := p.getOffset(wide)
	target := NewRawValue(p.data, p.pos-offset)
	if target.Kind() == KindPointer {
		return target.AsPointer().DerefUnchecked(true)
	}
	return target
}
