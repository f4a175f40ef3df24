// Package utils provides shared low-level helpers for the Fleece codec:
// the varint wire format, contextual error wrapping, buffer pooling, and
// overflow-safe arithmetic used by the decode and encode paths.
package utils

import "fmt"

// VarintMaxLen is the largest number of bytes a LEB128 varint may occupy
// on the wire.
const VarintMaxLen = 10

// ReadVarint decodes a little-endian base-128 varint from data.
//
// This mirrors the wire quirk used throughout Fleece string/data length
// fields: data[0] is a leading marker byte (e.g. the 0x0F size nibble) and
// is not part of the varint itself — the varint proper starts at data[1].
// Returns the number of bytes consumed starting at data[1] (0 on failure)
// and the decoded value.
func ReadVarint(data []byte) (int, uint64) {
	if len(data) < 2 {
		return 0, 0
	}
	if len(data) == 2 && data[1] < 0x80 {
		return 1, uint64(data[1])
	}

	var shift uint
	var res uint64
	end := len(data)
	if end > VarintMaxLen+1 {
		end = VarintMaxLen + 1
	}

	for i, b := range data[1:end] {
		if b >= 0x80 {
			res |= uint64(b&0x7F) << shift
			shift += 7
		} else {
			res |= uint64(b) << shift
			if i == VarintMaxLen-1 && b > 1 {
				return 0, 0
			}
			return i + 1, res
		}
	}
	return 0, 0
}

// WriteVarint encodes value into out as a little-endian base-128 varint
// and returns the number of bytes written. out must have at least
// VarintMaxLen bytes of capacity.
func WriteVarint(out []byte, value uint64) int {
	n := 0
	for value >= 0x80 {
		out[n] = byte(value&0xFF) | 0x80
		value >>= 7
		n++
	}
	out[n] = byte(value)
	return n + 1
}

// VarintSizeRequired returns the number of bytes WriteVarint would emit
// for value.
func VarintSizeRequired(value uint64) int {
	n := 1
	for value >= 0x80 {
		value >>= 7
		n++
	}
	return n
}

// ErrVarintTooLong is returned when a would-be varint exceeds VarintMaxLen
// encodable bytes.
var ErrVarintTooLong = fmt.Errorf("varint exceeds %d bytes", VarintMaxLen)
