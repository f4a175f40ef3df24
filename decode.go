package fleece

import "github.com/scigolib/fleece/internal/core"

// Decode validates data and returns a Value view over its root. Errors
// are drawn from the decode taxonomy in errors.go.
func Decode(data []byte) (Value, error) {
	root, err := core.FromBytes(data)
	activeMetrics.ObserveDecode(err)
	if err != nil {
		return Value{}, err
	}
	return newValue(root), nil
}

// DecodeUnchecked returns a Value view over data's root with no
// validation. Only safe on data already known to be well-formed Fleece
// (e.g. produced by this package's own Encoder) — malformed input may
// panic or produce nonsense values.
func DecodeUnchecked(data []byte) Value {
	return newValue(core.FromBytesUnchecked(data))
}
