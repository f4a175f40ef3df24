package fleece

import "github.com/scigolib/fleece/internal/writer"

// Encoder builds a Fleece buffer by appending values in postorder:
// scalars are written directly, containers are opened with
// BeginArray/BeginDict and closed with EndArray/EndDict once every
// child has been written.
type Encoder struct {
	inner *writer.Encoder
}

// NewEncoder returns an empty Encoder.
func NewEncoder() *Encoder {
	return &Encoder{inner: writer.NewEncoder()}
}

// SetSharedKeys attaches a table that WriteKey consults before falling
// back to plain string keys.
func (e *Encoder) SetSharedKeys(sk *SharedKeys) {
	if sk == nil {
		e.inner.SetSharedKeys(nil)
		return
	}
	e.inner.SetSharedKeys(sk.inner)
}

// BeginArray opens a new array; sizeHint preallocates element storage.
func (e *Encoder) BeginArray(sizeHint int) error { return e.inner.BeginArray(sizeHint) }

// EndArray closes the innermost array.
func (e *Encoder) EndArray() error { return e.inner.EndArray() }

// BeginDict opens a new dict; sizeHint preallocates pair storage.
func (e *Encoder) BeginDict(sizeHint int) error { return e.inner.BeginDict(sizeHint) }

// EndDict closes the innermost dict, sorting its pairs into wire order.
func (e *Encoder) EndDict() error { return e.inner.EndDict() }

// WriteKey records the key for the next dict value.
func (e *Encoder) WriteKey(key string) error { return e.inner.WriteKey(key) }

// WriteValue writes a scalar Go value (nil, bool, any int/uint/float
// width, string, or []byte) as the next array element or dict value.
func (e *Encoder) WriteValue(v any) error { return e.inner.WriteValue(v) }

// Finish emits the trailing root slot and returns the completed buffer.
// The Encoder must not be reused afterward.
func (e *Encoder) Finish() ([]byte, error) {
	buf, err := e.inner.Finish()
	if err == nil {
		activeMetrics.ObserveEncode(len(buf))
	}
	return buf, err
}

// FinishScoped finishes the buffer and registers it (and any attached
// SharedKeys) in the process-wide Scope registry, so a raw pointer into
// the result can later recover its SharedKeys via Scope.FindSharedKeys.
func (e *Encoder) FinishScoped() ([]byte, error) {
	buf, err := e.inner.FinishScoped()
	if err == nil {
		activeMetrics.ObserveEncode(len(buf))
	}
	return buf, err
}
