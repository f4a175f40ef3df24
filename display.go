package fleece

import (
	"fmt"
	"strings"

	"github.com/scigolib/fleece/internal/core"
)

// stringifyValue renders a debugging representation of v, recursing
// into containers. Not part of the wire contract.
func stringifyValue(v core.RawValue) string {
	switch v.Kind() {
	case core.KindNull:
		return "null"
	case core.KindUndefined:
		return "undefined"
	case core.KindFalse:
		return "false"
	case core.KindTrue:
		return "true"
	case core.KindShort, core.KindInt:
		return fmt.Sprintf("%d", v.ToInt())
	case core.KindUnsignedInt:
		return fmt.Sprintf("%d", v.ToUnsignedInt())
	case core.KindFloat:
		return fmt.Sprintf("%g", v.ToFloat())
	case core.KindDouble:
		return fmt.Sprintf("%g", v.ToDouble())
	case core.KindString:
		return v.ToStr()
	case core.KindData:
		return fmt.Sprintf("%v", v.ToData())
	case core.KindArray:
		return stringifyArray(v.AsArray())
	case core.KindDict:
		return stringifyDict(v.AsDict())
	default:
		return "?"
	}
}

func stringifyArray(a core.RawArray) string {
	var b strings.Builder
	b.WriteString("Array[")
	it := a.Iter()
	for {
		val, ok := it.Next()
		if !ok {
			break
		}
		b.WriteString(stringifyValue(val))
		b.WriteString(", ")
	}
	b.WriteString("]")
	return b.String()
}

func stringifyDict(d core.RawDict) string {
	var b strings.Builder
	b.WriteString("Dict[\n")
	it := d.Iter()
	for {
		e, ok := it.Next()
		if !ok {
			break
		}
		b.WriteString(stringifyValue(e.Key))
		b.WriteString(" : ")
		b.WriteString(stringifyValue(e.Val))
		b.WriteString(",\n")
	}
	b.WriteString("]\n")
	return b.String()
}
