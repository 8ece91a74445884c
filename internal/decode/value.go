package decode

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pfrederiksen/retro-events/internal/event"
)

// UnsupportedMarker is how an unsupported column prints.
const UnsupportedMarker = "NA"

// Value is a decoded column. A column the parser does not populate holds
// Unsupported, which is distinct from every real value including "" and 0.
type Value struct {
	v         any
	supported bool
}

// Unsupported is the value of every unimplemented column.
var Unsupported = Value{}

func Str(s string) Value { return Value{v: s, supported: true} }
func Int(n int) Value { return Value{v: n, supported: true} }
func Bool(b bool) Value { return Value{v: b, supported: true} }
func Dest(d event.Destination) Value { return Value{v: d, supported: true} }

// Supported reports whether v holds a decoded value.
func (v Value) Supported() bool { return v.supported }

// Interface returns the underlying value, or nil for Unsupported.
func (v Value) Interface() any { return v.v }

func (v Value) AsString() (string, bool) {
	s, ok := v.v.(string)
	return s, ok
}

func (v Value) AsInt() (int, bool) {
	n, ok := v.v.(int)
	return n, ok
}

func (v Value) AsBool() (bool, bool) {
	b, ok := v.v.(bool)
	return b, ok
}

func (v Value) AsDestination() (event.Destination, bool) {
	d, ok := v.v.(event.Destination)
	return d, ok
}

// String formats v for display. Flags print as T/F.
func (v Value) String() string {
	if !v.supported {
		return UnsupportedMarker
	}
	switch x := v.v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case bool:
		if x {
			return "T"
		}
		return "F"
	case event.Destination:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.supported {
		return json.Marshal(UnsupportedMarker)
	}
	if d, ok := v.v.(event.Destination); ok {
		return json.Marshal(d.String())
	}
	return json.Marshal(v.v)
}

// Row holds one value per schema column, in column order.
type Row []Value
