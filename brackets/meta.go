package brackets

// Meta is a free-form key/value bag attached to brackets, matches and participants.
// Recognised keys: "rating" (float64) on participants, "source" (string) on brackets.
// Copies are shallow: nested maps or slices stay shared.
type Meta map[string]any

func (m Meta) Clone() Meta {
	out := make(Meta, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Merge returns a copy of m overlaid with other.
func (m Meta) Merge(other Meta) Meta {
	out := m.Clone()
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Float reads a numeric value, accepting the integer types YAML and JSON decoders produce.
func (m Meta) Float(key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
