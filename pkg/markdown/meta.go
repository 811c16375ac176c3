package markdown

// Meta is the open string-keyed frontmatter map. Values are restricted to
// strings, numbers, bools, []interface{}, and nested Meta maps; the typed
// accessors below are the supported way to read them.
type Meta map[string]interface{}

// normalizeMeta converts the yaml.v2-shaped maps produced by goldmark-meta
// (map[interface{}]interface{} for nested blocks) into string-keyed maps so
// serialization with yaml.v3 round-trips.
func normalizeMeta(m map[string]interface{}) Meta {
	if m == nil {
		return Meta{}
	}

	out := make(Meta, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[interface{}]interface{}:
		out := make(Meta, len(val))
		for k, inner := range val {
			if key, ok := k.(string); ok {
				out[key] = normalizeValue(inner)
			}
		}
		return out
	case map[string]interface{}:
		return normalizeMeta(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}

// GetString returns the string value for key, or "" if absent or not a string.
func (m Meta) GetString(key string) string {
	s, _ := m[key].(string)
	return s
}

// GetStringSlice returns the list value for key with every element
// stringified, or nil if the key is absent or not a list.
func (m Meta) GetStringSlice(key string) []string {
	list, ok := m[key].([]interface{})
	if !ok {
		return nil
	}

	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// GetMap returns the nested map value for key, or nil.
func (m Meta) GetMap(key string) Meta {
	nested, _ := m[key].(Meta)
	return nested
}

// GetInt returns the integer value for key, handling the int/float shapes
// YAML decoders produce. The second return reports presence.
func (m Meta) GetInt(key string) (int, bool) {
	switch val := m[key].(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case float64:
		return int(val), true
	default:
		return 0, false
	}
}

// Has reports whether key is present with a non-empty value.
func (m Meta) Has(key string) bool {
	v, ok := m[key]
	if !ok || v == nil {
		return false
	}
	if s, isStr := v.(string); isStr {
		return s != ""
	}
	if list, isList := v.([]interface{}); isList {
		return len(list) > 0
	}
	return true
}
