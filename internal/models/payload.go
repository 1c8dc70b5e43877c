package models

// AIPayload is the literal JSON object returned by the AI gateway.
// Typed accessors tolerate missing keys and wrong value types.
type AIPayload map[string]interface{}

func (p AIPayload) Has(key string) bool {
	if p == nil {
		return false
	}
	_, ok := p[key]
	return ok
}

func (p AIPayload) String(key string) (string, bool) {
	v, ok := p[key].(string)
	return v, ok
}

func (p AIPayload) Float(key string) (float64, bool) {
	switch v := p[key].(type) {
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

func (p AIPayload) Bool(key string) (bool, bool) {
	v, ok := p[key].(bool)
	return v, ok
}

// Strings returns the string elements of a JSON array, skipping anything else.
func (p AIPayload) Strings(key string) ([]string, bool) {
	raw, ok := p[key].([]interface{})
	if !ok {
		if typed, ok := p[key].([]string); ok {
			return typed, true
		}
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out, true
}

func (p AIPayload) Object(key string) (AIPayload, bool) {
	switch v := p[key].(type) {
	case map[string]interface{}:
		return AIPayload(v), true
	case AIPayload:
		return v, true
	default:
		return nil, false
	}
}

// Objects returns the object elements of a JSON array, skipping anything else.
func (p AIPayload) Objects(key string) ([]AIPayload, bool) {
	raw, ok := p[key].([]interface{})
	if !ok {
		return nil, false
	}
	out := make([]AIPayload, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]interface{}); ok {
			out = append(out, AIPayload(m))
		}
	}
	return out, true
}

// Merge returns a copy of p with every key of other set on top.
func (p AIPayload) Merge(other AIPayload) AIPayload {
	out := make(AIPayload, len(p)+len(other))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}
