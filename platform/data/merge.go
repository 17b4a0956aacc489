package data

import "fmt"

// checkKeys rejects empty keys in v at any depth.
func checkKeys(v any) error {
	switch x := v.(type) {
	case map[string]any:
		for k, nested := range x {
			if k == "" {
				return ErrEmptyKey
			}
			if err := checkKeys(nested); err != nil {
				return fmt.Errorf("key '%s': %w", k, err)
			}
		}
	case []any:
		for i, nested := range x {
			if err := checkKeys(nested); err != nil {
				return fmt.Errorf("index %d: %w", i, err)
			}
		}
	}
	return nil
}

// copyValue returns v with every nested map and list copied, so later merges never
// touch maps owned by a caller or by a context further up the chain.
func copyValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, nested := range x {
			out[k] = copyValue(nested)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, nested := range x {
			out[i] = copyValue(nested)
		}
		return out
	default:
		return v
	}
}

// mergeInto writes value under key in target. When both sides are maps they are merged
// key by key; any other value replaces what was there. target must be owned by the caller.
func mergeInto(target map[string]any, key string, value any) {
	if incoming, ok := value.(map[string]any); ok {
		if existing, ok := target[key].(map[string]any); ok {
			for k, v := range incoming {
				mergeInto(existing, k, v)
			}
			return
		}
	}
	target[key] = value
}

// merged returns a new map holding base overlaid with top. Neither input is modified.
func merged(base, top map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(top))
	for k, v := range base {
		out[k] = copyValue(v)
	}
	for k, v := range top {
		mergeInto(out, k, copyValue(v))
	}
	return out
}
