// Package layering composes seed documents for container construction. Seeds
// are decoded JSON objects; stronger documents keep their explicit settings
// while missing entries fill in from weaker ones.
package layering

// Merge composes seed documents ordered from strongest to weakest, returning
// a new document that keeps explicit entries from stronger seeds while
// filling any missing data from weaker ones. Nested objects merge key by key;
// scalars and arrays from the stronger seed win outright.
func Merge(layers ...map[string]any) map[string]any {
	if len(layers) == 0 {
		return nil
	}

	merged := cloneDocument(layers[len(layers)-1])
	for i := len(layers) - 2; i >= 0; i-- {
		merged = overlay(layers[i], merged)
	}
	return merged
}

func overlay(strong, weak map[string]any) map[string]any {
	if strong == nil {
		return cloneDocument(weak)
	}
	out := cloneDocument(weak)
	if out == nil {
		out = make(map[string]any, len(strong))
	}
	for key, value := range strong {
		if strongMap, ok := value.(map[string]any); ok {
			if weakMap, ok := out[key].(map[string]any); ok {
				out[key] = overlay(strongMap, weakMap)
				continue
			}
		}
		out[key] = cloneAny(value)
	}
	return out
}

func cloneDocument(doc map[string]any) map[string]any {
	if doc == nil {
		return nil
	}
	out := make(map[string]any, len(doc))
	for key, value := range doc {
		out[key] = cloneAny(value)
	}
	return out
}

func cloneAny(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return cloneDocument(typed)
	case []any:
		out := make([]any, len(typed))
		for i, element := range typed {
			out[i] = cloneAny(element)
		}
		return out
	default:
		return value
	}
}
