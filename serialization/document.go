package serialization

// Document is the flat, string-keyed form of a state. Values are nil,
// strings, integers, or nested Documents for composite fields.
type Document map[string]any

// Document keys.
const (
	KeyType                   = "type"
	KeyMessage                = "message"
	KeyResult                 = "result"
	KeyStartTime              = "start_time"
	KeyRunCount               = "run_count"
	KeyCachedInputs           = "cached_inputs"
	KeyCachedResult           = "cached_result"
	KeyCachedParameters       = "cached_parameters"
	KeyCachedResultExpiration = "cached_result_expiration"
	KeyCached                 = "cached"
	KeyVersion                = "__version__"
)

// Tag returns the type tag, or "" when it is missing or not a string.
func (d Document) Tag() string {
	tag, _ := d[KeyType].(string)
	return tag
}

// Map returns d as plain maps, converting nested Documents and slices
// recursively. Libraries that switch on map[string]any, such as structpb,
// need this form.
func (d Document) Map() map[string]any {
	return plain(d)
}

func plain(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = plainValue(v)
	}
	return out
}

func plainValue(v any) any {
	switch tv := v.(type) {
	case Document:
		return plain(tv)
	case map[string]any:
		return plain(tv)
	case []any:
		out := make([]any, len(tv))
		for i, item := range tv {
			out[i] = plainValue(item)
		}
		return out
	default:
		return v
	}
}

// asDocument accepts the map shapes wire codecs produce for a nested
// document.
func asDocument(v any) (Document, bool) {
	switch tv := v.(type) {
	case Document:
		return tv, true
	case map[string]any:
		return Document(tv), true
	case map[any]any:
		out := make(Document, len(tv))
		for k, item := range tv {
			key, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[key] = item
		}
		return out, true
	default:
		return nil, false
	}
}
