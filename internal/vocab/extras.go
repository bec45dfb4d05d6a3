package vocab

import (
	"strings"

	"github.com/tidwall/gjson"
)

// KnownFields are the entry keys that map onto table columns. Every other key
// is an extra field and ends up in the note column.
var KnownFields = map[string]struct{}{
	"parola":      {},
	"definizione": {},
	"pos":         {},
	"espressione": {},
	"sinonimi":    {},
	"contrari":    {},
}

// Extra is a formatted extra field.
type Extra struct {
	Key   string
	Value string
}

func (e Extra) String() string {
	return e.Key + ": " + e.Value
}

// ExtraFields returns the truthy extra fields of a JSON object in document
// order. Keys have underscores replaced by spaces and are capitalized.
func ExtraFields(entry gjson.Result) []Extra {
	_, fields := splitFields(entry)
	return formatExtras(fields)
}

func formatExtras(fields []field) []Extra {
	var extras []Extra
	for _, f := range fields {
		if !truthy(f.value) {
			continue
		}
		extras = append(extras, Extra{
			Key:   Capitalize(strings.ReplaceAll(f.key, "_", " ")),
			Value: formatValue(f.value),
		})
	}
	return extras
}

// FormatNotes joins extras with "; ". It returns nil when there are none so
// that the column stays NULL rather than "".
func FormatNotes(extras []Extra) *string {
	if len(extras) == 0 {
		return nil
	}
	parts := make([]string, len(extras))
	for i, e := range extras {
		parts[i] = e.String()
	}
	notes := strings.Join(parts, "; ")
	return &notes
}

// truthy reports whether a value counts as present: null, false, zero, "",
// [] and {} do not.
func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return v.Float() != 0
	case gjson.String:
		return v.Str != ""
	case gjson.JSON:
		if v.IsArray() {
			return len(v.Array()) > 0
		}
		return len(v.Map()) > 0
	}
	return false
}

func formatValue(v gjson.Result) string {
	switch {
	case v.Type == gjson.String:
		return v.Str
	case v.IsArray():
		items := v.Array()
		parts := make([]string, len(items))
		for i, item := range items {
			if item.Type == gjson.String {
				parts[i] = item.Str
			} else {
				parts[i] = item.Raw
			}
		}
		return strings.Join(parts, ", ")
	default:
		return v.Raw
	}
}
