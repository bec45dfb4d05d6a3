package vocab

import "github.com/tidwall/gjson"

type field struct {
	key   string
	value gjson.Result
}

// splitFields walks a JSON object once. Keys match exactly. A repeated key
// keeps the position of its first occurrence and the value of its last.
func splitFields(obj gjson.Result) (known map[string]gjson.Result, extras []field) {
	known = make(map[string]gjson.Result)
	seen := make(map[string]int)
	obj.ForEach(func(k, v gjson.Result) bool {
		key := k.String()
		if _, ok := KnownFields[key]; ok {
			known[key] = v
			return true
		}
		if i, dup := seen[key]; dup {
			extras[i].value = v
			return true
		}
		seen[key] = len(extras)
		extras = append(extras, field{key: key, value: v})
		return true
	})
	return known, extras
}

// Field returns the last value stored under key in obj, matched exactly.
// The result does not exist when obj is not an object or lacks the key.
func Field(obj gjson.Result, key string) gjson.Result {
	var out gjson.Result
	if !obj.IsObject() {
		return out
	}
	obj.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			out = v
		}
		return true
	})
	return out
}
