package vocab

import "github.com/vocaboli/api/internal/model"

// Dictionary maps letter -> word -> non-null fields.
type Dictionary map[string]map[string]map[string]interface{}

// Group builds the dictionary served by the read endpoint. Rows with an
// empty word are left out.
func Group(rows []model.Vocabolo) Dictionary {
	dict := make(Dictionary)
	for i := range rows {
		key, ok := GroupKey(rows[i].Parola)
		if !ok {
			continue
		}
		if dict[key] == nil {
			dict[key] = make(map[string]map[string]interface{})
		}
		dict[key][rows[i].Parola] = rows[i].Fields()
	}
	return dict
}
