package vocab

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/vocaboli/api/internal/model"
)

// EntryError reports a malformed entry in a bulk payload.
type EntryError struct {
	Index int
	Field string
	Err   error
}

func (e *EntryError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("vocabolo %d: %v", e.Index+1, e.Err)
	}
	return fmt.Sprintf("vocabolo %d, campo %q: %v", e.Index+1, e.Field, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

var (
	errNotObject = errors.New("deve essere un oggetto JSON")
	errBadType   = errors.New("tipo non valido")
)

// ParseEntry converts one raw entry into a row. ok is false when the word is
// empty after normalization and the entry must be skipped.
func ParseEntry(index int, raw json.RawMessage) (row model.Vocabolo, ok bool, err error) {
	parsed := gjson.ParseBytes(raw)
	if !parsed.IsObject() {
		return row, false, &EntryError{Index: index, Err: errNotObject}
	}

	known, extras := splitFields(parsed)

	var text [4]*string
	for i, name := range []string{"parola", "definizione", "pos", "espressione"} {
		if text[i], err = optString(known, name); err != nil {
			return row, false, &EntryError{Index: index, Field: name, Err: err}
		}
	}
	sinonimi, err := optStrings(known, "sinonimi")
	if err != nil {
		return row, false, &EntryError{Index: index, Field: "sinonimi", Err: err}
	}
	contrari, err := optStrings(known, "contrari")
	if err != nil {
		return row, false, &EntryError{Index: index, Field: "contrari", Err: err}
	}

	var word string
	if text[0] != nil {
		word = NormalizeWord(*text[0])
	}
	if word == "" {
		return row, false, nil
	}

	return model.Vocabolo{
		Parola:      word,
		Definizione: text[1],
		POS:         text[2],
		Espressione: text[3],
		Sinonimi:    sinonimi,
		Contrari:    contrari,
		Note:        FormatNotes(formatExtras(extras)),
	}, true, nil
}

// optString reads a string column; absent and null both map to nil.
func optString(known map[string]gjson.Result, name string) (*string, error) {
	v, ok := known[name]
	if !ok || v.Type == gjson.Null {
		return nil, nil
	}
	if v.Type != gjson.String {
		return nil, errBadType
	}
	s := v.Str
	return &s, nil
}

// optStrings reads a list column. An empty array stays a non-nil empty slice.
func optStrings(known map[string]gjson.Result, name string) ([]string, error) {
	v, ok := known[name]
	if !ok || v.Type == gjson.Null {
		return nil, nil
	}
	if !v.IsArray() {
		return nil, errBadType
	}
	items := v.Array()
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item.Type != gjson.String {
			return nil, errBadType
		}
		out = append(out, item.Str)
	}
	return out, nil
}

// ParseBatch parses every entry of a bulk payload. Entries with an empty word
// are dropped and counted in skipped. The first malformed entry aborts the
// whole batch.
func ParseBatch(raws []json.RawMessage) (rows []model.Vocabolo, skipped int, err error) {
	rows = make([]model.Vocabolo, 0, len(raws))
	for i, raw := range raws {
		row, ok, err := ParseEntry(i, raw)
		if err != nil {
			return nil, 0, err
		}
		if !ok {
			skipped++
			continue
		}
		rows = append(rows, row)
	}
	return rows, skipped, nil
}
