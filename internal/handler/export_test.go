package handler

import (
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)


func exportRequest(t *testing.T, format string) *httptest.ResponseRecorder {
	t.Helper()
	r := setupRouter(newFakeRepo(), nil, testKey)
	postBulk(t, r, `{"chiave":"segreto","vocaboli":[
		{"parola":"casa","definizione":"house","pos":"n.","sinonimi":["dimora","abitazione"]},
		{"parola":"albero","espressione":"l'albero di Natale","region":"Tuscany"}
	]}`)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/vocaboli/export?format="+format, nil))
	return w
}

func TestExportCSV(t *testing.T) {
	w := exportRequest(t, "csv")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("unexpected content type %q", ct)
	}

	records, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
	if err != nil {
		t.Fatalf("invalid csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(records))
	}
	if records[0][0] != "Parola" || records[0][6] != "Note" {
		t.Errorf("unexpected header %v", records[0])
	}
	if records[1][0] != "Albero" || records[1][6] != "Region: Tuscany" {
		t.Errorf("unexpected first row %v", records[1])
	}
	if records[2][0] != "Casa" || records[2][4] != "dimora, abitazione" {
		t.Errorf("unexpected second row %v", records[2])
	}
}

func TestExportMarkdown(t *testing.T) {
	w := exportRequest(t, "md")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	body := w.Body.String()
	for _, want := range []string{
		"# Vocaboli",
		"## A",
		"## C",
		"**Casa** (*n.*) - house",
		"> l'albero di Natale",
		"- Sinonimi: dimora, abitazione",
		"- Note: Region: Tuscany",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("markdown export missing %q:\n%s", want, body)
		}
	}
	if strings.Index(body, "## A") > strings.Index(body, "## C") {
		t.Error("letters must be sorted")
	}
}

func TestExportJSON(t *testing.T) {
	w := exportRequest(t, "json")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "vocaboli.json") {
		t.Errorf("unexpected Content-Disposition %q", cd)
	}
	if !strings.Contains(w.Body.String(), `"Casa":{"definizione":"house"`) {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}

func TestExportInvalidFormat(t *testing.T) {
	w := exportRequest(t, "xml")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}
