package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/vocaboli/api/internal/cache"
	"github.com/vocaboli/api/internal/config"
	"github.com/vocaboli/api/internal/model"
)

const testKey = "segreto"

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeRepo keeps rows in memory with the same upsert semantics as the
// PostgreSQL repository.
type fakeRepo struct {
	mu         sync.Mutex
	rows       map[string]model.Vocabolo
	err        error
	upsertCall int
	listCall   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: make(map[string]model.Vocabolo)}
}

func (r *fakeRepo) ListAll(ctx context.Context) ([]model.Vocabolo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCall++
	if r.err != nil {
		return nil, r.err
	}
	out := make([]model.Vocabolo, 0, len(r.rows))
	for _, v := range r.rows {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Parola < out[j].Parola })
	return out, nil
}

func (r *fakeRepo) UpsertBatch(ctx context.Context, rows []model.Vocabolo) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upsertCall++
	if r.err != nil {
		return 0, r.err
	}
	for _, v := range rows {
		r.rows[v.Parola] = v
	}
	return len(rows), nil
}

type fakeCache struct {
	mu         sync.Mutex
	data       map[string][]byte
	generation int64
	bumps      int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if b, ok := c.data[key]; ok {
		return b, nil
	}
	return nil, cache.ErrMiss
}

func (c *fakeCache) Set(ctx context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *fakeCache) Generation(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation, nil
}

func (c *fakeCache) BumpGeneration(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.bumps++
	return nil
}

// gatedRepo holds its first ListAll after taking the snapshot until release
// is closed.
type gatedRepo struct {
	*fakeRepo
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedRepo) ListAll(ctx context.Context) ([]model.Vocabolo, error) {
	rows, err := g.fakeRepo.ListAll(ctx)
	g.once.Do(func() {
		close(g.entered)
		<-g.release
	})
	return rows, err
}

func setupRouter(repo Repository, c Cache, insertKey string) *gin.Engine {
	h := NewVocaboliHandler(repo, c, &config.Config{InsertKey: insertKey})
	e := NewExportHandler(repo)

	r := gin.New()
	r.GET("/api/vocaboli", h.List)
	r.GET("/api/vocaboli/export", e.Export)
	r.POST("/api/add_vocaboli_bulk", h.AddBulk)
	return r
}

func postBulk(t *testing.T, r *gin.Engine, body string) (*httptest.ResponseRecorder, BulkResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/add_vocaboli_bulk", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp BulkResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return w, resp
}

func getDictionary(t *testing.T, r *gin.Engine) map[string]map[string]map[string]interface{} {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/vocaboli", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var dict map[string]map[string]map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &dict); err != nil {
		t.Fatalf("failed to decode dictionary: %v", err)
	}
	return dict
}
