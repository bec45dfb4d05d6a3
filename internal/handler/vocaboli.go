package handler

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
	"github.com/vocaboli/api/internal/cache"
	"github.com/vocaboli/api/internal/config"
	"github.com/vocaboli/api/internal/middleware"
	"github.com/vocaboli/api/internal/model"
	"github.com/vocaboli/api/internal/vocab"
)

const (
	msgConfigError    = "Errore di configurazione del server."
	msgInvalidRequest = "Richiesta non valida."
	msgWrongKey       = "Password di inserimento non corretta!"
	msgEmptyBatch     = "Nessun vocabolo da aggiungere."
	msgInternalError  = "Errore interno del server."
)

// Repository is the storage the vocaboli handlers need.
type Repository interface {
	ListAll(ctx context.Context) ([]model.Vocabolo, error)
	UpsertBatch(ctx context.Context, rows []model.Vocabolo) (int, error)
}

// Cache stores the serialized dictionary per write generation.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Generation(ctx context.Context) (int64, error)
	BumpGeneration(ctx context.Context) error
}

type VocaboliHandler struct {
	repo      Repository
	cache     Cache
	insertKey string
}

// NewVocaboliHandler wires the handler. c may be nil to run without a cache.
func NewVocaboliHandler(repo Repository, c Cache, cfg *config.Config) *VocaboliHandler {
	return &VocaboliHandler{
		repo:      repo,
		cache:     c,
		insertKey: cfg.InsertKey,
	}
}

type BulkResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// List serves the whole dictionary grouped by initial letter.
func (h *VocaboliHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	// The generation is read before the rows; a write committing in between
	// bumps it, so this snapshot lands under a key no later read uses.
	cacheKey := ""
	if h.cache != nil {
		if gen, err := h.cache.Generation(ctx); err != nil {
			log.Printf("request_id=%s cache generation read failed: %v", middleware.GetRequestID(c), err)
		} else {
			cacheKey = cache.DictionaryKey(gen)
		}
	}

	if cacheKey != "" {
		cached, err := h.cache.Get(ctx, cacheKey)
		if err == nil {
			middleware.RecordCacheLookup(true)
			c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
			return
		}
		middleware.RecordCacheLookup(false)
		if !errors.Is(err, cache.ErrMiss) {
			log.Printf("request_id=%s cache read failed: %v", middleware.GetRequestID(c), err)
		}
	}

	rows, err := h.repo.ListAll(ctx)
	if err != nil {
		log.Printf("request_id=%s list vocaboli failed: %v", middleware.GetRequestID(c), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
		return
	}

	body, err := json.Marshal(vocab.Group(rows))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
		return
	}

	if cacheKey != "" {
		if err := h.cache.Set(ctx, cacheKey, body); err != nil {
			log.Printf("request_id=%s cache write failed: %v", middleware.GetRequestID(c), err)
		}
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// AddBulk upserts a batch of entries after checking the insert key.
func (h *VocaboliHandler) AddBulk(c *gin.Context) {
	if h.insertKey == "" {
		log.Printf("request_id=%s INSERT_KEY is not configured", middleware.GetRequestID(c))
		h.reject(c, http.StatusInternalServerError, "config", msgConfigError)
		return
	}

	body, err := c.GetRawData()
	if err != nil || !gjson.ValidBytes(body) {
		h.reject(c, http.StatusBadRequest, "invalid", msgInvalidRequest)
		return
	}
	req := gjson.ParseBytes(body)

	// Anything but a matching string, including a missing key or a body that
	// is not an object, is a wrong key.
	chiave := vocab.Field(req, "chiave")
	if chiave.Type != gjson.String || subtle.ConstantTimeCompare([]byte(chiave.Str), []byte(h.insertKey)) != 1 {
		h.reject(c, http.StatusForbidden, "forbidden", msgWrongKey)
		return
	}

	list := vocab.Field(req, "vocaboli")
	if list.Type == gjson.Null {
		h.reject(c, http.StatusBadRequest, "empty", msgEmptyBatch)
		return
	}
	if !list.IsArray() {
		h.reject(c, http.StatusBadRequest, "invalid", msgInvalidRequest)
		return
	}
	items := list.Array()
	if len(items) == 0 {
		h.reject(c, http.StatusBadRequest, "empty", msgEmptyBatch)
		return
	}
	raws := make([]json.RawMessage, len(items))
	for i, item := range items {
		raws[i] = json.RawMessage(item.Raw)
	}

	rows, skipped, err := vocab.ParseBatch(raws)
	if err != nil {
		h.reject(c, http.StatusBadRequest, "invalid", fmt.Sprintf("%s %v", msgInvalidRequest, err))
		return
	}

	ctx := c.Request.Context()
	count, err := h.repo.UpsertBatch(ctx, rows)
	if err != nil {
		log.Printf("request_id=%s bulk insert failed: %v", middleware.GetRequestID(c), err)
		h.reject(c, http.StatusInternalServerError, "storage", msgInternalError)
		return
	}

	if h.cache != nil {
		if err := h.cache.BumpGeneration(ctx); err != nil {
			log.Printf("request_id=%s cache invalidation failed: %v", middleware.GetRequestID(c), err)
		}
	}

	middleware.RecordBulkWrite(count, skipped)
	log.Printf("request_id=%s bulk insert: upserted=%d skipped=%d", middleware.GetRequestID(c), count, skipped)

	c.JSON(http.StatusOK, BulkResponse{
		Success: true,
		Message: fmt.Sprintf("%d vocaboli aggiunti/aggiornati!", count),
	})
}

func (h *VocaboliHandler) reject(c *gin.Context, status int, reason, message string) {
	middleware.RecordBulkRejected(reason)
	c.JSON(status, BulkResponse{Success: false, Message: message})
}
