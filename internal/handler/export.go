package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vocaboli/api/internal/middleware"
	"github.com/vocaboli/api/internal/model"
	"github.com/vocaboli/api/internal/vocab"
)

type ExportHandler struct {
	repo Repository
}

func NewExportHandler(repo Repository) *ExportHandler {
	return &ExportHandler{repo: repo}
}

func (h *ExportHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "json")

	switch format {
	case "json", "csv", "md", "markdown":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Formato non valido. Usa json, csv o md"})
		return
	}

	rows, err := h.repo.ListAll(c.Request.Context())
	if err != nil {
		log.Printf("request_id=%s export failed: %v", middleware.GetRequestID(c), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
		return
	}

	switch format {
	case "json":
		h.exportJSON(c, rows)
	case "csv":
		h.exportCSV(c, rows)
	default:
		h.exportMarkdown(c, rows)
	}
}

func (h *ExportHandler) exportJSON(c *gin.Context, rows []model.Vocabolo) {
	c.Header("Content-Disposition", "attachment; filename=vocaboli.json")
	c.JSON(http.StatusOK, vocab.Group(rows))
}

func (h *ExportHandler) exportCSV(c *gin.Context, rows []model.Vocabolo) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	writer.Write([]string{"Parola", "Definizione", "POS", "Espressione", "Sinonimi", "Contrari", "Note"})

	for _, v := range rows {
		writer.Write([]string{
			v.Parola,
			deref(v.Definizione),
			deref(v.POS),
			deref(v.Espressione),
			strings.Join(v.Sinonimi, ", "),
			strings.Join(v.Contrari, ", "),
			deref(v.Note),
		})
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=vocaboli.csv")
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *ExportHandler) exportMarkdown(c *gin.Context, rows []model.Vocabolo) {
	var buf bytes.Buffer
	buf.WriteString("# Vocaboli\n\n")

	dict := vocab.Group(rows)
	letters := make([]string, 0, len(dict))
	for letter := range dict {
		letters = append(letters, letter)
	}
	sort.Strings(letters)

	for _, letter := range letters {
		buf.WriteString(fmt.Sprintf("## %s\n\n", letter))

		words := make([]string, 0, len(dict[letter]))
		for word := range dict[letter] {
			words = append(words, word)
		}
		sort.Strings(words)

		for _, word := range words {
			fields := dict[letter][word]
			line := fmt.Sprintf("**%s**", word)
			if pos, ok := fields["pos"].(string); ok && pos != "" {
				line += fmt.Sprintf(" (*%s*)", pos)
			}
			if def, ok := fields["definizione"].(string); ok && def != "" {
				line += " - " + def
			}
			buf.WriteString(line + "\n\n")

			if expr, ok := fields["espressione"].(string); ok && expr != "" {
				buf.WriteString(fmt.Sprintf("> %s\n\n", expr))
			}
			if syn, ok := fields["sinonimi"].([]string); ok && len(syn) > 0 {
				buf.WriteString(fmt.Sprintf("- Sinonimi: %s\n", strings.Join(syn, ", ")))
			}
			if ant, ok := fields["contrari"].([]string); ok && len(ant) > 0 {
				buf.WriteString(fmt.Sprintf("- Contrari: %s\n", strings.Join(ant, ", ")))
			}
			if note, ok := fields["note"].(string); ok {
				buf.WriteString(fmt.Sprintf("- Note: %s\n", note))
			}
			buf.WriteString("\n")
		}
	}

	c.Header("Content-Disposition", "attachment; filename=vocaboli.md")
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", buf.Bytes())
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
