package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"case-analysis/repositories"
)

type AddFieldRequest struct {
	Field string `json:"field"`
}

type AddWordRequest struct {
	FieldID   uint   `json:"field_id"`
	WordNo    int    `json:"word_no"`
	FieldWord string `json:"field_word"`
}

// DeleteRequest selects either one row by id or every row.
type DeleteRequest struct {
	ID        uint `json:"id"`
	DeleteAll bool `json:"deleteAll"`
}

type FieldHandler struct {
	fields repositories.FieldRepository
	logger *zap.Logger
}

func NewFieldHandler(fields repositories.FieldRepository, logger *zap.Logger) *FieldHandler {
	return &FieldHandler{fields: fields, logger: logger}
}

func (h *FieldHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/fields", h.ListFields)
	r.POST("/fields", h.AddField)
	r.DELETE("/fields", h.DeleteFields)
	r.POST("/fields/bootstrap", h.Bootstrap)

	r.GET("/words", h.ListWords)
	r.POST("/words", h.AddWord)
	r.DELETE("/words", h.DeleteWords)
}

func (h *FieldHandler) ListFields(c *gin.Context) {
	fields, err := h.fields.ListFields(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Field")
		return
	}
	c.JSON(http.StatusOK, fields)
}

func (h *FieldHandler) AddField(c *gin.Context) {
	var req AddFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	field, err := h.fields.AddField(c.Request.Context(), req.Field)
	if err != nil {
		respondError(c, h.logger, err, "Field")
		return
	}
	c.JSON(http.StatusOK, field)
}

// DeleteFields removes one field with its words, or with deleteAll the whole
// taxonomy.
func (h *FieldHandler) DeleteFields(c *gin.Context) {
	var req DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	ctx := c.Request.Context()
	switch {
	case req.DeleteAll:
		if err := h.fields.ResetAll(ctx); err != nil {
			respondError(c, h.logger, err, "Field")
			return
		}
		h.logger.Info("Deleted all fields and words")
	case req.ID == 0:
		badRequest(c, "id or deleteAll required")
		return
	default:
		if err := h.fields.DeleteField(ctx, req.ID); err != nil {
			respondError(c, h.logger, err, "Field")
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Bootstrap replaces the taxonomy with the default f1..f5 set.
func (h *FieldHandler) Bootstrap(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.fields.ResetAll(ctx); err != nil {
		respondError(c, h.logger, err, "Field")
		return
	}
	fields, err := h.fields.BootstrapDefault(ctx)
	if err != nil {
		respondError(c, h.logger, err, "Field")
		return
	}
	h.logger.Info("Bootstrapped default taxonomy", zap.Int("fields", len(fields)))
	c.JSON(http.StatusOK, fields)
}

// ListWords handles GET /words?field_id=. Without a field id the list is empty.
func (h *FieldHandler) ListWords(c *gin.Context) {
	if c.Query("field_id") == "" {
		c.JSON(http.StatusOK, []any{})
		return
	}
	fieldID, ok := parseID(c, c.Query("field_id"), "field_id")
	if !ok {
		return
	}

	words, err := h.fields.ListWords(c.Request.Context(), fieldID)
	if err != nil {
		respondError(c, h.logger, err, "Field")
		return
	}
	c.JSON(http.StatusOK, words)
}

func (h *FieldHandler) AddWord(c *gin.Context) {
	var req AddWordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	word, err := h.fields.AddWord(c.Request.Context(), req.FieldID, req.WordNo, req.FieldWord)
	if err != nil {
		respondError(c, h.logger, err, "Field")
		return
	}
	c.JSON(http.StatusOK, word)
}

func (h *FieldHandler) DeleteWords(c *gin.Context) {
	var req DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	ctx := c.Request.Context()
	switch {
	case req.DeleteAll:
		n, err := h.fields.DeleteAllWords(ctx)
		if err != nil {
			respondError(c, h.logger, err, "Word")
			return
		}
		h.logger.Info("Deleted all words", zap.Int64("deleted", n))
	case req.ID == 0:
		badRequest(c, "id or deleteAll required")
		return
	default:
		if err := h.fields.DeleteWord(ctx, req.ID); err != nil {
			respondError(c, h.logger, err, "Word")
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
