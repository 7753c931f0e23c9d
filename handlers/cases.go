package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"case-analysis/models"
	"case-analysis/repositories"
)

type DeleteCasesRequest struct {
	IDs []uint `json:"ids"`
}

// UploadCasesRequest rows are decoded one at a time so that a malformed row
// is skipped rather than failing the batch.
type UploadCasesRequest struct {
	Cases []json.RawMessage `json:"cases"`
}

type CaseHandler struct {
	cases    repositories.CaseRepository
	pageSize int
	logger   *zap.Logger
}

func NewCaseHandler(cases repositories.CaseRepository, pageSize int, logger *zap.Logger) *CaseHandler {
	return &CaseHandler{cases: cases, pageSize: pageSize, logger: logger}
}

func (h *CaseHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/cases", h.List)
	r.GET("/cases/:id", h.Get)
	r.POST("/cases", h.Create)
	r.PUT("/cases/:id", h.Update)
	r.POST("/cases/delete", h.Delete)
	r.POST("/cases/upload", h.Upload)
}

// List handles GET /cases?page=&limit=
func (h *CaseHandler) List(c *gin.Context) {
	page, ok := queryInt(c, "page", 1)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", h.pageSize)
	if !ok {
		return
	}

	result, err := h.cases.ListPage(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, h.logger, err, "Case")
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get handles GET /cases/:id
func (h *CaseHandler) Get(c *gin.Context) {
	id, ok := parseID(c, c.Param("id"), "id")
	if !ok {
		return
	}

	found, err := h.cases.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Case")
		return
	}
	c.JSON(http.StatusOK, found)
}

// Create handles POST /cases (manual entry).
func (h *CaseHandler) Create(c *gin.Context) {
	var in models.CaseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	created, err := h.cases.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err, "Case")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update handles PUT /cases/:id
func (h *CaseHandler) Update(c *gin.Context) {
	id, ok := parseID(c, c.Param("id"), "id")
	if !ok {
		return
	}
	var in models.CaseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	updated, err := h.cases.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.logger, err, "Case")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "case": updated})
}

// Delete handles POST /cases/delete. An empty id list is a bad request; ids
// that match nothing simply count as zero deletions.
func (h *CaseHandler) Delete(c *gin.Context) {
	var req DeleteCasesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "No IDs provided")
		return
	}

	deleted, err := h.cases.DeleteByIDs(c.Request.Context(), req.IDs)
	if err != nil {
		respondError(c, h.logger, err, "Case")
		return
	}
	h.logger.Info("Deleted cases", zap.Int("requested", len(req.IDs)), zap.Int64("deleted", deleted))
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// Upload handles POST /cases/upload. Rows that fail validation are skipped
// and the response reports inserted against received.
func (h *CaseHandler) Upload(c *gin.Context) {
	var req UploadCasesRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Cases == nil {
		badRequest(c, "Invalid or missing data")
		return
	}

	rows := make([]models.CaseInput, 0, len(req.Cases))
	// origin maps a position in rows back to its position in the request.
	origin := make([]int, 0, len(req.Cases))
	var skipped []repositories.SkippedRow
	for i, raw := range req.Cases {
		var row map[string]any
		if err := json.Unmarshal(raw, &row); err != nil || row == nil {
			skipped = append(skipped, repositories.SkippedRow{Index: i, Reason: "row is not an object"})
			continue
		}
		rows = append(rows, models.CaseInputFromRow(row))
		origin = append(origin, i)
	}

	result, err := h.cases.InsertMany(c.Request.Context(), rows)
	if err != nil {
		respondError(c, h.logger, err, "Case")
		return
	}
	for _, s := range result.Skipped {
		skipped = append(skipped, repositories.SkippedRow{Index: origin[s.Index], Reason: s.Reason})
	}
	for _, s := range skipped {
		h.logger.Warn("Skipping invalid row", zap.Int("row", s.Index), zap.String("reason", s.Reason))
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Upload success",
		"inserted": result.Inserted,
		"received": len(req.Cases),
	})
}
