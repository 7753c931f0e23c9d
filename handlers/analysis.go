package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"case-analysis/analysis"
	"case-analysis/models"
	"case-analysis/repositories"
)

const noCasesMessage = "No cases found in the given date range"

type AnalyzeRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type SaveResultRequest struct {
	Name      string                 `json:"name"`
	StartDate string                 `json:"start_date"`
	EndDate   string                 `json:"end_date"`
	Analysis  []models.FieldAnalysis `json:"analysis"`
}

type AnalysisHandler struct {
	cases      repositories.CaseRepository
	fields     repositories.FieldRepository
	results    repositories.ResultRepository
	aggregator *analysis.Aggregator
	logger     *zap.Logger
}

func NewAnalysisHandler(
	cases repositories.CaseRepository,
	fields repositories.FieldRepository,
	results repositories.ResultRepository,
	aggregator *analysis.Aggregator,
	logger *zap.Logger,
) *AnalysisHandler {
	return &AnalysisHandler{
		cases:      cases,
		fields:     fields,
		results:    results,
		aggregator: aggregator,
		logger:     logger,
	}
}

func (h *AnalysisHandler) RegisterRoutes(r gin.IRouter) {
	r.POST("/analyze", h.Analyze)
	r.POST("/results/save", h.SaveResult)
	r.GET("/results/get", h.GetResult)
	r.GET("/results/list", h.ListResults)
}

// Analyze counts field word occurrences over the cases dated within
// [startDate, endDate]. An empty range is answered with 200 and an error
// message, not an error status.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.StartDate == "" || req.EndDate == "" {
		badRequest(c, "Dates required")
		return
	}

	ctx := c.Request.Context()
	cases, err := h.cases.ListByDateRange(ctx, req.StartDate, req.EndDate)
	if err != nil {
		respondError(c, h.logger, err, "Case")
		return
	}
	if len(cases) == 0 {
		c.JSON(http.StatusOK, gin.H{"error": noCasesMessage})
		return
	}

	fields, err := h.fields.ListFields(ctx)
	if err != nil {
		respondError(c, h.logger, err, "Field")
		return
	}
	words, err := h.fields.ListAllWords(ctx)
	if err != nil {
		respondError(c, h.logger, err, "Word")
		return
	}

	result, err := h.aggregator.Aggregate(ctx, cases, fields, words)
	if err != nil {
		respondError(c, h.logger, err, "Field")
		return
	}

	h.logger.Info("Analysis completed",
		zap.String("start", req.StartDate),
		zap.String("end", req.EndDate),
		zap.Int("cases", len(cases)),
		zap.Int("fields", len(fields)))
	c.JSON(http.StatusOK, result)
}

func (h *AnalysisHandler) SaveResult(c *gin.Context) {
	var req SaveResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	id, err := h.results.Save(c.Request.Context(), req.Name, req.StartDate, req.EndDate, req.Analysis)
	if err != nil {
		respondError(c, h.logger, err, "Result")
		return
	}
	h.logger.Info("Saved analysis result", zap.Uint("id", id), zap.String("name", req.Name))
	c.JSON(http.StatusOK, gin.H{"success": true, "resultId": id})
}

// GetResult handles GET /results/get?id=
func (h *AnalysisHandler) GetResult(c *gin.Context) {
	id, ok := parseID(c, c.Query("id"), "ID")
	if !ok {
		return
	}

	detail, err := h.results.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Result")
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *AnalysisHandler) ListResults(c *gin.Context) {
	list, err := h.results.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Result")
		return
	}
	c.JSON(http.StatusOK, list)
}
