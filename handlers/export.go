package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"case-analysis/export"
	"case-analysis/models"
	"case-analysis/repositories"
)

// ExportRequest defaults match the fiscal-year range the external script was
// written against.
type ExportRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Page      int    `json:"page"`
	Limit     int    `json:"limit"`
}

type ExportResponse struct {
	Cases      []models.Case `json:"cases"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
	export.RunResult
}

type ExportHandler struct {
	cases    repositories.CaseRepository
	exporter *export.Exporter
	logger   *zap.Logger
}

func NewExportHandler(cases repositories.CaseRepository, exporter *export.Exporter, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{cases: cases, exporter: exporter, logger: logger}
}

func (h *ExportHandler) RegisterRoutes(r gin.IRouter) {
	r.POST("/bunseki", h.Run)
}

// Run writes one page of cases in range to the export CSV and runs the
// co-occurrence script over it.
func (h *ExportHandler) Run(c *gin.Context) {
	req := ExportRequest{StartDate: "2023-01-01", EndDate: "2023-12-31", Page: 1, Limit: 10}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request body")
			return
		}
	}

	ctx := c.Request.Context()
	cases, total, err := h.cases.PageByDateRange(ctx, req.StartDate, req.EndDate, req.Page, req.Limit)
	if err != nil {
		respondError(c, h.logger, err, "Case")
		return
	}

	run, err := h.exporter.Export(ctx, cases)
	if err != nil {
		respondError(c, h.logger, err, "Export")
		return
	}

	pages := 0
	if total > 0 {
		pages = int((total + int64(req.Limit) - 1) / int64(req.Limit))
	}
	c.JSON(http.StatusOK, ExportResponse{
		Cases:      cases,
		Page:       req.Page,
		TotalPages: pages,
		RunResult:  *run,
	})
}
