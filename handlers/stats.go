package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"case-analysis/models"
)

type StatsData struct {
	Cases     int64  `json:"cases"`
	Fields    int64  `json:"fields"`
	Words     int64  `json:"words"`
	Results   int64  `json:"results"`
	Posters   int64  `json:"posters"`
	FirstDate string `json:"first_date"`
	LastDate  string `json:"last_date"`
}

// StatsHandler reports table sizes and the span of case dates.
type StatsHandler struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewStatsHandler(db *gorm.DB, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{db: db, logger: logger}
}

func (h *StatsHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/stats", h.Stats)
}

func (h *StatsHandler) Stats(c *gin.Context) {
	db := h.db.WithContext(c.Request.Context())

	var stats StatsData
	counts := []struct {
		model any
		dst   *int64
	}{
		{&models.Case{}, &stats.Cases},
		{&models.Field{}, &stats.Fields},
		{&models.Word{}, &stats.Words},
		{&models.AnalysisResult{}, &stats.Results},
		{&models.Poster{}, &stats.Posters},
	}
	for _, q := range counts {
		if err := db.Model(q.model).Count(q.dst).Error; err != nil {
			respondError(c, h.logger, err, "Stats")
			return
		}
	}

	// Canonical dates sort lexically, so MIN/MAX give the span.
	if stats.Cases > 0 {
		var span struct {
			First string
			Last  string
		}
		err := db.Model(&models.Case{}).
			Select("MIN(date) AS first, MAX(date) AS last").
			Scan(&span).Error
		if err != nil {
			respondError(c, h.logger, err, "Stats")
			return
		}
		stats.FirstDate, stats.LastDate = span.First, span.Last
	}

	c.JSON(http.StatusOK, stats)
}
