package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"case-analysis/models"
	"case-analysis/repositories"
)

var imageExtensions = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true}

type SavePosterRequest struct {
	Name      string `json:"name"`
	Text      string `json:"text"`
	PosterURL string `json:"poster_url"`
	ImageURL  string `json:"image_url"`
	ResultID  *uint  `json:"result_id"`
	TextSize  int    `json:"text_size"`
	TextColor string `json:"text_color"`
}

type PosterOutputRequest struct {
	PosterID uint `json:"posterId"`
}

// PosterFiles locates poster assets under the public directory.
type PosterFiles struct {
	PublicDir  string
	OutputPath string
	ImagesDir  string
}

type PosterHandler struct {
	posters repositories.PosterRepository
	results repositories.ResultRepository
	files   PosterFiles
	logger  *zap.Logger
}

func NewPosterHandler(
	posters repositories.PosterRepository,
	results repositories.ResultRepository,
	files PosterFiles,
	logger *zap.Logger,
) *PosterHandler {
	return &PosterHandler{posters: posters, results: results, files: files, logger: logger}
}

func (h *PosterHandler) RegisterRoutes(r gin.IRouter) {
	r.POST("/posters/save", h.Save)
	r.GET("/posters/list", h.List)
	r.GET("/posters/result", h.Result)
	r.POST("/posters/output", h.Output)
	r.GET("/analysis-images", h.Images)
}

func (h *PosterHandler) Save(c *gin.Context) {
	var req SavePosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	p := &models.Poster{
		Name:      req.Name,
		Text:      req.Text,
		PosterURL: req.PosterURL,
		ImageURL:  req.ImageURL,
		ResultID:  req.ResultID,
		TextSize:  req.TextSize,
		TextColor: req.TextColor,
	}
	if err := h.posters.Save(c.Request.Context(), p); err != nil {
		respondError(c, h.logger, err, "Poster")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "id": p.ID})
}

func (h *PosterHandler) List(c *gin.Context) {
	posters, err := h.posters.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Poster")
		return
	}
	c.JSON(http.StatusOK, posters)
}

// Result handles GET /posters/result?id= and follows the poster's weak
// reference. A null or dangling reference is a 404.
func (h *PosterHandler) Result(c *gin.Context) {
	id, ok := parseID(c, c.Query("id"), "ID")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	poster, err := h.posters.Get(ctx, id)
	if err != nil {
		respondError(c, h.logger, err, "Poster")
		return
	}
	if poster.ResultID == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Poster has no linked result"})
		return
	}

	detail, err := h.results.Get(ctx, *poster.ResultID)
	if err != nil {
		respondError(c, h.logger, err, "Linked result")
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Output copies the poster's image over the fixed output file.
func (h *PosterHandler) Output(c *gin.Context) {
	var req PosterOutputRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PosterID == 0 {
		badRequest(c, "posterId required")
		return
	}

	poster, err := h.posters.Get(c.Request.Context(), req.PosterID)
	if err != nil {
		respondError(c, h.logger, err, "Poster")
		return
	}
	if poster.ImageURL == "" {
		badRequest(c, "Poster has no image")
		return
	}

	src := h.publicPath(poster.ImageURL)
	dst := h.publicPath(h.files.OutputPath)
	if err := copyFile(src, dst); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Poster image not found"})
			return
		}
		h.logger.Error("Failed to overwrite poster", zap.String("src", src), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to overwrite poster"})
		return
	}

	h.logger.Info("Poster output updated", zap.Uint("poster_id", poster.ID), zap.String("src", src))
	c.JSON(http.StatusOK, gin.H{"success": true, "output": "/" + filepath.ToSlash(h.files.OutputPath)})
}

// Images lists the analysis images available to posters as public URLs.
func (h *PosterHandler) Images(c *gin.Context) {
	dir := h.publicPath(h.files.ImagesDir)
	images, err := listImages(dir)
	if err != nil {
		h.logger.Error("Failed to read images", zap.String("dir", dir), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"images": []string{}})
		return
	}

	urls := make([]string, len(images))
	for i, name := range images {
		urls[i] = path.Join("/", filepath.ToSlash(h.files.ImagesDir), name)
	}
	c.JSON(http.StatusOK, gin.H{"images": urls})
}

// publicPath resolves a public URL path inside PublicDir; ".." segments
// cannot climb above it.
func (h *PosterHandler) publicPath(urlPath string) string {
	clean := path.Clean("/" + filepath.ToSlash(urlPath))
	return filepath.Join(h.files.PublicDir, filepath.FromSlash(clean))
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return out.Close()
}

func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}

	images := []string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			images = append(images, e.Name())
		}
	}
	sort.Strings(images)
	return images, nil
}
