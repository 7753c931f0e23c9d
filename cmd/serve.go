package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"case-analysis/analysis"
	"case-analysis/config"
	"case-analysis/database"
	"case-analysis/export"
	"case-analysis/handlers"
	"case-analysis/matcher"
	"case-analysis/repositories"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer database.Close(db)

	router, err := newRouter(cfg, db, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting case analysis server", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server", zap.Duration("timeout", cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// newRouter builds every repository and handler from cfg.
func newRouter(cfg *config.Config, db *gorm.DB, logger *zap.Logger) (*gin.Engine, error) {
	gin.SetMode(cfg.Server.GinMode)

	m, err := matcher.New(matcher.Kind(cfg.Analysis.Matcher), cfg.Analysis.MatchTimeout)
	if err != nil {
		return nil, err
	}

	cases := repositories.NewCaseRepository(db)
	fields := repositories.NewFieldRepository(db)
	results := repositories.NewResultRepository(db)
	posters := repositories.NewPosterRepository(db)

	exporter := export.NewExporter(export.Config{
		Dir:         cfg.Export.Dir,
		CSVName:     cfg.Export.CSVName,
		Script:      cfg.Export.Script,
		Interpreter: cfg.Export.Interpreter,
		Timeout:     cfg.Export.Timeout,
	}, logger)

	router := handlers.NewRouter(logger,
		handlers.NewCaseHandler(cases, cfg.Cases.PageSize, logger),
		handlers.NewFieldHandler(fields, logger),
		handlers.NewAnalysisHandler(cases, fields, results, analysis.NewAggregator(m, cfg.Analysis.Workers), logger),
		handlers.NewPosterHandler(posters, results, handlers.PosterFiles{
			PublicDir:  cfg.Posters.PublicDir,
			OutputPath: cfg.Posters.OutputPath,
			ImagesDir:  cfg.Posters.ImagesDir,
		}, logger),
		handlers.NewExportHandler(cases, exporter, logger),
		handlers.NewStatsHandler(db, logger),
	)

	// Poster images and the poster output are addressed by public URL path.
	router.Static("/"+cfg.Posters.ImagesDir, filepath.Join(cfg.Posters.PublicDir, cfg.Posters.ImagesDir))
	router.StaticFile("/"+cfg.Posters.OutputPath, filepath.Join(cfg.Posters.PublicDir, cfg.Posters.OutputPath))
	return router, nil
}
