// Package export hands a date-ranged case listing to the external
// co-occurrence script: it writes the CSV the script reads, runs the script
// with a bounded wait, and reports what it printed.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"case-analysis/models"
)

// The script reads the date from column A and the case name from column G.
const (
	csvColumns = 7
	dateColumn = 0
	nameColumn = 6
)

type Config struct {
	Dir         string
	CSVName     string
	Script      string
	Interpreter string
	Timeout     time.Duration
}

type RunResult struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exitCode"`
	TimedOut bool   `json:"timedOut"`
}

type Exporter struct {
	cfg    Config
	logger *zap.Logger

	// mu serializes Export; every run shares one CSV path.
	mu sync.Mutex
}

func NewExporter(cfg Config, logger *zap.Logger) *Exporter {
	return &Exporter{cfg: cfg, logger: logger.Named("export")}
}

// Export writes cases to the CSV and runs the script over it. Concurrent
// calls take turns so each script run reads the CSV its caller wrote.
func (e *Exporter) Export(ctx context.Context, cases []models.Case) (*RunResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.WriteCSV(cases); err != nil {
		return nil, err
	}
	return e.Run(ctx)
}

// CSVPath is where WriteCSV puts its output.
func (e *Exporter) CSVPath() string {
	return filepath.Join(e.cfg.Dir, e.cfg.CSVName)
}

// WriteCSV writes a blank first row followed by one row per case, with the
// date as YYYY/MM/DD in column A and the name in column G.
func (e *Exporter) WriteCSV(cases []models.Case) error {
	var buf bytes.Buffer
	if err := EncodeCSV(&buf, cases); err != nil {
		return err
	}
	if err := os.MkdirAll(e.cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	if err := os.WriteFile(e.CSVPath(), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write export csv: %w", err)
	}
	return nil
}

func EncodeCSV(buf *bytes.Buffer, cases []models.Case) error {
	w := csv.NewWriter(buf)
	if err := w.Write(make([]string, csvColumns)); err != nil {
		return fmt.Errorf("encode csv: %w", err)
	}
	for _, c := range cases {
		row := make([]string, csvColumns)
		row[dateColumn] = strings.ReplaceAll(c.Date, "-", "/")
		row[nameColumn] = c.Name
		if err := w.Write(row); err != nil {
			return fmt.Errorf("encode csv: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// Run executes the script and waits at most the configured timeout. A
// timeout is reported in the result, not as an error; failing to start the
// interpreter is an error.
func (e *Exporter) Run(ctx context.Context) (*RunResult, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	script := filepath.Join(e.cfg.Dir, e.cfg.Script)
	cmd := exec.CommandContext(ctx, e.cfg.Interpreter, script)
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := &RunResult{Stdout: stdout.String(), Stderr: stderr.String()}

	var exitErr *exec.ExitError
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		res.TimedOut = true
		res.ExitCode = -1
		e.logger.Warn("Export script timed out",
			zap.String("script", script),
			zap.Duration("timeout", e.cfg.Timeout))
		return res, nil
	case err == nil:
		res.ExitCode = 0
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		return nil, fmt.Errorf("run export script %s: %w", script, err)
	}

	e.logger.Info("Export script finished",
		zap.String("script", script),
		zap.Int("exit_code", res.ExitCode),
		zap.Duration("elapsed", time.Since(start)))
	return res, nil
}
