package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"case-analysis/models"
)

func TestEncodeCSV(t *testing.T) {
	var buf bytes.Buffer
	err := EncodeCSV(&buf, []models.Case{
		{Name: "解約トラブル", Date: "2024-03-29"},
		{Name: "a, b", Date: "2024-04-01"},
	})
	require.NoError(t, err)

	want := ",,,,,,\n" +
		"2024/03/29,,,,,,解約トラブル\n" +
		"2024/04/01,,,,,,\"a, b\"\n"
	assert.Equal(t, want, buf.String())
}

func newShellExporter(t *testing.T, script string, timeout time.Duration) *Exporter {
	t.Helper()
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "script.sh"), []byte(script), 0o644))
	return NewExporter(Config{
		Dir:         dir,
		CSVName:     "cases.csv",
		Script:      "script.sh",
		Interpreter: sh,
		Timeout:     timeout,
	}, zap.NewNop())
}

func TestExporter_WriteCSVThenRun(t *testing.T) {
	e := newShellExporter(t, "cat \"$(dirname \"$0\")/cases.csv\"\necho oops >&2\nexit 3\n", 10*time.Second)

	require.NoError(t, e.WriteCSV([]models.Case{{Name: "n", Date: "2024-01-02"}}))

	res, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.False(t, res.TimedOut)
	assert.Contains(t, res.Stdout, "2024/01/02,,,,,,n")
	assert.Equal(t, "oops\n", res.Stderr)
}

func TestExporter_ExportConcurrentCallers(t *testing.T) {
	// The pause widens the window between writing the CSV and reading it.
	e := newShellExporter(t, "sleep 0.05\ncat \"$(dirname \"$0\")/cases.csv\"\n", 10*time.Second)

	const callers = 6
	outputs := make([]string, callers)
	var g errgroup.Group
	for i := 0; i < callers; i++ {
		i := i
		g.Go(func() error {
			res, err := e.Export(context.Background(), []models.Case{
				{Name: fmt.Sprintf("case-%d", i), Date: "2024-01-02"},
			})
			if err != nil {
				return err
			}
			outputs[i] = res.Stdout
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for i, out := range outputs {
		assert.Equal(t, fmt.Sprintf(",,,,,,\n2024/01/02,,,,,,case-%d\n", i), out)
	}
}

func TestExporter_RunTimeout(t *testing.T) {
	e := newShellExporter(t, "sleep 5\n", 100*time.Millisecond)

	start := time.Now()
	res, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, res.TimedOut)
	assert.Equal(t, -1, res.ExitCode)
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestExporter_MissingInterpreter(t *testing.T) {
	e := NewExporter(Config{
		Dir:         t.TempDir(),
		Script:      "x.py",
		Interpreter: "definitely-not-an-interpreter-on-path",
		Timeout:     time.Second,
	}, zap.NewNop())

	_, err := e.Run(context.Background())
	assert.Error(t, err)
}
