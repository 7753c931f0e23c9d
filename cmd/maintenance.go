package cmd

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"case-analysis/database"
	"case-analysis/models"
	"case-analysis/repositories"
)

var casesCmd = &cobra.Command{
	Use:   "cases",
	Short: "Manage stored cases",
}

var casesImportCmd = &cobra.Command{
	Use:   "import [file.csv]",
	Short: "Import cases from a CSV file with a header row",
	Long: `Reads a CSV export of the case spreadsheet. The header row names the
columns; ［件名］, ［相談概要］, ［受付年月日］ and ［販売購入形態］ (with or
without brackets) and name, description, date, type are recognized. Date
cells may be ISO dates, Japanese dates or spreadsheet serial numbers.
Rows that fail validation are skipped and reported.`,
	Args: cobra.ExactArgs(1),
	RunE: runCasesImport,
}

var casesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every case",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer database.Close(db)

		n, err := repositories.NewCaseRepository(db).DeleteAll(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d cases\n", n)
		return nil
	},
}

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "Manage the field and word taxonomy",
}

var fieldsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Replace all fields and words with the default f1..f5 taxonomy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer database.Close(db)

		repo := repositories.NewFieldRepository(db)
		if err := repo.ResetAll(cmd.Context()); err != nil {
			return err
		}
		fields, err := repo.BootstrapDefault(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %d default fields\n", len(fields))
		return nil
	},
}

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database maintenance",
}

var dbClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all rows from every table and reset id counters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer database.Close(db)

		deleted, err := database.ClearAll(db)
		if err != nil {
			return err
		}
		tables := make([]string, 0, len(deleted))
		for t := range deleted {
			tables = append(tables, t)
		}
		sort.Strings(tables)
		for _, t := range tables {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d deleted\n", t, deleted[t])
		}
		return nil
	},
}

func runCasesImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := readCaseRows(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer database.Close(db)

	result, err := repositories.NewCaseRepository(db).InsertMany(cmd.Context(), rows)
	if err != nil {
		return err
	}
	for _, s := range result.Skipped {
		// +2: the header is line 1 and rows are 0-based.
		logger.Warn("Skipping invalid row", zap.Int("line", s.Index+2), zap.String("reason", s.Reason))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Inserted %d of %d rows\n", result.Inserted, result.Received)
	return nil
}

// readCaseRows decodes a CSV with a header row into case inputs. Numeric
// cells under a date header become spreadsheet serials.
func readCaseRows(r io.Reader) ([]models.CaseInput, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("missing header row")
	}
	if err != nil {
		return nil, err
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	rows := []models.CaseInput{}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		raw := make(map[string]any, len(header))
		for i, cell := range record {
			if i >= len(header) {
				break
			}
			raw[header[i]] = cellValue(header[i], cell)
		}
		rows = append(rows, models.CaseInputFromRow(raw))
	}
	return rows, nil
}

func cellValue(header, cell string) any {
	cell = strings.TrimSpace(cell)
	if models.IsDateKey(header) {
		if serial, err := strconv.ParseFloat(cell, 64); err == nil {
			return serial
		}
	}
	return cell
}
