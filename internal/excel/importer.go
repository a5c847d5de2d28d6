// Package excel imports card sets from spreadsheet files.
package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/flashbot/internal/database"
	"github.com/example/flashbot/pkg/models"
	"github.com/xuri/excelize/v2"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath   string // Path to the Excel or CSV file
	SetName    string // Name for the created card set
	UserID     int64  // Owner of the created set
	SheetName  string // Name of the sheet to import
	TermCol    int    // Zero-based column with the term
	DefCol     int    // Zero-based column with the definition
	SkipHeader bool   // Skip the first row
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		SheetName:  "Sheet1",
		TermCol:    0,
		DefCol:     1,
		SkipHeader: true,
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	SetID          string
	TotalProcessed int
	Created        int
	Skipped        int
	Errors         []string
}

// ImportCards imports a card set from an Excel or CSV file. Rows missing a
// term or definition are skipped and reported, not fatal.
func ImportCards(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	if config.SetName == "" {
		base := filepath.Base(config.FilePath)
		config.SetName = strings.TrimSuffix(base, filepath.Ext(base))
	}

	var rows [][]string
	var err error
	if strings.ToLower(filepath.Ext(config.FilePath)) == ".csv" {
		rows, err = readCSV(config.FilePath)
	} else {
		rows, err = readExcel(config.FilePath, config.SheetName)
	}
	if err != nil {
		return nil, err
	}

	setRepo := database.NewCardSetRepository()
	cardRepo := database.NewCardRepository()

	set := models.CardSet{UserID: config.UserID, Name: config.SetName}
	if err := setRepo.Create(ctx, &set); err != nil {
		return nil, fmt.Errorf("failed to create card set: %w", err)
	}

	result := &ImportResult{SetID: set.ID}

	for i, row := range rows {
		if i == 0 && config.SkipHeader {
			continue
		}
		result.TotalProcessed++

		term := cell(row, config.TermCol)
		definition := cell(row, config.DefCol)
		if term == "" || definition == "" {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: missing term or definition", i+1))
			continue
		}

		card := models.Card{SetID: set.ID, Term: term, Definition: definition}
		if err := cardRepo.Create(ctx, &card); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
			continue
		}
		result.Created++
	}

	return result, nil
}

// readExcel loads all rows from one sheet of an xlsx file
func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

// readCSV loads all rows from a CSV file
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
