// Package importer parses outlet bulk-import spreadsheets.
package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jonesrussell/gopress/internal/models"
)

// maxImportRows caps one import at the bulk-upsert batch limit.
const maxImportRows = 500

// headerRowIndex is the 1-based Excel row holding the column headers.
const headerRowIndex = 1

// OutletRow represents a parsed row from the import spreadsheet.
type OutletRow struct {
	Row            int // Excel row number (for error reporting)
	Name           string
	URL            string
	Domain         string
	WhyRelevant    string
	WhyNotRelevant string
	RelevanceScore float64
	Status         string
}

// ImportError represents a validation error for a specific row.
type ImportError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// columnMap holds the 0-based column index for each recognized header, or
// -1 when the column is absent.
type columnMap struct {
	name           int
	url            int
	domain         int
	whyRelevant    int
	whyNotRelevant int
	relevanceScore int
	status         int
}

// ValidateRow validates a single row and returns an error message or empty string.
func ValidateRow(row OutletRow) string {
	if strings.TrimSpace(row.Name) == "" {
		return "name is required"
	}
	if strings.TrimSpace(row.URL) == "" {
		return "url is required"
	}
	if !strings.HasPrefix(row.URL, "http://") && !strings.HasPrefix(row.URL, "https://") {
		return "url must start with http:// or https://"
	}
	if row.RelevanceScore < 0 || row.RelevanceScore > 100 {
		return "relevanceScore must be between 0 and 100"
	}
	if row.Status != "" && !models.RelevanceStatus(row.Status).Valid() {
		return "status must be one of open, ended, denied"
	}
	return ""
}

// ParseOutletRows reads the first sheet of an Excel workbook and returns
// the valid rows plus per-row validation errors. Columns are located by
// header name; only name and url are required.
func ParseOutletRows(reader io.Reader) ([]OutletRow, []ImportError, error) {
	rows, err := openExcelRows(reader)
	if err != nil {
		return nil, nil, err
	}

	if len(rows) <= headerRowIndex {
		return nil, nil, fmt.Errorf("spreadsheet has no data rows")
	}
	if len(rows)-headerRowIndex > maxImportRows {
		return nil, nil, fmt.Errorf("spreadsheet has %d rows, maximum is %d", len(rows)-headerRowIndex, maxImportRows)
	}

	colMap := mapColumns(rows[0])
	if importErr := validateRequiredColumns(colMap); importErr != nil {
		return nil, []ImportError{*importErr}, nil
	}

	parsed := make([]OutletRow, 0, len(rows)-headerRowIndex)
	importErrors := make([]ImportError, 0)

	for i, cells := range rows[headerRowIndex:] {
		rowNum := i + headerRowIndex + 1

		row := OutletRow{
			Row:            rowNum,
			Name:           cellAt(cells, colMap.name),
			URL:            cellAt(cells, colMap.url),
			Domain:         cellAt(cells, colMap.domain),
			WhyRelevant:    cellAt(cells, colMap.whyRelevant),
			WhyNotRelevant: cellAt(cells, colMap.whyNotRelevant),
			Status:         cellAt(cells, colMap.status),
		}

		if raw := cellAt(cells, colMap.relevanceScore); raw != "" {
			score, parseErr := strconv.ParseFloat(raw, 64)
			if parseErr != nil {
				importErrors = append(importErrors, ImportError{Row: rowNum, Error: "relevanceScore must be a number"})
				continue
			}
			row.RelevanceScore = score
		}

		if msg := ValidateRow(row); msg != "" {
			importErrors = append(importErrors, ImportError{Row: rowNum, Error: msg})
			continue
		}

		parsed = append(parsed, row)
	}

	return parsed, importErrors, nil
}

func openExcelRows(reader io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	return rows, nil
}

func mapColumns(header []string) columnMap {
	colMap := columnMap{
		name: -1, url: -1, domain: -1,
		whyRelevant: -1, whyNotRelevant: -1,
		relevanceScore: -1, status: -1,
	}

	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "name", "outletname":
			colMap.name = i
		case "url", "outleturl":
			colMap.url = i
		case "domain", "outletdomain":
			colMap.domain = i
		case "whyrelevant":
			colMap.whyRelevant = i
		case "whynotrelevant":
			colMap.whyNotRelevant = i
		case "relevancescore", "score":
			colMap.relevanceScore = i
		case "status":
			colMap.status = i
		}
	}

	return colMap
}

func validateRequiredColumns(colMap columnMap) *ImportError {
	missing := make([]string, 0, 2)
	if colMap.name == -1 {
		missing = append(missing, "name")
	}
	if colMap.url == -1 {
		missing = append(missing, "url")
	}
	if len(missing) == 0 {
		return nil
	}
	label := "missing required column"
	if len(missing) > 1 {
		label = "missing required columns"
	}
	return &ImportError{
		Row:   headerRowIndex,
		Error: fmt.Sprintf("%s: %s", label, strings.Join(missing, ", ")),
	}
}

func cellAt(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}
