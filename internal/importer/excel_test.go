package importer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, header []string, rows [][]string) *bytes.Reader {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			t.Fatalf("set header cell: %v", err)
		}
	}
	for rowIdx, row := range rows {
		for colIdx, val := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

var defaultHeader = []string{"name", "url", "domain", "whyRelevant", "whyNotRelevant", "relevanceScore", "status"}

func TestParseOutletRows(t *testing.T) {
	t.Run("valid rows parsed", func(t *testing.T) {
		reader := buildWorkbook(t, defaultHeader, [][]string{
			{"Daily Press", "https://dailypress.example", "dailypress.example", "local", "paywalled", "72.5", "open"},
			{"Weekly Press", "https://weekly.example", "", "regional", "small reach", "40", ""},
		})

		rows, importErrors, err := ParseOutletRows(reader)
		if err != nil {
			t.Fatalf("ParseOutletRows() error: %v", err)
		}
		if len(importErrors) != 0 {
			t.Fatalf("unexpected import errors: %v", importErrors)
		}
		if len(rows) != 2 {
			t.Fatalf("parsed %d rows, want 2", len(rows))
		}
		if rows[0].RelevanceScore != 72.5 {
			t.Errorf("RelevanceScore = %v, want 72.5", rows[0].RelevanceScore)
		}
		if rows[1].Row != 3 {
			t.Errorf("Row = %d, want 3", rows[1].Row)
		}
	})

	t.Run("invalid rows reported with row numbers", func(t *testing.T) {
		reader := buildWorkbook(t, defaultHeader, [][]string{
			{"", "https://a.example", "", "", "", "50", ""},
			{"B", "ftp://b.example", "", "", "", "50", ""},
			{"C", "https://c.example", "", "", "", "150", ""},
			{"D", "https://d.example", "", "", "", "abc", ""},
			{"E", "https://e.example", "", "", "", "50", "paused"},
		})

		rows, importErrors, err := ParseOutletRows(reader)
		if err != nil {
			t.Fatalf("ParseOutletRows() error: %v", err)
		}
		if len(rows) != 0 {
			t.Errorf("parsed %d rows, want 0", len(rows))
		}
		if len(importErrors) != 5 {
			t.Fatalf("got %d import errors, want 5", len(importErrors))
		}
		if importErrors[0].Row != 2 {
			t.Errorf("first error row = %d, want 2", importErrors[0].Row)
		}
	})

	t.Run("missing required columns", func(t *testing.T) {
		reader := buildWorkbook(t, []string{"domain", "status"}, [][]string{
			{"a.example", "open"},
		})

		rows, importErrors, err := ParseOutletRows(reader)
		if err != nil {
			t.Fatalf("ParseOutletRows() error: %v", err)
		}
		if len(rows) != 0 {
			t.Errorf("parsed %d rows, want 0", len(rows))
		}
		if len(importErrors) != 1 || !strings.Contains(importErrors[0].Error, "missing required columns") {
			t.Errorf("importErrors = %v", importErrors)
		}
	})

	t.Run("not a spreadsheet", func(t *testing.T) {
		_, _, err := ParseOutletRows(bytes.NewReader([]byte("not excel")))
		if err == nil {
			t.Fatal("expected error for invalid file")
		}
	})

	t.Run("no data rows", func(t *testing.T) {
		reader := buildWorkbook(t, defaultHeader, nil)
		_, _, err := ParseOutletRows(reader)
		if err == nil {
			t.Fatal("expected error for empty sheet")
		}
	})
}

func TestValidateRow(t *testing.T) {
	valid := OutletRow{Name: "A", URL: "https://a.example", RelevanceScore: 50}
	if msg := ValidateRow(valid); msg != "" {
		t.Errorf("ValidateRow() = %q, want empty", msg)
	}

	tests := []struct {
		name string
		row  OutletRow
		want string
	}{
		{"missing name", OutletRow{URL: "https://a.example"}, "name is required"},
		{"missing url", OutletRow{Name: "A"}, "url is required"},
		{"bad scheme", OutletRow{Name: "A", URL: "gopher://a"}, "url must start with http:// or https://"},
		{"score out of range", OutletRow{Name: "A", URL: "https://a.example", RelevanceScore: 101}, "relevanceScore must be between 0 and 100"},
		{"bad status", OutletRow{Name: "A", URL: "https://a.example", Status: "paused"}, "status must be one of open, ended, denied"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateRow(tt.row); got != tt.want {
				t.Errorf("ValidateRow() = %q, want %q", got, tt.want)
			}
		})
	}
}
