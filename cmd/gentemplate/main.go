// Command gentemplate generates the Excel import template for outlets.
// Usage: go run cmd/gentemplate/main.go
package main

import (
	"log"
	"os"

	"github.com/xuri/excelize/v2"
)

func main() {
	f := excelize.NewFile()

	// Rename Sheet1 to Outlets
	if err := f.SetSheetName("Sheet1", "Outlets"); err != nil {
		log.Fatal(err)
	}

	// Add headers
	headers := []string{"name", "url", "domain", "whyrelevant", "whynotrelevant", "relevancescore", "status"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			log.Fatal(err)
		}
		if err := f.SetCellValue("Outlets", cell, h); err != nil {
			log.Fatal(err)
		}
	}

	// Add example row 1
	row1 := []string{
		"The Daily Herald",
		"https://dailyherald.example.com",
		"dailyherald.example.com",
		"Covers the regional tech beat",
		"",
		"85",
		"open",
	}
	for i, v := range row1 {
		cell, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			log.Fatal(err)
		}
		if err := f.SetCellValue("Outlets", cell, v); err != nil {
			log.Fatal(err)
		}
	}

	// Add example row 2
	row2 := []string{"Local Weekly", "https://localweekly.example.org", "", "", "Paywalled, low reach", "20", "denied"}
	for i, v := range row2 {
		cell, err := excelize.CoordinatesToCellName(i+1, 3)
		if err != nil {
			log.Fatal(err)
		}
		if err := f.SetCellValue("Outlets", cell, v); err != nil {
			log.Fatal(err)
		}
	}

	// Create Instructions sheet
	if _, err := f.NewSheet("Instructions"); err != nil {
		log.Fatal(err)
	}
	instructions := []string{
		"Column Descriptions:",
		"",
		"name - Required. Display name of the press outlet",
		"url - Required. Outlet homepage (must start with http:// or https://)",
		"domain - Optional. Derived from the url when omitted",
		"whyrelevant - Optional. Free-text rationale for inclusion",
		"whynotrelevant - Optional. Free-text rationale against inclusion",
		"relevancescore - Optional. Number between 0 and 100 (default: 0)",
		"status - Optional. One of open, ended, denied (default: open)",
	}
	for i, line := range instructions {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			log.Fatal(err)
		}
		if err := f.SetCellValue("Instructions", cell, line); err != nil {
			log.Fatal(err)
		}
	}

	// Ensure examples directory exists
	if err := os.MkdirAll("examples", 0755); err != nil {
		log.Fatal(err)
	}

	// Save the file
	if err := f.SaveAs("examples/outlet-import-template.xlsx"); err != nil {
		log.Fatal(err)
	}
	log.Println("Created examples/outlet-import-template.xlsx")
}
