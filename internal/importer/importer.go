// Package importer reads image lists from CSV, Excel, YAML/JSON manifests and
// DXF outlines. CSV import detects the delimiter and maps columns by
// case-insensitive header names.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/PageFit/internal/model"
)

// maxCopies bounds the copies column so a typo cannot explode the image set.
const maxCopies = 500

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Images   []model.Image
	Errors   []string
	Warnings []string
}

// OK reports whether the import produced images without errors.
func (r ImportResult) OK() bool {
	return len(r.Errors) == 0 && len(r.Images) > 0
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Label  int
	Width  int
	Height int
	Copies int
	Source int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"label":  {"label", "name", "title", "image", "caption", "description"},
	"width":  {"width", "w", "width cm", "width (cm)"},
	"height": {"height", "h", "height cm", "height (cm)"},
	"copies": {"copies", "qty", "quantity", "count", "prints"},
	"source": {"source", "path", "file", "filename", "src"},
}

// DetectCSVDelimiter determines the most likely CSV delimiter. It tries comma,
// semicolon, tab and pipe; the one yielding the most consistent multi-column
// rows wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping. It returns
// a positional mapping (label, width, height, copies, source) and false when
// the row is not a header.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Label: -1, Width: -1, Height: -1, Copies: -1, Source: -1}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				target := mapping.slot(role)
				if *target == -1 {
					*target = i
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{Label: 0, Width: 1, Height: 2, Copies: 3, Source: 4}, false
	}
	return mapping, true
}

func (m *ColumnMapping) slot(role string) *int {
	switch role {
	case "label":
		return &m.Label
	case "width":
		return &m.Width
	case "height":
		return &m.Height
	case "copies":
		return &m.Copies
	default:
		return &m.Source
	}
}

// getCell safely retrieves a trimmed cell value; out-of-range yields "".
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseSize accepts both "12.5" and "12,5".
func parseSize(s string) (float64, error) {
	return strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
}

// parseRow extracts one entry from a row. Returns the entry, an error message
// and a warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, count int) (entry, string, string) {
	label := getCell(row, mapping.Label)
	if label == "" {
		label = fmt.Sprintf("Image %d", count+1)
	}

	widthStr := getCell(row, mapping.Width)
	if widthStr == "" {
		return entry{}, fmt.Sprintf("%s: Missing width value", rowLabel), ""
	}
	width, err := parseSize(widthStr)
	if err != nil {
		return entry{}, fmt.Sprintf("%s: Invalid width '%s'", rowLabel, widthStr), ""
	}

	heightStr := getCell(row, mapping.Height)
	if heightStr == "" {
		return entry{}, fmt.Sprintf("%s: Missing height value", rowLabel), ""
	}
	height, err := parseSize(heightStr)
	if err != nil {
		return entry{}, fmt.Sprintf("%s: Invalid height '%s'", rowLabel, heightStr), ""
	}

	copies := 1
	var warning string
	if s := getCell(row, mapping.Copies); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return entry{}, fmt.Sprintf("%s: Invalid copies '%s'", rowLabel, s), ""
		}
		if n > maxCopies {
			warning = fmt.Sprintf("%s: %d copies capped at %d", rowLabel, n, maxCopies)
			n = maxCopies
		}
		copies = n
	}

	return entry{
		Label:  label,
		Width:  width,
		Height: height,
		Copies: copies,
		Source: getCell(row, mapping.Source),
	}, "", warning
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportFile dispatches on the file extension.
func ImportFile(path string) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt", ".tsv":
		return ImportCSV(path)
	case ".xlsx", ".xlsm":
		return ImportExcel(path)
	case ".yaml", ".yml", ".json":
		return ImportManifest(path)
	case ".dxf":
		return ImportDXF(path, DefaultDXFOptions())
	default:
		return ImportResult{Errors: []string{fmt.Sprintf("Unsupported file type '%s'", filepath.Ext(path))}}
	}
}

// ImportCSV imports images from a CSV file, detecting the delimiter.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	var warnings []string
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	result = ImportCSVFromReader(bytes.NewReader(data), delimiter)
	result.Warnings = append(warnings, result.Warnings...)
	return result
}

// ImportCSVFromReader imports images from a reader with a known delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}}
	}
	if len(records) == 0 {
		return ImportResult{Errors: []string{"File is empty"}}
	}
	return importFromRows(records, "Line")
}

// ImportExcel imports images from the first sheet of an Excel workbook.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row")
}

// importFromRows is the shared logic for CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string) ImportResult {
	result := ImportResult{}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		var missing []string
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Height == -1 {
			missing = append(missing, "Height")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 3 {
		if _, err := parseSize(strings.TrimSpace(rows[0][1])); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	var entries []entry
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		e, errMsg, warning := parseRow(row, mapping, rowLabel, len(entries))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		e.where = rowLabel
		entries = append(entries, e)
	}

	result.appendEntries(entries)
	if len(result.Images) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No valid images found")
	}
	return result
}
