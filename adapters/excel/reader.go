package excel

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"rxcheck/domain/reaction"

	"github.com/xuri/excelize/v2"
)

// Recognized column headers, matched case-insensitively
const (
	ProductColumn        = "product"
	ReactantsColumn      = "reactants"
	ReactantColumnPrefix = "reactant_"
)

// RawRowData maps header to trimmed cell text for one row
type RawRowData map[string]string

// SheetData is a header row plus its data rows
type SheetData struct {
	Headers []string
	Rows    []RawRowData
}

// DataReader reads reaction sheets from Excel or CSV files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a reader; the file type follows the extension
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// ReadData reads the first sheet (or the CSV) into rows keyed by header
func (r *DataReader) ReadData() (*SheetData, error) {
	log.Printf("[DataReader] Starting to read %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	case "xlsx":
		return r.readExcelData()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

func (r *DataReader) readExcelData() (*SheetData, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("Excel file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheets[0], err)
	}
	log.Printf("[DataReader] %s read in %.2fms (%d rows)", sheets[0], float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	if len(rows) < 2 {
		return nil, fmt.Errorf("Excel file must have at least a header row and one data row")
	}
	return r.processRows(rows), nil
}

func (r *DataReader) readCSVData() (*SheetData, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}

	if len(rows) < 2 {
		return nil, fmt.Errorf("CSV file must have at least a header row and one data row")
	}
	return r.processRows(rows), nil
}

func (r *DataReader) processRows(rows [][]string) *SheetData {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.ToLower(strings.TrimSpace(header))
	}

	dataRows := make([]RawRowData, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rowData := make(RawRowData)
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	log.Printf("[DataReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(headers), len(dataRows))

	return &SheetData{Headers: headers, Rows: dataRows}
}

// ReadSubmissions reads one reaction per row. Reactants come either from a
// "reactants" column holding "."-joined notations or from numbered
// "reactant_N" columns in N order. Blank rows are skipped.
func (r *DataReader) ReadSubmissions() ([]reaction.Submission, error) {
	data, err := r.ReadData()
	if err != nil {
		return nil, err
	}
	return ParseSubmissions(data)
}

// ParseSubmissions converts sheet rows into submissions
func ParseSubmissions(data *SheetData) ([]reaction.Submission, error) {
	hasProduct, hasReactants := false, false
	var numbered []numberedColumn
	for _, h := range data.Headers {
		switch {
		case h == ProductColumn:
			hasProduct = true
		case h == ReactantsColumn:
			hasReactants = true
		case strings.HasPrefix(h, ReactantColumnPrefix):
			n, err := strconv.Atoi(strings.TrimPrefix(h, ReactantColumnPrefix))
			if err != nil || n < 1 {
				return nil, fmt.Errorf("bad reactant column %q", h)
			}
			numbered = append(numbered, numberedColumn{header: h, n: n})
		}
	}
	if !hasProduct {
		return nil, fmt.Errorf("missing %q column", ProductColumn)
	}
	if !hasReactants && len(numbered) == 0 {
		return nil, fmt.Errorf("missing %q or %q columns", ReactantsColumn, ReactantColumnPrefix+"N")
	}
	sort.Slice(numbered, func(i, j int) bool { return numbered[i].n < numbered[j].n })

	var out []reaction.Submission
	for i, row := range data.Rows {
		sub := reaction.Submission{Row: i + 1, Product: row[ProductColumn]}
		if hasReactants {
			for _, part := range strings.Split(row[ReactantsColumn], ".") {
				if part = strings.TrimSpace(part); part != "" {
					sub.Reactants = append(sub.Reactants, part)
				}
			}
		}
		for _, col := range numbered {
			if v := row[col.header]; v != "" {
				sub.Reactants = append(sub.Reactants, v)
			}
		}
		if sub.Product == "" && len(sub.Reactants) == 0 {
			continue
		}
		out = append(out, sub)
	}
	return out, nil
}

type numberedColumn struct {
	header string
	n      int
}
