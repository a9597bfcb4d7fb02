package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"msmeinsights/domain/table"
)

const utf8BOM = "\ufeff"

// DefaultMaxBytes caps the size of a single input file
const DefaultMaxBytes int64 = 256 << 20

// DataReader handles reading CSV and Excel files into tables
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	maxBytes int64
}

// NewDataReader creates a reader; ".xlsx" files go through excelize, anything
// else is treated as comma-delimited text.
func NewDataReader(filePath string) *DataReader {
	fileType := "csv"
	if strings.EqualFold(filepath.Ext(filePath), ".xlsx") {
		fileType = "xlsx"
	}
	return &DataReader{filePath: filePath, fileType: fileType, maxBytes: DefaultMaxBytes}
}

// WithMaxBytes sets the largest file the reader accepts
func (r *DataReader) WithMaxBytes(n int64) *DataReader {
	if n > 0 {
		r.maxBytes = n
	}
	return r
}

// ReadTable parses the file. A header-only file yields a table with columns
// and zero rows; a file without a header row is an error.
func (r *DataReader) ReadTable(ctx context.Context) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := r.checkFile(); err != nil {
		return nil, err
	}

	var (
		rows [][]string
		err  error
	)
	switch r.fileType {
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		rows, err = r.readCSVRows()
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s file has no header row: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	return r.processRows(rows), nil
}

// checkFile only admits regular files within the size cap
func (r *DataReader) checkFile() error {
	info, err := os.Stat(r.filePath)
	if err != nil {
		return fmt.Errorf("failed to open %s file: %w", strings.ToUpper(r.fileType), err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("not a regular file: %s", r.filePath)
	}
	if info.Size() > r.maxBytes {
		return fmt.Errorf("file %s is %d bytes, over the %d byte limit", r.filePath, info.Size(), r.maxBytes)
	}
	return nil
}

// readExcelRows reads the first sheet of the workbook
func (r *DataReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("Excel file has no sheets: %s", r.filePath)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	return parseCSV(io.LimitReader(file, r.maxBytes))
}

func parseCSV(src io.Reader) ([][]string, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

// processRows converts raw string rows into a table
func (r *DataReader) processRows(rows [][]string) *table.Table {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		if i == 0 {
			header = strings.TrimPrefix(header, utf8BOM)
		}
		headers[i] = strings.TrimSpace(header)
	}

	dataRows := make([]table.Row, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rowData := make(table.Row, len(headers))
		for j, cell := range row {
			if j < len(headers) {
				if _, dup := rowData[headers[j]]; dup {
					continue
				}
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	return table.New(r.filePath, headers, dataRows)
}
