// Package importer reads word lists from spreadsheet uploads.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/vytor/lingoflash/internal/models"
	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format, expected .xlsx or .csv")
	ErrNoWords           = errors.New("file contains no word pairs")
)

// Result is what one upload produced.
type Result struct {
	Words   []models.WordPair
	Rows    int
	Skipped int
	Errors  []string
}

// ReadWords parses an .xlsx or .csv upload. Column A is the front of the card
// and column B the back. A leading "front,back" header row is dropped and
// blank rows are skipped. Rows with only one side filled are reported in
// Result.Errors.
func ReadWords(r io.Reader, filename string) (*Result, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		rows, err = readExcel(r)
	case ".csv":
		rows, err = readCSV(r)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}

	res := &Result{Words: []models.WordPair{}, Errors: []string{}}
	for i, row := range rows {
		front, back := cell(row, 0), cell(row, 1)
		if i == 0 && isHeader(front, back) {
			continue
		}
		res.Rows++
		if front == "" && back == "" {
			res.Skipped++
			continue
		}
		if front == "" || back == "" {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: front and back are both required", i+1))
			continue
		}
		res.Words = append(res.Words, models.WordPair{Front: front, Back: back})
	}

	if len(res.Words) == 0 {
		return res, ErrNoWords
	}
	return res, nil
}

func readExcel(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoWords
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(row[idx], "\ufeff"))
}

func isHeader(front, back string) bool {
	return strings.EqualFold(front, "front") && strings.EqualFold(back, "back")
}
