// Package loader reads Jira exports and mapping sheets into types.Table.
//
// Three formats are accepted, chosen by file extension: csv, xlsx and the
// legacy binary xls. Only the first worksheet of a workbook is read.
package loader

import (
	"encoding/csv"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/nconklindev/jiraland/internal/types"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// HeaderSearchLimit bounds how many leading spreadsheet rows are inspected
// when looking for the header row.
const HeaderSearchLimit = 20

var readers = map[string]func(string) (*types.Table, error){
	"csv":  readCSV,
	"xlsx": readXLSX,
	"xls":  readXLS,
}

// Extension returns the text after the last dot of the file name, or an
// unsupported-type error. Matching is case-sensitive, so EXPORT.CSV is
// rejected.
func Extension(path string) (string, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if _, ok := readers[ext]; !ok {
		return "", types.NewError(types.KindUnsupported, types.MsgUnsupported, nil)
	}
	return ext, nil
}

// Load reads the file at path into a table. The extension is checked before
// the file is touched.
func Load(path string) (*types.Table, error) {
	ext, err := Extension(path)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, types.NewError(types.KindNotFound, types.MsgNotFound, err)
		}
		return nil, types.NewError(types.KindRead, types.MsgRead, err)
	}

	tbl, err := readers[ext](path)
	if err != nil {
		return nil, types.NewError(types.KindRead, types.MsgRead, err)
	}
	return tbl, nil
}

func readCSV(filePath string) (*types.Table, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	// Excel-saved exports usually start with a UTF-8 byte order mark.
	decoded := transform.NewReader(file, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, errEmpty
	}

	return types.NewTable(records[0], records[1:]), nil
}

func readXLSX(filePath string) (*types.Table, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	return sheetTable(rows)
}

func readXLS(filePath string) (*types.Table, error) {
	wb, err := xls.Open(filePath, "utf-8")
	if err != nil {
		return nil, err
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, errEmpty
	}

	var rows [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := xlsRow(sheet, i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for c := range cells {
			cells[c] = row.Col(c)
		}
		rows = append(rows, cells)
	}

	return sheetTable(rows)
}

// xlsRow returns row i of the sheet, or nil when the workbook has no record
// for it. WorkSheet.Row dereferences the missing row before returning it.
func xlsRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}

var (
	errEmpty    = errors.New("empty file")
	errNoHeader = errors.New("could not find header row")
)

// sheetTable turns raw worksheet rows into a table, dropping anything above
// the detected header row and rows that are entirely blank.
func sheetTable(rows [][]string) (*types.Table, error) {
	if len(rows) == 0 {
		return nil, errEmpty
	}

	headerRowIdx := findHeaderRow(rows)
	if headerRowIdx == -1 {
		return nil, errNoHeader
	}

	var data [][]string
	for _, row := range rows[headerRowIdx+1:] {
		if isBlank(row) {
			continue
		}
		data = append(data, row)
	}

	return types.NewTable(rows[headerRowIdx], data), nil
}

// findHeaderRow locates the header row. The first row wins when it has text
// and either two or more filled cells or a cell above every filled column
// below it. Otherwise the row with the most non-empty text cells (at least
// two) is taken, which skips a title line above the table.
func findHeaderRow(rows [][]string) int {
	searchLimit := len(rows)
	if searchLimit > HeaderSearchLimit {
		searchLimit = HeaderSearchLimit
	}
	if searchLimit == 0 {
		return -1
	}

	if count, text := nonEmptyCells(rows[0]); text && (count >= 2 || coversColumns(rows[0], rows[1:searchLimit])) {
		return 0
	}

	maxNonEmpty := 0
	headerIdx := -1
	for i := 1; i < searchLimit; i++ {
		nonEmptyCount, hasText := nonEmptyCells(rows[i])
		if hasText && nonEmptyCount >= 2 && nonEmptyCount > maxNonEmpty {
			maxNonEmpty = nonEmptyCount
			headerIdx = i
		}
	}

	return headerIdx
}

// nonEmptyCells counts the filled cells of a row and reports whether any of
// them holds letters.
func nonEmptyCells(row []string) (count int, hasText bool) {
	for _, cell := range row {
		trimmed := strings.TrimSpace(cell)
		if trimmed == "" {
			continue
		}
		count++
		if containsLetters(trimmed) {
			hasText = true
		}
	}
	return count, hasText
}

// coversColumns reports whether header has a filled cell at every column
// position that is filled in any of rows.
func coversColumns(header []string, rows [][]string) bool {
	for _, row := range rows {
		for c, cell := range row {
			if strings.TrimSpace(cell) == "" {
				continue
			}
			if c >= len(header) || strings.TrimSpace(header[c]) == "" {
				return false
			}
		}
	}
	return true
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// containsLetters checks if a string contains any alphabetic characters
func containsLetters(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}
