package loader

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/nconklindev/jiraland/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeCSV(t *testing.T, path string, records [][]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	w := csv.NewWriter(f)
	require.NoError(t, w.WriteAll(records))
	require.NoError(t, f.Close())
}

func writeXLSX(t *testing.T, path string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
}

func TestExtension(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{"CSV", "export.csv", "csv", false},
		{"XLSX", "/tmp/export.xlsx", "xlsx", false},
		{"XLS", "map.xls", "xls", false},
		{"Upper case", "EXPORT.CSV", "", true},
		{"Mixed case", "map.Xlsx", "", true},
		{"Multiple dots", "jira.2023.xlsx", "xlsx", false},
		{"Text file", "notes.txt", "", true},
		{"No extension", "export", "", true},
		{"Dot in directory", "dir.csv/export", "", true},
		{"Macro workbook", "book.xlsm", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extension(tt.path)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, types.KindUnsupported, types.KindOf(err))
				assert.Equal(t, types.MsgUnsupported, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad_UnsupportedBeforeRead(t *testing.T) {
	tmpDir := t.TempDir()

	existing := filepath.Join(tmpDir, "notes.txt")
	require.NoError(t, os.WriteFile(existing, []byte("Feature,Label\n"), 0o644))

	upper := filepath.Join(tmpDir, "MAP.CSV")
	require.NoError(t, os.WriteFile(upper, []byte("Feature,Label\n"), 0o644))

	for _, path := range []string{existing, upper, filepath.Join(tmpDir, "missing.json")} {
		_, err := Load(path)
		assert.Equal(t, types.KindUnsupported, types.KindOf(err), path)
	}
}

func TestLoad_NotFound(t *testing.T) {
	tmpDir := t.TempDir()

	for _, name := range []string{"missing.csv", "missing.xlsx", "missing.xls"} {
		t.Run(name, func(t *testing.T) {
			tbl, err := Load(filepath.Join(tmpDir, name))
			assert.Nil(t, tbl)
			require.Error(t, err)
			assert.Equal(t, types.KindNotFound, types.KindOf(err))
			assert.Equal(t, "File not found!", err.Error())
		})
	}
}

func TestLoad_CSV(t *testing.T) {
	tmpDir := t.TempDir()
	inputFile := filepath.Join(tmpDir, "map.csv")

	writeCSV(t, inputFile, [][]string{
		{"Feature", "Label", "Owner"},
		{"F-1", "Payments"},
		{"F-2", "Search", "Ana"},
	})

	tbl, err := Load(inputFile)
	require.NoError(t, err)

	assert.Equal(t, []string{"Feature", "Label", "Owner"}, tbl.Headers)
	assert.Equal(t, [][]string{
		{"F-1", "Payments", ""},
		{"F-2", "Search", "Ana"},
	}, tbl.Rows)
}

func TestLoad_CSVWithByteOrderMark(t *testing.T) {
	tmpDir := t.TempDir()
	inputFile := filepath.Join(tmpDir, "export.csv")

	content := "\xef\xbb\xbfSummary,Issue key\nLogin page,JL-1\n"
	require.NoError(t, os.WriteFile(inputFile, []byte(content), 0o644))

	tbl, err := Load(inputFile)
	require.NoError(t, err)

	assert.Equal(t, 0, tbl.Index("Summary"))
	assert.Equal(t, []string{"JL-1"}, tbl.Column("Issue key"))
}

func TestLoad_CSVRepeatedSprintColumns(t *testing.T) {
	tmpDir := t.TempDir()
	inputFile := filepath.Join(tmpDir, "export.csv")

	writeCSV(t, inputFile, [][]string{
		{"Issue key", "Sprint", "Sprint"},
		{"JL-1", "PI23.1 Sprint 4", "PI23.1 Sprint 5"},
	})

	tbl, err := Load(inputFile)
	require.NoError(t, err)

	assert.Equal(t, []string{"Issue key", "Sprint", "Sprint.1"}, tbl.Headers)
	assert.Equal(t, []string{"PI23.1 Sprint 4"}, tbl.Column("Sprint"))
}

func TestLoad_ReadFailures(t *testing.T) {
	tmpDir := t.TempDir()

	emptyCSV := filepath.Join(tmpDir, "empty.csv")
	require.NoError(t, os.WriteFile(emptyCSV, nil, 0o644))

	brokenXLSX := filepath.Join(tmpDir, "broken.xlsx")
	require.NoError(t, os.WriteFile(brokenXLSX, []byte("not a zip archive"), 0o644))

	dirCSV := filepath.Join(tmpDir, "folder.csv")
	require.NoError(t, os.Mkdir(dirCSV, 0o755))

	for _, path := range []string{emptyCSV, brokenXLSX, dirCSV} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			_, err := Load(path)
			require.Error(t, err)
			assert.Equal(t, types.KindRead, types.KindOf(err))
			assert.Equal(t, types.MsgRead, err.Error())
		})
	}
}

func TestLoad_XLSX(t *testing.T) {
	tmpDir := t.TempDir()
	inputFile := filepath.Join(tmpDir, "export.xlsx")

	writeXLSX(t, inputFile, [][]any{
		{"Summary", "Issue key", "Issue Type", "Custom field (Feature Link)", "Sprint"},
		{"Login page", "JL-1", "Story", "F-1", "Team Kiwi PI23.1 Sprint 5"},
		{},
		{"Fix build", "JL-2", "Task", "F-2", "Team Kiwi PI23.1 Sprint 5"},
	})

	tbl, err := Load(inputFile)
	require.NoError(t, err)

	assert.Equal(t, "Custom field (Feature Link)", tbl.Headers[3])
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, []string{"JL-1", "JL-2"}, tbl.Column("Issue key"))
}

func TestLoad_XLSXTitleRowAboveHeader(t *testing.T) {
	tmpDir := t.TempDir()
	inputFile := filepath.Join(tmpDir, "map.xlsx")

	writeXLSX(t, inputFile, [][]any{
		{"Feature mapping"},
		{},
		{"Feature", "Label"},
		{"F-1", "Payments"},
	})

	tbl, err := Load(inputFile)
	require.NoError(t, err)

	assert.Equal(t, []string{"Feature", "Label"}, tbl.Headers)
	assert.Equal(t, [][]string{{"F-1", "Payments"}}, tbl.Rows)
}

func TestLoad_XLSXNoteColumnInDataRow(t *testing.T) {
	tmpDir := t.TempDir()
	inputFile := filepath.Join(tmpDir, "map.xlsx")

	writeXLSX(t, inputFile, [][]any{
		{"Feature", "Label"},
		{"F-1", "Payments", "ask Ana", "blocked"},
		{"F-2", "Search"},
	})

	tbl, err := Load(inputFile)
	require.NoError(t, err)

	assert.Equal(t, []string{"Feature", "Label"}, tbl.Headers)
	assert.Equal(t, [][]string{{"F-1", "Payments"}, {"F-2", "Search"}}, tbl.Rows)
}

// testdata/map.xls is a BIFF8 workbook with a title in A1, the header on
// row 2, data on rows 3 and 5 and no record at all for row 4.
func TestLoad_XLS(t *testing.T) {
	tbl, err := Load(filepath.Join("testdata", "map.xls"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Feature", "Label"}, tbl.Headers)
	assert.Equal(t, [][]string{
		{"F-1", "Payments"},
		{"F-2", "Search"},
	}, tbl.Rows)
	assert.NotContains(t, tbl.Column("Feature"), "Feature map")
}

func TestLoad_XLSGarbage(t *testing.T) {
	inputFile := filepath.Join(t.TempDir(), "map.xls")
	require.NoError(t, os.WriteFile(inputFile, []byte("Feature,Label\nF-1,Payments\n"), 0o644))

	_, err := Load(inputFile)
	require.Error(t, err)
	assert.Equal(t, types.KindRead, types.KindOf(err))
}

func TestFindHeaderRow(t *testing.T) {
	tests := []struct {
		name     string
		rows     [][]string
		expected int
	}{
		{"First row", [][]string{{"Feature", "Label"}, {"F-1", "x"}}, 0},
		{"After title", [][]string{{"Report"}, {"Feature", "Label"}}, 1},
		{"Numbers only", [][]string{{"1", "2"}, {"3", "4"}}, -1},
		{"Ties keep first", [][]string{{"Feature", "Label"}, {"Alpha", "Beta"}}, 0},
		{"Empty", [][]string{{}, {""}}, -1},
		{"Note column in data row", [][]string{{"Feature", "Label"}, {"F-1", "Payments", "see JL-9"}}, 0},
		{"Data row wider than header", [][]string{{"Feature", "Label"}, {"F-1", "Payments", "a", "b", "c"}}, 0},
		{"Single column", [][]string{{"Feature"}, {"F-1"}, {"F-2"}}, 0},
		{"Title above blank row", [][]string{{"Report"}, {}, {"Feature", "Label", "Owner"}}, 2},
		{"Lone text cells below title", [][]string{{"1"}, {"Report"}, {"Note"}}, -1},
		{"No rows", nil, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, findHeaderRow(tt.rows))
		})
	}
}
