package merger

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/nconklindev/jiraland/internal/normalize"
	"github.com/nconklindev/jiraland/internal/types"
)

// OutputColumns are the report columns, in file order.
var OutputColumns = []string{normalize.ColIssueType, normalize.ColSummary, normalize.ColLabel}

// Merge inner-joins the normalized export with the mapping table on Feature.
// Rows keep the export's order; an export row matching several mapping rows
// appears once per match. Empty keys never match. The result carries the
// export columns followed by the mapping's Label column.
func Merge(export, mapping *types.Table) *types.Table {
	leftKey := export.Index(normalize.ColFeature)
	rightKey := mapping.Index(normalize.ColFeature)

	var extra []int
	headers := append([]string(nil), export.Headers...)
	for i, h := range mapping.Headers {
		if i == rightKey {
			continue
		}
		extra = append(extra, i)
		headers = append(headers, h)
	}

	byKey := make(map[string][][]string)
	for _, row := range mapping.Rows {
		key := row[rightKey]
		if key == "" {
			continue
		}
		byKey[key] = append(byKey[key], row)
	}

	merged := &types.Table{Headers: headers}
	for _, row := range export.Rows {
		key := row[leftKey]
		if key == "" {
			continue
		}
		for _, match := range byKey[key] {
			out := make([]string, 0, len(headers))
			out = append(out, row...)
			for _, i := range extra {
				out = append(out, match[i])
			}
			merged.Rows = append(merged.Rows, out)
		}
	}

	return merged
}

// PrefixSummary rewrites Summary as "<Issue key> <Summary>" on every row.
func PrefixSummary(t *types.Table) {
	keyIdx := t.Index(normalize.ColIssueKey)
	summaryIdx := t.Index(normalize.ColSummary)
	if keyIdx < 0 || summaryIdx < 0 {
		return
	}
	for _, row := range t.Rows {
		row[summaryIdx] = row[keyIdx] + " " + row[summaryIdx]
	}
}

// WriteCSV writes the given columns of t, header first, to outputFile.
// Nothing is left at outputFile when writing fails.
func WriteCSV(outputFile string, t *types.Table, columns []string) (int, error) {
	sel, missing := t.Select(columns...)
	if len(missing) > 0 {
		return 0, types.NewError(types.KindMissingColumns, types.MsgMissingColumns, nil)
	}

	err := createFile(outputFile, func(w io.Writer) error {
		writer := csv.NewWriter(w)
		if err := writer.Write(sel.Headers); err != nil {
			return err
		}
		return writer.WriteAll(sel.Rows)
	})
	if err != nil {
		return 0, err
	}

	return sel.Len(), nil
}

// createFile creates path, fills it through write and closes it. When write
// or close fails a regular file is removed again; devices and pipes are left
// alone.
func createFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	info, statErr := f.Stat()

	err = write(f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil && statErr == nil && info.Mode().IsRegular() {
		_ = os.Remove(path)
	}
	return err
}
