// Package normalize turns raw loaded tables into the shapes the merger
// expects: the Jira export restricted to stories of the latest sprint and
// the mapping sheet restricted to its key and label.
package normalize

import (
	"github.com/nconklindev/jiraland/internal/loader"
	"github.com/nconklindev/jiraland/internal/sprint"
	"github.com/nconklindev/jiraland/internal/types"
)

// Column names shared by the normalized tables.
const (
	ColSummary     = "Summary"
	ColIssueKey    = "Issue key"
	ColIssueType   = "Issue Type"
	ColFeatureLink = "Custom field (Feature Link)"
	ColSprint      = "Sprint"
	ColFeature     = "Feature"
	ColLabel       = "Label"
)

// IssueTypeStory is the only issue type kept from the export.
const IssueTypeStory = "Story"

var (
	exportColumns = []string{ColSummary, ColIssueKey, ColIssueType, ColFeatureLink, ColSprint}
	mapColumns    = []string{ColFeature, ColLabel}
)

// Selection describes which sprint an export was narrowed down to.
type Selection struct {
	Period    string
	SubPeriod string
	Query     string
}

// ExportFile loads and normalizes a Jira export. Loader errors are returned
// unchanged.
func ExportFile(path string) (*types.Table, *Selection, error) {
	raw, err := loader.Load(path)
	if err != nil {
		return nil, nil, err
	}
	return Export(raw)
}

// Export keeps the five export columns, renames the feature link column to
// Feature, drops everything that is not a story and keeps only the rows of
// the latest sprint.
//
// A table without stories normalizes to an empty table. Sprint values that
// carry no PI id are ignored when picking the latest sprint; if none carries
// one the export is rejected.
func Export(raw *types.Table) (*types.Table, *Selection, error) {
	tbl, missing := raw.Select(exportColumns...)
	if len(missing) > 0 {
		return nil, nil, types.NewError(types.KindMissingColumns, types.MsgMissingColumns, nil)
	}

	tbl.Rename(ColFeatureLink, ColFeature)
	stories := tbl.Where(ColIssueType, IssueTypeStory)
	if stories.Len() == 0 {
		return stories, &Selection{}, nil
	}

	query, period, sub, ok := sprint.Latest(stories.Column(ColSprint))
	if !ok {
		return nil, nil, types.NewError(types.KindNoSprint, types.MsgNoSprint, nil)
	}

	sel := &Selection{Period: period, SubPeriod: sub, Query: query}
	return stories.Where(ColSprint, query), sel, nil
}

// MapFile loads and normalizes a feature mapping sheet. Loader errors are
// returned unchanged.
func MapFile(path string) (*types.Table, error) {
	raw, err := loader.Load(path)
	if err != nil {
		return nil, err
	}
	return Map(raw)
}

// Map keeps the Feature and Label columns.
func Map(raw *types.Table) (*types.Table, error) {
	tbl, missing := raw.Select(mapColumns...)
	if len(missing) > 0 {
		return nil, types.NewError(types.KindMissingColumns, types.MsgMissingColumns, nil)
	}
	return tbl, nil
}
