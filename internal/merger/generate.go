package merger

import (
	"errors"
	"path/filepath"

	"github.com/nconklindev/jiraland/internal/normalize"
	"github.com/nconklindev/jiraland/internal/types"

	"go.uber.org/zap"
)

const (
	// SuccessMessage is returned when the report was written.
	SuccessMessage    = "CSV file generated successfully!"
	// IncompleteMessage is returned by Generate when a request field is empty.
	IncompleteMessage = "You need to fill all the information above first!"
)

const (
	jiraSource = "(from Jira extraction file)"
	mapSource  = "(from map file)"
)

// Generator runs the load, normalize, merge and export pipeline. It holds no
// state between runs.
type Generator struct {
	log *zap.Logger
}

// New returns a Generator logging to log. A nil logger disables logging.
func New(log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{log: log}
}

// Generate writes <Destination>/<Name>.csv from the request and returns the
// message to show the user.
func (g *Generator) Generate(req types.Request) string {
	if !req.Complete() {
		return IncompleteMessage
	}
	return g.GenerateCSV(req.JiraFile, req.MapFile, filepath.Join(req.Destination, req.Name))
}

// GenerateCSV writes exportFileName + ".csv" and returns either
// SuccessMessage or the failure message. It never panics on bad input.
func (g *Generator) GenerateCSV(jiraFile, mapFile, exportFileName string) string {
	if _, err := g.Run(jiraFile, mapFile, exportFileName); err != nil {
		return types.Message(err)
	}
	return SuccessMessage
}

// Run is the typed form of GenerateCSV.
func (g *Generator) Run(jiraFile, mapFile, exportFileName string) (*types.Result, error) {
	log := g.log.With(zap.String("jira_file", jiraFile), zap.String("map_file", mapFile))

	export, sel, exportErr := normalize.ExportFile(jiraFile)
	mapping, mapErr := normalize.MapFile(mapFile)

	if err := sourceError(exportErr, mapErr); err != nil {
		log.Warn("normalization failed", zap.Error(err), zap.NamedError("jira_error", exportErr), zap.NamedError("map_error", mapErr))
		return nil, err
	}

	log.Debug("export normalized",
		zap.Int("rows", export.Len()),
		zap.String("period", sel.Period),
		zap.String("sprint", sel.SubPeriod),
		zap.String("query", sel.Query),
	)
	log.Debug("map normalized", zap.Int("rows", mapping.Len()))

	merged := Merge(export, mapping)
	PrefixSummary(merged)

	outputFile := exportFileName + ".csv"
	rows, err := WriteCSV(outputFile, merged, OutputColumns)
	if err != nil {
		var pipelineErr *types.Error
		if !errors.As(err, &pipelineErr) {
			err = types.NewError(types.KindWrite, types.MsgWrite, err)
		}
		log.Error("writing report failed", zap.String("output", outputFile), zap.Error(err), zap.NamedError("cause", errors.Unwrap(err)))
		return nil, err
	}

	log.Info("report generated",
		zap.String("output", outputFile),
		zap.Int("rows", rows),
		zap.String("period", sel.Period),
		zap.String("sprint", sel.SubPeriod),
	)

	return &types.Result{
		JiraFile:    jiraFile,
		MapFile:     mapFile,
		OutputFile:  outputFile,
		Period:      sel.Period,
		SubPeriod:   sel.SubPeriod,
		RowsWritten: rows,
	}, nil
}

// sourceError annotates normalization failures with the file they came
// from, combining both when both inputs were rejected. The combined form has
// no space before the first annotation: "<a>(from Jira extraction file) and\n<b> (from map file)".
func sourceError(exportErr, mapErr error) error {
	switch {
	case exportErr != nil && mapErr != nil:
		msg := types.Message(exportErr) + jiraSource + " and\n" + types.Message(mapErr) + " " + mapSource
		return types.NewError(types.KindCombined, msg, errors.Join(exportErr, mapErr))
	case exportErr != nil:
		return types.NewError(types.KindOf(exportErr), types.Message(exportErr)+" "+jiraSource, exportErr)
	case mapErr != nil:
		return types.NewError(types.KindOf(mapErr), types.Message(mapErr)+" "+mapSource, mapErr)
	}
	return nil
}
