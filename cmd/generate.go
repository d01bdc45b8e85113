package cmd

import (
	"errors"
	"fmt"

	"github.com/nconklindev/jiraland/internal/merger"
	"github.com/nconklindev/jiraland/internal/types"

	"github.com/spf13/cobra"
)

var req types.Request

// errGenerate signals that the message printed to stdout already describes
// the failure.
var errGenerate = errors.New("report was not generated")

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the report without the interactive UI",
	Long: `Generate reads the Jira export and the mapping sheet, keeps the stories of
the latest sprint, joins them on Feature and writes <dest>/<name>.csv.

Flags left empty fall back to JIRALAND_REPORT_* environment variables.

Examples:
  jiraland generate --jira export.xlsx --map features.csv --dest out --name sprint-report`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&req.JiraFile, "jira", "", "Jira export file (.csv, .xls, .xlsx)")
	generateCmd.Flags().StringVar(&req.MapFile, "map", "", "Feature to label mapping file (.csv, .xls, .xlsx)")
	generateCmd.Flags().StringVar(&req.Destination, "dest", "", "Destination directory")
	generateCmd.Flags().StringVar(&req.Name, "name", "", "Report file name without extension")

	RootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, l, err := setup()
	if err != nil {
		return err
	}
	defer l.Sync()

	r := req
	if r.JiraFile == "" {
		r.JiraFile = cfg.Report.JiraFile
	}
	if r.MapFile == "" {
		r.MapFile = cfg.Report.MapFile
	}
	if r.Destination == "" {
		r.Destination = cfg.Report.Destination
	}
	if r.Name == "" {
		r.Name = cfg.Report.Name
	}

	msg := merger.New(l).Generate(r)
	fmt.Fprintln(cmd.OutOrStdout(), msg)

	if msg != merger.SuccessMessage {
		return errGenerate
	}
	return nil
}
