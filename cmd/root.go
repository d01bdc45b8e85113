package cmd

import (
	"fmt"
	"os"

	"github.com/nconklindev/jiraland/internal/config"
	"github.com/nconklindev/jiraland/internal/logger"
	"github.com/nconklindev/jiraland/internal/merger"
	"github.com/nconklindev/jiraland/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configDir string

// RootCmd starts the interactive report builder.
var RootCmd = &cobra.Command{
	Use:   "jiraland",
	Short: "Build a sprint label report from a Jira export",
	Long: `JiraLand joins the stories of the latest sprint in a Jira export with a
feature-to-label mapping sheet and writes the result as a CSV report.

Run without arguments to pick the files interactively, or use the
generate command for scripted runs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runUI,
}

// Execute runs the root command and exits non-zero on failure.
func Execute(version, commit, date string) {
	RootCmd.Version = version
	RootCmd.SetVersionTemplate(fmt.Sprintf("jiraland %s\ncommit: %s\nbuilt: %s\n", version, commit, date))

	if err := RootCmd.Execute(); err != nil {
		l, logErr := logger.New(&logger.Config{Level: "debug", Format: "console"})
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "Directory holding an optional .env file")
}

func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return cfg, l, nil
}

func runUI(cmd *cobra.Command, args []string) error {
	cfg, l, err := setup()
	if err != nil {
		return err
	}

	// The UI owns the terminal; only file logging is kept.
	if cfg.Log.IsTerminal() {
		l = zap.NewNop()
	}
	defer l.Sync()

	p := tea.NewProgram(ui.InitialModel(merger.New(l), cfg.Report), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}
