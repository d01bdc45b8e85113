package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeys(t *testing.T) {
	keys := defaultKeys(reflect.TypeOf(&Config{}), "")

	assert.Equal(t, map[string]string{
		"log.level":          "info",
		"log.format":         "console",
		"log.output":         "stderr",
		"report.jira_file":   "",
		"report.map_file":    "",
		"report.destination": ".",
		"report.name":        "",
	}, keys)
}

func TestDefaultKeys_SkipsUntaggedFields(t *testing.T) {
	type nested struct {
		Port int `mapstructure:"port" default:"8080"`
	}
	type sample struct {
		Server   nested `mapstructure:"server"`
		internal string
		Ignored  string `mapstructure:"-"`
	}

	assert.Equal(t, map[string]string{"server.port": "8080"}, defaultKeys(reflect.TypeOf(sample{}), ""))
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "stderr", cfg.Log.Output)
	assert.Equal(t, ".", cfg.Report.Destination)
	assert.Empty(t, cfg.Report.Name)
	assert.Empty(t, cfg.Report.JiraFile)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("JIRALAND_LOG_LEVEL", "debug")
	t.Setenv("JIRALAND_REPORT_DESTINATION", "/srv/reports")
	t.Setenv("JIRALAND_REPORT_MAP_FILE", "/srv/map.xlsx")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/srv/reports", cfg.Report.Destination)
	assert.Equal(t, "/srv/map.xlsx", cfg.Report.MapFile)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	content := "JIRALAND_REPORT_NAME=weekly\nJIRALAND_LOG_FORMAT=json\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o644))

	t.Cleanup(func() {
		os.Unsetenv("JIRALAND_REPORT_NAME")
		os.Unsetenv("JIRALAND_LOG_FORMAT")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "weekly", cfg.Report.Name)
	assert.Equal(t, "json", cfg.Log.Format)
}
