package config

import (
	"path/filepath"
	"reflect"
	"strings"

	"github.com/nconklindev/jiraland/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g.
// JIRALAND_LOG_LEVEL or JIRALAND_REPORT_DESTINATION.
const EnvPrefix = "JIRALAND"

// Config holds all configuration for the application.
type Config struct {
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Report holds default values for the report request.
	Report Report `mapstructure:"report"`
}

// Report supplies defaults for the four request fields. Empty values must
// be provided on the command line or in the UI.
type Report struct {
	JiraFile    string `mapstructure:"jira_file" default:""`
	MapFile     string `mapstructure:"map_file" default:""`
	Destination string `mapstructure:"destination" default:"."`
	Name        string `mapstructure:"name" default:""`
}

// LoadConfig loads configuration from environment variables and an optional
// .env file in path.
func LoadConfig(path string) (*Config, error) {
	// Ignore error if file doesn't exist
	_ = godotenv.Load(filepath.Join(path, ".env"))

	v := viper.New()

	for key, def := range defaultKeys(reflect.TypeOf(Config{}), "") {
		v.SetDefault(key, def)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// defaultKeys maps every dotted mapstructure key under t to its `default`
// tag. Keys without a default map to "", so viper still knows them and
// AutomaticEnv can fill them.
func defaultKeys(t reflect.Type, prefix string) map[string]string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	keys := make(map[string]string)
	for _, field := range reflect.VisibleFields(t) {
		name, ok := field.Tag.Lookup("mapstructure")
		if !ok || name == "" || name == "-" {
			continue
		}
		if prefix != "" {
			name = prefix + "." + name
		}

		if field.Type.Kind() == reflect.Struct {
			for key, def := range defaultKeys(field.Type, name) {
				keys[key] = def
			}
			continue
		}
		keys[name] = field.Tag.Get("default")
	}
	return keys
}
