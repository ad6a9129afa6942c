package config

import (
	"os"
	"strings"

	"expdata/internal/analysis"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by the command line tools and the server
type Config struct {
	Port string

	// ResultsDir contains one directory per experiment with its data.json export.
	ResultsDir string
	// SchemaPath points at a YAML file overriding the built-in lookup tables.
	SchemaPath string

	AllowedOrigins []string
	Verbose        bool
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v == "1" || strings.EqualFold(v, "true")
}

func getListEnv(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Load reads an optional .env file and then the environment
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "8001"),
		ResultsDir:     getEnv("EXPDATA_RESULTS_DIR", "results"),
		SchemaPath:     getEnv("EXPDATA_SCHEMA", ""),
		AllowedOrigins: getListEnv("EXPDATA_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		Verbose:        getBoolEnv("EXPDATA_VERBOSE", false),
	}
}

// LoadSchema returns the built-in schema, overridden by the YAML file at path if set
func LoadSchema(path string) (analysis.Schema, error) {
	if path == "" {
		return analysis.DefaultSchema(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return analysis.Schema{}, errors.Wrap(err, "reading schema")
	}
	schema, err := ParseSchema(b)
	if err != nil {
		return analysis.Schema{}, errors.Wrapf(err, "parsing schema %s", path)
	}
	return schema, nil
}

// ParseSchema decodes a YAML document on top of the built-in schema.
// Keys left out of the document keep their built-in value.
func ParseSchema(b []byte) (analysis.Schema, error) {
	schema := analysis.DefaultSchema()

	var override analysis.Schema
	if err := yaml.Unmarshal(b, &override); err != nil {
		return analysis.Schema{}, errors.Wrap(err, "parsing yaml")
	}

	if override.States != nil {
		schema.States = override.States
	}
	if override.TimedFields != nil {
		schema.TimedFields = override.TimedFields
	}
	if override.ExcludedQuestions != nil {
		schema.ExcludedQuestions = override.ExcludedQuestions
	}
	if override.ExcludedCategories != nil {
		schema.ExcludedCategories = override.ExcludedCategories
	}
	if override.Stages != nil {
		schema.Stages = override.Stages
	}
	if override.Columns != nil {
		schema.Columns = override.Columns
	}
	if override.PreviewColumns != nil {
		schema.PreviewColumns = override.PreviewColumns
	}
	if override.MaxDays != 0 {
		schema.MaxDays = override.MaxDays
	}

	if err := schema.Validate(); err != nil {
		return analysis.Schema{}, errors.Wrap(err, "validating")
	}
	return schema, nil
}
