package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	OutputDir     string
	InputEncoding string

	OpenAIAPIKey       string
	OpenAIBaseURL      string
	OpenAIModel        string
	OpenAIMaxTokens    int
	OpenAITimeoutMs    int
	OpenAIRateLimitRPS int

	NormalizeWorkers       int
	NormalizeFailurePolicy string

	ColumnEmail      string
	ColumnSalutation string
	ColumnCompany    string
	ColumnJobTitle   string

	LogLevel string
	LogJSON  bool
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		OutputDir:     getEnv("OUTPUT_DIR", cwd),
		InputEncoding: getEnv("INPUT_ENCODING", "utf-8"),

		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIMaxTokens:    getEnvInt("OPENAI_MAX_TOKENS", 50),
		OpenAITimeoutMs:    getEnvInt("OPENAI_TIMEOUT_MS", 30000),
		OpenAIRateLimitRPS: getEnvInt("OPENAI_RATE_LIMIT_RPS", 5),

		NormalizeWorkers:       getEnvInt("NORMALIZE_WORKERS", 1),
		NormalizeFailurePolicy: getEnv("NORMALIZE_FAILURE_POLICY", "fail-fast"),

		ColumnEmail:      getEnv("COLUMN_EMAIL", "E-Mail-Adresse"),
		ColumnSalutation: getEnv("COLUMN_SALUTATION", "Anrede"),
		ColumnCompany:    getEnv("COLUMN_COMPANY", "Firmenname"),
		ColumnJobTitle:   getEnv("COLUMN_JOB_TITLE", "Jobtitel"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogJSON:  getEnvBool("LOG_JSON", false),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

// OutputPath resolves a relative output file name against OutputDir.
func (c Config) OutputPath(name string) string {
	if filepath.IsAbs(name) || c.OutputDir == "" {
		return name
	}
	return filepath.Join(c.OutputDir, name)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
