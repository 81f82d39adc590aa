package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"ccdash/internal/metricsapi"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppTitle is the dashboard title shown by every surface.
const AppTitle = "Tablero Metricas de Callcenter"

// AppConfig holds the complete application configuration.
type AppConfig struct {
	API      metricsapi.Config
	RedisURL string

	DataPath   string
	LogDir     string
	CallsDir   string
	Thresholds string

	SLAMaxSeconds int
	FRTLimit      int

	ExcludedAgents []string
	ExcludedTeams  []string

	HTTPAddr            string
	AdminJWTSecret      string
	EnableMermaidCharts bool
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Binary directory first, so an installed server finds its own .env
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Working directory (development)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	return FromEnv(exeDir), nil
}

// FromEnv builds the configuration from the process environment only.
// exeDir is used as the default data path when DATA_PATH is unset.
func FromEnv(exeDir string) *AppConfig {
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := getEnv("LOGS_FOLDER", filepath.Join(dataPath, "logs"))
	callsDir := getEnv("CALLS_OUTPUT_DIR", filepath.Join(dataPath, "data"))

	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", logDir).Msg("Failed to create log directory")
	}

	return &AppConfig{
		API: metricsapi.Config{
			BaseURL:  strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:3000"), "/"),
			Timeout:  time.Duration(getEnvInt("API_TIMEOUT_SECONDS", 30)) * time.Second,
			CacheTTL: time.Duration(getEnvInt("API_CACHE_TTL_SECONDS", 300)) * time.Second,
		},
		RedisURL:            getEnv("REDIS_URL", ""),
		DataPath:            dataPath,
		LogDir:              logDir,
		CallsDir:            callsDir,
		Thresholds:          getEnv("THRESHOLDS_FILE", ""),
		SLAMaxSeconds:       getEnvInt("FRT_MAX_SECONDS", 300),
		FRTLimit:            getEnvInt("FRT_LIMIT", 10),
		ExcludedAgents:      getEnvList("EXCLUDED_AGENTS", nil),
		ExcludedTeams:       getEnvList("EXCLUDED_TEAMS", []string{"CHATBOT"}),
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		AdminJWTSecret:      getEnv("ADMIN_JWT_SECRET", ""),
		EnableMermaidCharts: getEnvBool("ENABLE_MERMAID_CHARTS", false),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return n
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-integer configuration value")
	}
	return fallback
}

// getEnvList splits a comma separated value. An explicitly empty variable yields an empty list.
func getEnvList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
