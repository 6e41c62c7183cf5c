package config

import (
	"os"
	"path/filepath"
	"strconv"

	"mc-forecast/internal/simulation"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// SimulationConfig holds the engine defaults applied when a request omits them.
type SimulationConfig struct {
	Simulations int
	Confidence  float64
	MaxDays     int
	Workers     int
}

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Simulation          SimulationConfig
	HTTPAddr            string
	LogDir              string
	EnableMermaidCharts bool
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	loaded := loadEnvFiles()
	if len(loaded) == 0 {
		log.Debug().Msg("No .env file found, relying on environment variables")
	}
	for _, path := range loaded {
		log.Debug().Str("path", path).Msg("Loaded configuration from .env")
	}

	cfg := &AppConfig{
		Simulation:          loadSimulation(),
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		LogDir:              resolveLogDir(),
		EnableMermaidCharts: getEnvBool("ENABLE_MERMAID_CHARTS", false),
	}

	return cfg, nil
}

// LogDir returns the log folder without logging anything, so it can be
// called before the logger exists: LOGS_FOLDER, else DATA_PATH/logs, else
// <binary dir>/logs.
func LogDir() string {
	loadEnvFiles()
	return resolveLogDir()
}

// loadEnvFiles loads .env files and returns the ones found. Variables that
// are already set are never overwritten, so repeated calls are harmless.
func loadEnvFiles() []string {
	var loaded []string

	// 1. Try to load from the executable's directory (highest priority for MCP servers)
	if exeDir := executableDir(); exeDir != "" {
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			loaded = append(loaded, envPath)
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err == nil {
		loaded = append(loaded, ".env")
	}
	return loaded
}

func resolveLogDir() string {
	if dir := os.Getenv("LOGS_FOLDER"); dir != "" {
		return dir
	}
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = executableDir()
	}
	if dataPath == "" {
		dataPath = "."
	}
	return filepath.Join(dataPath, "logs")
}

func executableDir() string {
	exePath, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Dir(exePath)
}

func loadSimulation() SimulationConfig {
	sc := SimulationConfig{
		Simulations: getEnvInt("MC_SIMULATIONS", simulation.DefaultSimulations),
		Confidence:  getEnvFloat("MC_CONFIDENCE", simulation.DefaultConfidence),
		MaxDays:     getEnvInt("MC_MAX_DAYS", simulation.DefaultMaxDays),
		Workers:     getEnvInt("MC_WORKERS", 1),
	}

	if sc.Simulations < 1 {
		log.Warn().Int("value", sc.Simulations).Msg("MC_SIMULATIONS must be positive, using default")
		sc.Simulations = simulation.DefaultSimulations
	}
	if err := simulation.ValidateConfidence(sc.Confidence); err != nil {
		log.Warn().Err(err).Msg("MC_CONFIDENCE out of range, using default")
		sc.Confidence = simulation.DefaultConfidence
	}
	if sc.MaxDays < 1 {
		sc.MaxDays = simulation.DefaultMaxDays
	}
	if sc.Workers < 1 {
		sc.Workers = 1
	}
	return sc
}

// EngineConfig translates the settings into a simulation engine configuration.
func (c *AppConfig) EngineConfig() simulation.Config {
	return simulation.Config{
		MaxDays: c.Simulation.MaxDays,
		Workers: c.Simulation.Workers,
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
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-integer setting")
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-numeric setting")
	}
	return fallback
}
