package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/fitpulse/showcase/internal/domain/entities"
)

// GetDefaultConfig returns the default configuration with environment overrides
func GetDefaultConfig() *entities.Config {
	config := &entities.Config{
		Server: entities.ServerConfig{
			Host:            getEnvOrDefault("SHOWCASE_HOST", "localhost"),
			Port:            getEnvIntOrDefault("SHOWCASE_PORT", 3000),
			ReadTimeout:     getEnvIntOrDefault("SHOWCASE_READ_TIMEOUT", 15),
			WriteTimeout:    getEnvIntOrDefault("SHOWCASE_WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvIntOrDefault("SHOWCASE_SHUTDOWN_TIMEOUT", 5),
			CORSOrigins: getEnvSliceOrDefault("SHOWCASE_CORS_ORIGINS", []string{
				"http://localhost:3000",
				"http://127.0.0.1:3000",
			}),
		},
		Assets: entities.AssetsConfig{
			Dir:           getEnvOrDefault("SHOWCASE_ASSETS_DIR", "assets/models"),
			CacheCapacity: getEnvIntOrDefault("SHOWCASE_CACHE_CAPACITY", 10),
			GraphPath:     os.Getenv("SHOWCASE_GRAPH_PATH"),
			GoalpostPath:  os.Getenv("SHOWCASE_GOALPOST_PATH"),
			TrophyPath:    os.Getenv("SHOWCASE_TROPHY_PATH"),
		},
		Content: entities.ContentConfig{
			File: getEnvOrDefault("SHOWCASE_CONTENT_FILE", ""),
		},
		Watcher: entities.WatcherConfig{
			IntervalMs: 200,
			DebounceMs: 500,
		},
		Browser: entities.BrowserConfig{
			AutoOpen: true,
			Browser:  "default",
		},
		Logging: entities.LoggingConfig{
			Level:   getEnvOrDefault("SHOWCASE_LOG_LEVEL", "info"),
			Verbose: getEnvBoolOrDefault("SHOWCASE_LOG_VERBOSE", false),
		},
	}

	return config
}

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvIntOrDefault returns environment variable as int or default
func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBoolOrDefault returns environment variable as bool or default
func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvSliceOrDefault returns environment variable as slice or default
func getEnvSliceOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}
