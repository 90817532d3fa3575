// Package config reads service settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Table sources understood by DISTANCE_TABLE_SOURCE.
const (
	SourceFile  = "file"
	SourceMongo = "mongo"
)

// Config holds every setting the service reads at startup.
type Config struct {
	App struct {
		Name        string
		Environment string
	}
	Server struct {
		Port            string
		ShutdownTimeout time.Duration
	}
	Artifacts struct {
		TableSource    string
		TablePath      string
		TableSheet     string
		PropertiesPath string
		PipelinePath   string
	}
	Mongo struct {
		URI                  string
		Database             string
		DistanceCollection   string
		PropertiesCollection string
	}
	MQTT struct {
		Broker   string
		Topic    string
		ClientID string
	}
	RateLimit struct {
		Requests      int
		WindowSeconds int
		// TrustProxyHeaders keys clients by X-Forwarded-For / X-Real-IP.
		// Enable only behind a proxy that overwrites those headers.
		TrustProxyHeaders bool
	}
	Logger struct {
		Level  string
		Format string
	}
}

// Load reads the .env file at path when APP_ENV is "local" (the default) and
// then builds the configuration from environment variables.
func Load(path string) *Config {
	if GetEnv("APP_ENV", "local") == "local" {
		if err := godotenv.Load(path); err != nil {
			log.WithError(err).WithField("path", path).Debug("No env file loaded")
		}
	}
	return fromEnv()
}

func fromEnv() *Config {
	cfg := &Config{}

	cfg.App.Name = GetEnv("APP_NAME", "insightsphere")
	cfg.App.Environment = GetEnv("APP_ENV", "local")

	cfg.Server.Port = GetEnv("PORT", "8080")
	cfg.Server.ShutdownTimeout = time.Duration(GetEnvAsPositiveInt("SHUTDOWN_TIMEOUT_SECONDS", 30)) * time.Second

	cfg.Artifacts.TableSource = GetEnv("DISTANCE_TABLE_SOURCE", SourceFile)
	cfg.Artifacts.TablePath = GetEnv("DISTANCE_TABLE_PATH", "datasets/location_distance.csv")
	cfg.Artifacts.TableSheet = GetEnv("DISTANCE_TABLE_SHEET", "")
	cfg.Artifacts.PropertiesPath = GetEnv("PROPERTIES_PATH", "datasets/data_viz1.csv")
	cfg.Artifacts.PipelinePath = GetEnv("PIPELINE_PATH", "datasets/pipeline.json")

	cfg.Mongo.URI = GetEnv("MONGO_URI", "")
	cfg.Mongo.Database = GetEnv("MONGO_DB", "insightsphere")
	cfg.Mongo.DistanceCollection = GetEnv("MONGO_DISTANCE_COLLECTION", "location_distance")
	cfg.Mongo.PropertiesCollection = GetEnv("MONGO_PROPERTIES_COLLECTION", "properties")

	cfg.MQTT.Broker = GetEnv("MQTT_BROKER", "")
	cfg.MQTT.Topic = GetEnv("MQTT_TOPIC", "insightsphere/artifacts/refresh")
	cfg.MQTT.ClientID = GetEnv("MQTT_CLIENT_ID", "insightsphere-api")

	cfg.RateLimit.Requests = GetEnvAsPositiveInt("RATE_LIMIT_REQUESTS", 120)
	cfg.RateLimit.WindowSeconds = GetEnvAsPositiveInt("RATE_LIMIT_WINDOW_SECONDS", 60)
	cfg.RateLimit.TrustProxyHeaders = GetEnvAsBool("TRUST_PROXY_HEADERS", false)

	cfg.Logger.Level = GetEnv("LOG_LEVEL", "info")
	cfg.Logger.Format = GetEnv("LOG_FORMAT", "text")

	return cfg
}

// ConfigureLogger applies the logger settings to the standard logrus logger.
func (c *Config) ConfigureLogger() {
	level, err := log.ParseLevel(c.Logger.Level)
	if err != nil {
		log.WithField("level", c.Logger.Level).Warn("Unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if c.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// GetEnv returns the value of key or defaultValue when it is unset or empty.
func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.WithField("key", key).Warnf("Invalid integer value, using default: %d", defaultValue)
		return defaultValue
	}

	return value
}

// GetEnvAsPositiveInt is GetEnvAsInt for settings where zero or less makes no sense.
func GetEnvAsPositiveInt(key string, defaultValue int) int {
	value := GetEnvAsInt(key, defaultValue)
	if value < 1 {
		log.WithField("key", key).Warnf("Value must be at least 1, using default: %d", defaultValue)
		return defaultValue
	}
	return value
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.WithField("key", key).Warnf("Invalid boolean value, using default: %v", defaultValue)
		return defaultValue
	}

	return value
}
