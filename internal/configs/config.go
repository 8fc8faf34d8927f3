package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config хранит всю конфигурацию приложения.
type Config struct {
	AppName string
	Port    string // порт HTTP API сессии

	PropertyAPI PropertyAPIConfig
	Map         MapConfig
	PageSize    int

	// Источники, которым разрешено обращаться к API сессии из браузера
	CORSAllowedOrigins []string

	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
}

type PropertyAPIConfig struct {
	URL            string
	TimeoutSeconds int // 0 = без ограничения
}

// MapConfig - начальный вид карты.
type MapConfig struct {
	DefaultLat  float64
	DefaultLng  float64
	DefaultZoom int
}

type StdoutLogConfig struct {
	Level string
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

// LoadConfig загружает конфигурацию из переменных окружения.
// Без аргументов пробует .env в рабочей директории, его отсутствие не ошибка.
// Явно указанный файл обязан существовать.
func LoadConfig(envPath ...string) (*Config, error) {
	if len(envPath) > 0 {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("could not load .env file (path: %v): %w", envPath[0], err)
		}
	} else if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("could not load .env file: %w", err)
		}
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		AppName: getEnvAsString("APP_NAME", "property-map"),
		Port:    getEnvAsString("PORT", "8090"),
		PropertyAPI: PropertyAPIConfig{
			URL:            getEnvAsString("PROPERTY_API_URL", "http://localhost:3000"),
			TimeoutSeconds: getEnvAsInt("PROPERTY_API_TIMEOUT_SECONDS", 0),
		},
		Map: MapConfig{
			DefaultLat:  getEnvAsFloat("MAP_DEFAULT_LAT", 4.6097),
			DefaultLng:  getEnvAsFloat("MAP_DEFAULT_LNG", -74.0817),
			DefaultZoom: getEnvAsInt("MAP_DEFAULT_ZOOM", 13),
		},
		PageSize:           getEnvAsInt("PAGE_SIZE", 10),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3001"}),
	}

	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("PAGE_SIZE must be positive, got %d", cfg.PageSize)
	}
	if cfg.PropertyAPI.TimeoutSeconds < 0 {
		return nil, fmt.Errorf("PROPERTY_API_TIMEOUT_SECONDS must not be negative, got %d", cfg.PropertyAPI.TimeoutSeconds)
	}

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}
		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")

	return cfg, nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(strings.TrimSpace(valueStr))
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(valueStr), 64)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as float: %v. Using default value: %g\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return value
}

// getEnvAsBool читает переменную окружения как bool или возвращает значение по умолчанию
func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}

// getEnvAsList - значения через запятую, пустые элементы выбрасываются.
func getEnvAsList(key string, defaultValue []string) []string {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var result []string
	for _, part := range strings.Split(valStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
