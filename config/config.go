// Package config provides configuration management for the application.
// It handles loading and validation of configuration values from environment
// variables, with support for required variables, default values, and
// collective error reporting. The resulting AppConfig struct is constructed
// once at process start and injected into the layers that need it; there are
// no ambient configuration globals.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// PoolConfig represents configuration for the database connection pool.
type PoolConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	MaxSize  int
}

// SessionConfig holds session-cookie configuration.
// The secret signs the session cookie; Lifetime is the fixed inactivity
// window after which a session expires (renewed on every save).
type SessionConfig struct {
	Secret   string
	Lifetime time.Duration
}

// UploadConfig holds file-upload configuration.
type UploadConfig struct {
	// Dir is the fixed directory all uploaded files are stored under.
	Dir string
	// AcceptedFilename is the single literal an uploaded file's original
	// name must equal to be accepted.
	AcceptedFilename string
	// MaxBytes is the request body ceiling enforced before handler logic.
	MaxBytes int64
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port string // Port for the HTTP server
}

// AppConfig is the top-level configuration structure for the application.
type AppConfig struct {
	DB      *PoolConfig
	Session *SessionConfig
	Upload  *UploadConfig
	Server  *ServerConfig
}

// Helper function to get a required environment variable.
// Appends an error to the errors slice if the variable is not set.
func getRequiredEnv(key string, errors *[]string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		*errors = append(*errors, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

// Helper function to get an optional environment variable with a default string value.
func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get an optional environment variable parsed as an int.
// Uses defaultValue if not set. Appends an error if parsing fails.
func getOptionalEnvInt(key string, defaultValue int, errors *[]string) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected integer, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueInt
}

// Helper function to get an optional environment variable parsed as time.Duration.
// Uses defaultValue if not set. Appends an error if parsing fails.
func getOptionalEnvDuration(key string, defaultValue time.Duration, errors *[]string) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueDuration, err := time.ParseDuration(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected duration string, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueDuration
}

// generateSecret produces a random hex-encoded signing secret for use when
// SESSION_SECRET is not configured. A generated secret means sessions do not
// survive a process restart, which matches the behavior of generating the
// key at startup.
func generateSecret() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// LoadConfig creates and returns an AppConfig by reading and validating
// environment variables. It collects all errors encountered during loading
// and returns a single aggregated error if any exist.
func LoadConfig() (*AppConfig, error) {
	var errors []string

	// Database configuration
	dbUser := getRequiredEnv("DB_USER", &errors)
	dbPassword := getRequiredEnv("DB_PASSWORD", &errors)
	dbName := getRequiredEnv("DB_NAME", &errors)
	dbHost := getOptionalEnv("DB_HOST", "localhost")
	dbPort := getOptionalEnvInt("DB_PORT", 5432, &errors)
	dbPoolSize := getOptionalEnvInt("DB_POOL_SIZE", 5, &errors)

	dbConfig := &PoolConfig{
		Host:     dbHost,
		Port:     dbPort,
		User:     dbUser,
		Password: dbPassword,
		DBName:   dbName,
		MaxSize:  dbPoolSize,
	}

	// Session configuration. The secret is optional: when absent, a random
	// one is generated for the lifetime of the process.
	sessionSecret := getOptionalEnv("SESSION_SECRET", "")
	if sessionSecret == "" {
		generated, err := generateSecret()
		if err != nil {
			errors = append(errors, fmt.Sprintf("failed to generate session secret: %v", err))
		}
		sessionSecret = generated
	}
	sessionLifetime := getOptionalEnvDuration("SESSION_LIFETIME", 5*time.Hour, &errors)

	sessionConfig := &SessionConfig{
		Secret:   sessionSecret,
		Lifetime: sessionLifetime,
	}

	// Upload configuration
	uploadConfig := &UploadConfig{
		Dir:              getOptionalEnv("UPLOAD_DIR", "uploads"),
		AcceptedFilename: getOptionalEnv("UPLOAD_ACCEPTED_FILENAME", "Limerick-1.txt"),
		MaxBytes:         int64(getOptionalEnvInt("UPLOAD_MAX_BYTES", 16*1024*1024, &errors)),
	}

	// Server configuration
	serverConfig := &ServerConfig{
		Port: getOptionalEnv("PORT", "8080"),
	}

	if len(errors) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(errors, "\n- "))
	}

	return &AppConfig{
		DB:      dbConfig,
		Session: sessionConfig,
		Upload:  uploadConfig,
		Server:  serverConfig,
	}, nil
}
