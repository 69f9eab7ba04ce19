package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all process configuration.
type Config struct {
	Server  ServerConfig
	Engine  EngineConfig
	Logging LoggingConfig
}

// ServerConfig holds adapter listener configuration.
type ServerConfig struct {
	GRPCPort       int
	GRPCEnabled    bool
	TCPPort        int
	TCPEnabled     bool
	CSVStdin       bool
	MaxMessageSize int
}

// EngineConfig holds matching engine configuration.
type EngineConfig struct {
	// PoolBlockSize is the object pool's allocation block size (see
	// pool.DefaultBlockSize).
	PoolBlockSize int
	// RunnerBufferSize sizes the serialized request queue adapters submit
	// through (see engine.Runner).
	RunnerBufferSize int
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string
	Format string
	File   string
}

// LoadConfig loads configuration from environment variables, optionally
// seeded from a .env file in the working directory.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	return &Config{
		Server:  loadServerConfig(),
		Engine:  loadEngineConfig(),
		Logging: loadLoggingConfig(),
	}, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		GRPCPort:       getEnvInt("AEROMATCH_GRPC_PORT", 50051),
		GRPCEnabled:    getEnvBool("AEROMATCH_GRPC_ENABLED", true),
		TCPPort:        getEnvInt("AEROMATCH_TCP_PORT", 9000),
		TCPEnabled:     getEnvBool("AEROMATCH_TCP_ENABLED", true),
		CSVStdin:       getEnvBool("AEROMATCH_CSV_STDIN", false),
		MaxMessageSize: getEnvInt("AEROMATCH_MAX_MESSAGE_SIZE", 4*1024*1024),
	}
}

func loadEngineConfig() EngineConfig {
	return EngineConfig{
		PoolBlockSize:    getEnvInt("AEROMATCH_POOL_BLOCK_SIZE", 4096),
		RunnerBufferSize: getEnvInt("AEROMATCH_RUNNER_BUFFER", 1024),
	}
}

func loadLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level:  getEnvString("AEROMATCH_LOG_LEVEL", "info"),
		Format: getEnvString("AEROMATCH_LOG_FORMAT", "text"),
		File:   getEnvString("AEROMATCH_LOG_FILE", ""), // Empty = stdout
	}
}

// Helper functions for environment variable parsing

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
		switch strings.ToLower(value) {
		case "true", "yes", "1":
			return true
		case "false", "no", "0":
			return false
		}
	}
	return defaultValue
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.GRPCEnabled && (c.Server.GRPCPort <= 0 || c.Server.GRPCPort > 65535) {
		return fmt.Errorf("invalid GRPC port: %d", c.Server.GRPCPort)
	}
	if c.Server.TCPEnabled && (c.Server.TCPPort <= 0 || c.Server.TCPPort > 65535) {
		return fmt.Errorf("invalid TCP port: %d", c.Server.TCPPort)
	}
	if c.Engine.PoolBlockSize <= 0 {
		return fmt.Errorf("invalid pool block size: %d", c.Engine.PoolBlockSize)
	}
	return nil
}

// String returns a safe string representation (no sensitive data to redact
// yet, but kept for parity with the shape adapters expect for logging).
func (c *Config) String() string {
	return fmt.Sprintf(
		"Server{GRPC:%d(%v), TCP:%d(%v)}, Engine{PoolBlock:%d, RunnerBuffer:%d}",
		c.Server.GRPCPort, c.Server.GRPCEnabled, c.Server.TCPPort, c.Server.TCPEnabled,
		c.Engine.PoolBlockSize, c.Engine.RunnerBufferSize,
	)
}
