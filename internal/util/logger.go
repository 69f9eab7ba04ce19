package util

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
	LevelPanic
)

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	case LevelPanic:
		return "PANIC"
	default:
		return "UNKNOWN"
	}
}

type LoggerConfig struct {
	Level      LogLevel
	Format     string
	Output     io.Writer
	File       string
	MaxSize    int64 // Maximum file size in bytes
	MaxBackups int   // Maximum number of old log files to retain
	MaxAge     int   // Maximum number of days to retain log files
}

type Logger struct {
	config     LoggerConfig
	logger     *log.Logger
	mu         sync.Mutex
	file       *os.File
	callerInfo bool // Enable or disable caller information
}

var (
	defaultLogger *Logger
	once          sync.Once
)

func DefaultConfig() LoggerConfig {
	return LoggerConfig{
		Level:  LevelInfo,
		Format: "text",
		Output: os.Stdout,
	}
}

func Init(level LogLevel, format string, output io.Writer) {
	once.Do(func() {
		config := DefaultConfig()
		config.Level = level
		config.Format = format
		config.Output = output

		var err error
		defaultLogger, err = NewLogger(config)
		if err != nil {
			log.Printf("Failed to create logger: %v", err)
			// Fallback to standard logger
			defaultLogger = &Logger{
				config: config,
				logger: log.New(os.Stdout, "", log.LstdFlags),
			}
		}
	})
}

// InitFile initializes the logger with file output
func InitFile(level LogLevel, format, filePath string, maxSize int64, maxBackups, maxAge int) error {
	config := DefaultConfig()
	config.Level = level
	config.Format = format
	config.File = filePath
	config.MaxSize = maxSize
	config.MaxBackups = maxBackups
	config.MaxAge = maxAge

	logger, err := NewLogger(config)
	if err != nil {
		return err
	}

	defaultLogger = logger
	return nil
}

// NewLogger creates a new logger instance
func NewLogger(config LoggerConfig) (*Logger, error) {
	l := &Logger{
		config:     config,
		callerInfo: true,
	}

	var output io.Writer = config.Output

	// Setup file output if specified
	if config.File != "" {
		file, err := setupLogFile(config.File)
		if err != nil {
			return nil, fmt.Errorf("failed to setup log file: %w", err)
		}
		l.file = file
		output = file
	}

	// Create the logger
	l.logger = log.New(output, "", 0) // We'll handle prefixes ourselves

	return l, nil
}

// setupLogFile opens filePath for appending, creating it if necessary.
// Rotation (MaxSize/MaxBackups/MaxAge) is not implemented — this engine's
// log volume is adapter-driven, not per-order, so files are not expected
// to grow unbounded within a single process lifetime.
func setupLogFile(filePath string) (*os.File, error) {
	return os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}

func (l *Logger) log(level LogLevel, msg string) {
	if level < l.config.Level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.config.Format == "json" {
		entry := map[string]any{
			"time":  time.Now().Format(time.RFC3339Nano),
			"level": level.String(),
			"msg":   msg,
		}
		b, err := json.Marshal(entry)
		if err != nil {
			l.logger.Println(msg)
			return
		}
		l.logger.Println(string(b))
		return
	}

	l.logger.Printf("%s [%s] %s", time.Now().Format(time.RFC3339), level.String(), msg)
}

func (l *Logger) Debugf(format string, args ...any) { l.log(LevelDebug, fmt.Sprintf(format, args...)) }
func (l *Logger) Infof(format string, args ...any)  { l.log(LevelInfo, fmt.Sprintf(format, args...)) }
func (l *Logger) Warnf(format string, args ...any)  { l.log(LevelWarn, fmt.Sprintf(format, args...)) }
func (l *Logger) Errorf(format string, args ...any) { l.log(LevelError, fmt.Sprintf(format, args...)) }

// Fatalf logs at LevelFatal then exits the process.
func (l *Logger) Fatalf(format string, args ...any) {
	l.log(LevelFatal, fmt.Sprintf(format, args...))
	os.Exit(1)
}

func ensureDefault() *Logger {
	if defaultLogger == nil {
		Init(LevelInfo, "text", os.Stdout)
	}
	return defaultLogger
}

// Debugf, Infof, Warnf, Errorf and Fatalf log through the package-wide
// default logger, initializing it with text/stdout defaults on first use
// if Init has not been called yet.
func Debugf(format string, args ...any) { ensureDefault().Debugf(format, args...) }
func Infof(format string, args ...any)  { ensureDefault().Infof(format, args...) }
func Warnf(format string, args ...any)  { ensureDefault().Warnf(format, args...) }
func Errorf(format string, args ...any) { ensureDefault().Errorf(format, args...) }
func Fatalf(format string, args ...any) { ensureDefault().Fatalf(format, args...) }
