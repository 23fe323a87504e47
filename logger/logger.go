package logger

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

type LogLevel string

const (
	LevelInfo     LogLevel = "INFO"
	LevelWarn     LogLevel = "WARN"
	LevelError    LogLevel = "ERROR"
	LevelSecurity LogLevel = "SECURITY"
)

const (
	EventValidationFailure = "VALIDATION_FAILURE"
	EventAccessDenied      = "ACCESS_DENIED"
	EventInvalidToken      = "INVALID_TOKEN"
	EventExpiredToken      = "EXPIRED_TOKEN"
	EventRateLimited       = "RATE_LIMITED"
	EventCatalogChange     = "CATALOG_CHANGE"
	EventRatingChange      = "RATING_CHANGE"
	EventCommentChange     = "COMMENT_CHANGE"
	EventServiceStartup    = "SERVICE_STARTUP"
	EventServiceShutdown   = "SERVICE_SHUTDOWN"
	EventDBConnection      = "DB_CONNECTION"
	EventDBError           = "DB_ERROR"
	EventGeneral           = "GENERAL"
)

type LogEntry struct {
	Timestamp string                 `json:"timestamp"`
	Level     LogLevel               `json:"level"`
	Service   string                 `json:"service"`
	EventType string                 `json:"event_type"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Hmac      string                 `json:"hmac"`
}

type Config struct {
	ServiceName string
	Environment string
	LogFilePath string
	HMACKey     string
	MaxSizeMB   int
	MaxBackups  int
	MaxAgeDays  int

	// Output replaces stdout and the rotating file when set.
	Output io.Writer
}

type Logger struct {
	config  Config
	writer  io.Writer
	hmacKey []byte
	now     func() time.Time
	mu      sync.Mutex
}

var (
	instance   *Logger
	instanceMu sync.Mutex
)

func Init(cfg Config) {
	l := NewLogger(cfg)
	instanceMu.Lock()
	instance = l
	instanceMu.Unlock()
}

func GetLogger() *Logger {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	if instance == nil {
		instance = &Logger{
			config:  Config{ServiceName: "catalog-service", Environment: "development"},
			writer:  os.Stdout,
			hmacKey: []byte("default-key"),
			now:     time.Now,
		}
	}
	return instance
}

func NewLogger(cfg Config) *Logger {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "catalog-service"
	}
	if cfg.HMACKey == "" {
		cfg.HMACKey = "default-hmac-key-change-in-production"
	}

	l := &Logger{
		config:  cfg,
		hmacKey: []byte(cfg.HMACKey),
		now:     time.Now,
	}

	if cfg.Output != nil {
		l.writer = cfg.Output
		return l
	}
	l.writer = io.MultiWriter(openWriters(&l.config)...)
	return l
}

// openWriters always includes stdout; the rotating file is added when its
// directory can be created.
func openWriters(cfg *Config) []io.Writer {
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 100
	}
	if cfg.MaxBackups == 0 {
		cfg.MaxBackups = 5
	}
	if cfg.MaxAgeDays == 0 {
		cfg.MaxAgeDays = 30
	}
	if cfg.LogFilePath == "" {
		cfg.LogFilePath = fmt.Sprintf("/var/log/%s/app.log", cfg.ServiceName)
	}

	writers := []io.Writer{os.Stdout}

	logDir := filepath.Dir(cfg.LogFilePath)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		fmt.Fprintf(os.Stderr, "WARNING: Cannot create log directory %s: %v, using stdout only\n", logDir, err)
		return writers
	}

	writers = append(writers, &lumberjack.Logger{
		Filename:   cfg.LogFilePath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	})
	restrictPermissions(cfg.LogFilePath)
	return writers
}

func restrictPermissions(path string) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err == nil {
		f.Close()
	}
	_ = os.Chmod(path, 0600)
}

func (l *Logger) log(level LogLevel, eventType, message string, details map[string]interface{}) {
	entry := LogEntry{
		Timestamp: l.now().UTC().Format(time.RFC3339Nano),
		Level:     level,
		Service:   l.config.ServiceName,
		EventType: eventType,
		Message:   l.sanitizeString(message),
		Details:   l.sanitizeDetails(details),
	}
	entry.Hmac = l.Sign(entry)

	data, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to marshal log entry: %v\n", err)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.writer.Write(append(data, '\n'))
}

func (l *Logger) Info(eventType, message string, details map[string]interface{}) {
	l.log(LevelInfo, eventType, message, details)
}

func (l *Logger) Warn(eventType, message string, details map[string]interface{}) {
	l.log(LevelWarn, eventType, message, details)
}

func (l *Logger) Error(eventType, message string, details map[string]interface{}) {
	l.log(LevelError, eventType, message, details)
}

func (l *Logger) Security(eventType, message string, details map[string]interface{}) {
	l.log(LevelSecurity, eventType, message, details)
}

func (l *Logger) Fatal(eventType, message string, details map[string]interface{}) {
	l.log(LevelError, eventType, message, details)
	os.Exit(1)
}

// Sign returns the integrity tag of an entry. Details are not covered.
func (l *Logger) Sign(entry LogEntry) string {
	data := fmt.Sprintf("%s|%s|%s|%s|%s", entry.Timestamp, entry.Level, entry.Service, entry.EventType, entry.Message)
	mac := hmac.New(sha256.New, l.hmacKey)
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether entry carries a valid tag for this logger's key.
func (l *Logger) Verify(entry LogEntry) bool {
	expected, err := hex.DecodeString(l.Sign(entry))
	if err != nil {
		return false
	}
	got, err := hex.DecodeString(entry.Hmac)
	if err != nil {
		return false
	}
	return hmac.Equal(expected, got)
}

func Info(eventType, message string, details map[string]interface{}) {
	GetLogger().Info(eventType, message, details)
}

func Warn(eventType, message string, details map[string]interface{}) {
	GetLogger().Warn(eventType, message, details)
}

func Error(eventType, message string, details map[string]interface{}) {
	GetLogger().Error(eventType, message, details)
}

func Security(eventType, message string, details map[string]interface{}) {
	GetLogger().Security(eventType, message, details)
}

func Fatal(eventType, message string, details map[string]interface{}) {
	GetLogger().Fatal(eventType, message, details)
}

// Fields builds a details map from alternating keys and values. Non-string
// keys and a trailing key without value are dropped.
func Fields(kv ...interface{}) map[string]interface{} {
	details := make(map[string]interface{})
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		details[key] = kv[i+1]
	}
	return details
}
