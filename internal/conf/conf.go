package conf

import (
	"os"
	"strconv"
	"strings"

	"github.com/gdlpessoa/telegram-cti-monitoring/internal/biz/domain"
)

// Config represents application configuration. It is built once at startup
// and injected; components never read ambient environment state.
type Config struct {
	// Telegram configuration
	Telegram TelegramConfig

	// Monitoring targets and keyword set
	Monitor MonitorConfig

	// Storage configuration
	Storage StorageConfig

	// OCR configuration
	OCR OCRConfig

	// Stats reporter configuration
	Stats StatsConfig

	// Log level: debug, info, warn, error
	LogLevel string

	// Prometheus listen address, empty disables the listener
	MetricsAddr string
}

// TelegramConfig contains Telegram account and delivery configuration
type TelegramConfig struct {
	APIID       int
	APIHash     string
	PhoneNumber string
	SessionPath string
	AlertChatID int64 // destination chat for alert notifications
}

// MonitorConfig contains the monitored groups and the keyword set
type MonitorConfig struct {
	Groups   []string          // group/channel titles, trimmed, order preserved
	Keywords domain.KeywordSet // lowercase trimmed keywords, order preserved
}

// StorageConfig contains persistence configuration
type StorageConfig struct {
	DBPath string
}

// OCRConfig contains OCR configuration
type OCRConfig struct {
	Language string
}

// StatsConfig contains stats reporter configuration
type StatsConfig struct {
	IntervalMinutes int // 0 disables the reporter
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	apiID := 0
	if val := os.Getenv("API_ID"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			apiID = parsed
		}
	}

	var alertChatID int64
	if val := os.Getenv("ALERT_GROUP_ID"); val != "" {
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil {
			alertChatID = parsed
		}
	}

	statsInterval := 60
	if val := os.Getenv("STATS_INTERVAL_MINUTES"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			statsInterval = parsed
		}
	}

	return &Config{
		Telegram: TelegramConfig{
			APIID:       apiID,
			APIHash:     os.Getenv("API_HASH"),
			PhoneNumber: os.Getenv("PHONE_NUMBER"),
			SessionPath: getEnv("SESSION_PATH", "session/telegram.session"),
			AlertChatID: alertChatID,
		},
		Monitor: MonitorConfig{
			Groups:   splitList(os.Getenv("TELEGRAM_GROUPS")),
			Keywords: domain.NewKeywordSet(os.Getenv("BRAND_KEYWORDS")),
		},
		Storage: StorageConfig{
			DBPath: getEnv("DB_PATH", "data/monitor.db"),
		},
		OCR: OCRConfig{
			Language: getEnv("OCR_LANGUAGE", "por"),
		},
		Stats: StatsConfig{
			IntervalMinutes: statsInterval,
		},
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		MetricsAddr: os.Getenv("METRICS_ADDR"),
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Telegram.APIID == 0 || c.Telegram.APIHash == "" {
		return &ConfigError{Field: "API_ID/API_HASH", Message: "required"}
	}
	if c.Telegram.PhoneNumber == "" {
		return &ConfigError{Field: "PHONE_NUMBER", Message: "required"}
	}
	if len(c.Monitor.Groups) == 0 {
		return &ConfigError{Field: "TELEGRAM_GROUPS", Message: "at least one group is required"}
	}
	if len(c.Monitor.Keywords) == 0 {
		return &ConfigError{Field: "BRAND_KEYWORDS", Message: "at least one keyword is required"}
	}
	if c.Telegram.AlertChatID == 0 {
		return &ConfigError{Field: "ALERT_GROUP_ID", Message: "required"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// splitList parses a comma-separated value, trimming entries and dropping
// empty ones. Case is preserved; title matching downstream is
// case-insensitive.
func splitList(raw string) []string {
	var out []string
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry != "" {
			out = append(out, entry)
		}
	}
	return out
}
