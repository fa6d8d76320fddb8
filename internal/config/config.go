package config

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// global configuration structure
type Config struct {
	Bot        BotConfig        `mapstructure:"bot"`
	Logger     LoggerConfig     `mapstructure:"logger"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Autodelete AutodeleteConfig `mapstructure:"autodelete"`
}

// Telegram bot configuration
type BotConfig struct {
	Token   string        `mapstructure:"token"`
	Webhook WebhookConfig `mapstructure:"webhook"`
}

// webhook server configuration
type WebhookConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	ListenPort  string `mapstructure:"listen_port"`
	DebugPath   string `mapstructure:"debug_path"`
	MetricsPath string `mapstructure:"metrics_path"`
	CertFile    string `mapstructure:"cert_file"`
	KeyFile     string `mapstructure:"key_file"`
}

// logging configuration
type LoggerConfig struct {
	Directory string            `mapstructure:"directory"`
	Rotation  LogRotationConfig `mapstructure:"rotation"`
	Level     string            `mapstructure:"level"`
}

// log rotation settings
type LogRotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"`
	Compress   bool `mapstructure:"compress"`
}

// StorageConfig selects and configures the chat settings backend.
type StorageConfig struct {
	// Backend is one of "memory", "mysql" or "redis".
	Backend  string         `mapstructure:"backend"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Charset  string `mapstructure:"charset"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// auto-deletion policy settings
type AutodeleteConfig struct {
	// DefaultDelay applies when a chat has no timer configured. Same grammar
	// as the /settimer command: <integer><s|m|h>.
	DefaultDelay string `mapstructure:"default_delay"`
	// UtcOffsetHours is the fixed offset used to evaluate daily schedule
	// windows. No daylight-saving adjustment is applied.
	UtcOffsetHours int `mapstructure:"utc_offset_hours"`
	// StatusRequiresAdmin gates /status like the mutating commands when true.
	StatusRequiresAdmin bool `mapstructure:"status_requires_admin"`
}

var cfg *Config

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return nil, fmt.Errorf("config file path is required")
	}

	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	log.Printf("Using config file: %s", v.ConfigFileUsed())

	// Unmarshal configuration
	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return cfg, nil
}

func Get() *Config {
	if cfg == nil {
		log.Fatal("Configuration not initialized, call Load() first")
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("bot.webhook.listen_port", "8443")
	v.SetDefault("bot.webhook.debug_path", "/debug")
	v.SetDefault("bot.webhook.metrics_path", "/metrics")
	v.SetDefault("bot.webhook.cert_file", "")
	v.SetDefault("bot.webhook.key_file", "")

	v.SetDefault("logger.directory", "logs")
	v.SetDefault("logger.rotation.max_size", 10)
	v.SetDefault("logger.rotation.max_backups", 30)
	v.SetDefault("logger.rotation.max_age", 90)
	v.SetDefault("logger.rotation.compress", true)
	v.SetDefault("logger.level", "INFO")

	v.SetDefault("storage.backend", "memory")
	v.SetDefault("storage.database.port", 3306)
	v.SetDefault("storage.database.charset", "utf8mb4")
	v.SetDefault("storage.redis.addr", "localhost:6379")
	v.SetDefault("storage.redis.db", 0)

	v.SetDefault("autodelete.default_delay", "1h")
	v.SetDefault("autodelete.utc_offset_hours", 6)
	v.SetDefault("autodelete.status_requires_admin", false)
}
