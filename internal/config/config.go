package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/nadelab/radar/internal/radar"
)

// ConfigFileName is the file Load looks for in the config directory.
const ConfigFileName = "radar.cfg.json"

// ServerConfig holds HTTP and WebSocket listener settings.
type ServerConfig struct {
	Listen         string
	SendBuffer     int
	AllowedOrigins []string
}

// APIConfig holds the practice backend client settings.
type APIConfig struct {
	ServerURL string
	APIKey    string
	Timeout   time.Duration
}

// SQLiteConfig holds SQLite storage backend settings.
type SQLiteConfig struct {
	// Path is the database file. Empty means in-memory with optional dumps.
	Path         string        `json:"path" mapstructure:"path"`
	DumpPath     string        `json:"dumpPath" mapstructure:"dumpPath"`
	DumpInterval time.Duration `json:"dumpInterval" mapstructure:"dumpInterval"`
}

// PostgresConfig holds Postgres connection settings.
type PostgresConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
}

// StorageConfig selects and configures the lineup store.
type StorageConfig struct {
	Type     string
	SQLite   SQLiteConfig
	Postgres PostgresConfig
}

// InfluxConfig holds usage metrics settings.
type InfluxConfig struct {
	Enabled    bool
	URL        string
	Token      string
	Org        string
	Bucket     string
	BackupPath string
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	setDefaults()

	viper.SetConfigName(ConfigFileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./radarlogs")

	viper.SetDefault("server.listen", ":8080")
	viper.SetDefault("server.sendBuffer", 32)
	viper.SetDefault("server.allowedOrigins", []string{})

	viper.SetDefault("api.serverUrl", "http://localhost:5000/api")
	viper.SetDefault("api.apiKey", "")
	viper.SetDefault("api.timeout", "10s")

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.sqlite.path", "")
	viper.SetDefault("storage.sqlite.dumpPath", "")
	viper.SetDefault("storage.sqlite.dumpInterval", "3m")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "radar")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "nadelab")
	viper.SetDefault("influx.bucket", "radar_usage")
	viper.SetDefault("influx.backupPath", "")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	defaults := radar.DefaultOptions()
	viper.SetDefault("radar.gridResolution", defaults.GridResolution)
	viper.SetDefault("radar.labelOffset", defaults.LabelOffset)
	viper.SetDefault("radar.labelMinX", defaults.LabelMinX)
	viper.SetDefault("radar.labelMaxX", defaults.LabelMaxX)
	viper.SetDefault("radar.labelMinY", defaults.LabelMinY)
	viper.SetDefault("radar.labelMaxY", defaults.LabelMaxY)
	viper.SetDefault("radar.zoomStep", defaults.ZoomStep)
	viper.SetDefault("radar.minZoom", defaults.MinZoom)
	viper.SetDefault("radar.maxZoom", defaults.MaxZoom)
	viper.SetDefault("radar.layoutCacheSize", 256)

	viper.SetDefault("calibration.overrides", "")

	viper.SetDefault("session.pollInterval", "5s")
	viper.SetDefault("session.push", true)
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a duration config value.
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// GetServerConfig returns listener settings.
func GetServerConfig() ServerConfig {
	return ServerConfig{
		Listen:         viper.GetString("server.listen"),
		SendBuffer:     viper.GetInt("server.sendBuffer"),
		AllowedOrigins: viper.GetStringSlice("server.allowedOrigins"),
	}
}

// GetAPIConfig returns practice backend client settings.
func GetAPIConfig() APIConfig {
	return APIConfig{
		ServerURL: viper.GetString("api.serverUrl"),
		APIKey:    viper.GetString("api.apiKey"),
		Timeout:   viper.GetDuration("api.timeout"),
	}
}

// GetStorageConfig returns the lineup store settings.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		SQLite: SQLiteConfig{
			Path:         viper.GetString("storage.sqlite.path"),
			DumpPath:     viper.GetString("storage.sqlite.dumpPath"),
			DumpInterval: viper.GetDuration("storage.sqlite.dumpInterval"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("db.host"),
			Port:     viper.GetString("db.port"),
			Username: viper.GetString("db.username"),
			Password: viper.GetString("db.password"),
			Database: viper.GetString("db.database"),
		},
	}
}

// GetInfluxConfig returns usage metrics settings.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled: viper.GetBool("influx.enabled"),
		URL: fmt.Sprintf("%s://%s:%s",
			viper.GetString("influx.protocol"),
			viper.GetString("influx.host"),
			viper.GetString("influx.port"),
		),
		Token:      viper.GetString("influx.token"),
		Org:        viper.GetString("influx.org"),
		Bucket:     viper.GetString("influx.bucket"),
		BackupPath: viper.GetString("influx.backupPath"),
	}
}

// GetRadarOptions returns the radar engine tuning. Values left out of the
// config file keep their defaults.
func GetRadarOptions() radar.Options {
	opts := radar.DefaultOptions()
	opts.GridResolution = viper.GetFloat64("radar.gridResolution")
	opts.LabelOffset = viper.GetFloat64("radar.labelOffset")
	opts.LabelMinX = viper.GetFloat64("radar.labelMinX")
	opts.LabelMaxX = viper.GetFloat64("radar.labelMaxX")
	opts.LabelMinY = viper.GetFloat64("radar.labelMinY")
	opts.LabelMaxY = viper.GetFloat64("radar.labelMaxY")
	opts.ZoomStep = viper.GetFloat64("radar.zoomStep")
	opts.MinZoom = viper.GetFloat64("radar.minZoom")
	opts.MaxZoom = viper.GetFloat64("radar.maxZoom")
	return opts
}
