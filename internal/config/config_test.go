package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(body), 0644))
	return dir
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"logLevel": "debug",
		"server": { "listen": "127.0.0.1:9000" },
		"db": { "host": "10.0.0.1", "port": "5433" }
	}`)

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, "127.0.0.1:9000", viper.GetString("server.listen"))
	assert.Equal(t, "10.0.0.1", viper.GetString("db.host"))
	assert.Equal(t, "5433", viper.GetString("db.port"))
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{}`)))

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "./radarlogs", viper.GetString("logsDir"))
	assert.Equal(t, ":8080", viper.GetString("server.listen"))
	assert.Equal(t, 32, viper.GetInt("server.sendBuffer"))
	assert.Equal(t, "http://localhost:5000/api", viper.GetString("api.serverUrl"))
	assert.Equal(t, "", viper.GetString("api.apiKey"))
	assert.Equal(t, "memory", viper.GetString("storage.type"))
	assert.Equal(t, "3m", viper.GetString("storage.sqlite.dumpInterval"))
	assert.Equal(t, "localhost", viper.GetString("db.host"))
	assert.Equal(t, "5432", viper.GetString("db.port"))
	assert.Equal(t, "radar", viper.GetString("db.database"))
	assert.Equal(t, false, viper.GetBool("influx.enabled"))
	assert.Equal(t, "radar_usage", viper.GetString("influx.bucket"))
	assert.Equal(t, false, viper.GetBool("graylog.enabled"))
	assert.Equal(t, "localhost:12201", viper.GetString("graylog.address"))
	assert.Equal(t, 256, viper.GetInt("radar.layoutCacheSize"))
	assert.Equal(t, "", viper.GetString("calibration.overrides"))
	assert.Equal(t, 5*time.Second, viper.GetDuration("session.pollInterval"))
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load("/nonexistent/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestGetString(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testKey", "testValue")
	assert.Equal(t, "testValue", GetString("testKey"))
}

func TestGetInt(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testInt", 42)
	assert.Equal(t, 42, GetInt("testInt"))
}

func TestGetBool(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testBool", true)
	assert.Equal(t, true, GetBool("testBool"))
}

func TestGetStorageConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{}`)))

	cfg := GetStorageConfig()
	assert.Equal(t, "memory", cfg.Type)
	assert.Equal(t, "", cfg.SQLite.Path)
	assert.Equal(t, 3*time.Minute, cfg.SQLite.DumpInterval)
	assert.Equal(t, "postgres", cfg.Postgres.Username)
}

func TestGetStorageConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{
		"storage": {
			"type": "sqlite",
			"sqlite": { "path": "/tmp/lineups.db", "dumpInterval": "10m" }
		}
	}`)))

	sc := GetStorageConfig()
	assert.Equal(t, "sqlite", sc.Type)
	assert.Equal(t, "/tmp/lineups.db", sc.SQLite.Path)
	assert.Equal(t, 10*time.Minute, sc.SQLite.DumpInterval)
}

func TestGetRadarOptions(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Cleanup(viper.Reset)
		require.NoError(t, Load(writeConfig(t, `{}`)))

		opts := GetRadarOptions()
		assert.Equal(t, 0.5, opts.GridResolution)
		assert.Equal(t, 4.0, opts.LabelOffset)
		assert.Equal(t, 0.15, opts.ZoomStep)
		assert.Equal(t, 0.5, opts.MinZoom)
		assert.Equal(t, 3.0, opts.MaxZoom)
		assert.Equal(t, 8.0, opts.LabelMinX)
		assert.Equal(t, 92.0, opts.LabelMaxX)
		assert.Equal(t, 3.0, opts.LabelMinY)
		assert.Equal(t, 97.0, opts.LabelMaxY)
	})

	t.Run("label bounds", func(t *testing.T) {
		t.Cleanup(viper.Reset)
		require.NoError(t, Load(writeConfig(t, `{"radar": {"labelMinX": 12, "labelMaxX": 88, "labelMinY": 6, "labelMaxY": 94}}`)))

		opts := GetRadarOptions()
		assert.Equal(t, 12.0, opts.LabelMinX)
		assert.Equal(t, 88.0, opts.LabelMaxX)
		assert.Equal(t, 6.0, opts.LabelMinY)
		assert.Equal(t, 94.0, opts.LabelMaxY)
	})

	t.Run("override", func(t *testing.T) {
		t.Cleanup(viper.Reset)
		require.NoError(t, Load(writeConfig(t, `{"radar": {"gridResolution": 1.5, "maxZoom": 4}}`)))

		opts := GetRadarOptions()
		assert.Equal(t, 1.5, opts.GridResolution)
		assert.Equal(t, 4.0, opts.MaxZoom)
		assert.Equal(t, 0.15, opts.ZoomStep)
	})
}

func TestGetInfluxConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{"influx": {"enabled": true, "host": "metrics", "port": "9999"}}`)))

	ic := GetInfluxConfig()
	assert.True(t, ic.Enabled)
	assert.Equal(t, "http://metrics:9999", ic.URL)
	assert.Equal(t, "nadelab", ic.Org)
}

func TestGetServerAndAPIConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{
		"server": {"allowedOrigins": ["https://nadelab.gg"]},
		"api": {"apiKey": "k", "timeout": "2s"}
	}`)))

	sc := GetServerConfig()
	assert.Equal(t, []string{"https://nadelab.gg"}, sc.AllowedOrigins)

	ac := GetAPIConfig()
	assert.Equal(t, "k", ac.APIKey)
	assert.Equal(t, 2*time.Second, ac.Timeout)
}
