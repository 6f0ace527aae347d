package influx

import (
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadelab/radar/internal/config"
)

func TestLayoutPoint(t *testing.T) {
	at := time.Unix(1700000000, 0)
	p := LayoutPoint(LayoutSample{
		Map:      "de_nuke",
		Layer:    "lower",
		Markers:  12,
		Groups:   9,
		Cached:   true,
		Duration: 1500 * time.Microsecond,
	}, at)

	line := influxdb2_write.PointToLineProtocol(p, time.Second)
	assert.Equal(t,
		"radar_layout,layer=lower,map=de_nuke,mini=false cached=true,duration_us=1500i,groups=9i,markers=12i 1700000000\n",
		line)
}

func TestLayoutPoint_DefaultLayer(t *testing.T) {
	p := LayoutPoint(LayoutSample{Map: "de_mirage", Mini: true}, time.Unix(0, 0))
	line := influxdb2_write.PointToLineProtocol(p, time.Second)
	assert.Contains(t, line, "layer=upper")
	assert.Contains(t, line, "mini=true")
}

func TestConnect_Disabled(t *testing.T) {
	m := NewManager(config.InfluxConfig{}, zerolog.Nop())
	assert.ErrorIs(t, m.Connect(context.Background()), ErrDisabled)
	assert.Error(t, m.RecordLayout(context.Background(), LayoutSample{Map: "de_mirage"}))
}

func unhealthyServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestConnect_UnreachableWithoutBackup(t *testing.T) {
	server := unhealthyServer(t)
	m := NewManager(config.InfluxConfig{Enabled: true, URL: server.URL}, zerolog.Nop())

	err := m.Connect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no backup path set")
	require.NoError(t, m.Close())
}

func TestConnect_FallsBackToBackupFile(t *testing.T) {
	server := unhealthyServer(t)
	backup := filepath.Join(t.TempDir(), "metrics.lp.gz")
	m := NewManager(config.InfluxConfig{
		Enabled:    true,
		URL:        server.URL,
		Org:        "nadelab",
		Bucket:     "radar_usage",
		BackupPath: backup,
	}, zerolog.Nop())

	require.NoError(t, m.Connect(context.Background()))
	require.NoError(t, m.RecordLayout(context.Background(), LayoutSample{Map: "de_mirage", Markers: 3, Groups: 1}))
	require.NoError(t, m.RecordLayout(context.Background(), LayoutSample{Map: "de_inferno", Markers: 5, Groups: 5}))
	require.NoError(t, m.Close())

	f, err := os.Open(backup)
	require.NoError(t, err)
	defer f.Close()
	zr, err := gzip.NewReader(f)
	require.NoError(t, err)
	data, err := io.ReadAll(zr)
	require.NoError(t, err)

	assert.Contains(t, string(data), "radar_layout,layer=upper,map=de_mirage,mini=false")
	assert.Contains(t, string(data), "map=de_inferno")
	assert.Contains(t, string(data), "markers=5i")
}
