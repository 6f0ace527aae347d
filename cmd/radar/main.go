package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/nadelab/radar/internal/cache"
	"github.com/nadelab/radar/internal/calibration"
	"github.com/nadelab/radar/internal/config"
	"github.com/nadelab/radar/internal/influx"
	"github.com/nadelab/radar/internal/logging"
	"github.com/nadelab/radar/internal/server"
)

// BuildVersion and BuildDate can be set at build time via ldflags
var (
	BuildVersion string = "0.0.1"
	BuildDate    string = "unknown"

	ServiceName string = "radar"
)

var (
	// LogManager owns the service logger and its outputs
	LogManager *logging.Manager = logging.NewManager()

	// Logger is the zerolog logger (convenience reference)
	Logger zerolog.Logger = zerolog.Nop()

	SessionStartTime time.Time = time.Now()
)

const usage = `usage: radar [command] [args]

commands:
  serve              run the radar HTTP and WebSocket service (default)
  sync [map...]      mirror the backend's lineups into the store; stored lineups
                     the backend no longer lists are deleted. No maps syncs all.
  session <id>       follow a practice session until it ends
  version            print build information
  help               print this text
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cmd := "serve"
	if len(args) > 0 {
		cmd = strings.ToLower(args[0])
		args = args[1:]
	}

	switch cmd {
	case "version":
		fmt.Printf("%s %s (built %s)\n", ServiceName, BuildVersion, BuildDate)
		return 0
	case "help", "-h", "--help":
		fmt.Print(usage)
		return 0
	}

	closeLogs, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		return 1
	}
	defer closeLogs()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case "serve":
		err = serve(ctx)
	case "sync":
		err = syncLineups(ctx, args)
	case "session":
		err = watchSession(ctx, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		err = fmt.Errorf("unknown command %q", cmd)
	}
	if err != nil {
		Logger.Error().Err(err).Str("command", cmd).Msg("Command failed")
		return 1
	}
	return 0
}

// setup loads configuration and starts logging. The returned func closes the log outputs.
func setup() (func(), error) {
	configDir := os.Getenv("RADAR_CONFIG_DIR")
	if configDir == "" {
		configDir = "."
	}
	cfgErr := config.Load(configDir)

	var logFile *os.File
	opts := logging.Options{Level: config.GetString("logLevel")}
	if dir := config.GetString("logsDir"); dir != "" {
		f, err := logging.OpenLogFile(dir, ServiceName, SessionStartTime)
		if err != nil {
			return nil, err
		}
		logFile = f
		opts.File = io.MultiWriter(f, zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
	if config.GetBool("graylog.enabled") {
		opts.GelfAddress = config.GetString("graylog.address")
	}

	gelfErr := LogManager.Setup(opts)
	Logger = LogManager.Logger()
	if gelfErr != nil {
		Logger.Warn().Err(gelfErr).Msg("Graylog output disabled")
	}
	if cfgErr != nil {
		Logger.Warn().Err(cfgErr).Msg("Failed to load config, using defaults!")
	} else {
		Logger.Info().Str("dir", configDir).Msg("Loaded config")
	}
	Logger.Info().Str("version", BuildVersion).Str("buildDate", BuildDate).Msg("Starting up...")

	return func() {
		_ = LogManager.Close()
		if logFile != nil {
			_ = logFile.Close()
		}
	}, nil
}

// loadCalibrations returns the built-in table merged with the configured overrides.
func loadCalibrations() (*calibration.Table, error) {
	table := calibration.Default()
	path := config.GetString("calibration.overrides")
	if path == "" {
		return table, nil
	}
	n, err := table.LoadOverrides(path)
	if err != nil {
		return nil, err
	}
	Logger.Info().Int("maps", n).Str("path", path).Msg("Loaded calibration overrides")
	return table, nil
}

func serve(ctx context.Context) error {
	cals, err := loadCalibrations()
	if err != nil {
		return err
	}

	store, err := createStorageBackend(config.GetStorageConfig())
	if err != nil {
		return err
	}
	if err := store.Init(); err != nil {
		return fmt.Errorf("failed to initialize storage backend: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			Logger.Warn().Err(err).Msg("Failed to close storage backend")
		}
	}()

	deps := server.Dependencies{
		Calibrations: cals,
		Store:        store,
		Layouts:      cache.NewLayoutCache(config.GetInt("radar.layoutCacheSize")),
		Options:      config.GetRadarOptions(),
		Logger:       LogManager.Component("server"),
	}

	if influxCfg := config.GetInfluxConfig(); influxCfg.Enabled {
		metrics := influx.NewManager(influxCfg, LogManager.Component("influx"))
		if err := metrics.Connect(ctx); err != nil {
			Logger.Warn().Err(err).Msg("Usage metrics disabled")
		} else {
			deps.Metrics = metrics
			defer func() { _ = metrics.Close() }()
		}
	}

	srv := server.New(config.GetServerConfig(), deps)
	return srv.ListenAndServe(ctx)
}
