// volumed - System Volume Control Server
//
// volumed exposes the machine's master output volume over a small HTTP API
// so remote clients on the local network can read and adjust it. It is
// designed to run unattended on a media machine: it starts degraded (rather
// than not at all) when the audio device is missing, records an audit trail
// of changes, and optionally broadcasts state over MQTT for home-automation
// consumers.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/nerrad567/volumed/migrations"

	"github.com/nerrad567/volumed/internal/api"
	"github.com/nerrad567/volumed/internal/infrastructure/config"
	"github.com/nerrad567/volumed/internal/infrastructure/database"
	"github.com/nerrad567/volumed/internal/infrastructure/logging"
	"github.com/nerrad567/volumed/internal/infrastructure/mqtt"
	"github.com/nerrad567/volumed/internal/volume"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// pruneInterval is how often the history retention pass runs.
const pruneInterval = 24 * time.Hour

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting volumed",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	cfg, err := loadConfig(log)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database and run migrations (only needed for the history store)
	var history volume.HistoryRepository
	if cfg.History.Enabled {
		db, dbErr := database.Open(database.Config{
			Path:        cfg.Database.Path,
			WALMode:     cfg.Database.WALMode,
			BusyTimeout: cfg.Database.BusyTimeout,
		})
		if dbErr != nil {
			return fmt.Errorf("opening database: %w", dbErr)
		}
		defer func() {
			log.Info("closing database")
			if closeErr := db.Close(); closeErr != nil {
				log.Error("error closing database", "error", closeErr)
			}
		}()
		log.Info("database connected", "path", cfg.Database.Path)

		if migrateErr := db.Migrate(ctx); migrateErr != nil {
			return fmt.Errorf("running migrations: %w", migrateErr)
		}
		log.Info("database migrations complete")

		history = volume.NewSQLiteHistoryRepository(db.DB)
	} else {
		log.Info("history disabled")
	}

	// Initialise the volume controller. A missing platform binding is fatal;
	// a missing or unresponsive audio device degrades instead.
	controller := volume.NewController(volume.ControllerConfig{
		DefaultLevel: cfg.Audio.DefaultLevel,
		Logger:       log.With("component", "volume"),
	})
	if initErr := controller.Initialize(); initErr != nil {
		if errors.Is(initErr, volume.ErrBindingUnavailable) {
			return fmt.Errorf("audio binding unavailable: %w", initErr)
		}
		return fmt.Errorf("initialising volume controller: %w", initErr)
	}
	log.Info("volume controller initialised",
		"audio_initialized", controller.Initialized(),
		"level", controller.Volume(),
	)

	// Record the starting level so the audit trail has a baseline
	if history != nil && controller.Initialized() {
		if recErr := history.Record(ctx, controller.Volume(), volume.HistorySourceStartup); recErr != nil {
			log.Warn("failed to record startup volume", "error", recErr)
		}
	}

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})

		// Seed the retained state topic with the starting level
		if pubErr := publishState(mqttClient, controller.Volume(), volume.HistorySourceStartup); pubErr != nil {
			log.Warn("failed to publish startup volume state", "error", pubErr)
		}
	} else {
		log.Info("MQTT disabled")
	}

	// Start the HTTP API server
	server, err := api.New(api.Deps{
		Config:     cfg.API,
		Logger:     log,
		Controller: controller,
		History:    history,
		Broker:     mqttClient,
		Version:    version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started", "host", cfg.API.Host, "port", cfg.API.Port)

	// Periodically prune old history rows
	if history != nil {
		go pruneLoop(ctx, history, cfg.HistoryRetention(), log)
	}

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls will run in reverse order:
	// 1. API server
	// 2. MQTT (if enabled)
	// 3. Database (if history enabled)

	log.Info("volumed stopped")
	return nil
}

// loadConfig resolves and loads the configuration file.
//
// An explicitly configured path (VOLUMED_CONFIG) must exist. The default
// path is allowed to be absent: volumed then runs entirely on defaults, so
// a bare binary on a fresh machine still serves.
func loadConfig(log *logging.Logger) (*config.Config, error) {
	path := os.Getenv("VOLUMED_CONFIG")
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if explicit || !os.IsNotExist(err) {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		log.Info("no config file found, using defaults", "path", path)
		cfg := config.Default()
		if valErr := cfg.Validate(); valErr != nil {
			return nil, valErr
		}
		return cfg, nil
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	log.Info("configuration loaded", "path", path)
	return cfg, nil
}

// publishState publishes a retained volume state message.
func publishState(client *mqtt.Client, level float64, source string) error {
	payload := fmt.Sprintf(`{"level":%.2f,"source":%q,"timestamp":%q}`,
		level, source, time.Now().UTC().Format(time.RFC3339))
	return client.PublishRetained(mqtt.Topics{}.VolumeState(), []byte(payload))
}

// pruneLoop deletes history rows older than the retention window, once at
// startup and then daily, until the context is cancelled.
func pruneLoop(ctx context.Context, history volume.HistoryRepository, retention time.Duration, log *logging.Logger) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	prune := func() {
		deleted, err := history.Prune(ctx, retention)
		if err != nil {
			log.Warn("history prune failed", "error", err)
			return
		}
		if deleted > 0 {
			log.Info("pruned volume history", "deleted", deleted, "retention", retention)
		}
	}

	prune()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			prune()
		}
	}
}
