// Home Control Hub - Device Messaging & Automation Engine
//
// This is the main entry point for the hub process. It bridges encrypted
// MQTT device traffic into durable device state and evaluates automation
// rules against inbound telemetry, publishing resulting commands back to
// devices over the same encrypted channel.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/home-control-hub/core/migrations"

	"github.com/home-control-hub/core/internal/automation"
	"github.com/home-control-hub/core/internal/device"
	"github.com/home-control-hub/core/internal/infrastructure/config"
	"github.com/home-control-hub/core/internal/infrastructure/database"
	"github.com/home-control-hub/core/internal/infrastructure/influxdb"
	"github.com/home-control-hub/core/internal/infrastructure/logging"
	"github.com/home-control-hub/core/internal/infrastructure/mqtt"
	"github.com/home-control-hub/core/internal/messaging"
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

func main() {
	// Cancel on interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Home Control Hub",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
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

	// Device directory and state history
	store := device.NewSQLiteStore(db.DB)
	history := device.NewSQLiteStateHistoryRepository(db.DB)

	devices, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("loading device directory: %w", err)
	}
	log.Info("device directory loaded", "devices", len(devices))

	// Connect to MQTT broker
	mqttClient, err := mqtt.Connect(cfg.MQTT)
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

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	var metrics messaging.MetricsWriter
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		metrics = influxClient
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
	} else {
		log.Info("InfluxDB disabled, telemetry history off")
	}

	// Outbound path: publisher feeds both direct commands and rule actions
	qos := byte(cfg.MQTT.QoS)
	publisher := messaging.NewPublisher(store, mqttClient, qos, log)

	// Rule engine, seeded from configuration
	engine := automation.NewEngine(publisher, log)
	loadStartupRules(engine, cfg.Rules, log)

	// Inbound path: router subscribed to the device namespace
	router := messaging.NewRouter(store, engine, history, metrics, log)

	topics := mqtt.Topics{}
	if err := mqttClient.Subscribe(topics.AllDeviceStatus(), qos, router.HandleMessage); err != nil {
		return fmt.Errorf("subscribing to device status: %w", err)
	}
	if err := mqttClient.Subscribe(topics.AllDeviceTelemetry(), qos, router.HandleMessage); err != nil {
		return fmt.Errorf("subscribing to device telemetry: %w", err)
	}
	log.Info("subscribed to device topics",
		"status", topics.AllDeviceStatus(),
		"telemetry", topics.AllDeviceTelemetry(),
	)

	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls will run in reverse order:
	// 1. InfluxDB (if enabled)
	// 2. MQTT
	// 3. Database

	log.Info("Home Control Hub stopped")
	return nil
}

// loadStartupRules adds rules from configuration to the engine.
// A malformed rule is logged and skipped; the hub must come up even when
// one rule in the file is bad.
func loadStartupRules(engine *automation.Engine, rules []config.RuleConfig, log *logging.Logger) {
	for _, rc := range rules {
		id := rc.ID
		if id == "" {
			id = automation.GenerateID()
		}
		name := rc.Name
		if name == "" {
			name = id
		}
		rule := automation.Rule{
			ID:             id,
			Name:           name,
			Condition:      rc.Condition,
			ActionDeviceID: rc.ActionDeviceID,
			Command: automation.Command{
				Name:    rc.Command.Name,
				Payload: rc.Command.Payload,
			},
		}
		if err := engine.AddRule(rule); err != nil {
			log.Error("skipping invalid startup rule",
				"rule_id", id,
				"rule_name", rc.Name,
				"error", err,
			)
			continue
		}
	}
	log.Info("startup rules loaded", "active", len(engine.Rules()))
}

// getConfigPath returns the configuration file path.
// Uses HOMEHUB_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("HOMEHUB_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}
	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}
	return nil
}
