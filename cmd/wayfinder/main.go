// Wayfinder Core - indoor room-to-room routing service
//
// This is the main entry point. It loads the floor plan, serves route
// queries over HTTP/WebSocket, keeps route history in SQLite, and
// optionally mirrors gate/path state over MQTT and route telemetry to
// InfluxDB.
//
// Usage:
//
//	wayfinder                      run the service
//	wayfinder token [-sub name]    print an admin bearer token
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nerrad567/wayfinder-core/internal/access"
	"github.com/nerrad567/wayfinder-core/internal/api"
	"github.com/nerrad567/wayfinder-core/internal/audit"
	accessbridge "github.com/nerrad567/wayfinder-core/internal/bridges/access"
	"github.com/nerrad567/wayfinder-core/internal/floorplan"
	"github.com/nerrad567/wayfinder-core/internal/history"
	"github.com/nerrad567/wayfinder-core/internal/infrastructure/config"
	"github.com/nerrad567/wayfinder-core/internal/infrastructure/database"
	"github.com/nerrad567/wayfinder-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/wayfinder-core/internal/infrastructure/logging"
	"github.com/nerrad567/wayfinder-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/wayfinder-core/internal/routing"
	"github.com/nerrad567/wayfinder-core/internal/telemetry"
	"github.com/nerrad567/wayfinder-core/internal/wayfinding"
	"github.com/nerrad567/wayfinder-core/migrations"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// historyRetention is how long route history is kept; older rows are
// pruned at startup.
const historyRetention = 90 * 24 * time.Hour

func main() {
	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: loading .env: %v\n", err)
	}

	if len(os.Args) > 1 && os.Args[1] == "token" {
		if err := issueToken(os.Args[2:], os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	log := logging.Default()
	log.Info("starting Wayfinder Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log = logging.New(cfg.Logging, version)
	log.Info("configuration loaded", "path", configPath, "site", cfg.Site.ID)

	// Floor plan and routing
	fp, err := floorplan.Load(cfg.FloorPlan.Path)
	if err != nil {
		return fmt.Errorf("loading floor plan: %w", err)
	}
	log.Info("floor plan loaded",
		"floorplan", fp.ID,
		"rooms", len(fp.Rooms),
		"gates", len(fp.Gates),
		"paths", len(fp.Paths),
	)

	engine := routing.NewEngine(fp,
		routing.WithWalkingSpeed(cfg.Routing.WalkingSpeed),
		routing.WithLogger(log),
	)
	loc := cfg.Location()
	svc := wayfinding.NewService(engine, access.New(loc),
		wayfinding.WithLogger(log),
		wayfinding.WithTimeAware(cfg.Routing.TimeAware),
		wayfinding.WithAvoidStairs(cfg.Routing.AvoidStairs),
	)
	logUnreachable(log, engine, fp)

	// Database and route history
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
	if err := db.Migrate(ctx, migrations.FS); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	log.Info("database ready", "path", cfg.Database.Path)

	var historyRepo history.Repository
	if cfg.Routing.HistoryEnabled {
		repo := history.NewSQLiteRepository(db.DB, loc)
		if n, pruneErr := repo.Prune(ctx, historyRetention); pruneErr != nil {
			log.Warn("pruning route history failed", "error", pruneErr)
		} else if n > 0 {
			log.Info("pruned route history", "rows", n)
		}
		svc.Subscribe(history.NewRecorder(repo, log).Listen)
		historyRepo = repo
	} else {
		log.Info("route history disabled")
	}

	auditRepo := audit.NewSQLiteRepository(db.DB)
	svc.Subscribe(audit.NewRecorder(auditRepo, log).Listen)

	// MQTT and the access-control bridge (optional)
	var mqttStatus api.ConnectionStatus
	if cfg.MQTT.Enabled {
		mqttClient, bridge, startErr := startAccessBridge(ctx, cfg, svc, log)
		if startErr != nil {
			return startErr
		}
		defer func() {
			log.Info("stopping access bridge")
			bridge.Stop()
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttStatus = mqttClient
	} else {
		log.Info("MQTT disabled")
	}

	// InfluxDB telemetry (optional)
	if cfg.InfluxDB.Enabled {
		influxClient, connErr := influxdb.Connect(cfg.InfluxDB)
		if connErr != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", connErr)
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
		svc.Subscribe(telemetry.NewRecorder(influxClient).Listen)
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
	} else {
		log.Info("InfluxDB disabled")
	}

	// HTTP API
	server, err := api.New(api.Deps{
		Config:        cfg.API,
		WS:            cfg.WebSocket,
		Security:      cfg.Security,
		Logger:        log,
		Service:       svc,
		History:       historyRepo,
		Audit:         auditRepo,
		DB:            db.DB,
		MQTT:          mqttStatus,
		FloorPlanPath: cfg.FloorPlan.Path,
		Location:      loc,
		Version:       version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("health check failed: database: %w", err)
	}
	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")
	return nil
}

// startAccessBridge connects to the broker and starts the gate/path bridge.
func startAccessBridge(ctx context.Context, cfg *config.Config, svc *wayfinding.Service, log *logging.Logger) (*mqtt.Client, *accessbridge.Bridge, error) {
	client, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to MQTT: %w", err)
	}
	client.SetLogger(log)
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	// #nosec G115 -- QoS is validated to 0..2
	bridge, err := accessbridge.NewBridge(accessbridge.Options{
		Client:     client,
		Controller: svc,
		QoS:        byte(cfg.MQTT.QoS),
		Logger:     log,
	})
	if err != nil {
		client.Close() //nolint:errcheck // startup failure path
		return nil, nil, fmt.Errorf("creating access bridge: %w", err)
	}
	if err := bridge.Start(ctx); err != nil {
		client.Close() //nolint:errcheck // startup failure path
		return nil, nil, fmt.Errorf("starting access bridge: %w", err)
	}
	return client, bridge, nil
}

// logUnreachable warns about rooms no route can reach from the first room.
func logUnreachable(log *logging.Logger, engine *routing.Engine, fp *floorplan.FloorPlan) {
	if len(fp.Rooms) == 0 {
		return
	}
	unreachable, err := engine.UnreachableRooms(fp.Rooms[0].ID)
	if err != nil {
		log.Warn("reachability check failed", "error", err)
		return
	}
	if len(unreachable) > 0 {
		log.Warn("floor plan has unreachable rooms", "from", fp.Rooms[0].ID, "rooms", unreachable)
	}
}

// issueToken prints a signed admin token using the configured secret.
func issueToken(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	sub := fs.String("sub", "admin", "token subject")
	role := fs.String("role", api.RoleAdmin, "role claim")
	ttl := fs.Duration("ttl", time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	tok, err := api.IssueToken(cfg.Security.JWT.Secret, cfg.Security.JWT.Issuer, *sub, *role, *ttl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, tok)
	return err
}

// getConfigPath returns the config path from WAYFINDER_CONFIG or the default.
func getConfigPath() string {
	if path := os.Getenv("WAYFINDER_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
