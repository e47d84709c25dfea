package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	coreport "github.com/amirhossein-jamali/atm-console/internal/domain/port/core"
	"github.com/amirhossein-jamali/atm-console/internal/domain/usecase/console"
	"github.com/amirhossein-jamali/atm-console/internal/domain/usecase/gateway"
	"github.com/amirhossein-jamali/atm-console/internal/domain/usecase/message"
	"github.com/amirhossein-jamali/atm-console/internal/domain/usecase/session"

	"github.com/amirhossein-jamali/atm-console/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/atm-console/internal/infrastructure/adapter/api/routes"
	"github.com/amirhossein-jamali/atm-console/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/atm-console/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/atm-console/internal/infrastructure/adapter/picker"
	"github.com/amirhossein-jamali/atm-console/internal/infrastructure/adapter/random"
	"github.com/amirhossein-jamali/atm-console/internal/infrastructure/adapter/switching"
	timeprovider "github.com/amirhossein-jamali/atm-console/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/atm-console/internal/infrastructure/adapter/tunnel"
	"github.com/amirhossein-jamali/atm-console/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := logger.NewZapLogger(cfg.Environment == config.Production, coreport.ParseLogLevel(cfg.Logger.Level))
	defer func() { _ = appLogger.Flush() }()

	location, err := timeprovider.LoadLocation(cfg.Console.Timezone)
	if err != nil {
		log.Fatalf("Invalid console timezone: %v", err)
	}
	tp := timeprovider.NewRealTimeProvider(location)

	// Database: the ledger and the managed configuration
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), time.Minute)
	dbManager := database.NewManager(database.FromAppConfig(cfg), appLogger, tp)
	if _, err := dbManager.Connect(startupCtx); err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer func() { _ = dbManager.Close() }()

	if err := dbManager.Migrate(startupCtx); err != nil {
		appLogger.Error("Failed to run migrations", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	uow := dbManager.CreateUnitOfWork()

	settings := config.NewRuntimeSettings()
	entries, err := uow.GetConfigRepository(startupCtx).List(startupCtx)
	if err != nil {
		appLogger.Error("Failed to load console configuration", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	settings.Apply(entries)
	cancelStartup()

	// Switch traffic goes through the tunnel unless a direct address is configured
	switchAddress := func() string {
		if cfg.Switch.Address != "" {
			return cfg.Switch.Address
		}
		return gateway.SwitchAddress(settings)
	}
	transport := switching.NewTCPTransport(switchAddress, switching.TransportConfig{
		DialTimeout:  cfg.Switch.DialTimeout,
		WriteTimeout: cfg.Switch.WriteTimeout,
		ReadTimeout:  cfg.Switch.ReadTimeout,
	}, tp, appLogger)

	sshTunnel := tunnel.NewSSHTunnel(tunnel.Config{
		DialTimeout:       cfg.Tunnel.DialTimeout,
		KeepaliveInterval: cfg.Tunnel.KeepaliveInterval,
		KnownHostsFile:    cfg.Tunnel.KnownHostsFile,
	}, appLogger)

	identifiers := message.NewIdentifierGenerator(random.NewCryptoSource(), cfg.Console.IdentifierAttempts)
	backend := gateway.NewGateway(gateway.Dependencies{
		Builder:    message.NewBuilder(identifiers, tp),
		Codecs:     switching.NewCodecs(appLogger),
		Transport:  transport,
		UnitOfWork: uow,
		Settings:   settings,
		Tunnel:     sshTunnel,
		Picker:     picker.NewCandidatePicker(cfg.Picker.Candidates, appLogger),
		Logger:     appLogger,
	})

	// Console core
	store := session.NewStore(tp)
	composer := console.NewComposer(backend, message.NewValidator(), store, cfg.Composer.Defaults.Input(), appLogger)
	ledger := console.NewLedger(backend, composer, store, appLogger)
	reversal := console.NewReversalCoordinator(backend, ledger, store, appLogger)
	settingsEditor := console.NewSettingsEditor(backend, store, appLogger)
	monitor := console.NewTunnelMonitor(backend, store, appLogger)

	rootCtx, cancelRoot := context.WithCancel(context.Background())
	defer cancelRoot()
	monitor.Start(rootCtx)

	if cfg.Tunnel.ConnectOnStart && !monitor.Connected() {
		if err := monitor.Connect(rootCtx); err != nil {
			appLogger.Warn("Tunnel could not be opened on start", map[string]any{
				"error": err.Error(),
			})
		}
	}

	// HTTP API
	router := gin.New()
	routes.SetupMiddlewares(router, appLogger, tp, cfg.Server.AllowedOrigins)
	routes.SetupRoutes(router, routes.Handlers{
		Session:  handler.NewSessionHandler(store, appLogger),
		Composer: handler.NewComposerHandler(composer, appLogger),
		History:  handler.NewHistoryHandler(ledger, reversal, appLogger),
		Settings: handler.NewSettingsHandler(settingsEditor),
		Tunnel:   handler.NewTunnelHandler(monitor),
		Health:   handler.NewHealthHandler(dbManager, monitor, tp, appLogger),
	})

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		BaseContext:       func(net.Listener) context.Context { return rootCtx },
	}

	go func() {
		appLogger.Info("Starting server", map[string]any{
			"addr":   server.Addr,
			"env":    cfg.Environment,
			"switch": switchAddress(),
		})

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Failed to start server", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	// Open event streams only end when their context does
	cancelRoot()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	monitor.Shutdown()
	if err := sshTunnel.Close(); err != nil {
		appLogger.Warn("Failed to close tunnel", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Server exited gracefully", nil)
}

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missingConfigs []string

	if cfg.Server.Port == 0 {
		missingConfigs = append(missingConfigs, "server.port")
	}

	if cfg.Server.ReadTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.readTimeout")
	}

	if cfg.Server.ShutdownTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.shutdownTimeout")
	}

	switch cfg.Database.Driver {
	case database.DriverSQLite:
		if cfg.Database.Path == "" {
			missingConfigs = append(missingConfigs, "database.path")
		}
	case database.DriverPostgres:
		if cfg.Database.Host == "" {
			missingConfigs = append(missingConfigs, "database.host (or ATM_DB_HOST environment variable)")
		}
		if cfg.Database.Username == "" {
			missingConfigs = append(missingConfigs, "database.username (or ATM_DB_USERNAME environment variable)")
		}
		if cfg.Database.Password == "" {
			missingConfigs = append(missingConfigs, "database.password (or ATM_DB_PASSWORD environment variable)")
		}
		if cfg.Database.Database == "" {
			missingConfigs = append(missingConfigs, "database.database (or ATM_DB_NAME environment variable)")
		}
	default:
		return fmt.Errorf("invalid database driver: %q, must be one of: %s, %s",
			cfg.Database.Driver, database.DriverSQLite, database.DriverPostgres)
	}

	if cfg.Database.QueryTimeout == 0 {
		missingConfigs = append(missingConfigs, "database.queryTimeout")
	}

	if cfg.Switch.DialTimeout == 0 || cfg.Switch.ReadTimeout == 0 {
		missingConfigs = append(missingConfigs, "switch.dialTimeout and switch.readTimeout")
	}

	if cfg.Console.IdentifierAttempts <= 0 {
		missingConfigs = append(missingConfigs, "console.identifierAttempts")
	}

	if cfg.Environment == "" {
		missingConfigs = append(missingConfigs, "environment")
	} else if cfg.Environment != config.Development &&
		cfg.Environment != config.Production &&
		cfg.Environment != config.Test {
		return fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			cfg.Environment, config.Development, config.Production, config.Test)
	}

	if cfg.Logger.Level == "" {
		missingConfigs = append(missingConfigs, "logger.level")
	}

	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configurations: %v", missingConfigs)
	}

	if cfg.Environment == config.Production {
		var warnings []string

		if cfg.Database.Driver == database.DriverPostgres {
			switch strings.ToLower(cfg.Database.SSLMode) {
			case "require", "verify-ca", "verify-full":
			default:
				warnings = append(warnings, "database.sslMode should be set to 'require', 'verify-ca', or 'verify-full' in production")
			}
		}

		if cfg.Tunnel.KnownHostsFile == "" {
			warnings = append(warnings, "tunnel.knownHostsFile is not set, the bastion host key will not be verified")
		}

		if len(warnings) > 0 {
			log.Printf("Warning: potential security issues in production configuration: %v", warnings)
		}
	}

	return nil
}
