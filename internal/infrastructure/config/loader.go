package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/amirhossein-jamali/atm-console/internal/domain/port/usecase"
)

// Environment constants
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "ATM"

// ConfigPaths defines the paths to look for config files
var ConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
}

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	"../.env",
	"../../.env",
	"./configs/.env",
	"../configs/.env",
}

// LoadConfig loads configuration from file based on the environment
func LoadConfig() (*Config, error) {
	// Load environment variables from .env file first
	if err := loadDotEnvFile(); err != nil {
		fmt.Println("Warning: Could not load .env file:", err)
	}

	return loadConfig(getEnvironment(), ConfigPaths)
}

func loadConfig(env string, paths []string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(env)
	v.SetConfigType("yaml")

	for _, path := range paths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Set environment variables to override config
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	processEnvOverrides(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.Environment = env

	processDurations(&config)

	return &config, nil
}

// loadDotEnvFile attempts to load environment variables from .env files
func loadDotEnvFile() error {
	var lastError error

	for _, path := range DotEnvPaths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			lastError = err
			continue
		}
		return nil
	}

	if lastError != nil {
		return fmt.Errorf("could not load any .env file: %w", lastError)
	}

	return fmt.Errorf("no .env file found in search paths")
}

// setDefaults sets default values for non-critical configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 15)       // seconds
	v.SetDefault("server.writeTimeout", 0)       // seconds, the event stream stays open
	v.SetDefault("server.idleTimeout", 60)       // seconds
	v.SetDefault("server.readHeaderTimeout", 10) // seconds
	v.SetDefault("server.shutdownTimeout", 10)   // seconds

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "atm-console.db")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 10)
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.connMaxLifetime", 30) // minutes
	v.SetDefault("database.connMaxIdleTime", 15) // minutes
	v.SetDefault("database.queryTimeout", 5)     // seconds
	v.SetDefault("database.retryAttempts", 3)
	v.SetDefault("database.retryDelay", 1)           // seconds
	v.SetDefault("database.slowQueryThreshold", 200) // milliseconds

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")

	v.SetDefault("switch.dialTimeout", 10)  // seconds
	v.SetDefault("switch.writeTimeout", 30) // seconds
	v.SetDefault("switch.readTimeout", 30)  // seconds

	v.SetDefault("tunnel.dialTimeout", 15)       // seconds
	v.SetDefault("tunnel.keepaliveInterval", 30) // seconds

	v.SetDefault("console.identifierAttempts", 16)

	v.SetDefault("composer.defaults.transaction", "WITHDRAW")
	v.SetDefault("composer.defaults.switch", "CORTEX")
	v.SetDefault("composer.defaults.currencyCode", "608")
	v.SetDefault("composer.defaults.channel", "ON_US")
	v.SetDefault("composer.defaults.device", "6011")
	v.SetDefault("composer.defaults.transactionAmount", "0")
	v.SetDefault("composer.defaults.transactionFee", "0")

	v.SetDefault("picker.candidates", []string{
		"~/.ssh/id_ed25519",
		"~/.ssh/id_rsa",
		"~/.ssh/id_ecdsa",
	})
}

// getEnvironment determines the environment to use based on ATM_ENV environment variable
func getEnvironment() string {
	env := os.Getenv(EnvPrefix + "_ENV")
	if env == "" {
		env = Development
	}
	return strings.ToLower(env)
}

// processEnvOverrides ensures environment variables override config values
func processEnvOverrides(v *viper.Viper) {
	stringOverrides := map[string]string{
		"DB_DRIVER":        "database.driver",
		"DB_HOST":          "database.host",
		"DB_PORT":          "database.port",
		"DB_USERNAME":      "database.username",
		"DB_PASSWORD":      "database.password",
		"DB_NAME":          "database.database",
		"DB_SSL_MODE":      "database.sslMode",
		"DB_PATH":          "database.path",
		"SERVER_HOST":      "server.host",
		"SERVER_PORT":      "server.port",
		"LOGGER_LEVEL":     "logger.level",
		"SWITCH_ADDRESS":   "switch.address",
		"CONSOLE_TZ":       "console.timezone",
		"KNOWN_HOSTS":      "tunnel.knownHostsFile",
		"CONNECT_ON_START": "tunnel.connectOnStart",
	}
	for env, key := range stringOverrides {
		if value := os.Getenv(EnvPrefix + "_" + env); value != "" {
			v.Set(key, value)
		}
	}

	intOverrides := map[string]string{
		"DB_MAX_OPEN_CONNS":            "database.maxOpenConns",
		"DB_MAX_IDLE_CONNS":            "database.maxIdleConns",
		"DB_QUERY_TIMEOUT_SECONDS":     "database.queryTimeout",
		"SWITCH_READ_TIMEOUT_SECONDS":  "switch.readTimeout",
		"SWITCH_WRITE_TIMEOUT_SECONDS": "switch.writeTimeout",
		"TUNNEL_KEEPALIVE_SECONDS":     "tunnel.keepaliveInterval",
		"CONSOLE_IDENTIFIER_ATTEMPTS":  "console.identifierAttempts",
	}
	for env, key := range intOverrides {
		if value := getEnvInt(EnvPrefix+"_"+env, 0); value > 0 {
			v.Set(key, value)
		}
	}
}

// Helper function to get environment variable as int
func getEnvInt(name string, defaultVal int) int {
	valStr := os.Getenv(name)
	if valStr == "" {
		return defaultVal
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}

// processDurations converts time.Duration fields from their raw values to actual durations
func processDurations(config *Config) {
	// seconds
	config.Server.ReadTimeout = time.Duration(config.Server.ReadTimeout) * time.Second
	config.Server.WriteTimeout = time.Duration(config.Server.WriteTimeout) * time.Second
	config.Server.IdleTimeout = time.Duration(config.Server.IdleTimeout) * time.Second
	config.Server.ReadHeaderTimeout = time.Duration(config.Server.ReadHeaderTimeout) * time.Second
	config.Server.ShutdownTimeout = time.Duration(config.Server.ShutdownTimeout) * time.Second

	// minutes
	config.Database.ConnMaxLifetime = time.Duration(config.Database.ConnMaxLifetime) * time.Minute
	config.Database.ConnMaxIdleTime = time.Duration(config.Database.ConnMaxIdleTime) * time.Minute

	// seconds
	config.Database.QueryTimeout = time.Duration(config.Database.QueryTimeout) * time.Second
	config.Database.RetryDelay = time.Duration(config.Database.RetryDelay) * time.Second

	// milliseconds
	config.Database.SlowQueryThreshold = time.Duration(config.Database.SlowQueryThreshold) * time.Millisecond

	config.Switch.DialTimeout = time.Duration(config.Switch.DialTimeout) * time.Second
	config.Switch.WriteTimeout = time.Duration(config.Switch.WriteTimeout) * time.Second
	config.Switch.ReadTimeout = time.Duration(config.Switch.ReadTimeout) * time.Second

	config.Tunnel.DialTimeout = time.Duration(config.Tunnel.DialTimeout) * time.Second
	config.Tunnel.KeepaliveInterval = time.Duration(config.Tunnel.KeepaliveInterval) * time.Second
}

// Input converts the configured defaults into composer input
func (d ComposerDefaults) Input() usecase.MessageInput {
	return usecase.MessageInput{
		Transaction:              d.Transaction,
		Switch:                   d.Switch,
		PrimaryAccountNumber:     d.PrimaryAccountNumber,
		TransactionAmount:        d.TransactionAmount,
		AcquiringInstitutionCode: d.AcquiringInstitutionCode,
		ReceivingInstitutionCode: d.ReceivingInstitutionCode,
		TransactionFee:           d.TransactionFee,
		TerminalNameAndLocation:  d.TerminalNameAndLocation,
		CurrencyCode:             d.CurrencyCode,
		TerminalID:               d.TerminalID,
		SourceAccount:            d.SourceAccount,
		DestinationAccount:       d.DestinationAccount,
		Channel:                  d.Channel,
		Device:                   d.Device,
		TargetBank:               d.TargetBank,
	}
}
