package config

import "time"

// Config holds all configuration for the application
type Config struct {
	Environment string         `mapstructure:"environment"`
	Server      ServerConfig   `mapstructure:"server"`
	Database    DatabaseConfig `mapstructure:"database"`
	Logger      LoggerConfig   `mapstructure:"logger"`
	Switch      SwitchConfig   `mapstructure:"switch"`
	Tunnel      TunnelConfig   `mapstructure:"tunnel"`
	Console     ConsoleConfig  `mapstructure:"console"`
	Composer    ComposerConfig `mapstructure:"composer"`
	Picker      PickerConfig   `mapstructure:"picker"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"readTimeout"`       // seconds
	WriteTimeout      time.Duration `mapstructure:"writeTimeout"`      // seconds
	IdleTimeout       time.Duration `mapstructure:"idleTimeout"`       // seconds
	ReadHeaderTimeout time.Duration `mapstructure:"readHeaderTimeout"` // seconds
	ShutdownTimeout   time.Duration `mapstructure:"shutdownTimeout"`   // seconds
	AllowedOrigins    []string      `mapstructure:"allowedOrigins"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"sslMode"`
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"` // minutes
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"` // minutes
	QueryTimeout    time.Duration `mapstructure:"queryTimeout"`    // seconds
	RetryAttempts   int           `mapstructure:"retryAttempts"`
	RetryDelay      time.Duration `mapstructure:"retryDelay"` // seconds

	SlowQueryThreshold time.Duration `mapstructure:"slowQueryThreshold"` // milliseconds
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SwitchConfig contains switch connection settings
type SwitchConfig struct {
	DialTimeout  time.Duration `mapstructure:"dialTimeout"`  // seconds
	WriteTimeout time.Duration `mapstructure:"writeTimeout"` // seconds
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`  // seconds
	// Address bypasses the tunnel when set, for switches reachable directly
	Address string `mapstructure:"address"`
}

// TunnelConfig contains SSH tunnel settings
type TunnelConfig struct {
	DialTimeout       time.Duration `mapstructure:"dialTimeout"`       // seconds
	KeepaliveInterval time.Duration `mapstructure:"keepaliveInterval"` // seconds
	KnownHostsFile    string        `mapstructure:"knownHostsFile"`
	ConnectOnStart    bool          `mapstructure:"connectOnStart"`
}

// ConsoleConfig contains settings of the console core
type ConsoleConfig struct {
	Timezone           string `mapstructure:"timezone"`
	IdentifierAttempts int    `mapstructure:"identifierAttempts"`
}

// ComposerConfig holds the values a fresh draft starts with
type ComposerConfig struct {
	Defaults ComposerDefaults `mapstructure:"defaults"`
}

// ComposerDefaults mirrors the editable message fields
type ComposerDefaults struct {
	Transaction              string `mapstructure:"transaction"`
	Switch                   string `mapstructure:"switch"`
	PrimaryAccountNumber     string `mapstructure:"primaryAccountNumber"`
	TransactionAmount        string `mapstructure:"transactionAmount"`
	AcquiringInstitutionCode string `mapstructure:"acquiringInstitutionCode"`
	ReceivingInstitutionCode string `mapstructure:"receivingInstitutionCode"`
	TransactionFee           string `mapstructure:"transactionFee"`
	TerminalNameAndLocation  string `mapstructure:"terminalNameAndLocation"`
	CurrencyCode             string `mapstructure:"currencyCode"`
	TerminalID               string `mapstructure:"terminalId"`
	SourceAccount            string `mapstructure:"sourceAccount"`
	DestinationAccount       string `mapstructure:"destinationAccount"`
	Channel                  string `mapstructure:"channel"`
	Device                   string `mapstructure:"device"`
	TargetBank               string `mapstructure:"targetBank"`
}

// PickerConfig lists where the file picker looks for SSH keys
type PickerConfig struct {
	Candidates []string `mapstructure:"candidates"`
}
