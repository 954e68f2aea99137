// Package config provides configuration loading for the deployment harness.
package config

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Local network names.
const (
	// HardhatNetwork is the in-process development network.
	HardhatNetwork = "hardhat"
	// LocalhostNetwork is a node running on this machine.
	LocalhostNetwork = "localhost"
)

// IsLocalNetwork reports whether name is a local node network. Local
// networks are not live: they use the development keys when no accounts
// are configured and skip block confirmations.
func IsLocalNetwork(name string) bool {
	return name == HardhatNetwork || name == LocalhostNetwork
}

// Config holds all configuration for the harness.
type Config struct {
	DefaultNetwork string                        `mapstructure:"default_network" json:"default_network" validate:"required"`
	Networks       map[string]NetworkConfig      `mapstructure:"networks" json:"networks" validate:"required,dive"`
	Solidity       SolidityConfig                `mapstructure:"solidity" json:"solidity"`
	Etherscan      EtherscanConfig               `mapstructure:"etherscan" json:"etherscan"`
	NamedAccounts  map[string]NamedAccountConfig `mapstructure:"named_accounts" json:"named_accounts" validate:"dive"`
	GasReporter    GasReporterConfig             `mapstructure:"gas_reporter" json:"gas_reporter"`
	Mocks          MocksConfig                   `mapstructure:"mocks" json:"mocks"`
	Deployments    DeploymentsConfig             `mapstructure:"deployments" json:"deployments"`
	Database       DatabaseConfig                `mapstructure:"database" json:"database"`
	Redis          RedisConfig                   `mapstructure:"redis" json:"redis"`
	Metrics        MetricsConfig                 `mapstructure:"metrics" json:"metrics"`
}

// NetworkConfig describes one target chain.
type NetworkConfig struct {
	URL                string   `mapstructure:"url" json:"url" validate:"omitempty,url"`
	Accounts           []string `mapstructure:"accounts" json:"accounts"`
	ChainID            int64    `mapstructure:"chain_id" json:"chain_id" validate:"gt=0"`
	BlockConfirmations uint64   `mapstructure:"block_confirmations" json:"block_confirmations"`
	EthUsdPriceFeed    string   `mapstructure:"eth_usd_price_feed" json:"eth_usd_price_feed" validate:"omitempty,eth_addr"`
}

// SolidityConfig lists the compiler versions the artifacts were built with.
type SolidityConfig struct {
	Compilers []CompilerConfig `mapstructure:"compilers" json:"compilers" validate:"dive"`
}

// CompilerConfig is a single compiler entry.
type CompilerConfig struct {
	Version string `mapstructure:"version" json:"version" validate:"required"`
}

// EtherscanConfig holds the contract verification service settings.
type EtherscanConfig struct {
	APIKey string `mapstructure:"api_key" json:"api_key"`
}

// NamedAccountConfig maps a role to an account index.
// Networks overrides the default index per network name.
type NamedAccountConfig struct {
	Default  int            `mapstructure:"default" json:"default" validate:"gte=0"`
	Networks map[string]int `mapstructure:"networks" json:"networks"`
}

// IndexFor returns the account index for the given network.
func (c NamedAccountConfig) IndexFor(network string) int {
	if idx, ok := c.Networks[network]; ok {
		return idx
	}
	return c.Default
}

// GasReporterConfig controls the gas usage report.
type GasReporterConfig struct {
	Enabled    bool   `mapstructure:"enabled" json:"enabled"`
	OutputFile string `mapstructure:"output_file" json:"output_file"`
	NoColors   bool   `mapstructure:"no_colors" json:"no_colors"`
	Currency   string `mapstructure:"currency" json:"currency"`
}

// MocksConfig holds the shared constants for mock deployments.
type MocksConfig struct {
	DevelopmentChains []string `mapstructure:"development_chains" json:"development_chains"`
	Decimals          uint8    `mapstructure:"decimals" json:"decimals" validate:"lte=77"`
	InitialAnswer     string   `mapstructure:"initial_answer" json:"initial_answer" validate:"required,numeric"`
}

// InitialAnswerInt parses InitialAnswer as a base-10 integer.
func (c MocksConfig) InitialAnswerInt() (*big.Int, error) {
	v, ok := new(big.Int).SetString(c.InitialAnswer, 10)
	if !ok {
		return nil, fmt.Errorf("initial answer %q is not an integer", c.InitialAnswer)
	}
	return v, nil
}

// DeploymentsConfig controls where artifacts are read and records are kept.
type DeploymentsConfig struct {
	Dir          string        `mapstructure:"dir" json:"dir"`
	ArtifactsDir string        `mapstructure:"artifacts_dir" json:"artifacts_dir"`
	Store        string        `mapstructure:"store" json:"store" validate:"oneof=file postgres"`
	LockTTL      time.Duration `mapstructure:"lock_ttl" json:"lock_ttl"`
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host" json:"host"`
	Port            int           `mapstructure:"port" json:"port"`
	User            string        `mapstructure:"user" json:"user"`
	Password        string        `mapstructure:"password" json:"password"`
	Database        string        `mapstructure:"database" json:"database"`
	SSLMode         string        `mapstructure:"ssl_mode" json:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" json:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" json:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// URL returns the PostgreSQL URL form used by migrations.
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

// RedisConfig holds Redis configuration.
// An empty Host disables the deployment lock.
type RedisConfig struct {
	Host     string `mapstructure:"host" json:"host"`
	Port     int    `mapstructure:"port" json:"port"`
	Password string `mapstructure:"password" json:"password"`
	DB       int    `mapstructure:"db" json:"db"`
}

// Enabled reports whether a Redis server is configured.
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

// Addr returns the Redis address string.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// MetricsConfig controls the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile" json:"textfile"`
}

// Options controls where Load looks for files.
type Options struct {
	// ConfigFile is an explicit config path. When empty, harness.yaml is
	// searched in the working directory and ./config.
	ConfigFile string
	// EnvFile is the dotenv file to import. Defaults to ".env".
	EnvFile string
}

// Load reads configuration from files and environment variables.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := LoadDotEnv(envFile); err != nil {
		return nil, err
	}

	v := viper.New()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("harness")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("HARNESS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Unprefixed variables shared with other tooling
	v.BindEnv("etherscan.api_key", "ETHERSCAN_API_KEY")
	v.BindEnv("networks.sepolia.url", "SEPOLIA_URL")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK, we use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.expandEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults configures default values for all settings.
func setDefaults(v *viper.Viper) {
	v.SetDefault("default_network", HardhatNetwork)

	// Networks
	v.SetDefault("networks.hardhat.chain_id", 1337)
	v.SetDefault("networks.localhost.url", "http://127.0.0.1:8545")
	v.SetDefault("networks.localhost.chain_id", 31337)
	v.SetDefault("networks.sepolia.url", "${SEPOLIA_URL}")
	v.SetDefault("networks.sepolia.accounts", []string{"${PRIVATE_KEY}"})
	v.SetDefault("networks.sepolia.chain_id", 11155111)
	v.SetDefault("networks.sepolia.block_confirmations", 6)
	v.SetDefault("networks.sepolia.eth_usd_price_feed", "0x694AA1769357215DE4FAC081bf1f309aDC325306")

	// Compilers
	v.SetDefault("solidity.compilers", []map[string]any{
		{"version": "0.8.8"},
		{"version": "0.6.0"},
	})

	v.SetDefault("etherscan.api_key", "")

	v.SetDefault("named_accounts.deployer.default", 0)

	// Gas reporter
	v.SetDefault("gas_reporter.enabled", true)
	v.SetDefault("gas_reporter.output_file", "gas-reporter.txt")
	v.SetDefault("gas_reporter.no_colors", true)
	v.SetDefault("gas_reporter.currency", "USD")

	// Mocks
	v.SetDefault("mocks.development_chains", []string{"hardhat", "localhost"})
	v.SetDefault("mocks.decimals", 8)
	v.SetDefault("mocks.initial_answer", "200000000000")

	// Deployments
	v.SetDefault("deployments.dir", "deployments")
	v.SetDefault("deployments.artifacts_dir", "artifacts")
	v.SetDefault("deployments.store", "file")
	v.SetDefault("deployments.lock_ttl", "2m")

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "harness")
	v.SetDefault("database.password", "harness")
	v.SetDefault("database.database", "harness")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 5)
	v.SetDefault("database.max_idle_conns", 1)
	v.SetDefault("database.conn_max_lifetime", "5m")

	// Redis defaults (lock disabled)
	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("metrics.textfile", "")
}

// expandEnv substitutes ${VAR} references in secrets and endpoints.
// Account entries that expand to nothing are dropped.
func (c *Config) expandEnv() {
	for name, nc := range c.Networks {
		nc.URL = os.ExpandEnv(nc.URL)
		accounts := make([]string, 0, len(nc.Accounts))
		for _, acct := range nc.Accounts {
			if acct = strings.TrimSpace(os.ExpandEnv(acct)); acct != "" {
				accounts = append(accounts, acct)
			}
		}
		nc.Accounts = accounts
		c.Networks[name] = nc
	}
	c.Etherscan.APIKey = os.ExpandEnv(c.Etherscan.APIKey)
}

var validate = validator.New()

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	if _, ok := c.Networks[c.DefaultNetwork]; !ok {
		return fmt.Errorf("validate config: default network %q is not configured", c.DefaultNetwork)
	}
	if _, err := c.Mocks.InitialAnswerInt(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

// Network returns the configuration for the named network.
func (c *Config) Network(name string) (NetworkConfig, bool) {
	nc, ok := c.Networks[name]
	return nc, ok
}

// NetworkNames returns the configured network names in sorted order.
func (c *Config) NetworkNames() []string {
	names := make([]string, 0, len(c.Networks))
	for name := range c.Networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CompilerVersions returns the configured compiler versions in order.
func (c *Config) CompilerVersions() []string {
	versions := make([]string, 0, len(c.Solidity.Compilers))
	for _, cc := range c.Solidity.Compilers {
		versions = append(versions, cc.Version)
	}
	return versions
}
