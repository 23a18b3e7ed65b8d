package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFileEnvName = "STOREFRONT_CONFIG_FILE"

const (
	ProviderMock = "mock"
	ProviderREST = "rest"
	ProviderSQL  = "sql"
)

type provider struct {
	Mode        string        `mapstructure:"mode"`
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxAttempts int           `mapstructure:"max_attempts"`
	SQLDB       string        `mapstructure:"sql_db"`
}

type session struct {
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type topics struct {
	CartSnapshots  string `mapstructure:"cart_snapshots"`
	WishlistEvents string `mapstructure:"wishlist_events"`
}

type brokerTLS struct {
	CA   string `mapstructure:"ca"`
	Cert string `mapstructure:"cert"`
	Key  string `mapstructure:"key"`
}

type broker struct {
	SeedBrokers        []string  `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string  `mapstructure:"schema_registry_urls"`
	Topics             topics    `mapstructure:"topics"`
	TLS                brokerTLS `mapstructure:"tls"`
}

type Config struct {
	LogLevel           string        `mapstructure:"log_level"`
	HTTPServerAddr     string        `mapstructure:"http_server_addr"`
	HTTPRequestTimeout time.Duration `mapstructure:"http_request_timeout"`
	Session            session       `mapstructure:"session"`
	Provider           provider      `mapstructure:"provider"`
	Broker             broker        `mapstructure:"broker"`
}

// Load reads the file named by the STOREFRONT_CONFIG_FILE env or the
// --config flag and exits the process on failure.
func Load() Config {
	cfg, err := LoadFile(getConfigFilepath())
	if err != nil {
		die(err)
	}
	return cfg
}

func LoadFile(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := v.UnmarshalExact(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("http_server_addr", ":8080")
	v.SetDefault("http_request_timeout", 5*time.Second)
	v.SetDefault("session.ttl", 30*time.Minute)
	v.SetDefault("session.sweep_interval", time.Minute)
	v.SetDefault("provider.mode", ProviderMock)
	v.SetDefault("provider.timeout", time.Second)
	v.SetDefault("provider.max_attempts", 3)
	v.SetDefault("broker.topics.cart_snapshots", "storefront-cart-snapshots")
	v.SetDefault("broker.topics.wishlist_events", "storefront-wishlist-events")
}

func (c Config) validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}

	switch c.Provider.Mode {
	case ProviderMock:
	case ProviderREST:
		if c.Provider.BaseURL == "" {
			return errors.New("provider.base_url is required in rest mode")
		}
		if err := c.checkProviderBudget(); err != nil {
			return err
		}
	case ProviderSQL:
		if c.Provider.SQLDB == "" {
			return errors.New("provider.sql_db is required in sql mode")
		}
	default:
		return fmt.Errorf("unknown provider.mode %q", c.Provider.Mode)
	}

	if c.Session.TTL <= 0 || c.Session.SweepInterval <= 0 {
		return errors.New("session.ttl and session.sweep_interval must be positive")
	}

	if c.BrokerEnabled() && len(c.Broker.SchemaRegistryURLs) == 0 {
		return errors.New("broker.schema_registry_urls is required with seed_brokers")
	}
	return nil
}

// checkProviderBudget requires every provider attempt to fit inside the
// HTTP request timeout, otherwise the request is cut before retries run.
func (c Config) checkProviderBudget() error {
	attempts := max(c.Provider.MaxAttempts, 1)
	budget := c.Provider.Timeout * time.Duration(attempts)
	if c.Provider.Timeout <= 0 || budget >= c.HTTPRequestTimeout {
		return fmt.Errorf(
			"provider.timeout x provider.max_attempts (%s) must be positive and below http_request_timeout (%s)",
			budget, c.HTTPRequestTimeout,
		)
	}
	return nil
}

// Level parses LogLevel as a [slog.Level] name, e.g. "debug" or "warn+2".
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(c.LogLevel))
	return l, err
}

// BrokerEnabled reports whether cart and wishlist events are published.
func (c Config) BrokerEnabled() bool {
	return len(c.Broker.SeedBrokers) != 0
}

func (c Config) TLSEnabled() bool {
	t := c.Broker.TLS
	return t.CA != "" && t.Cert != "" && t.Key != ""
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	arg := cmdLine.String("config", "/config.yaml", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config file: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	template := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q
	HTTPRequestTimeout=%s

	Session:
	TTL=%s
	SweepInterval=%s

	Provider:
	Mode=%q
	BaseURL=%q
	Timeout=%s
	MaxAttempts=%d
	SQLDB=%q

	BrokerConfig:
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	TLS=%t
	Topics:
		CartSnapshots=%q
		WishlistEvents=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(template, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.HTTPRequestTimeout,
		c.Session.TTL,
		c.Session.SweepInterval,
		c.Provider.Mode,
		c.Provider.BaseURL,
		c.Provider.Timeout,
		c.Provider.MaxAttempts,
		redactDSN(c.Provider.SQLDB),
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.TLSEnabled(),
		c.Broker.Topics.CartSnapshots,
		c.Broker.Topics.WishlistEvents,
	)
}

var dsnPasswordRe = regexp.MustCompile(`(?i)(\bpassword\s*=\s*)('(?:[^'\\]|\\.)*'|[^\s&]+)`)

// redactDSN hides the password of a "user:password@host" URL DSN and of
// the password setting in a key=value DSN or URL query.
func redactDSN(dsn string) string {
	dsn = dsnPasswordRe.ReplaceAllString(dsn, "${1}***")

	at := strings.LastIndex(dsn, "@")
	if at < 0 {
		return dsn
	}
	head := dsn[:at]
	userinfo := strings.Index(head, "://") + len("://")
	colon := strings.LastIndex(head, ":")
	if colon < userinfo {
		return dsn
	}
	return head[:colon+1] + "***" + dsn[at:]
}
