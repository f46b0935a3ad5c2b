// Package config assembles the service configuration from flag defaults,
// an optional JSON or YAML config file, explicitly passed command-line
// flags and finally environment variables, in increasing precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Options holds the configuration values for the application.
type Options struct {
	// ServerAddress is the HTTP listen address (ip:port).
	ServerAddress string `mapstructure:"server_address" envconfig:"SERVER_ADDRESS"`

	// GRPCAddress is the gRPC listen address. Empty disables gRPC.
	GRPCAddress string `mapstructure:"grpc_address" envconfig:"GRPC_ADDRESS"`

	// DatabaseDSN selects PostgreSQL for link records. Empty keeps them in memory.
	DatabaseDSN string `mapstructure:"database_dsn" envconfig:"DATABASE_DSN"`

	// RedisAddr selects Redis for the guard, queue and preview cache.
	RedisAddr     string `mapstructure:"redis_addr" envconfig:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"redis_password" envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"redis_db" envconfig:"REDIS_DB"`

	// BadgerPath selects an embedded badger store when Redis is not configured.
	BadgerPath string `mapstructure:"badger_path" envconfig:"BADGER_PATH"`

	LogLevel string `mapstructure:"log_level" envconfig:"LOG_LEVEL"`

	// EnablePprof mounts the pprof handlers.
	EnablePprof bool `mapstructure:"enable_pprof" envconfig:"ENABLE_PPROF"`

	// EnableHTTPS serves TLS with autocert certificates.
	EnableHTTPS bool `mapstructure:"enable_https" envconfig:"ENABLE_HTTPS"`

	// TrustedSubnet is the CIDR allowed to read internal stats.
	TrustedSubnet string `mapstructure:"trusted_subnet" envconfig:"TRUSTED_SUBNET"`

	JWTSecret string `mapstructure:"jwt_secret" envconfig:"JWT_SECRET"`

	// YouTubeAPIKey switches video lookups from oEmbed to the Data API.
	YouTubeAPIKey string `mapstructure:"youtube_api_key" envconfig:"YOUTUBE_API_KEY"`

	WorkerInterval    time.Duration `mapstructure:"worker_interval" envconfig:"WORKER_INTERVAL"`
	WorkerConcurrency int           `mapstructure:"worker_concurrency" envconfig:"WORKER_CONCURRENCY"`
	ClaimLease        time.Duration `mapstructure:"claim_lease" envconfig:"CLAIM_LEASE"`
	GuardTTL          time.Duration `mapstructure:"guard_ttl" envconfig:"GUARD_TTL"`
	PreviewCacheTTL   time.Duration `mapstructure:"preview_cache_ttl" envconfig:"PREVIEW_CACHE_TTL"`
	FetchTimeout      time.Duration `mapstructure:"fetch_timeout" envconfig:"FETCH_TIMEOUT"`
	FetchUserAgent    string        `mapstructure:"fetch_user_agent" envconfig:"FETCH_USER_AGENT"`
	RespectRobots     bool          `mapstructure:"respect_robots" envconfig:"RESPECT_ROBOTS"`

	// Config is the path of the optional config file.
	Config string `mapstructure:"-" envconfig:"CONFIG"`
}

// Default returns the built-in configuration.
func Default() *Options {
	return &Options{
		ServerAddress:     "localhost:8080",
		LogLevel:          "info",
		WorkerInterval:    time.Second,
		WorkerConcurrency: 1,
		ClaimLease:        time.Minute,
		GuardTTL:          10 * time.Minute,
		PreviewCacheTTL:   120 * 24 * time.Hour,
		FetchTimeout:      5 * time.Second,
		FetchUserAgent:    "bearlink-preview/1.0 (+https://bearlink.app)",
		RespectRobots:     true,
	}
}

// Parse reads the process arguments and environment.
func Parse() (*Options, error) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs builds Options from args and the environment.
func ParseArgs(args []string) (*Options, error) {
	opts := Default()

	flagSet := flag.NewFlagSet("bearlink", flag.ContinueOnError)
	flags := *opts
	flagSet.StringVar(&flags.ServerAddress, "a", opts.ServerAddress, "run HTTP server on ip:port")
	flagSet.StringVar(&flags.GRPCAddress, "g", opts.GRPCAddress, "run gRPC server on ip:port")
	flagSet.StringVar(&flags.DatabaseDSN, "d", opts.DatabaseDSN, "postgres dsn")
	flagSet.StringVar(&flags.RedisAddr, "r", opts.RedisAddr, "redis address")
	flagSet.StringVar(&flags.BadgerPath, "k", opts.BadgerPath, "badger directory")
	flagSet.StringVar(&flags.LogLevel, "l", opts.LogLevel, "log level")
	flagSet.BoolVar(&flags.EnablePprof, "p", opts.EnablePprof, "enable pprof")
	flagSet.BoolVar(&flags.EnableHTTPS, "s", opts.EnableHTTPS, "enable https")
	flagSet.StringVar(&flags.TrustedSubnet, "t", opts.TrustedSubnet, "trusted subnet (CIDR)")
	flagSet.DurationVar(&flags.WorkerInterval, "w", opts.WorkerInterval, "resolution worker idle interval")
	flagSet.StringVar(&flags.Config, "c", opts.Config, "path to config file")

	if err := flagSet.Parse(args); err != nil {
		return nil, err
	}

	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	configPath := flags.Config
	if env := os.Getenv("CONFIG"); env != "" {
		configPath = env
	}
	if configPath != "" {
		if err := loadFile(configPath, opts); err != nil {
			return nil, err
		}
		opts.Config = configPath
	}

	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "a":
			opts.ServerAddress = flags.ServerAddress
		case "g":
			opts.GRPCAddress = flags.GRPCAddress
		case "d":
			opts.DatabaseDSN = flags.DatabaseDSN
		case "r":
			opts.RedisAddr = flags.RedisAddr
		case "k":
			opts.BadgerPath = flags.BadgerPath
		case "l":
			opts.LogLevel = flags.LogLevel
		case "p":
			opts.EnablePprof = flags.EnablePprof
		case "s":
			opts.EnableHTTPS = flags.EnableHTTPS
		case "t":
			opts.TrustedSubnet = flags.TrustedSubnet
		case "w":
			opts.WorkerInterval = flags.WorkerInterval
		}
	})

	if err := envconfig.Process("", opts); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

// loadDotEnv loads ./.env if present. Variables already set win.
func loadDotEnv() error {
	err := godotenv.Load()
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load .env: %w", err)
}

func loadFile(path string, opts *Options) error {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := v.Unmarshal(opts); err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}
	return nil
}

// Validate rejects settings the service cannot run with.
func (o *Options) Validate() error {
	if strings.TrimSpace(o.ServerAddress) == "" {
		return errors.New("server address cannot be empty")
	}
	if _, err := zap.ParseAtomicLevel(o.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", o.LogLevel, err)
	}
	if o.TrustedSubnet != "" {
		if _, _, err := net.ParseCIDR(o.TrustedSubnet); err != nil {
			return fmt.Errorf("invalid trusted subnet %q: %w", o.TrustedSubnet, err)
		}
	}
	if o.WorkerConcurrency <= 0 {
		return errors.New("worker concurrency must be positive")
	}

	positive := map[string]time.Duration{
		"worker interval":   o.WorkerInterval,
		"claim lease":       o.ClaimLease,
		"guard ttl":         o.GuardTTL,
		"preview cache ttl": o.PreviewCacheTTL,
		"fetch timeout":     o.FetchTimeout,
	}
	for name, d := range positive {
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}
