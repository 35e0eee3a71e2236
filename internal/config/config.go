// ABOUTME: Configuration loading and parsing for ponga-gateway
// ABOUTME: YAML file with ${VAR} expansion, then environment overrides via envdecode

package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"

	"github.com/2389/ponga-gateway/internal/auth"
)

// Defaults applied before the file and environment are read.
const (
	DefaultHTTPAddr    = "0.0.0.0:3000"
	DefaultIssuer      = "ponga"
	DefaultTokenTTL    = time.Hour
	DefaultMaxTokenTTL = 24 * time.Hour
)

// Config represents the complete ponga-gateway configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Auth    AuthConfig    `yaml:"auth"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds server address configuration
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr"`
}

// AuthConfig selects the authenticator and its key material.
type AuthConfig struct {
	Mode           auth.Mode `yaml:"mode"`
	JWTSecret      string    `yaml:"jwt_secret"`
	JWKURI         string    `yaml:"jwk_uri"`
	PrivateKeyPath string    `yaml:"private_key_path"`
	Issuer         string    `yaml:"issuer"`

	TokenTTL    time.Duration `yaml:"-"`
	MaxTokenTTL time.Duration `yaml:"-"`

	// Raw string values for YAML unmarshaling
	TokenTTLRaw    string `yaml:"token_ttl"`
	MaxTokenTTLRaw string `yaml:"max_token_ttl"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// envOverrides are the environment variables that take precedence over the file.
type envOverrides struct {
	AuthMode       string `env:"AUTH_MODE"`
	JWTSecret      string `env:"JWT_SECRET"`
	JWKURI         string `env:"JWK_URI"`
	PrivateKeyPath string `env:"PRIVATE_KEY_PATH"`
	HTTPPort       string `env:"HTTP_PORT"`
	LogLevel       string `env:"LOG_LEVEL"`
	LogFormat      string `env:"LOG_FORMAT"`
}

// Default returns a Config with every optional field filled in.
// Auth.Mode is left empty and must come from the file or AUTH_MODE.
func Default() *Config {
	return &Config{
		Server: ServerConfig{HTTPAddr: DefaultHTTPAddr},
		Auth: AuthConfig{
			Issuer:      DefaultIssuer,
			TokenTTL:    DefaultTokenTTL,
			MaxTokenTTL: DefaultMaxTokenTTL,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when path
// is empty), and environment overrides, in that order.
// Environment variables in the format ${VAR_NAME} are expanded in the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		// Expand environment variables in the raw YAML content
		expandedData := expandEnvVars(string(data))

		if err := yaml.Unmarshal([]byte(expandedData), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	if err := parseDurations(cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// applyEnv copies every set override onto cfg.
func applyEnv(cfg *Config) error {
	var env envOverrides
	if err := envdecode.Decode(&env); err != nil {
		if errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
			return nil
		}
		return err
	}

	if env.AuthMode != "" {
		cfg.Auth.Mode = auth.Mode(env.AuthMode)
	}
	if env.JWTSecret != "" {
		cfg.Auth.JWTSecret = env.JWTSecret
	}
	if env.JWKURI != "" {
		cfg.Auth.JWKURI = env.JWKURI
	}
	if env.PrivateKeyPath != "" {
		cfg.Auth.PrivateKeyPath = env.PrivateKeyPath
	}
	if env.HTTPPort != "" {
		port, err := strconv.Atoi(env.HTTPPort)
		if err != nil || port < 1 || port > 65535 {
			return fmt.Errorf("HTTP_PORT %q is not a valid port", env.HTTPPort)
		}
		cfg.Server.HTTPAddr = "0.0.0.0:" + strconv.Itoa(port)
	}
	if env.LogLevel != "" {
		cfg.Logging.Level = env.LogLevel
	}
	if env.LogFormat != "" {
		cfg.Logging.Format = env.LogFormat
	}
	return nil
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required")
	}

	if c.Auth.Mode == "" {
		return fmt.Errorf("auth.mode is required (or set AUTH_MODE)")
	}
	mode, err := auth.ParseMode(string(c.Auth.Mode))
	if err != nil {
		return fmt.Errorf("auth.mode: %w", err)
	}

	switch mode {
	case auth.ModeSymmetric:
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("auth.jwt_secret is required in symmetric mode")
		}
	case auth.ModeAsymmetric:
		if c.Auth.JWKURI == "" {
			return fmt.Errorf("auth.jwk_uri is required in asymmetric mode")
		}
		if c.Auth.PrivateKeyPath == "" {
			return fmt.Errorf("auth.private_key_path is required in asymmetric mode")
		}
	}

	if c.Auth.Issuer == "" {
		return fmt.Errorf("auth.issuer must not be empty")
	}
	if c.Auth.TokenTTL <= 0 || c.Auth.MaxTokenTTL <= 0 {
		return fmt.Errorf("auth token TTLs must be positive")
	}
	if c.Auth.TokenTTL > c.Auth.MaxTokenTTL {
		return fmt.Errorf("auth.token_ttl %s exceeds auth.max_token_ttl %s", c.Auth.TokenTTL, c.Auth.MaxTokenTTL)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format %q must be text or json", c.Logging.Format)
	}

	return nil
}

// AuthOptions converts the auth section into authenticator options.
func (c *Config) AuthOptions() auth.Options {
	return auth.Options{
		Mode:           c.Auth.Mode,
		Secret:         c.Auth.JWTSecret,
		JWKURI:         c.Auth.JWKURI,
		PrivateKeyPath: c.Auth.PrivateKeyPath,
	}
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	var err error

	if cfg.Auth.TokenTTLRaw != "" {
		cfg.Auth.TokenTTL, err = time.ParseDuration(cfg.Auth.TokenTTLRaw)
		if err != nil {
			return fmt.Errorf("parsing token_ttl %q: %w", cfg.Auth.TokenTTLRaw, err)
		}
	}

	if cfg.Auth.MaxTokenTTLRaw != "" {
		cfg.Auth.MaxTokenTTL, err = time.ParseDuration(cfg.Auth.MaxTokenTTLRaw)
		if err != nil {
			return fmt.Errorf("parsing max_token_ttl %q: %w", cfg.Auth.MaxTokenTTLRaw, err)
		}
	}

	return nil
}
