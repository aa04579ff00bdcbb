package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"

	"github.com/oxygenesis/signchain/internal/crypto"
	"github.com/oxygenesis/signchain/internal/validation"
)

type Config struct {
	Server     ServerConfig     `toml:"server"`
	Log        LogConfig        `toml:"log"`
	Crypto     CryptoConfig     `toml:"crypto"`
	Validation ValidationConfig `toml:"validation"`
}

type ServerConfig struct {
	Listen                   string `toml:"listen"`
	ReadHeaderTimeoutSeconds int    `toml:"read_header_timeout_seconds"`
	ShutdownTimeoutSeconds   int    `toml:"shutdown_timeout_seconds"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type CryptoConfig struct {
	RSABits int `toml:"rsa_bits"`
}

type ValidationConfig struct {
	IDMinLength    int `toml:"id_min_length"`
	IDMaxLength    int `toml:"id_max_length"`
	LabelMaxLength int `toml:"label_max_length"`
}

// Defaults returns a Config with sane defaults.
func Defaults() *Config {
	rules := validation.DefaultRules()
	return &Config{
		Server: ServerConfig{
			Listen:                   ":8080",
			ReadHeaderTimeoutSeconds: 5,
			ShutdownTimeoutSeconds:   10,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Crypto: CryptoConfig{
			RSABits: crypto.DefaultRSABits,
		},
		Validation: ValidationConfig{
			IDMinLength:    rules.IDMinLength,
			IDMaxLength:    rules.IDMaxLength,
			LabelMaxLength: rules.LabelMaxLength,
		},
	}
}

// Load reads a TOML config file on top of the defaults.
// If path is empty, only defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parsing config: unknown key %q", undecoded[0].String())
	}

	return cfg, nil
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var err error
	if c.Server.Listen == "" {
		err = multierr.Append(err, errors.New("server.listen must not be empty"))
	}
	if c.Server.ReadHeaderTimeoutSeconds <= 0 {
		err = multierr.Append(err, errors.New("server.read_header_timeout_seconds must be positive"))
	}
	if c.Server.ShutdownTimeoutSeconds <= 0 {
		err = multierr.Append(err, errors.New("server.shutdown_timeout_seconds must be positive"))
	}
	if c.Crypto.RSABits < 2048 {
		err = multierr.Append(err, fmt.Errorf("crypto.rsa_bits must be at least 2048, got %d", c.Crypto.RSABits))
	}
	v := c.Validation
	if v.IDMinLength < 1 || v.IDMaxLength < v.IDMinLength {
		err = multierr.Append(err, fmt.Errorf("validation id length bounds [%d, %d] are inconsistent", v.IDMinLength, v.IDMaxLength))
	}
	if v.LabelMaxLength < 0 {
		err = multierr.Append(err, errors.New("validation.label_max_length must not be negative"))
	}
	return err
}

func (c *Config) Rules() validation.Rules {
	return validation.Rules{
		IDMinLength:    c.Validation.IDMinLength,
		IDMaxLength:    c.Validation.IDMaxLength,
		LabelMaxLength: c.Validation.LabelMaxLength,
	}
}

func (s ServerConfig) ReadHeaderTimeout() time.Duration {
	return time.Duration(s.ReadHeaderTimeoutSeconds) * time.Second
}

func (s ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeoutSeconds) * time.Second
}
