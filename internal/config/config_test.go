package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/multierr"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.Server.Listen != ":8080" || cfg.Crypto.RSABits != 2048 {
		t.Fatalf("defaults: %+v", cfg)
	}
	if r := cfg.Rules(); r.IDMinLength != 4 || r.IDMaxLength != 64 || r.LabelMaxLength != 256 {
		t.Fatalf("rules: %+v", r)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if cfg.Server.ReadHeaderTimeout() != 5*time.Second || cfg.Server.ShutdownTimeout() != 10*time.Second {
		t.Fatalf("timeouts: %v %v", cfg.Server.ReadHeaderTimeout(), cfg.Server.ShutdownTimeout())
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("level=%q", cfg.Log.Level)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
listen = "127.0.0.1:9000"

[log]
level = "debug"
format = "json"

[crypto]
rsa_bits = 3072

[validation]
id_max_length = 16
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Listen != "127.0.0.1:9000" || cfg.Log.Format != "json" || cfg.Crypto.RSABits != 3072 {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.Validation.IDMaxLength != 16 || cfg.Validation.IDMinLength != 4 {
		t.Fatalf("validation=%+v", cfg.Validation)
	}
	if cfg.Server.ReadHeaderTimeoutSeconds != 5 {
		t.Fatalf("untouched default lost: %d", cfg.Server.ReadHeaderTimeoutSeconds)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("want read error")
	}
	if _, err := Load(writeConfig(t, "[server\nlisten=")); err == nil || !strings.Contains(err.Error(), "parsing config") {
		t.Fatalf("want parse error, got %v", err)
	}
	if _, err := Load(writeConfig(t, "[server]\nlisten_addr = \":1\"\n")); err == nil || !strings.Contains(err.Error(), "listen_addr") {
		t.Fatalf("want unknown key error, got %v", err)
	}
}

func TestValidate_ReportsEverything(t *testing.T) {
	cfg := Defaults()
	cfg.Server.Listen = ""
	cfg.Server.ReadHeaderTimeoutSeconds = 0
	cfg.Crypto.RSABits = 512
	cfg.Validation.IDMinLength = 10
	cfg.Validation.IDMaxLength = 5
	err := cfg.Validate()
	if got := len(multierr.Errors(err)); got != 4 {
		t.Fatalf("errors=%d: %v", got, err)
	}
}
