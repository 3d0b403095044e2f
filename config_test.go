package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadConfigFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"toml", "staticd.toml", "addr = \"0.0.0.0:9000\"\nnot_found = \"missing.html\"\nsandbox = false\n"},
		{"yaml", "staticd.yaml", "addr: 0.0.0.0:9000\nnot_found: missing.html\nsandbox: false\n"},
		{"yml", "staticd.yml", "addr: 0.0.0.0:9000\nnot_found: missing.html\nsandbox: false\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			if err := LoadConfigFile(cfg, writeConfig(t, tt.file, tt.content)); err != nil {
				t.Fatalf("error: %v", err)
			}
			ExpectEqual(t, "0.0.0.0:9000", cfg.Addr)
			ExpectEqual(t, "missing.html", cfg.NotFound)
			// untouched keys keep defaults
			ExpectEqual(t, "index.html", cfg.Index)
			ExpectEqual(t, ".", cfg.Root)
			if cfg.Sandbox {
				t.Error("sandbox should be disabled")
			}
		})
	}
}

func TestLoadConfigFileErrors(t *testing.T) {
	cfg := DefaultConfig()
	if err := LoadConfigFile(cfg, writeConfig(t, "staticd.json", "{}")); err == nil {
		t.Error("expected error for .json config")
	}
	if err := LoadConfigFile(cfg, writeConfig(t, "bad.toml", "addr = ")); err == nil {
		t.Error("expected error for malformed toml")
	}
	if err := LoadConfigFile(cfg, filepath.Join(t.TempDir(), "none.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func mockEnv(t *testing.T, env map[string]string) {
	t.Helper()
	lookupEnv = func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	t.Cleanup(func() { lookupEnv = os.LookupEnv })
}

func TestApplyEnv(t *testing.T) {
	mockEnv(t, map[string]string{
		"STATICD_ADDR":       ":8080",
		"STATICD_ROOT":       "/srv/www",
		"STATICD_SEQUENTIAL": "true",
		"STATICD_SANDBOX":    "0",
	})
	cfg := DefaultConfig()
	if err := ApplyEnv(cfg); err != nil {
		t.Fatalf("error: %v", err)
	}
	ExpectEqual(t, ":8080", cfg.Addr)
	ExpectEqual(t, "/srv/www", cfg.Root)
	ExpectEqual(t, "404.html", cfg.NotFound)
	if !cfg.Sequential || cfg.Sandbox {
		t.Errorf("bools not applied: %+v", cfg)
	}
}

func TestApplyEnvBadBool(t *testing.T) {
	mockEnv(t, map[string]string{"STATICD_SANDBOX": "maybe"})
	if err := ApplyEnv(DefaultConfig()); err == nil {
		t.Error("expected error for malformed boolean")
	}
}

func TestLoadDotEnv(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Errorf("missing .env should be ignored: %v", err)
	}

	t.Setenv("STATICD_INDEX", "")
	os.Unsetenv("STATICD_INDEX")
	p := writeConfig(t, ".env", "STATICD_INDEX=home.html\n")
	if err := LoadDotEnv(p); err != nil {
		t.Fatalf("error: %v", err)
	}
	cfg := DefaultConfig()
	if err := ApplyEnv(cfg); err != nil {
		t.Fatal(err)
	}
	ExpectEqual(t, "home.html", cfg.Index)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Root = t.TempDir()
	if err := cfg.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	bad := *cfg
	bad.Addr = ""
	if err := bad.Validate(); err == nil {
		t.Error("expected error for empty addr")
	}

	bad = *cfg
	bad.Root = writeConfig(t, "file.txt", "x")
	if err := bad.Validate(); err == nil {
		t.Error("expected error for non-directory root")
	}

	bad = *cfg
	bad.Root = filepath.Join(cfg.Root, "nope")
	if err := bad.Validate(); err == nil {
		t.Error("expected error for missing root")
	}
}
