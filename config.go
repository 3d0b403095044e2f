package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is built once at startup and never changed afterwards.
type Config struct {
	Addr       string `toml:"addr" yaml:"addr"`
	Root       string `toml:"root" yaml:"root"`
	Index      string `toml:"index" yaml:"index"`
	NotFound   string `toml:"not_found" yaml:"not_found"`
	Sandbox    bool   `toml:"sandbox" yaml:"sandbox"`
	Sequential bool   `toml:"sequential" yaml:"sequential"`
}

func DefaultConfig() *Config {
	return &Config{
		Addr:     "127.0.0.1:7878",
		Root:     ".",
		Index:    "index.html",
		NotFound: "404.html",
		Sandbox:  true,
	}
}

// LoadConfigFile overlays the file at path onto cfg. Keys absent from the
// file keep their current values.
func LoadConfigFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
	return nil
}

const envPrefix = "STATICD_"

// Used to look up environment variables. Can be mocked.
var lookupEnv = os.LookupEnv

// LoadDotEnv loads a .env file into the process environment. A missing
// file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// ApplyEnv overlays STATICD_* environment variables onto cfg.
func ApplyEnv(cfg *Config) error {
	strs := map[string]*string{
		"ADDR":      &cfg.Addr,
		"ROOT":      &cfg.Root,
		"INDEX":     &cfg.Index,
		"NOT_FOUND": &cfg.NotFound,
	}
	for k, p := range strs {
		if v, ok := lookupEnv(envPrefix + k); ok {
			*p = v
		}
	}
	bools := map[string]*bool{
		"SANDBOX":    &cfg.Sandbox,
		"SEQUENTIAL": &cfg.Sequential,
	}
	for k, p := range bools {
		v, ok := lookupEnv(envPrefix + k)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, k, err)
		}
		*p = b
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}
	if c.Index == "" {
		return errors.New("index must not be empty")
	}
	if c.NotFound == "" {
		return errors.New("not_found must not be empty")
	}
	fi, err := os.Stat(c.Root)
	if err != nil {
		return fmt.Errorf("document root: %w", err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("document root %s is not a directory", c.Root)
	}
	return nil
}
