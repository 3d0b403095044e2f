package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
)

type options struct {
	configPath string
	envFile    string
	addr       string
	root       string
	sandbox    bool
	sequential bool
	noColor    bool
	probe      string
}

func registerFlags(fs *flag.FlagSet) *options {
	o := &options{}
	fs.StringVar(&o.configPath, "config", "", "config file (.toml or .yaml)")
	fs.StringVar(&o.envFile, "env-file", ".env", "dotenv file with STATICD_* overrides")
	fs.StringVar(&o.addr, "addr", "", "listen address")
	fs.StringVar(&o.root, "root", "", "document root")
	fs.BoolVar(&o.sandbox, "sandbox", true, "confine request paths to the document root")
	fs.BoolVar(&o.sequential, "sequential", false, "handle one connection at a time")
	fs.BoolVar(&o.noColor, "no-color", false, "disable colored output")
	fs.StringVar(&o.probe, "probe", "", "GET this path from a running server and exit")
	return o
}

// loadConfig layers defaults, the config file, .env and STATICD_* variables,
// then the flags explicitly set on the parsed fs.
func loadConfig(fs *flag.FlagSet, o *options) (*Config, error) {
	cfg := DefaultConfig()
	if o.configPath != "" {
		if err := LoadConfigFile(cfg, o.configPath); err != nil {
			return nil, err
		}
	}
	if err := LoadDotEnv(o.envFile); err != nil {
		return nil, fmt.Errorf("loading %s: %w", o.envFile, err)
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = o.addr
		case "root":
			cfg.Root = o.root
		case "sandbox":
			cfg.Sandbox = o.sandbox
		case "sequential":
			cfg.Sequential = o.sequential
		}
	})
	return cfg, cfg.Validate()
}

func banner(cfg *Config) {
	absRoot, err := filepath.Abs(cfg.Root)
	if err != nil {
		absRoot = cfg.Root
	}
	bold := color.New(color.Bold)
	bold.Printf("Serving %s", absRoot)
	fmt.Printf(" at ")
	color.New(color.FgCyan).Printf("http://%s\n", cfg.Addr)
	if !cfg.Sandbox {
		color.New(color.FgYellow).Println("Path sandbox disabled: requests may escape the document root")
	}
	fmt.Println("Press Ctrl+C to stop")
}

func serve(cfg *Config) {
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		log.Fatalf("E listen: %v", err)
	}
	log.Printf("I Listening on %s", ln.Addr())
	banner(cfg)

	srv := NewServer(cfg)
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		s := <-sig
		log.Printf("I %v received, shutting down", s)
		srv.Shutdown()
	}()

	if err := srv.Serve(ln); err != nil {
		log.Fatalf("E serve: %v", err)
	}
	srv.Shutdown()
}

func main() {
	opts := registerFlags(flag.CommandLine)
	flag.Parse()
	if opts.noColor {
		color.NoColor = true
	}

	cfg, err := loadConfig(flag.CommandLine, opts)
	if err != nil {
		log.Fatalf("E config: %v", err)
	}

	if opts.probe != "" {
		res, err := Probe(cfg.Addr, opts.probe)
		if err != nil {
			color.New(color.FgRed).Fprintf(os.Stderr, "probe failed: %v\n", err)
			os.Exit(1)
		}
		if !PrintProbe(os.Stdout, res) {
			os.Exit(1)
		}
		return
	}

	serve(cfg)
}
