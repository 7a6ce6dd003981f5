// Package config loads the run parameters a search needs: thread count,
// process count, hypercube sync interval, RAM hint, and coordinator
// design, with a YAML overlay onto sensible runtime-derived defaults.
package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config holds the tunables for a single solve or sweep run.
type Config struct {
	Threads           int    `yaml:"threads"`
	Processes         int    `yaml:"processes"`
	SyncInterval      int    `yaml:"sync_interval"`
	RAMHintBytes      uint64 `yaml:"ram_hint_bytes"`
	PrefixDepth       int    `yaml:"prefix_depth"`
	CoordinatorDesign string `yaml:"coordinator_design"`
}

// AvailableRAM gives a rough usable-RAM estimate: Go has no direct
// sysconf(_SC_PHYS_PAGES) equivalent, so this reports a fraction of what
// the runtime reports as obtained from the system rather than true free
// memory.
func AvailableRAM() uint64 {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	if mem.Sys == 0 {
		return 4 * 1024 * 1024 * 1024
	}
	return uint64(float64(mem.Sys) * 0.75)
}

// Default returns a Config with sensible defaults for the local machine,
// derived from runtime.NumCPU and a RAM estimate rather than hardcoding
// platform-specific values.
func Default() Config {
	return Config{
		Threads:           runtime.NumCPU(),
		Processes:         1,
		SyncInterval:      64,
		RAMHintBytes:      AvailableRAM(),
		PrefixDepth:       0, // 0 means "let search.ComputePrefixDepth decide"
		CoordinatorDesign: "master-worker",
	}
}

// Load reads a YAML config file at path, overlaying it onto Default().
// Fields absent from the file keep their default value.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse yaml config: %w", err)
	}
	return cfg, nil
}

// Validate checks the fields a caller can't safely clamp on its own.
func (c Config) Validate() error {
	if c.Threads < 1 {
		return fmt.Errorf("threads must be >= 1, got %d", c.Threads)
	}
	if c.Processes < 1 {
		return fmt.Errorf("processes must be >= 1, got %d", c.Processes)
	}
	if c.SyncInterval < 1 {
		return fmt.Errorf("sync_interval must be >= 1, got %d", c.SyncInterval)
	}
	switch c.CoordinatorDesign {
	case "master-worker", "symmetric":
	default:
		return fmt.Errorf("coordinator_design must be %q or %q, got %q", "master-worker", "symmetric", c.CoordinatorDesign)
	}
	return nil
}
