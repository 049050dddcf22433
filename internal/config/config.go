package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Telemetry TelemetryConfig
	Scan      ScanConfig
	Analysis  AnalysisConfig
	Display   DisplayConfig
	Metrics   MetricsConfig
}

type TelemetryConfig struct {
	ProcessCount      int `toml:"process_count"`
	ProcessIntervalMS int `toml:"process_interval_ms"`
	NetworkIntervalMS int `toml:"network_interval_ms"`
	NetworkWindow     int `toml:"network_window"`
}

type ScanConfig struct {
	TickMS     int `toml:"tick_ms"`
	TotalSteps int `toml:"total_steps"`
}

type AnalysisConfig struct {
	Model       string  `toml:"model"`
	Temperature float64 `toml:"temperature"`
	APIKeyEnv   string  `toml:"api_key_env"`
}

type DisplayConfig struct {
	StartTab string `toml:"start_tab"`
}

type MetricsConfig struct {
	Addr string `toml:"addr"`
}

// TabNames lists the accepted values of display.start_tab in tab order.
var TabNames = []string{"dashboard", "scanner", "network", "permissions", "processes", "about"}

type LoadResult struct {
	Config   Config
	Warnings []string
}

func DefaultConfig() Config {
	return Config{
		Telemetry: TelemetryConfig{
			ProcessCount:      25,
			ProcessIntervalMS: 2000,
			NetworkIntervalMS: 1000,
			NetworkWindow:     20,
		},
		Scan: ScanConfig{
			TickMS:     300,
			TotalSteps: 20,
		},
		Analysis: AnalysisConfig{
			Model:       "gemini-2.5-flash",
			Temperature: 0.2,
		},
		Display: DisplayConfig{
			StartTab: "dashboard",
		},
	}
}

func (c TelemetryConfig) ProcessInterval() time.Duration {
	return time.Duration(c.ProcessIntervalMS) * time.Millisecond
}

func (c TelemetryConfig) NetworkInterval() time.Duration {
	return time.Duration(c.NetworkIntervalMS) * time.Millisecond
}

func (c ScanConfig) TickInterval() time.Duration {
	return time.Duration(c.TickMS) * time.Millisecond
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "sentinel-shield", "config.toml")
}

func Load() (*LoadResult, error) {
	return LoadFrom(defaultConfigPath())
}

func LoadFrom(path string) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &LoadResult{Config: DefaultConfig()}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	result, err := LoadFromString(string(data))
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return result, nil
}

func LoadFromString(data string) (*LoadResult, error) {
	result := &LoadResult{Config: DefaultConfig()}

	if data == "" {
		return result, nil
	}

	var raw map[string]any
	if _, err := toml.Decode(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	knownTopLevel := map[string]bool{
		"telemetry": true,
		"scan":      true,
		"analysis":  true,
		"display":   true,
		"metrics":   true,
	}
	for key := range raw {
		if !knownTopLevel[key] {
			result.Warnings = append(result.Warnings, fmt.Sprintf("unknown config key: %q", key))
		}
	}

	var tf tomlFile
	md, err := toml.Decode(data, &tf)
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	for _, key := range md.Undecoded() {
		if len(key) > 1 && knownTopLevel[key[0]] {
			result.Warnings = append(result.Warnings, fmt.Sprintf("unknown config key: %q", key.String()))
		}
	}

	mergeFromRaw(&result.Config, &tf, raw)

	if err := validate(&result.Config); err != nil {
		return nil, err
	}

	return result, nil
}

type tomlFile struct {
	Telemetry *TelemetryConfig `toml:"telemetry"`
	Scan      *ScanConfig      `toml:"scan"`
	Analysis  *AnalysisConfig  `toml:"analysis"`
	Display   *DisplayConfig   `toml:"display"`
	Metrics   *MetricsConfig   `toml:"metrics"`
}

func mergeFromRaw(cfg *Config, tf *tomlFile, raw map[string]any) {
	if tf.Telemetry != nil {
		if section, ok := rawSection(raw, "telemetry"); ok {
			if _, exists := section["process_count"]; exists {
				cfg.Telemetry.ProcessCount = tf.Telemetry.ProcessCount
			}
			if _, exists := section["process_interval_ms"]; exists {
				cfg.Telemetry.ProcessIntervalMS = tf.Telemetry.ProcessIntervalMS
			}
			if _, exists := section["network_interval_ms"]; exists {
				cfg.Telemetry.NetworkIntervalMS = tf.Telemetry.NetworkIntervalMS
			}
			if _, exists := section["network_window"]; exists {
				cfg.Telemetry.NetworkWindow = tf.Telemetry.NetworkWindow
			}
		}
	}
	if tf.Scan != nil {
		if section, ok := rawSection(raw, "scan"); ok {
			if _, exists := section["tick_ms"]; exists {
				cfg.Scan.TickMS = tf.Scan.TickMS
			}
			if _, exists := section["total_steps"]; exists {
				cfg.Scan.TotalSteps = tf.Scan.TotalSteps
			}
		}
	}
	if tf.Analysis != nil {
		if section, ok := rawSection(raw, "analysis"); ok {
			if _, exists := section["model"]; exists {
				cfg.Analysis.Model = tf.Analysis.Model
			}
			if _, exists := section["temperature"]; exists {
				cfg.Analysis.Temperature = tf.Analysis.Temperature
			}
			if _, exists := section["api_key_env"]; exists {
				cfg.Analysis.APIKeyEnv = tf.Analysis.APIKeyEnv
			}
		}
	}
	if tf.Display != nil {
		if section, ok := rawSection(raw, "display"); ok {
			if _, exists := section["start_tab"]; exists {
				cfg.Display.StartTab = strings.ToLower(tf.Display.StartTab)
			}
		}
	}
	if tf.Metrics != nil {
		if section, ok := rawSection(raw, "metrics"); ok {
			if _, exists := section["addr"]; exists {
				cfg.Metrics.Addr = tf.Metrics.Addr
			}
		}
	}
}

func rawSection(raw map[string]any, key string) (map[string]any, bool) {
	v, ok := raw[key]
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}

func validate(cfg *Config) error {
	var errs []string

	if cfg.Telemetry.ProcessCount < 1 {
		errs = append(errs, fmt.Sprintf("process_count must be positive, got %d", cfg.Telemetry.ProcessCount))
	}
	if cfg.Telemetry.ProcessIntervalMS < 1 {
		errs = append(errs, fmt.Sprintf("process_interval_ms must be positive, got %d", cfg.Telemetry.ProcessIntervalMS))
	}
	if cfg.Telemetry.NetworkIntervalMS < 1 {
		errs = append(errs, fmt.Sprintf("network_interval_ms must be positive, got %d", cfg.Telemetry.NetworkIntervalMS))
	}
	if cfg.Telemetry.NetworkWindow < 1 {
		errs = append(errs, fmt.Sprintf("network_window must be positive, got %d", cfg.Telemetry.NetworkWindow))
	}

	if cfg.Scan.TickMS < 1 {
		errs = append(errs, fmt.Sprintf("scan tick_ms must be positive, got %d", cfg.Scan.TickMS))
	}
	if cfg.Scan.TotalSteps < 1 {
		errs = append(errs, fmt.Sprintf("scan total_steps must be positive, got %d", cfg.Scan.TotalSteps))
	}

	if strings.TrimSpace(cfg.Analysis.Model) == "" {
		errs = append(errs, "analysis model must not be empty")
	}
	if cfg.Analysis.Temperature < 0 || cfg.Analysis.Temperature > 2 {
		errs = append(errs, fmt.Sprintf("analysis temperature must be 0-2, got %g", cfg.Analysis.Temperature))
	}

	if !slices.Contains(TabNames, cfg.Display.StartTab) {
		errs = append(errs, fmt.Sprintf("start_tab must be one of %s, got %q", strings.Join(TabNames, ", "), cfg.Display.StartTab))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation error: %s", strings.Join(errs, "; "))
	}
	return nil
}
