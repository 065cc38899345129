package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/piwi3910/PageFit/internal/model"
)

// maxRecentProjects bounds the recent projects list.
const maxRecentProjects = 10

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PAGEFIT_"

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.pagefit/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".pagefit")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveAppConfig persists an AppConfig to the given path as JSON.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, config model.AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadAppConfig reads an AppConfig from the given path. Fields missing from
// the file keep their defaults. If the file does not exist, it returns
// DefaultAppConfig with no error.
func LoadAppConfig(path string) (model.AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultAppConfig(), nil
		}
		return model.AppConfig{}, err
	}
	config := model.DefaultAppConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return model.AppConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if config.RecentProjects == nil {
		config.RecentProjects = []string{}
	}
	return config, nil
}

// ApplyEnv overrides configuration fields from PAGEFIT_* environment variables.
// Unset variables leave the field alone; malformed values are an error.
func ApplyEnv(config model.AppConfig) (model.AppConfig, error) {
	lookup := func(name string) (string, bool) {
		v, ok := os.LookupEnv(EnvPrefix + name)
		return strings.TrimSpace(v), ok && strings.TrimSpace(v) != ""
	}

	if v, ok := lookup("OVERSIZE"); ok {
		p := model.OversizePolicy(strings.ToLower(v))
		if p != model.OversizeForce && p != model.OversizeReject {
			return config, fmt.Errorf("%sOVERSIZE: unknown policy %q", EnvPrefix, v)
		}
		config.OversizePolicy = p
	}
	if v, ok := lookup("ALGORITHM"); ok {
		a := model.Algorithm(strings.ToLower(v))
		if a != model.AlgorithmCatalog && a != model.AlgorithmGenetic {
			return config, fmt.Errorf("%sALGORITHM: unknown algorithm %q", EnvPrefix, v)
		}
		config.Algorithm = a
	}
	if v, ok := lookup("STRATEGY_SET"); ok {
		s := strings.ToLower(v)
		if s != model.StrategySetDefault && s != model.StrategySetExtended {
			return config, fmt.Errorf("%sSTRATEGY_SET: unknown set %q", EnvPrefix, v)
		}
		config.StrategySet = s
	}
	if v, ok := lookup("WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return config, fmt.Errorf("%sWORKERS: want a positive integer, got %q", EnvPrefix, v)
		}
		config.Workers = n
	}
	if v, ok := lookup("DEFAULT_WIDTH"); ok {
		w, err := strconv.ParseFloat(v, 64)
		if err != nil || !model.ValidDim(w) {
			return config, fmt.Errorf("%sDEFAULT_WIDTH: want a positive number, got %q", EnvPrefix, v)
		}
		config.DefaultImageWidth = w
	}
	if v, ok := lookup("EMBED_QR"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return config, fmt.Errorf("%sEMBED_QR: %w", EnvPrefix, err)
		}
		config.EmbedManifestQR = b
	}
	if v, ok := lookup("DRAW_PRINT_AREA"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return config, fmt.Errorf("%sDRAW_PRINT_AREA: %w", EnvPrefix, err)
		}
		config.DrawPrintArea = b
	}
	if v, ok := lookup("LISTEN_ADDR"); ok {
		config.ListenAddr = v
	}
	return config, nil
}

// AddRecentProject moves path to the front of the recent projects list.
func AddRecentProject(config model.AppConfig, path string) model.AppConfig {
	recent := []string{path}
	for _, p := range config.RecentProjects {
		if p != path && len(recent) < maxRecentProjects {
			recent = append(recent, p)
		}
	}
	config.RecentProjects = recent
	return config
}
