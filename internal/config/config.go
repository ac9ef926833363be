package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/tidwall/jsonc"
)

const (
	appName        = "psytest"
	configFileName = "psytest.jsonc"
	projectDirName = ".psytest"
)

// Load reads and merges configuration in order: defaults, the user file
// (~/.config/psytest/psytest.jsonc), the project file (.psytest/psytest.jsonc
// in the working directory, or explicitPath when given), then environment
// overrides. A missing file is skipped; an explicit path that cannot be read
// is an error.
func Load(explicitPath string) (*Config, error) {
	cfg := DefaultConfig()

	if userPath := UserConfigPath(); userPath != "" {
		if m, err := loadJSONC(userPath); err == nil {
			if err := mergeIntoConfig(&cfg, m); err != nil {
				return nil, fmt.Errorf("merging user config: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	projectPath := explicitPath
	if projectPath == "" {
		projectPath = ProjectConfigPath()
	}
	m, err := loadJSONC(projectPath)
	switch {
	case err == nil:
		if err := mergeIntoConfig(&cfg, m); err != nil {
			return nil, fmt.Errorf("merging %s: %w", projectPath, err)
		}
	case explicitPath != "" || !os.IsNotExist(err):
		return nil, err
	}

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// UserConfigPath returns the per-user config file path, or "" if the user
// config directory is unknown.
func UserConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appName, configFileName)
}

// ProjectConfigPath returns the config file path for the working directory.
func ProjectConfigPath() string {
	return filepath.Join(projectDirName, configFileName)
}

func loadJSONC(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(jsonc.ToJSON(data), &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return m, nil
}

// mergeIntoConfig round-trips cfg through a map so src can be deep-merged
// over it key by key.
func mergeIntoConfig(cfg *Config, src map[string]any) error {
	cfgBytes, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	var dst map[string]any
	if err := json.Unmarshal(cfgBytes, &dst); err != nil {
		return err
	}

	if err := mergo.Merge(&dst, src, mergo.WithOverride); err != nil {
		return err
	}

	merged, err := json.Marshal(dst)
	if err != nil {
		return err
	}
	return json.Unmarshal(merged, cfg)
}

func applyEnvOverrides(cfg *Config) {
	if url := os.Getenv("PSYTEST_API_URL"); url != "" {
		cfg.Backend.URL = url
	}
	if token := os.Getenv("PSYTEST_TOKEN"); token != "" {
		cfg.Backend.Token = token
	}
	if lang := os.Getenv("PSYTEST_LANGUAGE"); lang != "" {
		cfg.Backend.Language = lang
	}
	if dir := os.Getenv("PSYTEST_STATE_DIR"); dir != "" {
		cfg.Session.StateDir = dir
	}
}
