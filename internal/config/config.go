package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/treykane/cli-timeline/internal/logging"
)

const (
	configDirName  = ".cli-timeline"
	configFileName = "config.json"
)

// Storage backends accepted by Config.StorageBackend.
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
	StorageNone   = "none"
)

// Defaults applied by Default and by normalize when a field is unset.
const (
	DefaultFPS            = 24
	DefaultDurationFrames = 24 * 60 * 5
	DefaultZoomLevel      = 2.0
	DefaultCellWidthPx    = 8
	DefaultCellHeightPx   = 16
)

var ErrNotConfigured = errors.New("cli-timeline is not configured")

var log = logging.New("config")

// Config stores user-defined timeline editor settings.
type Config struct {
	ProjectFile    string            `json:"project_file,omitempty"`
	FPS            int               `json:"fps,omitempty"`
	DurationFrames int               `json:"duration_frames,omitempty"`
	ZoomLevel      float64           `json:"zoom_level,omitempty"`
	SnapToGrid     bool              `json:"snap_to_grid,omitempty"`
	StorageBackend string            `json:"storage_backend,omitempty"`
	StorageDir     string            `json:"storage_dir,omitempty"`
	CellWidthPx    int               `json:"cell_width_px,omitempty"`
	CellHeightPx   int               `json:"cell_height_px,omitempty"`
	ColorProfile   string            `json:"color_profile,omitempty"`
	Keybindings    map[string]string `json:"keybindings,omitempty"`
	KeymapFile     string            `json:"keymap_file,omitempty"`
}

// Default returns the configuration used when no config file exists.
func Default() Config {
	cfg := Config{}
	if err := cfg.normalize(); err != nil {
		log.Warn("normalize default config", "error", err)
	}
	return cfg
}

// ConfigDir returns the directory holding config, keymap and storage files.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, configDirName), nil
}

// ConfigPath returns the configuration file path.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Exists reports whether the config file exists.
func Exists() (bool, error) {
	path, err := ConfigPath()
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat config path: %w", err)
}

// Load reads and validates the saved configuration.
func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, ErrNotConfigured
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads the config file, falling back to Default when the file
// is missing. Other load failures are logged and also fall back.
func LoadOrDefault() Config {
	cfg, err := Load()
	if err == nil {
		return cfg
	}
	if !errors.Is(err, ErrNotConfigured) {
		log.Warn("load config, using defaults", "error", err)
	}
	return Default()
}

// Save writes configuration to disk.
func Save(cfg Config) error {
	if err := cfg.normalize(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	log.Info("saved config", "path", path)
	return nil
}

func (c *Config) normalize() error {
	if c.FPS <= 0 {
		c.FPS = DefaultFPS
	}
	if c.DurationFrames <= 0 {
		c.DurationFrames = DefaultDurationFrames
	}
	if c.ZoomLevel <= 0 {
		c.ZoomLevel = DefaultZoomLevel
	}
	if c.CellWidthPx <= 0 {
		c.CellWidthPx = DefaultCellWidthPx
	}
	if c.CellHeightPx <= 0 {
		c.CellHeightPx = DefaultCellHeightPx
	}

	backend := strings.ToLower(strings.TrimSpace(c.StorageBackend))
	switch backend {
	case "":
		backend = StorageFile
	case StorageFile, StorageSQLite, StorageNone:
	default:
		return fmt.Errorf("unknown storage_backend %q", c.StorageBackend)
	}
	c.StorageBackend = backend

	if strings.TrimSpace(c.StorageDir) == "" {
		dir, err := ConfigDir()
		if err != nil {
			return err
		}
		c.StorageDir = dir
	} else {
		dir, err := NormalizePath(c.StorageDir)
		if err != nil {
			return fmt.Errorf("storage_dir: %w", err)
		}
		c.StorageDir = dir
	}

	if strings.TrimSpace(c.ProjectFile) != "" {
		path, err := NormalizePath(c.ProjectFile)
		if err != nil {
			return fmt.Errorf("project_file: %w", err)
		}
		c.ProjectFile = path
	}

	if strings.TrimSpace(c.KeymapFile) == "" {
		if dir, err := ConfigDir(); err == nil {
			c.KeymapFile = filepath.Join(dir, "keymap.json")
		}
	} else {
		path, err := NormalizePath(c.KeymapFile)
		if err != nil {
			return fmt.Errorf("keymap_file: %w", err)
		}
		c.KeymapFile = path
	}
	return nil
}

// NormalizePath expands "~" and returns a clean absolute path.
func NormalizePath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is required")
	}

	expanded, err := expandHome(trimmed)
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", err
	}

	return filepath.Clean(abs), nil
}

func expandHome(path string) (string, error) {
	if path == "~" {
		return os.UserHomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
	}
	return path, nil
}
