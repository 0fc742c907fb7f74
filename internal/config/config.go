package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DownloadDir string `toml:"download_dir"`
	LogDir      string `toml:"log_dir"`
}

// Service contains connection settings for the clip-generation service.
type Service struct {
	BaseURL        string `toml:"base_url"`
	UserID         int    `toml:"user_id"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Submission contains job submission and polling settings.
type Submission struct {
	MaxClips               int `toml:"max_clips"`
	PollIntervalSeconds    int `toml:"poll_interval_seconds"`
	NavigationDelaySeconds int `toml:"navigation_delay_seconds"`
}

// Downloads contains clip download behavior settings.
type Downloads struct {
	StaggerMilliseconds int `toml:"stagger_ms"`
	MinFreeMB           int `toml:"min_free_mb"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for sculptor.
//
// Configuration sections by subsystem:
//   - Paths: download and log directories
//   - Service: clip service address, identity, and request timeout
//   - Submission: clip count bound and poller timing
//   - Downloads: bulk download stagger and free-space floor
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Service    Service    `toml:"service"`
	Submission Submission `toml:"submission"`
	Downloads  Downloads  `toml:"downloads"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/sculptor/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("sculptor.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the client writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DownloadDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// RequestTimeout returns the HTTP timeout for service requests.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Service.TimeoutSeconds) * time.Second
}

// PollInterval returns the fixed delay between task status polls.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Submission.PollIntervalSeconds) * time.Second
}

// NavigationDelay returns the pause between task success and gallery display.
func (c *Config) NavigationDelay() time.Duration {
	return time.Duration(c.Submission.NavigationDelaySeconds) * time.Second
}

// DownloadStagger returns the per-clip offset applied to bulk downloads.
func (c *Config) DownloadStagger() time.Duration {
	return time.Duration(c.Downloads.StaggerMilliseconds) * time.Millisecond
}

// MinFreeBytes returns the free-space floor enforced before bulk downloads.
func (c *Config) MinFreeBytes() uint64 {
	if c.Downloads.MinFreeMB <= 0 {
		return 0
	}
	return uint64(c.Downloads.MinFreeMB) * 1024 * 1024
}

// SampleConfig returns the embedded sample configuration file contents.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes the embedded sample configuration to the target path.
func CreateSample(target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(target, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// ExpandPath expands a leading ~ and returns an absolute, cleaned path.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
