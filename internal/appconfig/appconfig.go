// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/mwiater/evaldash/internal/evaluation"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// legacyConfigPath is the path checked when DefaultConfigPath is absent.
	legacyConfigPath = "evaldash.json"
	// DefaultDataFile is loaded when nothing has been uploaded.
	DefaultDataFile = "merged_results.json"
	// defaultHost is the interface the dashboard binds to.
	defaultHost = "127.0.0.1"
	// defaultPort is the dashboard's listening port.
	defaultPort = 8501
	// defaultTitleWidth is how many title characters appear in record labels.
	defaultTitleWidth = 50
	// defaultMaxUploadMB caps the size of an uploaded results file.
	defaultMaxUploadMB = 32
)

// Config represents the top-level application configuration.
type Config struct {
	DataFile    string            `json:"dataFile,omitempty" mapstructure:"dataFile"`
	Host        string            `json:"host,omitempty" mapstructure:"host"`
	Port        int               `json:"port,omitempty" mapstructure:"port"`
	LogFile     string            `json:"logFile,omitempty" mapstructure:"logFile"`
	Debug       bool              `json:"debug" mapstructure:"debug"`
	TitleWidth  int               `json:"titleWidth,omitempty" mapstructure:"titleWidth"`
	MaxUploadMB int               `json:"maxUploadMB,omitempty" mapstructure:"maxUploadMB"`
	Kinds       map[string]string `json:"kinds,omitempty" mapstructure:"kinds"`
	ConfigPath  string            `json:"-" mapstructure:"-"`
}

// DataFilePath returns the default results file, falling back to DefaultDataFile.
func (c Config) DataFilePath() string {
	if p := strings.TrimSpace(c.DataFile); p != "" {
		return p
	}
	return DefaultDataFile
}

// Addr returns the host:port the dashboard listens on.
func (c Config) Addr() string {
	host := strings.TrimSpace(c.Host)
	if host == "" {
		host = defaultHost
	}
	port := c.Port
	if port <= 0 {
		port = defaultPort
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "evaldash.log"
}

// TitleLabelWidth returns how many title characters a record label keeps.
func (c Config) TitleLabelWidth() int {
	if c.TitleWidth <= 0 {
		return defaultTitleWidth
	}
	return c.TitleWidth
}

// MaxUploadBytes returns the upload size limit in bytes.
func (c Config) MaxUploadBytes() int64 {
	mb := c.MaxUploadMB
	if mb <= 0 {
		mb = defaultMaxUploadMB
	}
	return int64(mb) << 20
}

// Schema builds the evaluation schema from the configured kind declarations.
func (c Config) Schema() (*evaluation.Schema, error) {
	kinds := make([]string, 0, len(c.Kinds))
	for kind := range c.Kinds {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	decl := make(map[string]evaluation.Shape, len(kinds))
	for _, kind := range kinds {
		shape, err := evaluation.ParseShape(c.Kinds[kind])
		if err != nil {
			return nil, fmt.Errorf("kinds.%s: %w", kind, err)
		}
		decl[kind] = shape
	}
	return evaluation.NewSchema(decl), nil
}

// Load reads the application configuration from the specified path, with fallback to a legacy path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err == nil {
		config.ConfigPath = path
		return config, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		if path == DefaultConfigPath {
			config, legacyErr := loadFromPath(legacyConfigPath)
			if legacyErr == nil {
				config.ConfigPath = legacyConfigPath
				return config, nil
			}
			if errors.Is(legacyErr, os.ErrNotExist) {
				return Config{}, fmt.Errorf("no configuration file found (searched %q and %q)", DefaultConfigPath, legacyConfigPath)
			}
			return Config{}, fmt.Errorf("could not read config file %q: %w", legacyConfigPath, legacyErr)
		}
		return Config{}, fmt.Errorf("no configuration file found at %q", path)
	}

	return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
}

// loadFromPath is a helper function that loads the configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return Config{}, err
	}
	if _, err := config.Schema(); err != nil {
		return Config{}, err
	}
	return config, nil
}
