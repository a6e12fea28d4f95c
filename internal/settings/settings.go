package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment overrides, e.g. FLAREPIE_LOGGING_LEVEL.
const EnvPrefix = "FLAREPIE"

var defaults = map[string]any{
	"simulation.default_propellant":       "RP1",
	"simulation.default_chamber_pressure": 7_000_000.0,
	"simulation.default_combustion_temp":  3500.0,
	"simulation.default_altitude":         0.0,
	"simulation.default_total_mass":       10_000.0,
	"simulation.default_propellant_mass":  8_000.0,
	"simulation.default_mass_flow_rate":   250.0,
	"simulation.default_time_step":        0.1,
	"simulation.tick":                     "0s",
	"output.format":                       "auto",
	"output.include_timestamp":            true,
	"logging.level":                       "info",
	"greptime.database":                   "public",
	"projects.dir":                        "projects",
	"admin.addr":                          "",
}

// Settings wraps a viper instance bound to one file.
type Settings struct {
	v    *viper.Viper
	path string
}

// DefaultPath returns the settings file under the user config directory,
// falling back to the working directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "flarepie.yaml"
	}
	return filepath.Join(dir, "flarepie", "flarepie.yaml")
}

// Load reads path if it exists. A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read settings %s: %w", path, err)
		}
	}
	return &Settings{v: v, path: path}, nil
}

// Path returns the backing file.
func (s *Settings) Path() string { return s.path }

// Get returns the value for a dotted key, or nil when unset.
func (s *Settings) Get(key string) any { return s.v.Get(key) }

// String returns the value for key as a string.
func (s *Settings) String(key string) string { return s.v.GetString(key) }

// Float returns the value for key as a float64.
func (s *Settings) Float(key string) float64 { return s.v.GetFloat64(key) }

// Duration returns the value for key as a time.Duration.
func (s *Settings) Duration(key string) time.Duration { return s.v.GetDuration(key) }

// IsKnown reports whether key has a built-in default.
func IsKnown(key string) bool {
	_, ok := defaults[key]
	return ok
}

// Set stores value under key and persists the file.
func (s *Settings) Set(key string, value any) error {
	if !IsKnown(key) {
		return fmt.Errorf("unknown setting %q", key)
	}
	s.v.Set(key, value)
	return s.Save()
}

// Reset restores every key to its default and persists the file.
func (s *Settings) Reset() error {
	for k, val := range defaults {
		s.v.Set(k, val)
	}
	return s.Save()
}

// Save writes the current settings to the backing file.
func (s *Settings) Save() error {
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return s.v.WriteConfigAs(s.path)
}

// Keys returns every known key in sorted order.
func (s *Settings) Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
