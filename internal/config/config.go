// Package config handles persistent user configuration for cueadmin and the
// Cuebot client.
//
// Configuration is stored as JSON at ~/.config/cuego/config.json (or the
// platform-equivalent path returned by os.UserConfigDir). Environment
// variables override the file; see ApplyEnv.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kalisp/OpenCue/internal/util"
)

const (
	appDir   = "cuego"
	fileName = "config.json"
)

// Defaults applied by Resolved when a field is unset.
const (
	DefaultFacility       = "local"
	DefaultCuebotPort     = 8443
	DefaultConnectTimeout = 10 * time.Second
	DefaultMaxAttempts    = 3
)

// Environment variables read by ApplyEnv.
const (
	EnvHosts    = "CUEBOT_HOSTS"
	EnvFacility = "CUEBOT_FACILITY"
	EnvPort     = "CUEBOT_PORT"
)

// pathOverride, when non-empty, replaces the default config file path.
// Intended for testing. Use SetPath / ResetPath to manage.
var pathOverride string

// SetPath overrides the config file path. Intended for testing.
func SetPath(p string) { pathOverride = p }

// ResetPath clears the path override, reverting to the default. Intended for testing.
func ResetPath() { pathOverride = "" }

// Config holds user preferences that persist across invocations.
type Config struct {
	// Facilities maps a facility name to the Cuebot hosts serving it.
	Facilities      map[string][]string `json:"facilities,omitempty"`
	DefaultFacility string              `json:"default_facility,omitempty"`
	CuebotPort      int                 `json:"cuebot_port,omitempty"`
	// ConnectTimeout is a time.Duration string such as "10s".
	ConnectTimeout string `json:"connect_timeout,omitempty"`
	MaxAttempts    int    `json:"max_attempts,omitempty"`
}

// Path returns the absolute path to the config file.
// If SetPath has been called, that value is returned instead.
func Path() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: unable to determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, fileName), nil
}

// Load reads the config file from disk and returns the parsed Config.
// If the file does not exist, a zero-value Config is returned (not an error).
func Load() (*Config, error) {
	return loadFrom("")
}

func loadFrom(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	return &cfg, nil
}

// Save writes the config to disk, creating the parent directory if needed.
func (c *Config) Save() error {
	return c.saveTo("")
}

func (c *Config) saveTo(path string) error {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: failed to create directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("config: failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: failed to write %s: %w", path, err)
	}

	return nil
}

// LoadFrom reads the config from the given path. Intended for testing.
func LoadFrom(path string) (*Config, error) {
	return loadFrom(path)
}

// SaveTo writes the config to the given path. Intended for testing.
func (c *Config) SaveTo(path string) error {
	return c.saveTo(path)
}

// Facility returns the configured default facility, or DefaultFacility.
func (c *Config) Facility() string {
	if f := normalizeFacility(c.DefaultFacility); f != "" {
		return f
	}
	return DefaultFacility
}

// Port returns the configured Cuebot port, or DefaultCuebotPort.
func (c *Config) Port() int {
	if c.CuebotPort > 0 {
		return c.CuebotPort
	}
	return DefaultCuebotPort
}

// Timeout returns the parsed connect timeout, or DefaultConnectTimeout when
// unset or invalid.
func (c *Config) Timeout() time.Duration {
	if c.ConnectTimeout == "" {
		return DefaultConnectTimeout
	}
	d, err := time.ParseDuration(c.ConnectTimeout)
	if err != nil || d <= 0 {
		return DefaultConnectTimeout
	}
	return d
}

// Attempts returns the configured attempts per host, or DefaultMaxAttempts.
func (c *Config) Attempts() int {
	if c.MaxAttempts > 0 {
		return c.MaxAttempts
	}
	return DefaultMaxAttempts
}

// HostsFor returns the Cuebot hosts for facility. An empty facility selects
// the default. The local facility falls back to localhost when nothing is
// configured; any other unconfigured facility is an error.
func (c *Config) HostsFor(facility string) ([]string, error) {
	facility = normalizeFacility(facility)
	if facility == "" {
		facility = c.Facility()
	}

	hosts := c.Facilities[facility]
	if len(hosts) > 0 {
		out := make([]string, len(hosts))
		copy(out, hosts)
		return out, nil
	}
	if facility == DefaultFacility {
		return []string{"localhost"}, nil
	}
	return nil, fmt.Errorf("config: unknown facility %q (configured: %s)", facility, strings.Join(c.FacilityNames(), ", "))
}

// SetHosts replaces the hosts for facility.
func (c *Config) SetHosts(facility string, hosts []string) {
	facility = normalizeFacility(facility)
	if facility == "" {
		facility = c.Facility()
	}
	if c.Facilities == nil {
		c.Facilities = make(map[string][]string)
	}
	if len(hosts) == 0 {
		delete(c.Facilities, facility)
		return
	}
	c.Facilities[facility] = hosts
}

// FacilityNames returns the configured facility names in sorted order.
func (c *Config) FacilityNames() []string {
	names := make([]string, 0, len(c.Facilities))
	for name := range c.Facilities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyEnv overlays environment variables onto the config in memory.
// CUEBOT_FACILITY selects the default facility and CUEBOT_PORT sets the
// port. CUEBOT_HOSTS replaces the hosts of facility, or of the default
// facility (after CUEBOT_FACILITY) when facility is empty.
func (c *Config) ApplyEnv(getenv func(string) string, facility string) error {
	if getenv == nil {
		getenv = os.Getenv
	}

	if f := normalizeFacility(getenv(EnvFacility)); f != "" {
		c.DefaultFacility = f
	}
	if raw := getenv(EnvHosts); strings.TrimSpace(raw) != "" {
		target := normalizeFacility(facility)
		if target == "" {
			target = c.Facility()
		}
		c.SetHosts(target, SplitHosts(raw))
	}
	if raw := strings.TrimSpace(getenv(EnvPort)); raw != "" {
		port, err := parsePort(raw)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvPort, err)
		}
		c.CuebotPort = port
	}
	return nil
}

// SplitHosts splits a comma or whitespace separated host list, dropping
// empty entries.
func SplitHosts(raw string) []string {
	return util.SplitList(raw)
}

func parsePort(raw string) (int, error) {
	port, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid port %q", raw)
	}
	if port <= 0 || port > 65535 {
		return 0, fmt.Errorf("port %d out of range", port)
	}
	return port, nil
}

func normalizeFacility(f string) string {
	return util.NormalizeKey(f)
}
