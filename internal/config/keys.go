package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kalisp/OpenCue/internal/util"
)

// KeySpec describes a single configuration key.
type KeySpec struct {
	// Name is the CLI-facing key name (e.g. "default-facility").
	Name string

	// Description is a short human-readable explanation shown in help text.
	Description string

	// Get returns the current value for this key from a loaded Config.
	Get func(cfg *Config) string

	// Set validates and applies a value for this key to the given Config
	// (in memory only; the caller is responsible for calling Save).
	Set func(cfg *Config, value string) error
}

// Keys is the authoritative list of all supported configuration keys.
// To add a new option: add a field to Config and append a KeySpec here.
var Keys = []KeySpec{
	{
		Name:        "default-facility",
		Description: "Facility used when --facility is not specified",
		Get:         func(cfg *Config) string { return cfg.DefaultFacility },
		Set: func(cfg *Config, v string) error {
			cfg.DefaultFacility = normalizeFacility(v)
			return nil
		},
	},
	{
		Name:        "cuebot-hosts",
		Description: "Comma separated Cuebot hosts of the default facility",
		Get: func(cfg *Config) string {
			return strings.Join(cfg.Facilities[cfg.Facility()], ",")
		},
		Set: func(cfg *Config, v string) error {
			hosts := SplitHosts(v)
			for _, h := range hosts {
				if err := util.ValidateHost(h); err != nil {
					return err
				}
			}
			cfg.SetHosts(cfg.Facility(), hosts)
			return nil
		},
	},
	{
		Name:        "cuebot-port",
		Description: "Port used for hosts that do not specify one",
		Get: func(cfg *Config) string {
			if cfg.CuebotPort == 0 {
				return ""
			}
			return strconv.Itoa(cfg.CuebotPort)
		},
		Set: func(cfg *Config, v string) error {
			if strings.TrimSpace(v) == "" {
				cfg.CuebotPort = 0
				return nil
			}
			port, err := parsePort(strings.TrimSpace(v))
			if err != nil {
				return err
			}
			cfg.CuebotPort = port
			return nil
		},
	},
	{
		Name:        "connect-timeout",
		Description: "Time allowed to reach a single Cuebot host (e.g. 10s)",
		Get:         func(cfg *Config) string { return cfg.ConnectTimeout },
		Set: func(cfg *Config, v string) error {
			v = strings.TrimSpace(v)
			if v == "" {
				cfg.ConnectTimeout = ""
				return nil
			}
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid duration %q", v)
			}
			if d <= 0 {
				return fmt.Errorf("timeout must be positive, got %s", d)
			}
			cfg.ConnectTimeout = d.String()
			return nil
		},
	},
	{
		Name:        "max-attempts",
		Description: "Connection attempts per Cuebot host before failing over",
		Get: func(cfg *Config) string {
			if cfg.MaxAttempts == 0 {
				return ""
			}
			return strconv.Itoa(cfg.MaxAttempts)
		},
		Set: func(cfg *Config, v string) error {
			v = strings.TrimSpace(v)
			if v == "" {
				cfg.MaxAttempts = 0
				return nil
			}
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				return fmt.Errorf("max-attempts must be a positive integer, got %q", v)
			}
			cfg.MaxAttempts = n
			return nil
		},
	},
}

// Lookup returns the KeySpec for the given name, or nil if not found.
// The name is matched case-insensitively after trimming whitespace.
func Lookup(name string) *KeySpec {
	normalized := util.NormalizeKey(name)
	for i := range Keys {
		if Keys[i].Name == normalized {
			return &Keys[i]
		}
	}
	return nil
}

// KeyNames returns the names of all registered keys.
func KeyNames() []string {
	names := make([]string, len(Keys))
	for i, k := range Keys {
		names[i] = k.Name
	}
	return names
}

// KeysHelp builds a formatted block listing all available keys and their
// descriptions, suitable for inclusion in Cobra Long help text.
func KeysHelp() string {
	if len(Keys) == 0 {
		return ""
	}

	// Find the longest key name for alignment.
	maxLen := 0
	for _, k := range Keys {
		if len(k.Name) > maxLen {
			maxLen = len(k.Name)
		}
	}

	var b strings.Builder
	b.WriteString("Available keys:\n")
	for _, k := range Keys {
		fmt.Fprintf(&b, "  %-*s   %s\n", maxLen, k.Name, k.Description)
	}
	return b.String()
}
