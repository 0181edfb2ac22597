package config

import (
	"strings"
	"testing"

	"github.com/kalisp/OpenCue/internal/config"
)

func TestGet_DefaultFacility_NotSet(t *testing.T) {
	setupTestConfig(t)

	stdout, stderr := execConfig(t, "get", "--key", "default-facility")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, "not set") {
		t.Errorf("expected 'not set', got: %s", stdout)
	}
}

func TestGet_DefaultFacility_Set(t *testing.T) {
	path := setupTestConfig(t)

	cfg := &config.Config{DefaultFacility: "dev"}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	stdout, stderr := execConfig(t, "get", "--key", "default-facility")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if strings.TrimSpace(stdout) != "dev" {
		t.Errorf("expected 'dev', got: %s", stdout)
	}
}

func TestGet_ListsAll(t *testing.T) {
	path := setupTestConfig(t)

	cfg := &config.Config{
		Facilities: map[string][]string{"local": {"localhost"}, "dev": {"cuebot1"}},
		CuebotPort: 9000,
	}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	stdout, _ := execConfig(t, "get")

	for _, want := range []string{
		"default-facility: (not set)",
		"cuebot-hosts: localhost",
		"cuebot-port: 9000",
		"facility dev: cuebot1",
		"facility local: localhost",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in output, got:\n%s", want, stdout)
		}
	}
}

func TestGet_UnknownKey(t *testing.T) {
	setupTestConfig(t)

	_, stderr := execConfig(t, "get", "--key", "bogus-key")

	if !strings.Contains(stderr, "unknown configuration key") {
		t.Errorf("expected 'unknown configuration key' error, got: %s", stderr)
	}
}
