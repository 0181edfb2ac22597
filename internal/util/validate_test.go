package util

import (
	"testing"
)

func TestValidateHost_Valid(t *testing.T) {
	valid := []string{
		"localhost",
		"cuebot1",
		"cuebot.dev.example.com",
		"cuebot1:8443",
		"10.0.0.5",
		"10.0.0.5:9000",
		"::1",
		"[::1]:8443",
		"A-b.c-D",
	}
	for _, host := range valid {
		t.Run(host, func(t *testing.T) {
			if err := ValidateHost(host); err != nil {
				t.Errorf("expected %q to be valid, got error: %v", host, err)
			}
		})
	}
}

func TestValidateHost_Invalid(t *testing.T) {
	invalid := []string{
		"",
		" cuebot",
		"cue bot",
		"cuebot_1",
		"-cuebot",
		"cuebot.",
		"cuebot:",
		"cuebot:http",
		"cuebot:70000",
		"[::1]:0",
	}
	for _, host := range invalid {
		t.Run(host, func(t *testing.T) {
			if err := ValidateHost(host); err == nil {
				t.Errorf("expected %q to be invalid", host)
			}
		})
	}
}
