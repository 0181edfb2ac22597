// Package auth stores the bearer tokens presented to Cuebot, one per
// facility.
package auth

import (
	"errors"

	"github.com/kalisp/OpenCue/internal/util"
)

const ServiceName = "cuego"

var ErrTokenNotFound = errors.New("auth token not found")

type Store interface {
	SetToken(facility string, token string) error
	GetToken(facility string) (string, error)
	DeleteToken(facility string) error
}

// DefaultStore returns the standard auth store backed by the OS keychain.
func DefaultStore() Store {
	return NewKeyringStore(ServiceName)
}

// NormalizeFacility normalizes a facility name for consistent key lookup.
func NormalizeFacility(facility string) string {
	return util.NormalizeKey(facility)
}

// TokenOrEmpty returns the stored token for facility, or "" when none is
// stored. Other store failures are returned.
func TokenOrEmpty(store Store, facility string) (string, error) {
	if store == nil {
		return "", nil
	}
	token, err := store.GetToken(facility)
	if errors.Is(err, ErrTokenNotFound) {
		return "", nil
	}
	return token, err
}
