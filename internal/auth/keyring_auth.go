package auth

import (
	"errors"

	"github.com/zalando/go-keyring"
)

type KeyringStore struct {
	serviceName string
}

func NewKeyringStore(serviceName string) *KeyringStore {
	if serviceName == "" {
		serviceName = ServiceName
	}
	return &KeyringStore{serviceName: serviceName}
}

func (k *KeyringStore) SetToken(facility string, token string) error {
	return keyring.Set(k.serviceName, NormalizeFacility(facility), token)
}

func (k *KeyringStore) GetToken(facility string) (string, error) {
	token, err := keyring.Get(k.serviceName, NormalizeFacility(facility))
	if err == nil {
		return token, nil
	}
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrTokenNotFound
	}
	return "", err
}

func (k *KeyringStore) DeleteToken(facility string) error {
	err := keyring.Delete(k.serviceName, NormalizeFacility(facility))
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrTokenNotFound
	}
	return err
}
