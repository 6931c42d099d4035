package config

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// KeyringService is the OS keyring service name secrets are stored under.
const KeyringService = "loghours"

// ErrSecretNotFound is returned when the keyring has no entry for a key.
var ErrSecretNotFound = errors.New("secret not found in keyring")

// keyringSecret looks up key in the OS keyring. A missing entry or an
// unavailable keyring both yield "".
func keyringSecret(key string) string {
	v, err := GetSecret(key)
	if err != nil {
		return ""
	}
	return v
}

// GetSecret retrieves a secret (e.g. "JIRA_API_TOKEN") from the OS keyring.
func GetSecret(key string) (string, error) {
	v, err := keyring.Get(KeyringService, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrSecretNotFound
		}
		return "", fmt.Errorf("failed to read %s from keyring: %w", key, err)
	}
	return v, nil
}

// SetSecret stores a secret in the OS keyring.
func SetSecret(key, value string) error {
	if value == "" {
		return errors.New("secret value cannot be empty")
	}
	if err := keyring.Set(KeyringService, key, value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", key, err)
	}
	return nil
}
