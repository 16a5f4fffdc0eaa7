package auth

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	service = "notes-cli"
)

// KeyringStore keeps session keys in the OS keychain/credential manager,
// one entry per key and server
type KeyringStore struct {
	scope string
}

// NewKeyringStore returns a keyring-backed store scoped to a server URL
func NewKeyringStore(scope string) *KeyringStore {
	return &KeyringStore{scope: scope}
}

// getKeyringKey returns a unique key for a session value per server
func getKeyringKey(scope, key string) string {
	return fmt.Sprintf("%s-%s", key, scope)
}

// Get retrieves a value from the OS keychain/credential manager
func (k *KeyringStore) Get(key string) (string, bool, error) {
	value, err := keyring.Get(service, getKeyringKey(k.scope, key))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to load %s: %w", key, err)
	}
	return value, true, nil
}

// Set persists each value. The keychain has no transactions, so a failure
// part-way leaves earlier keys written.
func (k *KeyringStore) Set(values map[string]string) error {
	for key, value := range values {
		if err := keyring.Set(service, getKeyringKey(k.scope, key), value); err != nil {
			return fmt.Errorf("failed to save %s: %w", key, err)
		}
	}
	return nil
}

// Delete removes every key, attempting all of them even if one fails
func (k *KeyringStore) Delete(keys ...string) error {
	var errs []error
	for _, key := range keys {
		if err := keyring.Delete(service, getKeyringKey(k.scope, key)); err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				continue // Already deleted
			}
			errs = append(errs, fmt.Errorf("failed to delete %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}
