package authctx

import (
	"errors"

	"github.com/zalando/go-keyring"
)

// keyringService is the service name all bridgeway entries are stored
// under in the OS keyring (macOS Keychain, Secret Service, Windows
// Credential Manager).
const keyringService = "bridgeway"

// FromKeyring looks up a stored token for the named provider. A missing
// entry or an unavailable keyring both degrade to "no credential".
func FromKeyring(provider string) (Credentials, bool) {
	if provider == "" {
		return Credentials{}, false
	}
	token, err := keyring.Get(keyringService, provider)
	if err != nil || token == "" {
		return Credentials{}, false
	}
	return Credentials{Token: token}, true
}

// StoreKeyring saves a token for the named provider in the OS keyring.
func StoreKeyring(provider, token string) error {
	if provider == "" || token == "" {
		return errors.New("provider and token are required")
	}
	return keyring.Set(keyringService, provider, token)
}

// DeleteKeyring removes the stored token for the named provider. Deleting
// an entry that does not exist is not an error.
func DeleteKeyring(provider string) error {
	err := keyring.Delete(keyringService, provider)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
