package jsdk

import (
	"errors"
	"strings"

	"github.com/zalando/go-keyring"
)

const keyringService = "jarvice"

// keyringUser names the keyring entry of an account on a given API server.
func keyringUser(username, baseURL string) string {
	u := strings.ToLower(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	return username + "@" + u
}

// SaveAPIKey stores the API key of username on baseURL in the OS keyring.
func SaveAPIKey(username, baseURL, apiKey string) error {
	return keyring.Set(keyringService, keyringUser(username, baseURL), apiKey)
}

// LoadAPIKey returns the stored API key, or "" with a nil error when there
// is none.
func LoadAPIKey(username, baseURL string) (string, error) {
	key, err := keyring.Get(keyringService, keyringUser(username, baseURL))
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	return key, err
}

// DeleteAPIKey removes a stored API key. Removing a missing entry is not an error.
func DeleteAPIKey(username, baseURL string) error {
	err := keyring.Delete(keyringService, keyringUser(username, baseURL))
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
