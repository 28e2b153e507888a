package session

import (
	"errors"
	"os"
	"strings"
)

// ErrNoToken is returned by LoadToken when the session has never logged in.
var ErrNoToken = errors.New("no stored token for session")

// SaveToken persists the bearer token for a session, owner-readable only.
func SaveToken(name, token string) error {
	if err := EnsureDir(name); err != nil {
		return err
	}
	return os.WriteFile(TokenPath(name), []byte(token+"\n"), 0600)
}

// LoadToken reads the stored bearer token for a session.
func LoadToken(name string) (string, error) {
	data, err := os.ReadFile(TokenPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoToken
		}
		return "", err
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// ClearToken removes the stored token. Missing file is not an error.
func ClearToken(name string) error {
	err := os.Remove(TokenPath(name))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
