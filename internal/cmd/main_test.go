package cmd

import (
	"os"
	"testing"

	"github.com/99designs/keyring"

	"github.com/backoffice/backoffice-cli/internal/config"
)

func TestMain(m *testing.M) {
	// Keep BO_OUTPUT and BO_CACHE_REDIS_URL from the developer's shell out of the tests.
	_ = os.Setenv("BO_OUTPUT", "text")
	_ = os.Setenv("BO_NO_CACHE", "1")
	_ = os.Unsetenv("BO_CACHE_REDIS_URL")
	_ = os.Unsetenv("BO_PROFILE")

	cleanup := config.SetOpenKeyring(func(keyring.Config) (keyring.Keyring, error) {
		return keyring.NewArrayKeyring(nil), nil
	})
	code := m.Run()
	cleanup()
	os.Exit(code)
}
