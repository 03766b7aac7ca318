package command

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"softwire/cmd/cli/authentication"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func run(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestLoginStoresToken(t *testing.T) {
	keyring.MockInit()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"token":"signed.jwt.token","user":{"id":7,"firstName":"Ann","lastName":"Lee","email":"ann@x.com"},"redirectUrl":"/index.html"}`))
	}))
	defer srv.Close()

	require.NoError(t, run(t, "--api", srv.URL, "auth", "login", "-e", "ann@x.com", "-p", "Passw0rd!"))

	creds, err := authentication.GetTokens()
	require.NoError(t, err)
	assert.Equal(t, "signed.jwt.token", creds.Token)
	assert.Equal(t, "ann@x.com", creds.Email)

	require.NoError(t, run(t, "auth", "logout"))
	_, err = authentication.GetTokens()
	assert.Error(t, err)
}

func TestWhoamiWithoutSession(t *testing.T) {
	keyring.MockInit()
	assert.ErrorContains(t, run(t, "auth", "whoami"), "not logged in")
}

func TestHealthCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"message":"SoftWire India API is running","timestamp":"2026-10-15T09:30:00Z"}`))
	}))
	defer srv.Close()

	assert.NoError(t, run(t, "--api", srv.URL, "health"))
}
