package client

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"softwire/internal/microservices/http-api/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/register", r.URL.Path)

		var req dto.RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Ann", req.FirstName)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"message":"Registration successful! Please check your email for verification.","emailSent":true}`))
	}))
	defer srv.Close()

	resp, err := NewHTTPClient(srv.URL + "/").Register(&dto.RegisterRequest{FirstName: "Ann", LastName: "Lee", Email: "ann@x.com", Password: "Passw0rd!"})
	require.NoError(t, err)
	assert.True(t, resp.EmailSent)
}

func TestLogin_ServerMessageSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"message":"Invalid email or password"}`))
	}))
	defer srv.Close()

	_, err := NewHTTPClient(srv.URL).Login(&dto.LoginRequest{Email: "ann@x.com", Password: "nope"})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Invalid email or password", apiErr.Message)
}

func TestVerify_SendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer signed.jwt.token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"success":true,"user":{"userId":7,"email":"ann@x.com","firstName":"Ann","lastName":"Lee","exp":1760000000}}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	c.SetToken("signed.jwt.token")
	info, err := c.Verify()
	require.NoError(t, err)
	assert.Equal(t, uint(7), info.UserID)
	assert.EqualValues(t, 1760000000, info.ExpiresAt)
}

func TestVerifyEmail_EscapesToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "a+b/c", r.URL.Query().Get("token"))
		_, _ = w.Write([]byte(`{"success":true,"message":"Email verified successfully! You can now log in."}`))
	}))
	defer srv.Close()

	resp, err := NewHTTPClient(srv.URL).VerifyEmail("a+b/c")
	require.NoError(t, err)
	assert.True(t, resp.Success)
}

func TestHealth_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewHTTPClient(srv.URL).Health()
	assert.EqualError(t, err, "request failed with status 502")
}
