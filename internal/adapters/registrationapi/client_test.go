package registrationapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/bizportal/internal/domain/registration"
)

func TestClient_Register_Success(t *testing.T) {
	var got registration.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{URL: srv.URL + "/api/auth/register"})
	require.NoError(t, err)

	req := registration.Request{Name: "Lan", Email: "lan@example.com", Password: "secret123", ConfirmPassword: "secret123"}
	resp, err := c.Register(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, req, got)
}

func TestClient_Register_FailureBodyIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"success":false,"message":"Email already registered"}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{URL: srv.URL})
	require.NoError(t, err)

	resp, err := c.Register(context.Background(), registration.Request{})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "Email already registered", resp.Message)
}

func TestClient_Register_UnexpectedBody(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{URL: srv.URL})
	require.NoError(t, err)

	_, err = c.Register(context.Background(), registration.Request{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Equal(t, int32(1), calls.Load(), "no retry")
}

func TestClient_Register_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClient(Config{URL: url})
	require.NoError(t, err)

	_, err = c.Register(context.Background(), registration.Request{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unreachable")
}

func TestClient_KeepsCookies(t *testing.T) {
	var sawCookie atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("reg_session"); err == nil && c.Value == "abc" {
			sawCookie.Store(true)
		}
		http.SetCookie(w, &http.Cookie{Name: "reg_session", Value: "abc", Path: "/"})
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{URL: srv.URL})
	require.NoError(t, err)
	_, err = c.Register(context.Background(), registration.Request{})
	require.NoError(t, err)
	_, err = c.Register(context.Background(), registration.Request{})
	require.NoError(t, err)
	assert.True(t, sawCookie.Load())
}

func TestNewClient_Validation(t *testing.T) {
	for _, raw := range []string{"", "   ", "ftp://example.com", "not a url", "http://"} {
		_, err := NewClient(Config{URL: raw})
		assert.Error(t, err, raw)
	}
}
