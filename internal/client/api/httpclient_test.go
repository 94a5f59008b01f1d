package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const authBody = `{"token":"t1","type":"Bearer","userId":7,"firstname":"Ann","lastname":"Lee","email":"ann@x.com"}`

func TestLogin_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
		assert.Empty(t, r.Header.Get("Authorization"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ann@x.com", req["identifier"])
		assert.Equal(t, "pass1234", req["password"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(authBody))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, time.Second)
	sess, err := c.Login(context.Background(), "ann@x.com", "pass1234")
	require.NoError(t, err)

	assert.Equal(t, "t1", sess.Token)
	assert.Equal(t, int64(7), sess.UserID)
	assert.Equal(t, "Ann", sess.FirstName)
	assert.Equal(t, "Lee", sess.LastName)
	assert.Equal(t, "ann@x.com", sess.Email)
}

func TestLogin_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, time.Second)
	_, err := c.Login(context.Background(), "ann@x.com", "wrongpass1")
	require.ErrorIs(t, err, ErrUnauthorized)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
}

func TestRegister_Conflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/register", r.URL.Path)
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"Email already in use"}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, time.Second)
	_, err := c.Register(context.Background(), "Ann", "Lee", "ann@x.com", "pass1234")
	require.ErrorIs(t, err, ErrConflict)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Email already in use", apiErr.Message)
}

func TestRegister_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Ann", req["firstname"])
		assert.Equal(t, "Lee", req["lastname"])

		_, _ = w.Write([]byte(authBody))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, time.Second)
	sess, err := c.Register(context.Background(), "Ann", "Lee", "ann@x.com", "pass1234")
	require.NoError(t, err)
	assert.Equal(t, "t1", sess.Token)
}

func TestGetProfile_AttachesBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/auth/profile", r.URL.Path)
		assert.Equal(t, "Bearer t1", r.Header.Get("Authorization"))

		_, _ = w.Write([]byte(`{"userId":7,"firstname":"Ann","lastname":"Lee","email":"ann@x.com"}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, time.Second)
	profile, err := c.GetProfile(context.Background(), "t1")
	require.NoError(t, err)

	assert.Equal(t, int64(7), profile.UserID)
	assert.Equal(t, "Ann", profile.FirstName)
}

func TestUpdateProfile_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "Bearer t1", r.Header.Get("Authorization"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Anna", req["firstname"])

		_, _ = w.Write([]byte(`{"token":"t1","type":"Bearer","userId":7,"firstname":"Anna","lastname":"Lee","email":"ann@x.com"}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, time.Second)
	sess, err := c.UpdateProfile(context.Background(), "t1", "Anna", "Lee")
	require.NoError(t, err)
	assert.Equal(t, "Anna", sess.FirstName)
}

func TestLogout_EmptyResponseBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/logout", r.URL.Path)
		assert.Equal(t, "Bearer t1", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, time.Second)
	require.NoError(t, c.Logout(context.Background(), "t1"))
}

func TestDo_TransportFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening anymore

	c := NewHTTPClient(srv.URL, time.Second)
	_, err := c.Login(context.Background(), "ann@x.com", "pass1234")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestDo_TimeoutIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, 20*time.Millisecond)
	_, err := c.GetProfile(context.Background(), "t1")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestMapStatus(t *testing.T) {
	tests := []struct {
		code     int
		expected error
	}{
		{http.StatusBadRequest, ErrBadRequest},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrUnauthorized},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusConflict, ErrConflict},
		{http.StatusInternalServerError, ErrServer},
		{http.StatusBadGateway, ErrServer},
		{http.StatusTeapot, ErrServer},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.code)
		}))

		c := NewHTTPClient(srv.URL, time.Second)
		_, err := c.GetProfile(context.Background(), "t1")
		assert.ErrorIs(t, err, tt.expected, "status %d", tt.code)
		srv.Close()
	}
}
