package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstanceState(t *testing.T) {
	tests := []struct {
		name      string
		state     string
		wantReady bool
	}{
		{"open means ready", "open", true},
		{"connecting is not ready", "connecting", false},
		{"close is not ready", "close", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/instance/connectionState/shop1", r.URL.Path)
				assert.Equal(t, "secret", r.Header.Get("apikey"))

				_ = json.NewEncoder(w).Encode(map[string]any{
					"instance": map[string]any{"instanceName": "shop1", "state": tt.state},
				})
			}))
			defer srv.Close()

			c := NewClient(srv.URL, "secret", 5*time.Second)
			state, err := c.InstanceState(context.Background(), "shop1")
			require.NoError(t, err)
			assert.Equal(t, tt.wantReady, state.Ready)
		})
	}
}

func TestInstanceState_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"instance not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", 5*time.Second)
	_, err := c.InstanceState(context.Background(), "ghost")
	assert.True(t, errors.Is(err, ErrInstanceNotFound))
}

func TestInstanceState_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", 5*time.Second)
	_, err := c.InstanceState(context.Background(), "shop1")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "connection_state", apiErr.Op)
}

func TestSendText(t *testing.T) {
	var gotBody sendTextRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/message/sendText/shop1", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("apikey"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", 5*time.Second)
	err := c.SendText(context.Background(), "shop1", "5511999990000", "Pedido n° 42 confirmado!")
	require.NoError(t, err)

	assert.Equal(t, "5511999990000", gotBody.Number)
	assert.Equal(t, "Pedido n° 42 confirmado!", gotBody.Text)
}

func TestSendText_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		wantNotFound bool
	}{
		{"not found", http.StatusNotFound, true},
		{"bad request", http.StatusBadRequest, false},
		{"server error", http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			defer srv.Close()

			c := NewClient(srv.URL, "secret", 5*time.Second)
			err := c.SendText(context.Background(), "shop1", "551100000000", "hi")
			require.Error(t, err)

			if tt.wantNotFound {
				assert.True(t, errors.Is(err, ErrInstanceNotFound))
				return
			}

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
		})
	}
}
