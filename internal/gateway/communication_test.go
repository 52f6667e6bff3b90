package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaiqkt/auth-registry-api/pkg/config"
)

func TestCommunicationClientSendEmail(t *testing.T) {
	var received Email
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/email", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewCommunicationClient(config.CommunicationConfig{BaseURL: server.URL, Timeout: time.Second})

	email := Email{
		Recipient: "jane@example.com",
		Subject:   "Welcome",
		Template:  Template{URL: "templates/welcome.html", Data: map[string]string{"name": "Jane"}},
	}
	require.NoError(t, client.SendEmail(context.Background(), email))
	assert.Equal(t, email, received)
}

func TestCommunicationClientSendEmailServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewCommunicationClient(config.CommunicationConfig{BaseURL: server.URL, Timeout: time.Second})

	err := client.SendEmail(context.Background(), Email{Recipient: "jane@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestCommunicationClientConnectionRefused(t *testing.T) {
	client := NewCommunicationClient(config.CommunicationConfig{BaseURL: "http://127.0.0.1:1", Timeout: 200 * time.Millisecond})

	err := client.SendEmail(context.Background(), Email{Recipient: "jane@example.com"})
	require.Error(t, err)
}
