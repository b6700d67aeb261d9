package emails

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrevoClient_SendApplicationReceived(t *testing.T) {
	var got BrevoSendRequest
	var apiKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey = r.Header.Get("api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := &BrevoClient{APIKey: "k", Endpoint: srv.URL}
	err := c.SendApplicationReceived(context.Background(), ApplicationNotice{
		OwnerEmail:    "alice@landlord.com",
		OwnerName:     "Alice",
		ListingTitle:  "Modern Apartment",
		ApplicantName: "<Carol>",
		Type:          "rent",
	})
	require.NoError(t, err)
	assert.Equal(t, "k", apiKey)
	assert.Equal(t, "noreply@propertyhub.app", got.Sender.Email)
	assert.Equal(t, []BrevoContact{{Email: "alice@landlord.com", Name: "Alice"}}, got.To)
	assert.Equal(t, "New rent application for Modern Apartment", got.Subject)
	assert.Contains(t, got.HTMLContent, "&lt;Carol&gt;")
}

func TestBrevoClient_NoKeyIsNoop(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := &BrevoClient{Endpoint: srv.URL}
	require.NoError(t, c.SendWelcome(context.Background(), "a@b.com", "A", "RENTER"))
	assert.False(t, called)
}

func TestBrevoClient_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := &BrevoClient{APIKey: "k", Endpoint: srv.URL}
	err := c.SendWelcome(context.Background(), "a@b.com", "", "AGENT")
	assert.EqualError(t, err, "brevo send failed: status 400")
}
