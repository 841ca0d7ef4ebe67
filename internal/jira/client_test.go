package jira

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Authenticate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/3/myself", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "user@example.com", user)
		assert.Equal(t, "token-123", pass)
		w.Write([]byte(`{"accountId": "abc"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "user@example.com", "token-123")
	require.NoError(t, client.Authenticate(context.Background()))
}

func TestClient_Authenticate_BadCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, "user@example.com", "wrong")
	err := client.Authenticate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestClient_CreateTicket(t *testing.T) {
	var payload map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/3/issue", r.URL.Path)
		assert.Equal(t, "POST", r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"key": "PROJ-42"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "user@example.com", "token")
	key, err := client.CreateTicket(context.Background(), "PROJ", "Browse catalog", "As a customer...", "Story", []string{"sdlcflow"})
	require.NoError(t, err)
	assert.Equal(t, "PROJ-42", key)

	fields := payload["fields"].(map[string]interface{})
	assert.Equal(t, "Browse catalog", fields["summary"])
	assert.Equal(t, "PROJ", fields["project"].(map[string]interface{})["key"])
	assert.Equal(t, "Story", fields["issuetype"].(map[string]interface{})["name"])
	assert.Equal(t, []interface{}{"sdlcflow"}, fields["labels"])

	// Description must be ADF, not a bare string.
	desc := fields["description"].(map[string]interface{})
	assert.Equal(t, "doc", desc["type"])
}

func TestClient_CreateChildTicket(t *testing.T) {
	var payload map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"key": "PROJ-43"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "user@example.com", "token")
	key, err := client.CreateChildTicket(context.Background(), "PROJ", "Add to cart", "desc", "Story", "PROJ-42", nil)
	require.NoError(t, err)
	assert.Equal(t, "PROJ-43", key)

	fields := payload["fields"].(map[string]interface{})
	assert.Equal(t, "PROJ-42", fields["parent"].(map[string]interface{})["key"])
	_, hasLabels := fields["labels"]
	assert.False(t, hasLabels)
}

func TestClient_CreateTicket_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors": {"summary": "required"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "user@example.com", "token")
	_, err := client.CreateTicket(context.Background(), "PROJ", "", "", "Story", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}
