package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Login(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "alice", body["username"])
		require.Equal(t, "secret", body["password"])

		json.NewEncoder(w).Encode(map[string]string{ //nolint:errcheck
			"token":    "t1",
			"username": "alice",
			"role":     "admin",
		})
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL})

	res, err := client.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "t1", res.Token)
	assert.Equal(t, "alice", res.Username)
	assert.Equal(t, "admin", res.Role)
}

func TestClient_DomainErrorPassthrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "username already exists"}) //nolint:errcheck
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL})

	_, err := client.Register(context.Background(), "alice", "secret")
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "username already exists", apiErr.Message)
	assert.Equal(t, "username already exists", err.Error())
}

func TestClient_ErrorWithoutPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL})

	_, err := client.Rules(context.Background())
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Contains(t, apiErr.Error(), "502")
}

func TestIsUnauthorized(t *testing.T) {
	assert.True(t, IsUnauthorized(&Error{Status: http.StatusUnauthorized}))
	assert.False(t, IsUnauthorized(&Error{Status: http.StatusForbidden}))
	assert.False(t, IsUnauthorized(context.Canceled))
}

func TestClient_History(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/history", r.URL.Path)
		require.Equal(t, "2", r.URL.Query().Get("page"))
		require.Equal(t, "10", r.URL.Query().Get("per_page"))

		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"history": []map[string]any{
				{"id": "h1", "username": "alice", "type": "forward", "conclusion": "c", "path": []int{0, 2}},
			},
			"total":    11,
			"page":     2,
			"per_page": 10,
		})
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL})

	res, err := client.History(context.Background(), 2, 10)
	require.NoError(t, err)
	assert.Equal(t, 11, res.Total)
	require.Len(t, res.History, 1)
	assert.Equal(t, "h1", res.History[0].ID)
	assert.Equal(t, []int{0, 2}, res.History[0].Path)
}

func TestClient_BackwardFlow(t *testing.T) {
	step := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/inference/backward/start":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "has_wings", body["target"])

			step++
			json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
				"status":      "query",
				"target":      "has_wings",
				"query_facts": []string{"is_bird"},
				"message":     "confirm the following facts",
			})
		case "/api/inference/backward/continue":
			var body map[string][]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, []string{"is_bird"}, body["true_facts"])

			step++
			json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
				"status":  "success",
				"target":  "has_wings",
				"path":    []int{3},
				"message": "target proved",
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL})
	ctx := context.Background()

	res, err := client.StartBackward(ctx, "has_wings")
	require.NoError(t, err)
	require.Equal(t, BackwardQuery, res.Status)
	require.Equal(t, []string{"is_bird"}, res.QueryFacts)

	res, err = client.ContinueBackward(ctx, []string{"is_bird"}, nil)
	require.NoError(t, err)
	assert.Equal(t, BackwardSuccess, res.Status)
	assert.Equal(t, []int{3}, res.Path)
	assert.Equal(t, 2, step)
}

func TestClient_Ready(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	client := New(Config{BaseURL: server.URL})
	require.NoError(t, client.Ready(context.Background()))

	server.Close()
	assert.Error(t, client.Ready(context.Background()))
}

func TestClient_TransportErrorIsNotDomainError(t *testing.T) {
	client := New(Config{BaseURL: "http://127.0.0.1:1"})

	_, err := client.Rules(context.Background())
	require.Error(t, err)

	var apiErr *Error
	assert.False(t, IsUnauthorized(err))
	assert.NotErrorAs(t, err, &apiErr)
}
