package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KuaaMU/codesage/pkg/review"
)

func testContext() *review.Context {
	return &review.Context{
		FilePath: "src/auth.go",
		Source:   "package auth\n\nfunc check() {}\n",
		Language: "Go",
	}
}

func TestResolveAPIKey_PriorityOrder(t *testing.T) {
	t.Setenv(EnvAPIKey, "env-key")
	t.Setenv(EnvFallbackAPIKey, "fallback-key")

	key, err := Config{APIKey: "explicit"}.ResolveAPIKey()
	require.NoError(t, err)
	assert.Equal(t, "explicit", key)

	key, err = Config{}.ResolveAPIKey()
	require.NoError(t, err)
	assert.Equal(t, "env-key", key)

	t.Setenv(EnvAPIKey, "")

	key, err = Config{}.ResolveAPIKey()
	require.NoError(t, err)
	assert.Equal(t, "fallback-key", key)
}

func TestResolveAPIKey_MissingIsRecoverable(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvFallbackAPIKey, "")

	_, err := Config{}.ResolveAPIKey()
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestNewClient_NoCredentials(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvFallbackAPIKey, "")

	_, err := NewClient(Config{})
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func replyWith(t *testing.T, text string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, DefaultModel, req["model"])

		resp := map[string]any{
			"content": []map[string]any{{"type": "text", "text": text}},
		}

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))

	t.Cleanup(srv.Close)

	return srv
}

func TestReview_ParsesFindings(t *testing.T) {
	srv := replyWith(t, "Some analysis.\nSECURITY: SQL injection in query builder\nBUG: nil map write in cache\nclosing remarks\n")

	client, err := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	issues, err := client.Review(context.Background(), testContext())
	require.NoError(t, err)
	require.Len(t, issues, 2)

	assert.Equal(t, RuleAISecurity, issues[0].ID)
	assert.Equal(t, review.SeverityP1, issues[0].Severity)
	assert.Equal(t, review.CategorySecurity, issues[0].Category)
	assert.Equal(t, "SQL injection in query builder", issues[0].Message)
	assert.Equal(t, "src/auth.go", issues[0].Location.FilePath)

	assert.Equal(t, RuleAIBug, issues[1].ID)
	assert.Equal(t, review.SeverityP2, issues[1].Severity)
	assert.Equal(t, "nil map write in cache", issues[1].Message)
}

func TestReview_NoFindings(t *testing.T) {
	srv := replyWith(t, "The code looks fine.\n")

	client, err := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	issues, err := client.Review(context.Background(), testContext())
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestReview_ServerErrorWrapsErrAI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Review(context.Background(), testContext())
	assert.ErrorIs(t, err, review.ErrAI)
}

func TestReview_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL, Timeout: time.Minute})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = client.Review(ctx, testContext())
	assert.ErrorIs(t, err, review.ErrAI)
}
