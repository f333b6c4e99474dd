package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/danielpatrickdp/wizard-village/go-decision/internal/vocabulary"
)

func serveContent(t *testing.T, content string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req["messages"])

		fmt.Fprintf(w, `{"choices":[{"message":{"content":%q}}]}`, content)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	return NewClient("test-key", "test-model", vocabulary.NewEngine(true), zaptest.NewLogger(t)).
		WithBaseURL(srv.URL)
}

func TestDecide_ParsesDecision(t *testing.T) {
	srv := serveContent(t, `{"action":"gather","target":"r1","reason":"stocking up"}`)
	c := newTestClient(t, srv)

	d, err := c.Decide(context.Background(), "prompt", nil)
	require.NoError(t, err)
	require.Equal(t, "gather", d.Action)
	require.Equal(t, "r1", d.Target)
}

func TestDecide_ReversesSyntheticVocabulary(t *testing.T) {
	// Model replies in the synthetic vocabulary; the client restores
	// canonical terms before the decision reaches the simulation.
	srv := serveContent(t, `{"action":"confer","target":"wiz-2","message":"shall we labor together, associate?"}`)
	c := newTestClient(t, srv)

	d, err := c.Decide(context.Background(), "prompt", nil)
	require.NoError(t, err)
	require.Equal(t, "talk", d.Action)
	require.Equal(t, "shall we work together, friend?", d.Message)
}

func TestDecide_ToleratesCodeFences(t *testing.T) {
	srv := serveContent(t, "```json\n{\"action\":\"idle\"}\n```")
	c := newTestClient(t, srv)

	d, err := c.Decide(context.Background(), "prompt", nil)
	require.NoError(t, err)
	require.Equal(t, "idle", d.Action)
}

func TestDecide_RejectsMissingAction(t *testing.T) {
	srv := serveContent(t, `{"target":"r1"}`)
	c := newTestClient(t, srv)

	_, err := c.Decide(context.Background(), "prompt", nil)
	require.Error(t, err)
}

func TestDecide_SurfacesHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream overloaded", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	c := newTestClient(t, srv)

	_, err := c.Decide(context.Background(), "prompt", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "503")
}
