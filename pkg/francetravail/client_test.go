package francetravail

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, search http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var tokens atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		tokens.Add(1)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.Form.Get("grant_type"))
		assert.Equal(t, "/partenaire", r.Form.Get("realm"))
		assert.Equal(t, "id", r.Form.Get("client_id"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"Bearer","expires_in":1499}`))
	})
	mux.HandleFunc(searchPath, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		search(w, r)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &tokens
}

func newClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := NewClient(Config{
		ClientID:     "id",
		ClientSecret: "secret",
		TokenURL:     srv.URL + "/token",
		BaseURL:      srv.URL,
	})
	require.NoError(t, err)
	return c
}

func TestSearch_AuthenticatesAndParsesRange(t *testing.T) {
	srv, tokens := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "20-39", r.URL.Query().Get("range"))
		assert.Equal(t, "golang", r.URL.Query().Get("motsCles"))
		w.Header().Set("Content-Range", "offres 20-39/345")
		w.WriteHeader(http.StatusPartialContent)
		_, _ = w.Write([]byte(`{"resultats":[{"id":"123ABC","intitule":"Développeur Go (H/F)"}]}`))
	})
	c := newClient(t, srv)

	for range 2 {
		resp, err := c.Search(context.Background(), SearchParams{MotsCles: "golang", Start: 20, End: 39})
		require.NoError(t, err)
		assert.Equal(t, 345, resp.Total)
		require.Len(t, resp.Resultats, 1)
		assert.Equal(t, "123ABC", resp.Resultats[0].ID)
	}
	assert.EqualValues(t, 1, tokens.Load())
}

func TestSearch_NoContentIsEmpty(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	resp, err := newClient(t, srv).Search(context.Background(), SearchParams{End: 19})
	require.NoError(t, err)
	assert.Empty(t, resp.Resultats)
	assert.Equal(t, 0, resp.Total)
}

func TestSearch_ServerError(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	})

	_, err := newClient(t, srv).Search(context.Background(), SearchParams{End: 19})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestParseContentRange(t *testing.T) {
	assert.Equal(t, 1234, parseContentRange("offres 0-19/1234", 3))
	assert.Equal(t, 3, parseContentRange("", 3))
	assert.Equal(t, 3, parseContentRange("offres 0-19/*", 3))
}
