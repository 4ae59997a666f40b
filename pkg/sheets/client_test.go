package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(context.Background(), Config{Endpoint: srv.URL + "/", HTTPClient: srv.Client()})
	require.NoError(t, err)
	return c
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	_, err := NewClient(context.Background(), Config{})
	assert.Error(t, err)
}

func TestAppendRows(t *testing.T) {
	var got struct {
		Values [][]any `json:"values"`
	}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/v4/spreadsheets/sheet-1/values/Offers!A1:append"), r.URL.Path)
		assert.Equal(t, "RAW", r.URL.Query().Get("valueInputOption"))
		assert.Equal(t, "INSERT_ROWS", r.URL.Query().Get("insertDataOption"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-1","updates":{"updatedRows":2}}`))
	})

	n, err := c.AppendRows(context.Background(), "sheet-1", "Offers", [][]any{{"a", "b"}, {"c", "d"}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, [][]any{{"a", "b"}, {"c", "d"}}, got.Values)
}

func TestAppendRows_NoRowsSkipsCall(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL.Path)
	})

	n, err := c.AppendRows(context.Background(), "sheet-1", "Offers", nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestClearTab_Error(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/values/Offers:clear"), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"forbidden"}}`))
	})

	err := c.ClearTab(context.Background(), "sheet-1", "Offers")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clear Offers")
}
