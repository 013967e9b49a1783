package postgrest

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	_, err := New(Config{APIKey: "k"})
	require.Error(t, err)

	_, err = New(Config{URL: "https://x.supabase.co"})
	require.Error(t, err)

	_, err = New(Config{URL: "not a url", APIKey: "k"})
	require.Error(t, err)

	c, err := New(Config{URL: "https://x.supabase.co/", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "https://x.supabase.co", c.baseURL)
}

func TestExecute_BuildsSelectQuery(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"name":"alice"}]`)
	}))
	defer srv.Close()

	c, err := New(Config{URL: srv.URL, APIKey: "service-key"})
	require.NoError(t, err)

	resp, err := c.From("users").
		Select("name,calories").
		Eq("name", "alice smith").
		Gte("created_at", "2026-10-14T00:00:00.000Z").
		Lte("created_at", "2026-10-14T23:59:59.999Z").
		Order("created_at", false).
		Limit(5).
		Execute(context.Background())
	require.NoError(t, err)
	require.NoError(t, resp.Error())

	require.NotNil(t, got)
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/rest/v1/users", got.URL.Path)
	assert.Equal(t, "service-key", got.Header.Get("apikey"))
	assert.Equal(t, "Bearer service-key", got.Header.Get("Authorization"))

	q := got.URL.Query()
	assert.Equal(t, "name,calories", q.Get("select"))
	assert.Equal(t, "eq.alice smith", q.Get("name"))
	assert.Equal(t, []string{"gte.2026-10-14T00:00:00.000Z", "lte.2026-10-14T23:59:59.999Z"}, q["created_at"])
	assert.Equal(t, "created_at.desc", q.Get("order"))
	assert.Equal(t, "5", q.Get("limit"))

	var rows []map[string]any
	require.NoError(t, resp.JSON(&rows))
	assert.Equal(t, "alice", rows[0]["name"])
}

func TestInsert_ReturnsRepresentation(t *testing.T) {
	var (
		method, prefer, contentType, body string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		prefer = r.Header.Get("Prefer")
		contentType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `[{"name":"bob"}]`)
	}))
	defer srv.Close()

	c, err := New(Config{URL: srv.URL, APIKey: "k"})
	require.NoError(t, err)

	resp, err := c.From("users").Insert(context.Background(), []map[string]any{{"name": "bob"}})
	require.NoError(t, err)
	require.NoError(t, resp.Error())

	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "return=representation", prefer)
	assert.Equal(t, "application/json", contentType)
	assert.JSONEq(t, `[{"name":"bob"}]`, body)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestResponse_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		resp    Response
		wantErr string
	}{
		{name: "ok", resp: Response{StatusCode: 200}},
		{
			name:    "postgrest error body",
			resp:    Response{StatusCode: 404, Body: []byte(`{"code":"42P01","message":"relation \"public.users\" does not exist"}`)},
			wantErr: "42P01",
		},
		{
			name:    "gateway error body",
			resp:    Response{StatusCode: 401, Body: []byte(`{"error":"invalid api key"}`)},
			wantErr: "invalid api key",
		},
		{
			name:    "opaque body",
			resp:    Response{StatusCode: 502, Body: []byte(`<html>bad gateway</html>`)},
			wantErr: "status 502",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.resp.Error()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestExecute_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := New(Config{URL: url, APIKey: "k"})
	require.NoError(t, err)

	_, err = c.From("users").Execute(context.Background())
	require.Error(t, err)
}
