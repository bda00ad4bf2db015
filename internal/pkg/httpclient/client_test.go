package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestClient() *Client {
	return NewClient(noop.NewTracerProvider().Tracer("test"))
}

func TestGetJSON_DecodesResponseAndSendsQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "2025-08-01", r.URL.Query().Get("date"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","data":{"price":100000}}`))
	}))
	defer server.Close()

	var out struct {
		Status string `json:"status"`
		Data   struct {
			Price float64 `json:"price"`
		} `json:"data"`
	}
	err := newTestClient().GetJSON(context.Background(), server.URL+"/api/flights/1/daily-status", url.Values{"date": {"2025-08-01"}}, &out)
	require.NoError(t, err)
	assert.Equal(t, "success", out.Status)
	assert.Equal(t, 100000.0, out.Data.Price)
}

func TestPostJSON_SendsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(2), body["quantity"])
		w.Write([]byte(`{"affectedRows":1}`))
	}))
	defer server.Close()

	var out struct {
		AffectedRows int `json:"affectedRows"`
	}
	err := newTestClient().PostJSON(context.Background(), server.URL, map[string]int{"quantity": 2}, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, out.AffectedRows)
}

func TestNon2xxReturnsStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status":"error","message":"No status found"}`))
	}))
	defer server.Close()

	err := newTestClient().GetJSON(context.Background(), server.URL, nil, &struct{}{})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Contains(t, se.Body, "No status found")
}

func TestMalformedJSONIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	err := newTestClient().GetJSON(context.Background(), server.URL, nil, &struct{}{})
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
}

func TestContextDeadlineAbortsCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := newTestClient().PostJSON(ctx, server.URL, map[string]int{}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
