package mt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTranslateSendsLanguagePairAndParsesResult(t *testing.T) {
	var got translateRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/translate", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]string{"text": "ciao"})
	}))
	defer server.Close()

	c := NewClient(server.URL, 5*time.Second, nil)
	out, err := c.Translate(context.Background(), "hello", "eng_Latn", "ita_Latn")
	require.NoError(t, err)
	require.Equal(t, "ciao", out)
	require.Equal(t, translateRequest{Text: "hello", SourceLang: "eng_Latn", TargetLang: "ita_Latn"}, got)
}

func TestTranslateServiceErrorSurfacesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unsupported language pair", http.StatusBadRequest)
	}))
	defer server.Close()

	c := NewClient(server.URL, time.Second, nil)
	_, err := c.Translate(context.Background(), "hello", "eng_Latn", "xxx_Latn")
	require.Error(t, err)
	require.Contains(t, err.Error(), "400")
	require.Contains(t, err.Error(), "unsupported language pair")
}

func TestTranslateUnreachableService(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 200*time.Millisecond, nil)
	_, err := c.Translate(context.Background(), "hello", "eng_Latn", "ita_Latn")
	require.Error(t, err)
	require.Contains(t, err.Error(), "translate request")
}

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewClient(server.URL, time.Second, nil)
	require.NoError(t, c.Health(context.Background()))
}
