package hfapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyDecodesScores(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[[{"label":"joy","score":0.95},{"label":"surprise","score":0.03}]]`))
	}))
	defer srv.Close()

	c := New("test-model", srv.URL, "test-token")
	scores, err := c.Classify(context.Background(), "I am so happy today")
	require.NoError(t, err)

	require.Len(t, scores, 2)
	assert.Equal(t, "joy", scores[0].Label)
	assert.Equal(t, 0.95, scores[0].Score)
}

func TestClassifyNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New("test-model", srv.URL, "")
	_, err := c.Classify(context.Background(), "hello")
	assert.Error(t, err)
}

func TestClassifyBadPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": "unexpected shape"}`))
	}))
	defer srv.Close()

	c := New("test-model", srv.URL, "")
	_, err := c.Classify(context.Background(), "hello")
	assert.Error(t, err)
}
