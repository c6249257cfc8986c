package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appsentiment "github.com/watchdoglabs/sentiment-watchdog/internal/application/sentiment"
	domain "github.com/watchdoglabs/sentiment-watchdog/internal/domain/sentiment"
)

type stubClock struct{}

func (stubClock) Now() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

type fakeClassifier struct {
	scores []domain.EmotionScore
	err    error
}

func (f *fakeClassifier) Classify(ctx context.Context, text string) ([]domain.EmotionScore, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.scores, nil
}

func (f *fakeClassifier) Ready() bool { return true }

type fakeRepo struct {
	inserted []*domain.Record
	count    int64
	emotions []string
}

func (r *fakeRepo) Insert(ctx context.Context, rec *domain.Record) (*domain.Record, error) {
	stored := *rec
	stored.ID = domain.RecordID(fmt.Sprintf("rec-%d", len(r.inserted)+1))
	r.inserted = append(r.inserted, &stored)
	return &stored, nil
}

func (r *fakeRepo) Latest(ctx context.Context, limit int) ([]*domain.Record, error) {
	if limit < len(r.inserted) {
		return r.inserted[:limit], nil
	}
	return r.inserted, nil
}

func (r *fakeRepo) Count(ctx context.Context) (int64, error) { return r.count, nil }

func (r *fakeRepo) Emotions(ctx context.Context) ([]string, error) { return r.emotions, nil }

func (r *fakeRepo) Daily(ctx context.Context, sinceDays int) ([]domain.TrendBucket, error) {
	return nil, nil
}

func (r *fakeRepo) All(ctx context.Context) ([]*domain.Record, error) { return r.inserted, nil }

func setupRouter(classifier *fakeClassifier, repo *fakeRepo) http.Handler {
	svc := &appsentiment.Service{
		Repo:       repo,
		Classifier: classifier,
		Clock:      stubClock{},
		Policy:     domain.DefaultNegativePolicy(),
	}
	return NewRouter(svc, Options{})
}

func happyClassifier() *fakeClassifier {
	return &fakeClassifier{scores: []domain.EmotionScore{
		{Label: "joy", Score: 0.95},
		{Label: "surprise", Score: 0.03},
	}}
}

func TestRoot(t *testing.T) {
	r := setupRouter(happyClassifier(), &fakeRepo{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "running", body["status"])
	assert.NotEmpty(t, body["message"])
}

func TestHealth(t *testing.T) {
	r := setupRouter(happyClassifier(), &fakeRepo{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, true, body["model_loaded"])
}

func TestAnalyzeReturnsRecord(t *testing.T) {
	repo := &fakeRepo{}
	r := setupRouter(happyClassifier(), repo)

	payload, _ := json.Marshal(map[string]string{
		"message":     "I am so happy today",
		"customer_id": "cust-1",
		"channel":     "chat",
	})
	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var rec domain.Record
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &rec))
	assert.Equal(t, "joy", rec.Emotion)
	assert.Equal(t, 0.95, rec.Confidence)
	assert.False(t, rec.IsNegative)
	assert.NotEmpty(t, rec.ID)
	assert.Len(t, repo.inserted, 1)
}

func TestAnalyzeEmptyMessage(t *testing.T) {
	repo := &fakeRepo{}
	r := setupRouter(happyClassifier(), repo)

	payload := []byte(`{"message": "   "}`)
	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.NotEmpty(t, body["detail"])
	assert.Empty(t, repo.inserted, "store must not be touched on validation failure")
}

func TestAnalyzeInvalidBody(t *testing.T) {
	r := setupRouter(happyClassifier(), &fakeRepo{})

	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader([]byte("not json")))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestAnalyzeClassifierFailure(t *testing.T) {
	repo := &fakeRepo{}
	r := setupRouter(&fakeClassifier{err: errors.New("model unavailable")}, repo)

	payload := []byte(`{"message": "hello"}`)
	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader(payload))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Empty(t, repo.inserted, "store insert must not happen after classifier failure")
}

func TestAnalyzeBatch(t *testing.T) {
	repo := &fakeRepo{}
	r := setupRouter(happyClassifier(), repo)

	payload := []byte(`{"messages": [{"message": "great"}, {"message": "  "}]}`)
	req := httptest.NewRequest(http.MethodPost, "/analyze/batch", bytes.NewReader(payload))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var body struct {
		Results []appsentiment.BatchItem `json:"results"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Results, 2)
	assert.NotNil(t, body.Results[0].Record)
	assert.NotEmpty(t, body.Results[1].Error)
}

func TestAnalyzeBatchEmpty(t *testing.T) {
	r := setupRouter(happyClassifier(), &fakeRepo{})

	payload := []byte(`{"messages": []}`)
	req := httptest.NewRequest(http.MethodPost, "/analyze/batch", bytes.NewReader(payload))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestSentimentsEmptyStore(t *testing.T) {
	r := setupRouter(happyClassifier(), &fakeRepo{})

	req := httptest.NewRequest(http.MethodGet, "/sentiments", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"sentiments": []}`, resp.Body.String())
}

func TestSentimentsAfterAnalyze(t *testing.T) {
	repo := &fakeRepo{}
	r := setupRouter(happyClassifier(), repo)

	payload := []byte(`{"message": "lovely"}`)
	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader(payload))
	r.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/sentiments?limit=10", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var body struct {
		Sentiments []domain.Record `json:"sentiments"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Sentiments, 1)
	assert.Equal(t, "joy", body.Sentiments[0].Emotion)
}

func TestAnalytics(t *testing.T) {
	repo := &fakeRepo{
		count:    4,
		emotions: []string{"anger", "joy", "sadness", "anger"},
	}
	r := setupRouter(happyClassifier(), repo)

	req := httptest.NewRequest(http.MethodGet, "/analytics", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var summary domain.AnalyticsSummary
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &summary))
	assert.Equal(t, int64(4), summary.TotalMessages)
	assert.Equal(t, 75.0, summary.NegativePercentage)
	assert.True(t, summary.AlertThresholdReached)
	assert.Equal(t, int64(2), summary.EmotionDistribution["anger"])
}

func TestExportWithoutArtifactStore(t *testing.T) {
	r := setupRouter(happyClassifier(), &fakeRepo{})

	req := httptest.NewRequest(http.MethodPost, "/export", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}
