package sentiment

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/watchdoglabs/sentiment-watchdog/internal/application"
	domain "github.com/watchdoglabs/sentiment-watchdog/internal/domain/sentiment"
)

// DefaultListLimit caps the /sentiments read when the caller gives no limit.
const DefaultListLimit = 100

// DefaultAlertThreshold is the negative-rate percentage that flips the alert flag.
const DefaultAlertThreshold = 30.0

// ErrExportDisabled indicates no artifact store was configured for CSV export.
var ErrExportDisabled = errors.New("export artifact store not configured")

// Service implements the sentiment use-cases. It holds no mutable state and
// is safe for concurrent use.
type Service struct {
	Repo           domain.Repository
	Classifier     domain.Classifier
	Artifacts      domain.ArtifactStore
	Clock          application.Clock
	Policy         domain.NegativePolicy
	AlertThreshold float64
}

// AnalyzeCommand carries one inbound customer message.
type AnalyzeCommand struct {
	Message    string
	CustomerID string
	Channel    string
}

// Analyze runs the ingestion pipeline: validate, classify, select the top
// emotion, apply the negativity policy, persist, and return the stored record.
// No retries: one upstream failure is one reported failure.
func (s *Service) Analyze(ctx context.Context, cmd AnalyzeCommand) (*domain.Record, error) {
	if strings.TrimSpace(cmd.Message) == "" {
		return nil, domain.ErrEmptyMessage
	}

	scores, err := s.Classifier.Classify(ctx, cmd.Message)
	if err != nil {
		return nil, domain.Upstream("classify", err)
	}

	top, err := domain.TopEmotion(scores)
	if err != nil {
		return nil, err
	}

	rec := &domain.Record{
		Message:    cmd.Message,
		Emotion:    top.Label,
		Confidence: top.Score,
		CustomerID: cmd.CustomerID,
		Channel:    cmd.Channel,
		Timestamp:  s.Clock.Now(),
		IsNegative: s.Policy.IsNegative(top.Label),
	}

	stored, err := s.Repo.Insert(ctx, rec)
	if err != nil {
		return nil, domain.Upstream("insert", err)
	}
	return stored, nil
}

// BatchItem is the outcome of one message in a batch analysis. Items fail
// independently; a bad message does not abort the batch.
type BatchItem struct {
	Index  int            `json:"index"`
	Record *domain.Record `json:"record,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// AnalyzeBatch runs Analyze for each command in order.
func (s *Service) AnalyzeBatch(ctx context.Context, cmds []AnalyzeCommand) []BatchItem {
	out := make([]BatchItem, 0, len(cmds))
	for i, cmd := range cmds {
		item := BatchItem{Index: i}
		rec, err := s.Analyze(ctx, cmd)
		if err != nil {
			item.Error = err.Error()
		} else {
			item.Record = rec
		}
		out = append(out, item)
	}
	return out
}

// ListRecent returns up to limit records ordered by timestamp descending.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]*domain.Record, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	list, err := s.Repo.Latest(ctx, limit)
	if err != nil {
		return nil, domain.Upstream("latest", err)
	}
	return list, nil
}

// Analytics computes the emotion distribution and negative-rate statistic over
// every stored record. The alert flag compares the unrounded percentage
// against the threshold; the reported percentage is rounded to 2 decimals.
func (s *Service) Analytics(ctx context.Context) (domain.AnalyticsSummary, error) {
	total, err := s.Repo.Count(ctx)
	if err != nil {
		return domain.AnalyticsSummary{}, domain.Upstream("count", err)
	}

	emotions, err := s.Repo.Emotions(ctx)
	if err != nil {
		return domain.AnalyticsSummary{}, domain.Upstream("emotions", err)
	}

	dist := make(map[string]int64, 8)
	var negative int64
	for _, e := range emotions {
		dist[e]++
		if s.Policy.IsNegative(e) {
			negative++
		}
	}

	var pct float64
	if total > 0 {
		pct = float64(negative) / float64(total) * 100
	}

	threshold := s.AlertThreshold
	if threshold == 0 {
		threshold = DefaultAlertThreshold
	}

	return domain.AnalyticsSummary{
		TotalMessages:         total,
		NegativePercentage:    math.Round(pct*100) / 100,
		EmotionDistribution:   dist,
		AlertThresholdReached: pct >= threshold,
	}, nil
}

// Trends returns per-day ingestion volume for the last sinceDays days.
func (s *Service) Trends(ctx context.Context, sinceDays int) ([]domain.TrendBucket, error) {
	if sinceDays <= 0 {
		sinceDays = 7
	}
	buckets, err := s.Repo.Daily(ctx, sinceDays)
	if err != nil {
		return nil, domain.Upstream("daily", err)
	}
	return buckets, nil
}

// ExportCSV renders every stored record to CSV and uploads it to the artifact
// store, returning the object URL.
func (s *Service) ExportCSV(ctx context.Context) (string, error) {
	if s.Artifacts == nil {
		return "", ErrExportDisabled
	}

	records, err := s.Repo.All(ctx)
	if err != nil {
		return "", domain.Upstream("export read", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"id", "message", "emotion", "confidence", "customer_id", "channel", "timestamp", "is_negative"})
	for _, r := range records {
		_ = w.Write([]string{
			string(r.ID),
			r.Message,
			r.Emotion,
			strconv.FormatFloat(r.Confidence, 'f', -1, 64),
			r.CustomerID,
			r.Channel,
			r.Timestamp.Format(time.RFC3339),
			strconv.FormatBool(r.IsNegative),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("encoding csv: %w", err)
	}

	key := fmt.Sprintf("exports/sentiments-%s.csv", s.Clock.Now().Format("20060102-150405"))
	url, err := s.Artifacts.UploadBytes(ctx, key, buf.Bytes(), "text/csv")
	if err != nil {
		return "", domain.Upstream("export upload", err)
	}
	return url, nil
}
