package sentiment

import "time"

// RecordID identifier type
type RecordID string

// EmotionScore is one (label, confidence) pair returned by a classifier.
type EmotionScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Aggregate Root: Record is one persisted customer-message analysis result.
// Records are immutable after creation; there is no update or delete path.
type Record struct {
	ID         RecordID  `json:"id"`
	Message    string    `json:"message"`
	Emotion    string    `json:"emotion"`
	Confidence float64   `json:"confidence"`
	CustomerID string    `json:"customer_id,omitempty"`
	Channel    string    `json:"channel,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	IsNegative bool      `json:"is_negative"`
}

// AnalyticsSummary is the aggregate view over all stored records.
type AnalyticsSummary struct {
	TotalMessages         int64            `json:"total_messages"`
	NegativePercentage    float64          `json:"negative_percentage"`
	EmotionDistribution   map[string]int64 `json:"emotion_distribution"`
	AlertThresholdReached bool             `json:"alert_threshold_reached"`
}

// TrendBucket is one day's worth of ingestion volume.
type TrendBucket struct {
	Date     string `json:"date"`
	Total    int64  `json:"total"`
	Negative int64  `json:"negative"`
}
