package sentiment

import "context"

// Repository port (interface for persistence). The store assigns record IDs
// at insert time and returns the stored record.
type Repository interface {
	Insert(ctx context.Context, r *Record) (*Record, error)
	Latest(ctx context.Context, limit int) ([]*Record, error)
	Count(ctx context.Context) (int64, error)
	Emotions(ctx context.Context) ([]string, error)
	Daily(ctx context.Context, sinceDays int) ([]TrendBucket, error)
	All(ctx context.Context) ([]*Record, error)
}

// Classifier port (interface for the pretrained emotion model). Classify
// returns at least one score on success.
type Classifier interface {
	Classify(ctx context.Context, text string) ([]EmotionScore, error)
	Ready() bool
}

// ArtifactStore port (interface for export artifact storage).
type ArtifactStore interface {
	UploadBytes(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
