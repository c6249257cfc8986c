package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	domain "github.com/watchdoglabs/sentiment-watchdog/internal/domain/sentiment"
)

type SentimentRepository struct{ db *sql.DB }

func NewSentimentRepository(db *sql.DB) *SentimentRepository { return &SentimentRepository{db: db} }

// Insert stores a new record. The ID is assigned here; records are never
// updated afterwards.
func (r *SentimentRepository) Insert(ctx context.Context, rec *domain.Record) (*domain.Record, error) {
	const q = `
INSERT INTO sentiment_analysis
(id, message, emotion, confidence, customer_id, channel, created_at, is_negative)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8);`

	id := uuid.New().String()
	created := rec.Timestamp
	if created.IsZero() {
		created = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx, q,
		id, rec.Message, rec.Emotion, rec.Confidence,
		nullable(rec.CustomerID), nullable(rec.Channel),
		created, rec.IsNegative,
	)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, fmt.Errorf("insert affected no rows")
	}

	stored := *rec
	stored.ID = domain.RecordID(id)
	stored.Timestamp = created
	return &stored, nil
}

// Latest records ordered by creation time descending
func (r *SentimentRepository) Latest(ctx context.Context, limit int) ([]*domain.Record, error) {
	if limit <= 0 {
		limit = 100
	}
	const q = `
SELECT id, message, emotion, confidence, customer_id, channel, created_at, is_negative
FROM sentiment_analysis
ORDER BY created_at DESC
LIMIT $1;`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

// Count of all stored records
func (r *SentimentRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sentiment_analysis;`).Scan(&n)
	return n, err
}

// Emotions returns every stored emotion label (full scan; the aggregation
// happens in the application layer).
func (r *SentimentRepository) Emotions(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT emotion FROM sentiment_analysis;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var e string
		if err := rows.Scan(&e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Daily buckets ingestion volume per calendar day since N days ago
func (r *SentimentRepository) Daily(ctx context.Context, sinceDays int) ([]domain.TrendBucket, error) {
	if sinceDays <= 0 {
		sinceDays = 7
	}
	cut := time.Now().UTC().AddDate(0, 0, -sinceDays)

	const q = `
SELECT to_char(created_at::date, 'YYYY-MM-DD') AS day,
       COUNT(*) AS total,
       COALESCE(SUM(CASE WHEN is_negative THEN 1 ELSE 0 END), 0) AS negative
FROM sentiment_analysis
WHERE created_at >= $1
GROUP BY day
ORDER BY day;`
	rows, err := r.db.QueryContext(ctx, q, cut)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.TrendBucket
	for rows.Next() {
		var b domain.TrendBucket
		if err := rows.Scan(&b.Date, &b.Total, &b.Negative); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// All records ordered by creation time descending, for export
func (r *SentimentRepository) All(ctx context.Context) ([]*domain.Record, error) {
	const q = `
SELECT id, message, emotion, confidence, customer_id, channel, created_at, is_negative
FROM sentiment_analysis
ORDER BY created_at DESC;`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func collect(rows *sql.Rows) ([]*domain.Record, error) {
	var out []*domain.Record
	for rows.Next() {
		var rec domain.Record
		var customer, channel sql.NullString
		if err := rows.Scan(
			&rec.ID, &rec.Message, &rec.Emotion, &rec.Confidence,
			&customer, &channel, &rec.Timestamp, &rec.IsNegative,
		); err != nil {
			return nil, err
		}
		rec.CustomerID = customer.String
		rec.Channel = channel.String
		out = append(out, &rec)
	}
	return out, rows.Err()
}

// nullable maps empty optional attributes to NULL
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
