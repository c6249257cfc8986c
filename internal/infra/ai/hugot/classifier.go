package hugot

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"

	domain "github.com/watchdoglabs/sentiment-watchdog/internal/domain/sentiment"
)

// Classifier runs a local ONNX text-classification pipeline. The model is
// downloaded on first start and loaded once; the pipeline is read-only after
// initialization and safe for concurrent Classify calls.
type Classifier struct {
	session  *hugot.Session
	pipeline *pipelines.TextClassificationPipeline
}

// New downloads the model when missing, creates an ONNX Runtime session and
// builds the classification pipeline.
func New(modelID, modelDir string) (*Classifier, error) {
	if err := os.MkdirAll(modelDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("creating model directory: %w", err)
	}

	modelPath := filepath.Join(modelDir, path.Base(modelID))
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		slog.Info("[Classifier] Model not found, downloading...",
			slog.String("model", modelID))
		downloaded, err := hugot.DownloadModel(modelID, modelDir, hugot.NewDownloadOptions())
		if err != nil {
			return nil, fmt.Errorf("downloading model %s: %w", modelID, err)
		}
		modelPath = downloaded
		slog.Info("[Classifier] Model downloaded successfully", slog.String("path", modelPath))
	} else {
		slog.Info("[Classifier] Using existing model", slog.String("path", modelPath))
	}

	session, err := hugot.NewORTSession()
	if err != nil {
		return nil, fmt.Errorf("initializing hugot session: %w", err)
	}

	config := hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      "emotionClassificationPipeline",
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		session.Destroy()
		return nil, fmt.Errorf("initializing classification pipeline: %w", err)
	}

	return &Classifier{session: session, pipeline: pipeline}, nil
}

// Classify runs the pipeline on one message.
func (c *Classifier) Classify(ctx context.Context, text string) ([]domain.EmotionScore, error) {
	output, err := c.pipeline.RunPipeline([]string{text})
	if err != nil {
		return nil, fmt.Errorf("running classification pipeline: %w", err)
	}

	if len(output.ClassificationOutputs) == 0 {
		return nil, nil
	}
	scores := make([]domain.EmotionScore, 0, len(output.ClassificationOutputs[0]))
	for _, res := range output.ClassificationOutputs[0] {
		scores = append(scores, domain.EmotionScore{
			Label: res.Label,
			Score: float64(res.Score),
		})
	}
	return scores, nil
}

func (c *Classifier) Ready() bool { return c.pipeline != nil }

// Close tears down the ONNX Runtime session at process shutdown.
func (c *Classifier) Close() error {
	if c.session != nil {
		return c.session.Destroy()
	}
	return nil
}
