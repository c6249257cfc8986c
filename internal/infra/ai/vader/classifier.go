package vader

import (
	"context"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"

	domain "github.com/watchdoglabs/sentiment-watchdog/internal/domain/sentiment"
)

// Classifier is a dependency-free lexicon backend. It emits a 3-label
// taxonomy (positive, neutral, negative), so deployments using it must point
// the negative-label policy at "negative" instead of the default emotion set.
type Classifier struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewClassifier() *Classifier {
	return &Classifier{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
)

// removeLinks keeps link text and drops raw URLs, which skew lexicon scoring.
func removeLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1")
	return urlPattern.ReplaceAllString(input, "")
}

// plainText renders markdown to text. Messages arriving from chat channels
// often carry markdown formatting.
func plainText(input string) string {
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	flattened := strings.Join(strings.Fields(string(output)), " ")
	return removeLinks(flattened)
}

func (c *Classifier) Classify(ctx context.Context, text string) ([]domain.EmotionScore, error) {
	sentiment := c.analyzer.PolarityScores(plainText(text))

	return []domain.EmotionScore{
		{Label: "positive", Score: sentiment.Positive},
		{Label: "neutral", Score: sentiment.Neutral},
		{Label: "negative", Score: sentiment.Negative},
	}, nil
}

func (c *Classifier) Ready() bool { return true }
