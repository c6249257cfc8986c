package sentiment

import "strings"

// DefaultNegativeLabels is the fixed policy set for the emotion taxonomy of
// j-hartmann/emotion-english-distilroberta-base. A different classifier
// taxonomy needs a different set, which is why the set is configurable.
var DefaultNegativeLabels = []string{"anger", "fear", "sadness", "disgust"}

// NegativePolicy decides which emotion labels count as negative for alerting.
type NegativePolicy struct {
	labels map[string]struct{}
}

// NewNegativePolicy builds a policy from the given labels. Matching is
// case-insensitive.
func NewNegativePolicy(labels []string) NegativePolicy {
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		set[strings.ToLower(strings.TrimSpace(l))] = struct{}{}
	}
	return NegativePolicy{labels: set}
}

// DefaultNegativePolicy returns the policy over DefaultNegativeLabels.
func DefaultNegativePolicy() NegativePolicy {
	return NewNegativePolicy(DefaultNegativeLabels)
}

// IsNegative reports whether the label is in the negative set.
func (p NegativePolicy) IsNegative(label string) bool {
	_, ok := p.labels[strings.ToLower(label)]
	return ok
}

// TopEmotion returns the highest-confidence score. Ties keep the first
// occurrence. Returns ErrNoScores when scores is empty.
func TopEmotion(scores []EmotionScore) (EmotionScore, error) {
	if len(scores) == 0 {
		return EmotionScore{}, ErrNoScores
	}
	top := scores[0]
	for _, s := range scores[1:] {
		if s.Score > top.Score {
			top = s
		}
	}
	return top, nil
}
