package openai

import "fmt"

const systemPrompt = `You are an emotion classification engine for customer support messages.
Score the message across this fixed taxonomy: anger, disgust, fear, joy, neutral, sadness, surprise.
Respond with JSON only, in the shape:
{"scores":[{"label":"anger","score":0.0}, ...]}
Scores must be between 0 and 1 and cover every label in the taxonomy.`

func userPrompt(message string) string {
	return fmt.Sprintf("Classify the emotional tone of this customer message:\n\n%s", message)
}
