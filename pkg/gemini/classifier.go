package gemini

import (
	"context"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/ohmatt160/library-AI-chatbot/pkg/nlp"
)

const classifyPrompt = `You classify messages sent to a university library assistant.
Return only a JSON object mapping each of these intent labels to a probability between 0 and 1:
%s

Message: %q`

// Classifier adapts a Gemini model into an intent scorer.
type Classifier struct {
	client IGemini
	labels []nlp.Intent
}

func NewClassifier(client IGemini, labels []nlp.Intent) *Classifier {
	return &Classifier{client: client, labels: labels}
}

func (c *Classifier) Name() string { return "gemini" }

func (c *Classifier) Score(ctx context.Context, text string) (map[nlp.Intent]float64, error) {
	names := make([]string, len(c.labels))
	for i, l := range c.labels {
		names[i] = string(l)
	}

	raw, err := c.client.GenerateText(ctx, fmt.Sprintf(classifyPrompt, strings.Join(names, ", "), text))
	if err != nil {
		return nil, err
	}
	return parseScores(raw, c.labels)
}

func parseScores(raw string, labels []nlp.Intent) (map[nlp.Intent]float64, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var decoded map[string]float64
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal([]byte(strings.TrimSpace(raw)), &decoded); err != nil {
		return nil, fmt.Errorf("decode gemini scores: %w", err)
	}

	known := make(map[nlp.Intent]bool, len(labels))
	for _, l := range labels {
		known[l] = true
	}

	scores := make(map[nlp.Intent]float64, len(labels))
	for k, v := range decoded {
		intent := nlp.Intent(k)
		if !known[intent] {
			continue
		}
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		scores[intent] = v
	}
	return scores, nil
}
