package generator

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"github.com/ohmatt160/library-AI-chatbot/pkg/sanitize"
)

const (
	PartMain     = "main"
	PartFollowUp = "follow_up"

	FallbackKey = "fallback"
)

// Template is one intent's entry: "main", an optional "follow_up" and any
// variant keys.
type Template map[string]string

type Templates map[string]Template

func DefaultTemplates() Templates {
	return Templates{
		"greeting": {
			PartMain:     "👋 **Hello! I'm the University Library Assistant.**\n\nI can help you with library services. How can I assist you today?",
			PartFollowUp: "Try asking about library hours or borrowing books.",
		},
		"book_search": {
			PartMain:     "I found {count} books matching your search.",
			"no_results": "No books found matching '{query}'.",
			PartFollowUp: "Try different keywords.",
		},
		"library_hours": {
			PartMain: "📚 **Library Hours**\n\nWeekdays: 8:00 AM - 10:00 PM\nWeekends: 10:00 AM - 8:00 PM",
		},
		FallbackKey: {
			PartMain:     "I'm here to help with library services.",
			PartFollowUp: "You can ask about library hours, borrowing, or finding resources.",
		},
	}
}

func (t Templates) Get(intent, part string) string {
	return t[intent][part]
}

// LoadTemplates reads a templates document and layers it over the defaults.
// Non-string values in an entry are ignored.
func LoadTemplates(path string, log *logrus.Logger) Templates {
	templates := DefaultTemplates()

	loaded, err := parseTemplates(path)
	if err != nil {
		log.WithFields(logrus.Fields{
			"path":  path,
			"error": err.Error(),
		}).Warn("[generator] falling back to default templates")
		return templates
	}

	for intent, entry := range loaded {
		templates[intent] = entry
	}
	log.WithFields(logrus.Fields{"path": path, "count": len(loaded)}).Info("[generator] templates loaded")
	return templates
}

func parseTemplates(path string) (Templates, error) {
	raw, err := sanitize.ReadDocument(path)
	if err != nil {
		return nil, err
	}

	var doc map[string]map[string]interface{}
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	if len(doc) == 0 {
		return nil, errors.New("templates document is empty")
	}

	out := make(Templates, len(doc))
	for intent, entry := range doc {
		t := make(Template, len(entry))
		for part, v := range entry {
			if s, ok := v.(string); ok {
				t[part] = s
			}
		}
		out[intent] = t
	}
	return out, nil
}
