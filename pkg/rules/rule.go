package rules

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"github.com/ohmatt160/library-AI-chatbot/pkg/sanitize"
)

const (
	ConditionTimeBased    = "time_based"
	ConditionUserType     = "user_type"
	ConditionPrerequisite = "prerequisite"
)

type Condition struct {
	Type           string `json:"type"`
	StartHour      *int   `json:"start_hour,omitempty"`
	EndHour        *int   `json:"end_hour,omitempty"`
	RequiredType   string `json:"required_type,omitempty"`
	RequiredIntent string `json:"required_intent,omitempty"`
}

type Rule struct {
	ID              string            `json:"id"`
	Pattern         string            `json:"pattern"`
	Keywords        []string          `json:"keywords,omitempty"`
	Response        string            `json:"response"`
	Priority        int               `json:"priority"`
	RequiresContext bool              `json:"requires_context,omitempty"`
	Conditions      []Condition       `json:"conditions,omitempty"`
	Variables       map[string]string `json:"variables,omitempty"`
}

type document struct {
	Rules []Rule `json:"rules"`
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var errNoRules = errors.New("rules document has no rules")

func DefaultRules() []Rule {
	return []Rule{
		{
			ID:       "default_001",
			Pattern:  "(?i)(hello|hi|hey)",
			Response: "Hello! I'm your library assistant.",
			Priority: 1,
		},
	}
}

// Load reads a rules document. Both {"rules": [...]} and a bare list are
// accepted. A missing or unreadable document yields DefaultRules.
func Load(path string, log *logrus.Logger) []Rule {
	rules, err := parseFile(path)
	if err != nil {
		log.WithFields(logrus.Fields{
			"path":  path,
			"error": err.Error(),
		}).Warn("[rules] falling back to default rules")
		return DefaultRules()
	}

	log.WithFields(logrus.Fields{"path": path, "count": len(rules)}).Info("[rules] loaded")
	return rules
}

func parseFile(path string) ([]Rule, error) {
	raw, err := sanitize.ReadDocument(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

func Parse(raw []byte) ([]Rule, error) {
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		var list []Rule
		if listErr := json.Unmarshal(raw, &list); listErr != nil {
			return nil, fmt.Errorf("parse rules: %w", err)
		}
		doc.Rules = list
	}

	if len(doc.Rules) == 0 {
		return nil, errNoRules
	}
	return doc.Rules, nil
}
