package entity

import "github.com/ohmatt160/library-AI-chatbot/pkg/nlp"

type Strategy string

const (
	StrategyRuleBased     Strategy = "rule_based"
	StrategyNLPBased      Strategy = "nlp_based"
	StrategyKnowledgeBase Strategy = "knowledge_base"
	StrategyClarification Strategy = "clarification"
)

type CandidateSource string

const (
	SourceRule          CandidateSource = "rule"
	SourceNLP           CandidateSource = "nlp"
	SourceKnowledgeBase CandidateSource = "knowledge_base"
	SourceClarification CandidateSource = "clarification"
)

type RuleMatch struct {
	RuleID          string            `json:"rule_id"`
	Template        string            `json:"template"`
	Priority        int               `json:"priority"`
	Variables       map[string]string `json:"variables,omitempty"`
	Groups          []string          `json:"groups,omitempty"`
	MatchedKeywords []string          `json:"matched_keywords,omitempty"`
}

type KnowledgeAnswer struct {
	Question      string   `json:"question,omitempty"`
	Answer        string   `json:"answer,omitempty"`
	Source        string   `json:"source,omitempty"`
	FollowUp      string   `json:"follow_up,omitempty"`
	Confidence    float64  `json:"confidence"`
	RelatedTopics []string `json:"related_topics,omitempty"`
}

type ClarificationRequest struct {
	UnclearEntities []string `json:"unclear_entities,omitempty"`
}

// ResponseCandidate carries exactly one payload, selected by Source.
type ResponseCandidate struct {
	Source        CandidateSource       `json:"source"`
	Confidence    float64               `json:"confidence"`
	Rule          *RuleMatch            `json:"rule,omitempty"`
	NLP           *nlp.Result           `json:"nlp,omitempty"`
	Knowledge     *KnowledgeAnswer      `json:"knowledge,omitempty"`
	Clarification *ClarificationRequest `json:"clarification,omitempty"`
}

const (
	MethodRuleBased                  = "rule_based"
	MethodNLPBased                   = "nlp_based"
	MethodKnowledgeBase              = "knowledge_base"
	MethodClarification              = "clarification"
	MethodLowConfidenceClarification = "low_confidence_clarification"
	MethodMediumConfidenceSuggestion = "medium_confidence_suggestion"
	MethodHighConfidenceConfirmation = "high_confidence_confirmation"
	MethodError                      = "error"
)

type Action string

const (
	ActionClarify Action = "clarify"
	ActionSuggest Action = "suggest"
	ActionConfirm Action = "confirm"
)

type DialogueResult struct {
	Response              string        `json:"response"`
	Confidence            float64       `json:"confidence"`
	ProcessingMethod      string        `json:"processing_method"`
	SuggestedFollowUps    []string      `json:"suggested_follow_ups"`
	ContextID             string        `json:"context_id"`
	Intent                nlp.Intent    `json:"intent"`
	Entities              []nlp.Entity  `json:"entities"`
	State                 DialogueState `json:"state,omitempty"`
	Action                Action        `json:"action,omitempty"`
	RequiresClarification bool          `json:"requires_clarification"`
}
