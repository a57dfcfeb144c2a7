package nlp

import "context"

type Intent string

const (
	IntentBookSearch         Intent = "book_search"
	IntentLibraryHours       Intent = "library_hours"
	IntentBookAvailability   Intent = "book_availability"
	IntentBookRenewal        Intent = "book_renewal"
	IntentBookReservation    Intent = "book_reservation"
	IntentBorrowingPolicy    Intent = "borrowing_policy"
	IntentContactInfo        Intent = "contact_info"
	IntentResearchAssistance Intent = "research_assistance"
	IntentStudyRooms         Intent = "study_rooms"
	IntentLibraryServices    Intent = "library_services"
	IntentGreeting           Intent = "greeting"
	IntentFarewell           Intent = "farewell"
	IntentUnknown            Intent = "unknown"
)

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Method records which classification path produced the intent.
type Method string

const (
	MethodEmpty    Method = "empty"
	MethodKeyword  Method = "keyword"
	MethodOverride Method = "override"
	MethodEnsemble Method = "ensemble"
)

const (
	EntitySourcePattern    = "pattern"
	EntitySourceLinguistic = "linguistic"
	EntitySourceSystem     = "system"

	EntityCurrentTime = "current_time"
)

type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type Entity struct {
	Type   string `json:"type"`
	Value  string `json:"value"`
	Span   Span   `json:"span"`
	Source string `json:"source"`
}

// Result is the output of one extraction. Optional signals that were not
// produced are nil rather than empty.
type Result struct {
	Text       string             `json:"text"`
	Intent     Intent             `json:"intent"`
	Confidence float64            `json:"confidence"`
	Method     Method             `json:"method"`
	Entities   []Entity           `json:"entities"`
	Sentiment  Sentiment          `json:"sentiment"`
	Keywords   []string           `json:"keywords"`
	Tokens     []string           `json:"tokens"`
	Scores     map[Intent]float64 `json:"scores,omitempty"`
	Sources    []string           `json:"sources,omitempty"`
}

// DomainEntities returns the extracted entities without system-injected ones.
func (r *Result) DomainEntities() []Entity {
	out := make([]Entity, 0, len(r.Entities))
	for _, e := range r.Entities {
		if e.Source == EntitySourceSystem {
			continue
		}
		out = append(out, e)
	}
	return out
}

type IExtractor interface {
	Extract(ctx context.Context, text string) *Result
}

// Scorer is one intent signal source. Implementations return a score per
// intent label in [0, 1].
type Scorer interface {
	Name() string
	Score(ctx context.Context, text string) (map[Intent]float64, error)
}

// LinguisticModel is a generic NER and tokenization backend.
type LinguisticModel interface {
	Analyze(text string) (*Analysis, error)
}

type Analysis struct {
	Tokens   []Token
	Entities []Entity
}

type Token struct {
	Text string
	Tag  string
}
