package knowledge

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"unicode"

	jsoniter "github.com/json-iterator/go"
	chromem "github.com/philippgille/chromem-go"
	"github.com/sirupsen/logrus"

	"github.com/ohmatt160/library-AI-chatbot/internal/entity"
	"github.com/ohmatt160/library-AI-chatbot/pkg/nlp"
	"github.com/ohmatt160/library-AI-chatbot/pkg/sanitize"
)

const (
	collectionName = "knowledge_base"
	maxResults     = 5
	relatedFloor   = 0.2
)

var ErrEmptyQuestion = errors.New("knowledge: empty question")

type Entry struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Source   string `json:"source,omitempty"`
	FollowUp string `json:"follow_up,omitempty"`
	Topic    string `json:"topic"`
}

// Base is an in-memory FAQ index searched by embedding similarity.
type Base struct {
	log        *logrus.Logger
	collection *chromem.Collection
	entries    map[string]Entry
}

func New(ctx context.Context, entries []Entry, ef chromem.EmbeddingFunc, log *logrus.Logger) (*Base, error) {
	if len(entries) == 0 {
		entries = DefaultEntries()
	}
	if ef == nil {
		ef = nlp.HashingEmbedder(0)
	}

	db := chromem.NewDB()
	col, err := db.GetOrCreateCollection(collectionName, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	b := &Base{log: log, collection: col, entries: make(map[string]Entry, len(entries))}
	docs := make([]chromem.Document, 0, len(entries))
	for i, e := range entries {
		if e.ID == "" {
			e.ID = fmt.Sprintf("kb-%03d", i+1)
		}
		b.entries[e.ID] = e
		docs = append(docs, chromem.Document{
			ID:       e.ID,
			Content:  e.Question + " " + e.Topic,
			Metadata: map[string]string{"topic": e.Topic},
		})
	}

	if err := col.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return nil, fmt.Errorf("index knowledge base: %w", err)
	}

	log.WithFields(logrus.Fields{"entries": len(docs)}).Info("[knowledge] index built")
	return b, nil
}

// Lookup returns the closest entry with its similarity as confidence, plus
// the topics of the other close entries.
func (b *Base) Lookup(ctx context.Context, question string) (*entity.KnowledgeAnswer, error) {
	question = strings.TrimSpace(question)
	if strings.IndexFunc(question, isWordRune) < 0 {
		return nil, ErrEmptyQuestion
	}

	n := b.collection.Count()
	if n > maxResults {
		n = maxResults
	}
	if n == 0 {
		return &entity.KnowledgeAnswer{Question: question}, nil
	}

	results, err := b.collection.Query(ctx, question, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}
	if len(results) == 0 {
		return &entity.KnowledgeAnswer{Question: question}, nil
	}

	best := b.entries[results[0].ID]
	answer := &entity.KnowledgeAnswer{
		Question:   best.Question,
		Answer:     best.Answer,
		Source:     best.Source,
		FollowUp:   best.FollowUp,
		Confidence: clamp(float64(results[0].Similarity)),
	}

	seen := map[string]bool{best.Topic: true}
	for _, r := range results[1:] {
		topic := r.Metadata["topic"]
		if topic == "" || seen[topic] || float64(r.Similarity) < relatedFloor {
			continue
		}
		seen[topic] = true
		answer.RelatedTopics = append(answer.RelatedTopics, topic)
	}
	if answer.Confidence <= 0.5 && best.Topic != "" {
		answer.RelatedTopics = append([]string{best.Topic}, answer.RelatedTopics...)
	}
	return answer, nil
}

func (b *Base) Len() int { return b.collection.Count() }

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func clamp(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func LoadEntries(path string) ([]Entry, error) {
	raw, err := sanitize.ReadDocument(path)
	if err != nil {
		return nil, err
	}

	var doc struct {
		Entries []Entry `json:"entries"`
	}
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse knowledge base: %w", err)
	}
	if len(doc.Entries) == 0 {
		return nil, errors.New("knowledge base document has no entries")
	}
	return doc.Entries, nil
}

func DefaultEntries() []Entry {
	return []Entry{
		{
			ID:       "hours",
			Question: "What are the library opening hours?",
			Answer:   "The library is open 8:00 AM to 10:00 PM on weekdays and 10:00 AM to 8:00 PM on weekends.",
			Source:   "Library Handbook",
			Topic:    "library hours",
		},
		{
			ID:       "loan-period",
			Question: "How long can I borrow a book?",
			Answer:   "Undergraduates may borrow books for 14 days. Postgraduates and staff may borrow for 28 days.",
			Source:   "Circulation Policy",
			FollowUp: "You can renew a loan twice if nobody has reserved the book.",
			Topic:    "borrowing policy",
		},
		{
			ID:       "fines",
			Question: "What are the fines for overdue books?",
			Answer:   "Overdue books are charged a daily fine until they are returned. Reference items carry a higher rate.",
			Source:   "Circulation Policy",
			Topic:    "overdue fines",
		},
		{
			ID:       "renewal",
			Question: "How do I renew a borrowed book?",
			Answer:   "Renew online from your library account or at the circulation desk before the due date.",
			Topic:    "renewals",
		},
		{
			ID:       "study-rooms",
			Question: "How do I book a group study room?",
			Answer:   "Group study rooms can be booked at the information desk for up to two hours per day.",
			Topic:    "study rooms",
		},
		{
			ID:       "printing",
			Question: "Where can I print or scan documents?",
			Answer:   "Printers and scanners are on the ground floor next to the digital lab.",
			Topic:    "printing and scanning",
		},
		{
			ID:       "databases",
			Question: "How do I access journal databases from off campus?",
			Answer:   "Sign in through the library portal with your university account to reach subscribed databases.",
			Source:   "E-Resources Guide",
			Topic:    "research databases",
		},
		{
			ID:       "contact",
			Question: "How can I contact the library help desk?",
			Answer:   "Email the help desk or call the circulation desk during opening hours.",
			Topic:    "contact information",
		},
	}
}
