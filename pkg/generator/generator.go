package generator

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ohmatt160/library-AI-chatbot/internal/entity"
	"github.com/ohmatt160/library-AI-chatbot/pkg/nlp"
	"github.com/ohmatt160/library-AI-chatbot/pkg/sanitize"
)

var (
	ErrNoCandidate    = errors.New("generator: no candidate")
	ErrMissingPayload = errors.New("generator: candidate has no payload for strategy")
)

const defaultNLPTemplate = "I can help you with that. Based on your query about {topic}..."

var (
	placeholderRe = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)
	spacesRe      = regexp.MustCompile(`[ \t]+`)
)

var clarificationTemplates = []string{
	"Could you provide more details about what you're looking for?",
	"I'm not sure I understand. Could you rephrase your question?",
	"Are you looking for a specific book, library policy, or research help?",
}

type Generator struct {
	log       *logrus.Logger
	templates Templates
	now       func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

type Option func(*Generator)

func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) { g.rng = rng }
}

func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

func New(templates Templates, log *logrus.Logger, opts ...Option) *Generator {
	if templates == nil {
		templates = DefaultTemplates()
	}
	g := &Generator{
		log:       log,
		templates: templates,
		now:       time.Now,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) Templates() Templates { return g.templates }

// Generate renders candidate with strategy. The returned text is always
// sanitized.
func (g *Generator) Generate(c *entity.ResponseCandidate, conv *entity.ConversationContext, strategy entity.Strategy) (string, error) {
	if c == nil {
		return "", ErrNoCandidate
	}

	var (
		out string
		err error
	)
	switch strategy {
	case entity.StrategyRuleBased:
		out, err = g.fromRule(c.Rule, conv)
	case entity.StrategyNLPBased:
		out, err = g.fromNLP(c.NLP)
	case entity.StrategyKnowledgeBase:
		out, err = g.fromKnowledge(c.Knowledge)
	default:
		out = g.clarification(c.Clarification)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", strategy, err)
	}

	return sanitize.Clean(out), nil
}

func (g *Generator) fromRule(r *entity.RuleMatch, conv *entity.ConversationContext) (string, error) {
	if r == nil {
		return "", ErrMissingPayload
	}

	// one pass: substituted values are never rescanned, unresolved
	// placeholders are dropped
	out := placeholderRe.ReplaceAllStringFunc(r.Template, func(m string) string {
		return r.Variables[m[1:len(m)-1]]
	})
	out = collapseSpaces(out)

	if name := conv.UserName(); name != "" {
		out = "Hi " + name + ", " + out
	}
	return out, nil
}

func (g *Generator) fromNLP(res *nlp.Result) (string, error) {
	if res == nil {
		return "", ErrMissingPayload
	}

	template := g.templates.Get(string(res.Intent), PartMain)
	if template == "" {
		template = defaultNLPTemplate
	}

	vars := map[string]string{
		"topic":               strings.ReplaceAll(string(res.Intent), "_", " "),
		nlp.EntityCurrentTime: g.now().Format("15:04"),
	}
	// first entity of a type wins; injected system values always apply
	for _, e := range res.Entities {
		if _, seen := vars[e.Type]; seen && e.Source != nlp.EntitySourceSystem {
			continue
		}
		vars[e.Type] = e.Value
	}

	out := SafeFormat(template, vars)
	if follow := g.templates.Get(string(res.Intent), PartFollowUp); follow != "" {
		out += " " + follow
	}
	return out, nil
}

func (g *Generator) fromKnowledge(kb *entity.KnowledgeAnswer) (string, error) {
	if kb == nil {
		return "", ErrMissingPayload
	}

	switch {
	case kb.Answer != "" && kb.Confidence > 0.7:
		out := kb.Answer
		if kb.Source != "" {
			out += "\n\n_This information comes from: " + kb.Source + "_"
		}
		if kb.FollowUp != "" {
			out += "\n\n" + kb.FollowUp
		}
		return out, nil
	case kb.Answer != "" && kb.Confidence > 0.5:
		return "Based on available information: " + kb.Answer +
			"\n\n_I'm not entirely certain about this. You may want to verify with library staff._", nil
	case len(kb.RelatedTopics) > 0:
		topics := kb.RelatedTopics
		if len(topics) > 3 {
			topics = topics[:3]
		}
		return "I couldn't find a specific answer to your question.\n\n**Related topics you might find helpful:** " +
			strings.Join(topics, ", ") + "\n\nWould you like me to search for any of these instead?", nil
	default:
		return "I don't have specific information about that in my knowledge base. You might want to:\n" +
			"1. Contact the library help desk\n2. Check the library website\n3. Visit the information desk in person", nil
	}
}

func (g *Generator) clarification(req *entity.ClarificationRequest) string {
	if req != nil && len(req.UnclearEntities) > 0 {
		unclear := req.UnclearEntities
		if len(unclear) > 3 {
			unclear = unclear[:3]
		}
		return "I want to help you better. Could you clarify what you mean by " + strings.Join(unclear, ", ") + "?"
	}

	g.mu.Lock()
	i := g.rng.Intn(len(clarificationTemplates))
	g.mu.Unlock()
	return clarificationTemplates[i]
}

// SafeFormat replaces {key} with vars[key]. Placeholders without a value
// are kept verbatim.
func SafeFormat(template string, vars map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(template, func(m string) string {
		if v, ok := vars[m[1:len(m)-1]]; ok {
			return v
		}
		return m
	})
}

// ClarificationTemplates returns the generic rephrase prompts.
func ClarificationTemplates() []string {
	return append([]string(nil), clarificationTemplates...)
}

func collapseSpaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(spacesRe.ReplaceAllString(l, " "))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
