package rules

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ohmatt160/library-AI-chatbot/internal/entity"
	"github.com/ohmatt160/library-AI-chatbot/pkg/nlp"
)

type compiledRule struct {
	Rule
	re       *regexp.Regexp
	keywords []string
}

// Matcher holds an immutable, priority-sorted rule set.
type Matcher struct {
	log   *logrus.Logger
	rules []compiledRule
	now   func() time.Time
}

type Option func(*Matcher)

func WithClock(now func() time.Time) Option {
	return func(m *Matcher) { m.now = now }
}

func NewMatcher(rules []Rule, log *logrus.Logger, opts ...Option) *Matcher {
	m := &Matcher{log: log, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}

	for _, r := range rules {
		cr := compiledRule{Rule: r}
		for _, kw := range r.Keywords {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
				cr.keywords = append(cr.keywords, kw)
			}
		}
		if r.Pattern != "" {
			re, err := compilePattern(r.Pattern)
			if err != nil {
				log.WithFields(logrus.Fields{
					"rule_id": r.ID,
					"error":   err.Error(),
				}).Warn("[rules] skipping rule pattern")
			}
			cr.re = re
		}
		if cr.re == nil && len(cr.keywords) == 0 {
			continue
		}
		m.rules = append(m.rules, cr)
	}

	sort.SliceStable(m.rules, func(i, j int) bool {
		return m.rules[i].Priority > m.rules[j].Priority
	})
	return m
}

// compilePattern compiles a case-insensitive regex. Patterns that are not
// valid regexes but use "*" are treated as globs.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err == nil {
		return re, nil
	}
	if !strings.Contains(pattern, "*") {
		return nil, err
	}

	parts := strings.Split(pattern, "*")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return regexp.Compile("(?i)" + strings.Join(parts, "(.*?)"))
}

func (m *Matcher) Len() int { return len(m.rules) }

// Match returns the highest-confidence eligible rule, or nil.
func (m *Matcher) Match(text string, result *nlp.Result, conv *entity.ConversationContext) *entity.ResponseCandidate {
	lower := strings.ToLower(text)

	var best *entity.ResponseCandidate
	for i := range m.rules {
		r := &m.rules[i]

		groups, ok := r.matches(text, lower)
		if !ok || !m.eligible(r, conv) {
			continue
		}

		matchedKeywords := r.matchedKeywords(lower)
		conf := confidence(r, result, len(matchedKeywords))
		if best != nil && conf <= best.Confidence {
			continue
		}

		best = &entity.ResponseCandidate{
			Source:     entity.SourceRule,
			Confidence: conf,
			Rule: &entity.RuleMatch{
				RuleID:          r.ID,
				Template:        r.Response,
				Priority:        r.Priority,
				Variables:       variables(r, groups, result, conv),
				Groups:          groups,
				MatchedKeywords: matchedKeywords,
			},
		}
	}
	return best
}

func (r *compiledRule) matches(text, lower string) ([]string, bool) {
	if r.re != nil {
		if sub := r.re.FindStringSubmatch(text); sub != nil {
			return sub[1:], true
		}
	}
	for _, kw := range r.keywords {
		if strings.Contains(lower, kw) {
			return nil, true
		}
	}
	return nil, false
}

func (r *compiledRule) matchedKeywords(lower string) []string {
	var out []string
	for _, kw := range r.keywords {
		if strings.Contains(lower, kw) {
			out = append(out, kw)
		}
	}
	return out
}

func (m *Matcher) eligible(r *compiledRule, conv *entity.ConversationContext) bool {
	for _, c := range r.Conditions {
		switch c.Type {
		case ConditionTimeBased:
			start, end := 0, 24
			if c.StartHour != nil {
				start = *c.StartHour
			}
			if c.EndHour != nil {
				end = *c.EndHour
			}
			if hour := m.now().Hour(); hour < start || hour >= end {
				return false
			}
		// without a conversation there is nothing to check user and
		// history conditions against, so they pass
		case ConditionUserType:
			if conv != nil && conv.UserType != c.RequiredType {
				return false
			}
		case ConditionPrerequisite:
			if conv != nil && !conv.HasIntent(nlp.Intent(c.RequiredIntent)) {
				return false
			}
		}
	}
	return true
}

func confidence(r *compiledRule, result *nlp.Result, keywordHits int) float64 {
	conf := 0.7
	if r.Pattern != "" {
		if len(strings.Fields(r.Pattern)) >= 3 {
			conf += 0.1
		}
		if !strings.Contains(r.Pattern, "*") {
			conf += 0.1
		}
	}
	if result != nil {
		conf += math.Min(float64(len(result.DomainEntities()))*0.05, 0.2)
	}
	conf += math.Min(float64(keywordHits)*0.05, 0.15)

	return math.Max(0, math.Min(conf, 1))
}

// variables collects what a rule template may reference: the rule's own
// values, match groups as match_N, entities as entity_<type>, and the
// user and library names.
func variables(r *compiledRule, groups []string, result *nlp.Result, conv *entity.ConversationContext) map[string]string {
	vars := make(map[string]string, len(r.Variables)+len(groups)+4)
	for k, v := range r.Variables {
		vars[k] = v
	}
	for i, g := range groups {
		if g != "" {
			vars["match_"+strconv.Itoa(i+1)] = g
		}
	}
	if result != nil {
		for _, e := range result.DomainEntities() {
			key := "entity_" + e.Type
			if _, ok := vars[key]; !ok {
				vars[key] = e.Value
			}
		}
	}

	vars["user"] = "there"
	if name := conv.UserName(); name != "" {
		vars["user"] = name
		vars[entity.PreferenceUserName] = name
	}
	if _, ok := vars["library"]; !ok {
		vars["library"] = "the library"
	}
	return vars
}
