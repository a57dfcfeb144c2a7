package nlp

import "regexp"

type domainPattern struct {
	entityType string
	re         *regexp.Regexp
	wholeMatch bool
}

// PatternExtractor finds library-domain entities with fixed regular
// expressions anchored on word boundaries. It needs no model and always runs.
type PatternExtractor struct {
	patterns []domainPattern
}

func NewPatternExtractor() *PatternExtractor {
	return &PatternExtractor{
		patterns: []domainPattern{
			{entityType: "book_title", re: regexp.MustCompile(`(?i)\bbook (?:called|titled|named) ["'](.+?)["']`)},
			{entityType: "author", re: regexp.MustCompile(`(?i)\bby (\w+(?:\s+\w+)*)`)},
			{entityType: "isbn", re: regexp.MustCompile(`(?i)\bisbn[:\s]*(\d{13}|\d{10})\b`)},
			{entityType: "genre", re: regexp.MustCompile(`(?i)\b(non-fiction|science fiction|fiction|fantasy|mystery|biography|textbook)s?\b`)},
			{entityType: "library_section", re: regexp.MustCompile(`(?i)\b(reference|circulation|periodicals|archives|digital lab)\b`)},
			{entityType: "service", re: regexp.MustCompile(`(?i)\b(interlibrary loan|borrow|return|renew|reserve)\b`)},
			{entityType: "duration", re: regexp.MustCompile(`(?i)\b(\d+)\s+(day|week|month)s?\b`), wholeMatch: true},
			{entityType: "time", re: regexp.MustCompile(`(?i)\b(\d{1,2}(?::\d{2})?\s*(?:am|pm))\b`)},
		},
	}
}

// Extract returns every match of every pattern, in pattern order.
func (p *PatternExtractor) Extract(text string) []Entity {
	var entities []Entity
	for _, dp := range p.patterns {
		for _, loc := range dp.re.FindAllStringSubmatchIndex(text, -1) {
			value := text[loc[0]:loc[1]]
			if !dp.wholeMatch && len(loc) >= 4 && loc[2] >= 0 {
				value = text[loc[2]:loc[3]]
			}
			entities = append(entities, Entity{
				Type:   dp.entityType,
				Value:  value,
				Span:   Span{Start: loc[0], End: loc[1]},
				Source: EntitySourcePattern,
			})
		}
	}
	return entities
}
