package nlp

import (
	"strings"

	"github.com/tsawler/prose/v3"
)

// ProseModel is the generic NER and tokenization backend.
type ProseModel struct{}

func NewProseModel() *ProseModel {
	return &ProseModel{}
}

func (m *ProseModel) Analyze(text string) (*Analysis, error) {
	doc, err := prose.NewDocument(text)
	if err != nil {
		return nil, err
	}

	analysis := &Analysis{}
	for _, tok := range doc.Tokens() {
		analysis.Tokens = append(analysis.Tokens, Token{Text: tok.Text, Tag: tok.Tag})
	}
	for _, ent := range doc.Entities() {
		analysis.Entities = append(analysis.Entities, Entity{
			Type:   strings.ToLower(ent.Label),
			Value:  ent.Text,
			Span:   Span{Start: ent.Start, End: ent.End},
			Source: EntitySourceLinguistic,
		})
	}
	return analysis, nil
}
