package sentiment

import (
	"context"
	"fmt"
	"strings"

	language "cloud.google.com/go/language/apiv2"
	"cloud.google.com/go/language/apiv2/languagepb"
)

// Google analyzes sentiment with the Cloud Natural Language API.
// Credentials are resolved through Application Default Credentials.
type Google struct {
	client   *language.Client
	language string
}

// NewGoogle creates a Cloud Natural Language client.
func NewGoogle(ctx context.Context, cfg *Config) (*Google, error) {
	client, err := language.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create language client: %w", err)
	}
	return &Google{client: client, language: cfg.Language}, nil
}

func (g *Google) Analyze(ctx context.Context, text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	doc := &languagepb.Document{
		Type:   languagepb.Document_PLAIN_TEXT,
		Source: &languagepb.Document_Content{Content: text},
	}
	if g.language != "" {
		doc.LanguageCode = g.language
	}

	resp, err := g.client.AnalyzeSentiment(ctx, &languagepb.AnalyzeSentimentRequest{
		Document:     doc,
		EncodingType: languagepb.EncodingType_UTF8,
	})
	if err != nil {
		return nil, fmt.Errorf("analyze sentiment: %w", err)
	}

	result := &Result{
		Score:     float64(resp.GetDocumentSentiment().GetScore()),
		Magnitude: float64(resp.GetDocumentSentiment().GetMagnitude()),
		Language:  resp.GetLanguageCode(),
		Sentences: make([]Sentence, 0, len(resp.GetSentences())),
	}

	for _, s := range resp.GetSentences() {
		result.Sentences = append(result.Sentences, Sentence{
			Text:      s.GetText().GetContent(),
			Score:     float64(s.GetSentiment().GetScore()),
			Magnitude: float64(s.GetSentiment().GetMagnitude()),
		})
	}

	return result, nil
}

// Close releases the underlying client connection.
func (g *Google) Close() error {
	return g.client.Close()
}
