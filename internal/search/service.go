package search

import (
	"context"
	"fmt"
	"log"
	"strings"

	"ai-assistant-server/internal/models"
)

// Sentinel answers returned instead of errors; the caller always gets text.
const (
	EmptyQueryAnswer = "Please enter a query."
	NotFoundAnswer   = "Sorry, no relevant information found for your query. " +
		"Try being more specific or check the spelling of the setting name."
)

const llmPrompt = "You are an expert PostgreSQL assistant. " +
	"Whenever a user asks about a PostgreSQL setting, explain its purpose, usage, " +
	"default and recommended values, and its effect on performance or security. " +
	"Provide a rich, concise answer citing best practices whenever possible.\n\n%s"

// Chatter answers a free-text prompt via the language model.
type Chatter interface {
	Chat(ctx context.Context, prompt string) (string, error)
}

// Embedder turns text into a fixed-dimension vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Source provides the settings knowledge base for the fallback ranker.
type Source interface {
	ListSettings(ctx context.Context) ([]models.SettingMetadata, error)
	GetInsight(ctx context.Context, name string) (*models.Insight, error)
	NearestInsightSetting(ctx context.Context, embedding []float32) (string, error)
}

// Service answers settings questions: LLM first, hybrid local ranking as the
// fallback. Upstream failures are never surfaced to the caller.
type Service struct {
	llm      Chatter
	embedder Embedder
	source   Source
	ranker   *Ranker
}

// NewService creates a search Service.
func NewService(llm Chatter, embedder Embedder, source Source) *Service {
	return &Service{llm: llm, embedder: embedder, source: source, ranker: NewRanker()}
}

// Answer produces the best available natural-language answer for the query.
func (s *Service) Answer(ctx context.Context, query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return EmptyQueryAnswer
	}

	// LLM first; any failure or empty reply degrades to the local ranker.
	if s.llm != nil {
		answer, err := s.llm.Chat(ctx, fmt.Sprintf(llmPrompt, query))
		if err == nil && answer != "" {
			return answer
		}
		if err != nil {
			log.Printf("LLM answer unavailable, falling back to local search: %v", err)
		}
	}

	return s.localAnswer(ctx, query)
}

func (s *Service) localAnswer(ctx context.Context, query string) string {
	settings, err := s.source.ListSettings(ctx)
	if err != nil || len(settings) == 0 {
		if err != nil {
			log.Printf("failed to load settings metadata: %v", err)
		}
		return NotFoundAnswer
	}

	var queryEmbedding []float32
	if s.embedder != nil {
		if emb, err := s.embedder.Embed(ctx, query); err == nil {
			queryEmbedding = emb
		} else {
			log.Printf("query embedding unavailable: %v", err)
		}
	}

	// Recommendation-style questions are best answered from the insight
	// embeddings, mirroring the insight_embeddings nearest-neighbour lookup.
	if queryEmbedding != nil && isRecommendationQuery(query) {
		if name, err := s.source.NearestInsightSetting(ctx, queryEmbedding); err == nil && name != "" {
			if setting := findSetting(settings, name); setting != nil {
				return s.formatAnswer(ctx, query, setting)
			}
		}
	}

	candidates := make([]Candidate, 0, len(settings))
	for _, setting := range settings {
		candidates = append(candidates, Candidate{
			Name:      setting.Name,
			Text:      setting.ShortDesc,
			Embedding: setting.Embedding.Slice(),
		})
	}

	best, ok := s.ranker.Best(query, queryEmbedding, candidates)
	if !ok {
		return NotFoundAnswer
	}
	setting := findSetting(settings, best.Name)
	if setting == nil {
		return NotFoundAnswer
	}
	return s.formatAnswer(ctx, query, setting)
}

func (s *Service) formatAnswer(ctx context.Context, query string, setting *models.SettingMetadata) string {
	if answer := aspectAnswer(query, setting); answer != "" {
		return answer
	}

	insightText := "No AI insight available."
	if insight, err := s.source.GetInsight(ctx, setting.Name); err == nil && insight != nil && insight.AIInsights != "" {
		insightText = insight.AIInsights
	}

	return fmt.Sprintf(
		"%s details:\nCurrent Value: %s\nDefault Value: %s\nType: %s\nRange: %s - %s\nContext: %s\nDescription: %s\n\nAI Insight: %s",
		setting.Name,
		orNA(setting.CurrentValue),
		orNA(setting.DefaultValue),
		orNA(setting.Vartype),
		orNA(setting.MinVal),
		orNA(setting.MaxVal),
		orNA(setting.Context),
		orNA(setting.ShortDesc),
		insightText,
	)
}

// aspectAnswer handles queries that ask for one specific attribute of a
// setting instead of a general explanation.
func aspectAnswer(query string, setting *models.SettingMetadata) string {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "range"):
		return fmt.Sprintf("Range of values allowed for %s: %s - %s", setting.Name, orNA(setting.MinVal), orNA(setting.MaxVal))
	case strings.Contains(q, "default"):
		return fmt.Sprintf("%s (default value): %s", setting.Name, orNA(setting.DefaultValue))
	case strings.Contains(q, "current"):
		return fmt.Sprintf("%s (current value): %s", setting.Name, orNA(setting.CurrentValue))
	case strings.Contains(q, "minimum") || strings.Contains(q, "min value") || strings.Contains(q, "min_val"):
		return fmt.Sprintf("%s (min value): %s", setting.Name, orNA(setting.MinVal))
	case strings.Contains(q, "maximum") || strings.Contains(q, "max value") || strings.Contains(q, "max_val"):
		return fmt.Sprintf("%s (max value): %s", setting.Name, orNA(setting.MaxVal))
	case strings.Contains(q, "type"):
		return fmt.Sprintf("%s (type): %s", setting.Name, orNA(setting.Vartype))
	case strings.Contains(q, "context"):
		return fmt.Sprintf("%s (context): %s", setting.Name, orNA(setting.Context))
	}
	return ""
}

func isRecommendationQuery(query string) bool {
	q := strings.ToLower(query)
	for _, kw := range []string{"recommend", "advice", "suggest", "insight", "should"} {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

func findSetting(settings []models.SettingMetadata, name string) *models.SettingMetadata {
	for i := range settings {
		if settings[i].Name == name {
			return &settings[i]
		}
	}
	return nil
}

func orNA(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}
