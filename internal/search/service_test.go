package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-assistant-server/internal/models"
)

type fakeChatter struct {
	reply string
	err   error
	calls int
}

func (f *fakeChatter) Chat(ctx context.Context, prompt string) (string, error) {
	f.calls++
	return f.reply, f.err
}

type fakeEmbedder struct {
	vector []float32
	err    error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return f.vector, f.err
}

type fakeSource struct {
	settings []models.SettingMetadata
	insights map[string]string
	nearest  string
}

func (f *fakeSource) ListSettings(ctx context.Context) ([]models.SettingMetadata, error) {
	return f.settings, nil
}

func (f *fakeSource) GetInsight(ctx context.Context, name string) (*models.Insight, error) {
	text, ok := f.insights[name]
	if !ok {
		return nil, errors.New("record not found")
	}
	return &models.Insight{SettingsName: name, AIInsights: text}, nil
}

func (f *fakeSource) NearestInsightSetting(ctx context.Context, embedding []float32) (string, error) {
	if f.nearest == "" {
		return "", errors.New("no insight embeddings")
	}
	return f.nearest, nil
}

func knowledgeBase() *fakeSource {
	return &fakeSource{
		settings: []models.SettingMetadata{
			{
				Name:         "max_connections",
				CurrentValue: "100",
				DefaultValue: "100",
				ShortDesc:    "Sets the maximum number of concurrent connections.",
				Context:      "postmaster",
				Vartype:      "integer",
				MinVal:       "1",
				MaxVal:       "262143",
			},
			{
				Name:      "work_mem",
				ShortDesc: "Sets the maximum memory to be used for query workspaces.",
			},
		},
		insights: map[string]string{
			"max_connections": "Raise cautiously; each connection consumes memory.",
		},
	}
}

func TestAnswerLLMFirstShortCircuits(t *testing.T) {
	chatter := &fakeChatter{reply: "max_connections caps concurrent sessions."}
	svc := NewService(chatter, &fakeEmbedder{}, knowledgeBase())

	answer := svc.Answer(context.Background(), "what is max_connections?")
	assert.Equal(t, "max_connections caps concurrent sessions.", answer)
	assert.Equal(t, 1, chatter.calls)
}

func TestAnswerFallsBackWhenLLMFails(t *testing.T) {
	chatter := &fakeChatter{err: errors.New("upstream timeout")}
	embedder := &fakeEmbedder{err: errors.New("embedding service down")}
	svc := NewService(chatter, embedder, knowledgeBase())

	answer := svc.Answer(context.Background(), "max_connections")
	require.NotEqual(t, NotFoundAnswer, answer)
	// The fallback answer carries the stored short_desc verbatim.
	assert.Contains(t, answer, "Sets the maximum number of concurrent connections.")
	assert.Contains(t, answer, "max_connections")
	assert.Contains(t, answer, "Raise cautiously; each connection consumes memory.")
}

func TestAnswerEmptyLLMReplyFallsBack(t *testing.T) {
	chatter := &fakeChatter{reply: ""}
	svc := NewService(chatter, &fakeEmbedder{}, knowledgeBase())

	answer := svc.Answer(context.Background(), "max_connections")
	assert.Contains(t, answer, "Sets the maximum number of concurrent connections.")
}

func TestAnswerEmptyQuery(t *testing.T) {
	svc := NewService(&fakeChatter{}, &fakeEmbedder{}, knowledgeBase())
	assert.Equal(t, EmptyQueryAnswer, svc.Answer(context.Background(), "   "))
}

func TestAnswerNoRelevantMatch(t *testing.T) {
	chatter := &fakeChatter{err: errors.New("upstream down")}
	svc := NewService(chatter, &fakeEmbedder{}, knowledgeBase())

	answer := svc.Answer(context.Background(), "qwzx plumbing manifold")
	assert.Equal(t, NotFoundAnswer, answer)
}

func TestAnswerAspectRange(t *testing.T) {
	chatter := &fakeChatter{err: errors.New("upstream down")}
	svc := NewService(chatter, &fakeEmbedder{}, knowledgeBase())

	answer := svc.Answer(context.Background(), "range of max_connections")
	assert.Equal(t, "Range of values allowed for max_connections: 1 - 262143", answer)
}

func TestAnswerAspectDefault(t *testing.T) {
	chatter := &fakeChatter{err: errors.New("upstream down")}
	svc := NewService(chatter, &fakeEmbedder{}, knowledgeBase())

	answer := svc.Answer(context.Background(), "default value of max_connections")
	assert.Equal(t, "max_connections (default value): 100", answer)
}

func TestAnswerRecommendationUsesInsightEmbeddings(t *testing.T) {
	chatter := &fakeChatter{err: errors.New("upstream down")}
	embedder := &fakeEmbedder{vector: []float32{0.1, 0.2}}
	source := knowledgeBase()
	source.nearest = "max_connections"
	svc := NewService(chatter, embedder, source)

	answer := svc.Answer(context.Background(), "should I tune connection limits?")
	assert.Contains(t, answer, "max_connections")
	assert.Contains(t, answer, "Raise cautiously; each connection consumes memory.")
}
