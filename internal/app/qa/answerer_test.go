package qa

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stavik/jambot/internal/app/resolver"
	"github.com/stavik/jambot/internal/domain/track"
	"github.com/stavik/jambot/internal/infra/catalog"
)

// fakeProvider counts calls and returns a canned reply.
type fakeProvider struct {
	calls int
	reply string
	delay time.Duration
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Generate(ctx context.Context, _ string) (string, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.reply, nil
}

func testCatalog() *catalog.Memory {
	return catalog.NewMemory([]track.Track{
		{URI: "t:1", Artist: "Queen", Title: "Bohemian Rhapsody", Album: "A Night at the Opera", Genre: "rock"},
		{URI: "t:2", Artist: "Queen", Title: "Somebody to Love", Album: "A Day at the Races", Genre: "rock"},
		{URI: "t:3", Artist: "Queen", Title: "Don't Stop Me Now", Album: "Jazz", Genre: "rock"},
		{URI: "t:4", Artist: "Toto", Title: "Africa", Album: "Toto IV", Genre: "pop rock"},
		{URI: "t:5", Artist: "Panic! At The Disco", Title: "Bohemian Rhapsody", Album: "Suicide Squad", Genre: "pop"},
	})
}

func newTestAnswerer(provider *fakeProvider) *Answerer {
	cat := testCatalog()
	res := resolver.New(cat, 10)
	if provider == nil {
		return New(cat, res, nil, time.Second)
	}
	return New(cat, res, provider, time.Second)
}

func TestAnswerCatalogQuestionsSkipTheModel(t *testing.T) {
	provider := &fakeProvider{reply: "should not be used"}
	a := newTestAnswerer(provider)

	tests := []struct {
		name     string
		question string
		contains string
	}{
		{"album of track", "what album is Africa by Toto?", "Toto IV"},
		{"who sings", "who sings Africa?", "Toto"},
		{"track exists", "is Africa by Toto in the catalog?", "Yes"},
		{"track missing", "is Free Bird in the catalog?", "could not find"},
		{"track info", "tell me about Africa by Toto", "pop rock"},
		{"artist track count", "how many songs does Queen have?", "3 tracks"},
		{"artist albums", "what albums does Queen have?", "Jazz"},
		{"artist tracks", "what songs does Queen have?", "Somebody to Love"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			budget := NewCallBudget()
			answer, err := a.Answer(context.Background(), tt.question, budget)
			require.NoError(t, err)
			assert.Contains(t, answer.Text, tt.contains)
			assert.Equal(t, 1, budget.Remaining(), "catalog answers must not spend the budget")
		})
	}
	assert.Zero(t, provider.calls)
}

func TestAnswerAmbiguousTrackReturnsCandidates(t *testing.T) {
	a := newTestAnswerer(nil)

	answer, err := a.Answer(context.Background(), "who sings Bohemian Rhapsody?", NewCallBudget())
	require.NoError(t, err)
	assert.Empty(t, answer.Text)
	assert.Equal(t, QuestionTrackArtist, answer.Kind)
	require.Len(t, answer.Candidates, 2)

	// The follow-up selection produces the final answer.
	text := a.AnswerForTrack(answer.Kind, answer.Candidates[1])
	assert.Contains(t, text, "Queen")
}

func TestAnswerUnrecognizedFallsBackToModel(t *testing.T) {
	provider := &fakeProvider{reply: "Disco is a dance music genre from the 1970s."}
	a := newTestAnswerer(provider)

	budget := NewCallBudget()
	answer, err := a.Answer(context.Background(), "why did disco decline", budget)
	require.NoError(t, err)
	assert.Equal(t, provider.reply, answer.Text)
	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, 0, budget.Remaining())
}

func TestAnswerUnrecognizedWithoutModel(t *testing.T) {
	a := newTestAnswerer(nil)

	_, err := a.Answer(context.Background(), "why did disco decline", NewCallBudget())
	assert.ErrorIs(t, err, ErrNotUnderstood)
}

func TestAskModelSpendsTheBudget(t *testing.T) {
	provider := &fakeProvider{reply: "ok"}
	a := newTestAnswerer(provider)

	budget := NewCallBudget()
	_, err := a.AskModel(context.Background(), "first", budget)
	require.NoError(t, err)

	_, err = a.AskModel(context.Background(), "second", budget)
	assert.ErrorIs(t, err, ErrBudgetExhausted)
	assert.Equal(t, 1, provider.calls)
}

func TestAskModelWithoutProvider(t *testing.T) {
	a := newTestAnswerer(nil)

	_, err := a.AskModel(context.Background(), "anything", NewCallBudget())
	assert.ErrorIs(t, err, ErrLLMNotConfigured)
}

func TestAskModelTimeout(t *testing.T) {
	provider := &fakeProvider{reply: "too late", delay: 200 * time.Millisecond}
	cat := testCatalog()
	a := New(cat, resolver.New(cat, 10), provider, 20*time.Millisecond)

	_, err := a.AskModel(context.Background(), "slow", NewCallBudget())
	assert.ErrorIs(t, err, ErrLLMUnavailable)
}
