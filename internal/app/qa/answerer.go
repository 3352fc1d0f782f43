// Package qa answers music questions, preferring catalog lookups over the
// language model. Each turn carries a CallBudget so at most one model call
// can happen regardless of which path handles the question.
package qa

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/stavik/jambot/internal/app/parser"
	"github.com/stavik/jambot/internal/app/resolver"
	"github.com/stavik/jambot/internal/domain/track"
	"github.com/stavik/jambot/internal/infra/catalog"
	"github.com/stavik/jambot/internal/infra/llm"
)

var (
	// ErrNotUnderstood means no recognizer matched and no model is available.
	ErrNotUnderstood = errors.New("question not understood")
	// ErrLLMNotConfigured means the model path was requested but no provider exists.
	ErrLLMNotConfigured = errors.New("no language model configured")
	// ErrLLMUnavailable means the provider failed or timed out.
	ErrLLMUnavailable = errors.New("language model unavailable")
)

// QuestionKind identifies the recognized question shape. It is kept in
// pending state so a disambiguation choice can finish the original question.
type QuestionKind int

const (
	QuestionUnknown QuestionKind = iota
	QuestionTrackAlbum
	QuestionTrackArtist
	QuestionTrackExists
	QuestionTrackInfo
	QuestionArtistTrackCount
	QuestionArtistAlbums
	QuestionArtistTracks
	QuestionSimilarArtists
)

// Answer is the outcome of one question. Candidates being non-empty means
// the question referenced an ambiguous track and the caller must ask the
// user to choose before the answer can be produced.
type Answer struct {
	Text       string
	Kind       QuestionKind
	Candidates []track.Track
}

// trackQuestions map phrasings to track-centric question kinds. The capture
// group holds the track reference.
var trackQuestions = []struct {
	kind QuestionKind
	re   *regexp.Regexp
}{
	{QuestionTrackAlbum, regexp.MustCompile(`(?i)^(?:what|which) album (?:is|has|contains|features) (.+?)(?: on)?[?.!]*$`)},
	{QuestionTrackArtist, regexp.MustCompile(`(?i)^who (?:sings|sang|performs|performed|wrote|made|plays) (.+?)[?.!]*$`)},
	{QuestionTrackArtist, regexp.MustCompile(`(?i)^who is the artist (?:of|behind|on) (.+?)[?.!]*$`)},
	{QuestionTrackExists, regexp.MustCompile(`(?i)^(?:is|do you (?:have|know)) (.+?)(?: in the (?:catalog|database|library))?[?.!]*$`)},
	{QuestionTrackInfo, regexp.MustCompile(`(?i)^tell me about (?:the (?:song|track) )?(.+?)[?.!]*$`)},
	{QuestionTrackInfo, regexp.MustCompile(`(?i)^(?:what|track) info (?:for|about|on) (.+?)[?.!]*$`)},
}

// artistQuestions map phrasings to artist-centric question kinds. The
// capture group holds the artist name.
var artistQuestions = []struct {
	kind QuestionKind
	re   *regexp.Regexp
}{
	{QuestionArtistTrackCount, regexp.MustCompile(`(?i)^how many (?:songs|tracks) (?:does|do|has|have) (.+?) (?:have|made|recorded|released)[?.!]*$`)},
	{QuestionArtistAlbums, regexp.MustCompile(`(?i)^(?:what|which|list) albums (?:does|do|did|has|by) (.+?)(?: have| release[d]?)?[?.!]*$`)},
	{QuestionArtistTracks, regexp.MustCompile(`(?i)^(?:what|which|list) (?:songs|tracks) (?:does|do|did|has|by) (.+?)(?: have)?[?.!]*$`)},
	{QuestionSimilarArtists, regexp.MustCompile(`(?i)^(?:who|what|which artists?) (?:is|are) similar to (.+?)[?.!]*$`)},
	{QuestionSimilarArtists, regexp.MustCompile(`(?i)^(?:find |list )?(?:artists )?similar (?:artists )?to (.+?)[?.!]*$`)},
}

// Answerer resolves music questions against the catalog, deferring to the
// model only when no recognizer applies.
type Answerer struct {
	catalog  catalog.Catalog
	resolver *resolver.Resolver
	provider llm.Provider
	timeout  time.Duration
}

// New creates an answerer. provider may be nil when no model is configured.
func New(cat catalog.Catalog, res *resolver.Resolver, provider llm.Provider, timeout time.Duration) *Answerer {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Answerer{catalog: cat, resolver: res, provider: provider, timeout: timeout}
}

// Answer handles a natural-language question. Recognized shapes are answered
// from the catalog without touching the budget; anything else falls back to
// one budgeted model call.
func (a *Answerer) Answer(ctx context.Context, question string, budget *CallBudget) (Answer, error) {
	question = strings.TrimSpace(question)

	for _, tq := range trackQuestions {
		m := tq.re.FindStringSubmatch(question)
		if m == nil {
			continue
		}
		return a.answerTrackQuestion(ctx, tq.kind, m[1])
	}

	for _, aq := range artistQuestions {
		m := aq.re.FindStringSubmatch(question)
		if m == nil {
			continue
		}
		text, err := a.answerArtistQuestion(ctx, aq.kind, strings.TrimSpace(m[1]))
		if err != nil {
			return Answer{}, err
		}
		return Answer{Text: text, Kind: aq.kind}, nil
	}

	if a.provider == nil {
		return Answer{}, ErrNotUnderstood
	}
	text, err := a.AskModel(ctx, musicPrompt(question), budget)
	if err != nil {
		return Answer{}, err
	}
	return Answer{Text: text}, nil
}

// AskModel sends one prompt to the configured provider, spending the budget.
func (a *Answerer) AskModel(ctx context.Context, prompt string, budget *CallBudget) (string, error) {
	if a.provider == nil {
		return "", ErrLLMNotConfigured
	}
	if err := budget.Spend(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	reply, err := a.provider.Generate(ctx, prompt)
	if err != nil {
		zlog.Warn().Err(err).Str("provider", a.provider.Name()).Msg("model call failed")
		return "", errors.WithSecondaryError(ErrLLMUnavailable, err)
	}
	return strings.TrimSpace(reply), nil
}

func (a *Answerer) answerTrackQuestion(ctx context.Context, kind QuestionKind, refText string) (Answer, error) {
	ref := parser.SplitRef(refText)
	result, err := a.resolver.Resolve(ctx, ref)
	if err != nil {
		return Answer{}, err
	}

	switch result.Kind {
	case track.MatchNotFound:
		if kind == QuestionTrackExists {
			return Answer{Text: fmt.Sprintf("No, I could not find %q in the catalog.", refText), Kind: kind}, nil
		}
		return Answer{}, errors.Wrapf(catalog.ErrNotFound, "track %q", refText)
	case track.MatchAmbiguous:
		return Answer{Kind: kind, Candidates: result.Candidates}, nil
	default:
		return Answer{Text: a.AnswerForTrack(kind, result.Track), Kind: kind}, nil
	}
}

// AnswerForTrack renders the final answer for a track-centric question once
// the track is known, either directly or after disambiguation.
func (a *Answerer) AnswerForTrack(kind QuestionKind, t track.Track) string {
	switch kind {
	case QuestionTrackAlbum:
		if t.Album == "" {
			return fmt.Sprintf("I don't have album information for %s.", t)
		}
		return fmt.Sprintf("%s appears on the album %q.", t, t.Album)
	case QuestionTrackArtist:
		return fmt.Sprintf("%q is performed by %s.", t.Title, t.Artist)
	case QuestionTrackExists:
		return fmt.Sprintf("Yes, %s is in the catalog.", t)
	case QuestionTrackInfo:
		var b strings.Builder
		fmt.Fprintf(&b, "%q by %s", t.Title, t.Artist)
		if t.Album != "" {
			fmt.Fprintf(&b, ", from the album %q", t.Album)
		}
		if t.Genre != "" {
			fmt.Fprintf(&b, ", genre %s", t.Genre)
		}
		b.WriteString(".")
		return b.String()
	default:
		return t.String()
	}
}

func (a *Answerer) answerArtistQuestion(ctx context.Context, kind QuestionKind, artist string) (string, error) {
	switch kind {
	case QuestionArtistTrackCount:
		n, err := a.catalog.CountByArtist(ctx, artist)
		if err != nil {
			return "", err
		}
		if n == 0 {
			return fmt.Sprintf("I found no tracks by %s in the catalog.", artist), nil
		}
		word := "tracks"
		if n == 1 {
			word = "track"
		}
		return fmt.Sprintf("%s has %d %s in the catalog.", artist, n, word), nil
	case QuestionArtistAlbums:
		albums, err := a.catalog.AlbumsByArtist(ctx, artist)
		if err != nil {
			return "", err
		}
		if len(albums) == 0 {
			return fmt.Sprintf("I found no albums by %s in the catalog.", artist), nil
		}
		return fmt.Sprintf("Albums by %s: %s.", artist, strings.Join(albums, ", ")), nil
	case QuestionArtistTracks:
		tracks, err := a.catalog.TracksByArtist(ctx, artist, 10)
		if err != nil {
			return "", err
		}
		if len(tracks) == 0 {
			return fmt.Sprintf("I found no tracks by %s in the catalog.", artist), nil
		}
		titles := make([]string, len(tracks))
		for i, t := range tracks {
			titles[i] = t.Title
		}
		return fmt.Sprintf("Tracks by %s: %s.", artist, strings.Join(titles, ", ")), nil
	case QuestionSimilarArtists:
		similar, err := a.catalog.SimilarArtists(ctx, artist, 5)
		if err != nil {
			return "", err
		}
		if len(similar) == 0 {
			return fmt.Sprintf("I could not find artists similar to %s in the catalog.", artist), nil
		}
		return fmt.Sprintf("Artists similar to %s: %s.", artist, strings.Join(similar, ", ")), nil
	default:
		return "", ErrNotUnderstood
	}
}

// musicPrompt frames a free-form question so the model stays on topic and
// keeps replies short enough for a chat turn.
func musicPrompt(question string) string {
	return "You are a music assistant. Answer the following question about music briefly, in at most three sentences.\n\nQuestion: " + question
}
