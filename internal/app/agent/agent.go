// Package agent dispatches parsed actions and builds conversational replies.
package agent

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/stavik/jambot/internal/app/parser"
	"github.com/stavik/jambot/internal/app/qa"
	"github.com/stavik/jambot/internal/app/resolver"
	"github.com/stavik/jambot/internal/app/store"
	"github.com/stavik/jambot/internal/domain/track"
	"github.com/stavik/jambot/internal/infra/catalog"
	"github.com/stavik/jambot/internal/infra/config"
	"github.com/stavik/jambot/internal/infra/spotify"
)

const helpText = `Here's what I can do:
  /add <track>        add a track (artist - title, artist: title, or title by artist)
  /remove <n|uri>     remove a track by position or URI
  /view               show the current playlist
  /clear              empty the current playlist
  /create <name>      create a playlist and switch to it
  /switch <name>      switch to another playlist
  /list               list all playlists
  /play [n]           play a track from the current playlist
  /preview <track>    look up a track on Spotify
  /stats              show playlist statistics
  /ask <question>     ask about tracks or artists
  /ask_llm <prompt>   ask the language model directly
  /info               about this assistant
  /quit               end the conversation
You can also just type a track to add it, or ask a question in plain words.`

// pendingKind says what a stored disambiguation will do once the user picks.
type pendingKind int

const (
	pendingAdd pendingKind = iota
	pendingQA
)

// Pending holds an unanswered disambiguation question. It survives exactly
// until the next utterance: a digit consumes it, anything else discards it.
type Pending struct {
	Kind       pendingKind
	Candidates []track.Track
	Question   qa.QuestionKind
}

// State is everything the agent keeps for one conversation.
type State struct {
	Set     *store.Set
	Pending *Pending
}

// Agent turns utterances into responses. It is stateless across sessions;
// all per-conversation data lives in State.
type Agent struct {
	cfg      *config.Config
	resolver *resolver.Resolver
	answerer *qa.Answerer
	spotify  *spotify.Client // nil when enrichment is not configured
}

// New creates an agent. spotifyClient may be nil.
func New(cfg *config.Config, res *resolver.Resolver, ans *qa.Answerer, spotifyClient *spotify.Client) *Agent {
	return &Agent{
		cfg:      cfg,
		resolver: res,
		answerer: ans,
		spotify:  spotifyClient,
	}
}

// NewState creates a fresh conversation state.
func (a *Agent) NewState() *State {
	return &State{
		Set: store.NewSet(a.cfg.Playlists.DefaultName, a.cfg.Playlists.AllowDuplicates),
	}
}

// Welcome returns the conversation opener.
func (a *Agent) Welcome() Response {
	return textResponse(a.cfg.GetMessage("welcome"))
}

// HandleUtterance processes one user turn. A fresh model call budget is
// created here, so whatever path the turn takes it can issue at most one
// model call.
func (a *Agent) HandleUtterance(ctx context.Context, state *State, utterance string) Response {
	text := strings.TrimSpace(utterance)
	budget := qa.NewCallBudget()

	if n, err := strconv.Atoi(text); err == nil {
		if state.Pending == nil {
			return textResponse(a.cfg.GetMessage("no_pending_choice"))
		}
		return a.handleSelection(state, n)
	}
	// Any non-numeric reply abandons the pending question.
	state.Pending = nil

	act := parser.Parse(text)
	zlog.Debug().Int("kind", int(act.Kind)).Str("utterance", text).Msg("dispatching action")

	switch act.Kind {
	case parser.KindAdd:
		return a.handleAdd(ctx, state, act.Ref)
	case parser.KindRemove:
		return a.handleRemove(state, act.Raw)
	case parser.KindView:
		return a.handleView(state)
	case parser.KindClear:
		state.Set.Clear()
		return a.withSnapshot(state, fmt.Sprintf("Cleared playlist %q.", state.Set.CurrentName()))
	case parser.KindCreate:
		return a.handleCreate(state, act.Raw)
	case parser.KindSwitch:
		return a.handleSwitch(state, act.Raw)
	case parser.KindList:
		return a.handleList(state)
	case parser.KindPlay:
		return a.handlePlay(ctx, state, act)
	case parser.KindPreview:
		return a.handlePreview(ctx, act.Ref)
	case parser.KindStats:
		return a.handleStats(state)
	case parser.KindAsk:
		return a.handleAsk(ctx, state, act.Raw, budget)
	case parser.KindAskLLM:
		return a.handleAskLLM(ctx, act.Raw, budget)
	case parser.KindHelp:
		return textResponse(helpText)
	case parser.KindInfo:
		return a.handleInfo(state)
	case parser.KindQuit:
		return Response{Text: a.cfg.GetMessage("goodbye"), Final: true}
	case parser.KindUnknown:
		return textResponse(a.cfg.GetMessage("unknown_command"))
	default:
		return textResponse(a.cfg.GetMessage("unknown_command"))
	}
}

// handleSelection finishes a pending disambiguation with the user's pick.
func (a *Agent) handleSelection(state *State, n int) Response {
	pending := state.Pending
	if n < 1 || n > len(pending.Candidates) {
		return Response{
			Text:    fmt.Sprintf("Please pick a number between 1 and %d.", len(pending.Candidates)),
			Options: numberedOptions(pending.Candidates),
		}
	}

	chosen := pending.Candidates[n-1]
	state.Pending = nil

	switch pending.Kind {
	case pendingQA:
		return textResponse(a.answerer.AnswerForTrack(pending.Question, chosen))
	default:
		return a.addTrack(state, chosen)
	}
}

func (a *Agent) handleAdd(ctx context.Context, state *State, ref track.Ref) Response {
	result, err := a.resolver.Resolve(ctx, ref)
	if err != nil {
		zlog.Error().Err(err).Msg("catalog lookup failed")
		return textResponse(a.cfg.GetMessage("track_not_found"))
	}

	switch result.Kind {
	case track.MatchNotFound:
		return textResponse(a.cfg.GetMessage("track_not_found"))
	case track.MatchAmbiguous:
		state.Pending = &Pending{Kind: pendingAdd, Candidates: result.Candidates}
		return Response{
			Text:    fmt.Sprintf("I found %d matching tracks. Which one did you mean?", len(result.Candidates)),
			Options: numberedOptions(result.Candidates),
		}
	default:
		return a.addTrack(state, result.Track)
	}
}

func (a *Agent) addTrack(state *State, t track.Track) Response {
	if err := state.Set.Add(t); err != nil {
		if errors.Is(err, store.ErrDuplicateTrack) {
			return textResponse(a.cfg.GetMessage("duplicate_track"))
		}
		zlog.Error().Err(err).Msg("add failed")
		return textResponse(a.cfg.GetMessage("unknown_command"))
	}
	return a.withSnapshot(state, fmt.Sprintf("Added %s to playlist %q.", t, state.Set.CurrentName()))
}

func (a *Agent) handleRemove(state *State, token string) Response {
	removed, err := state.Set.Remove(token)
	switch {
	case err == nil:
		return a.withSnapshot(state, fmt.Sprintf("Removed %s from playlist %q.", removed, state.Set.CurrentName()))
	case errors.Is(err, store.ErrIndexOutOfRange):
		return textResponse(a.cfg.GetMessage("index_out_of_range"))
	case errors.Is(err, store.ErrTrackNotFound):
		return textResponse(a.cfg.GetMessage("track_not_found"))
	default:
		zlog.Error().Err(err).Msg("remove failed")
		return textResponse(a.cfg.GetMessage("unknown_command"))
	}
}

func (a *Agent) handleView(state *State) Response {
	pl := state.Set.Current()
	if len(pl.Tracks) == 0 {
		return a.withSnapshot(state, fmt.Sprintf("Playlist %q is empty.", pl.Name))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Playlist %q (%d tracks):\n", pl.Name, len(pl.Tracks))
	for i, t := range pl.Tracks {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, t)
	}
	return a.withSnapshot(state, strings.TrimRight(b.String(), "\n"))
}

func (a *Agent) handleCreate(state *State, name string) Response {
	if err := state.Set.Create(name); err != nil {
		if errors.Is(err, store.ErrDuplicateName) {
			return textResponse(a.cfg.GetMessage("duplicate_name"))
		}
		zlog.Error().Err(err).Msg("create failed")
		return textResponse(a.cfg.GetMessage("unknown_command"))
	}
	return a.withSnapshot(state, fmt.Sprintf("Created playlist %q and switched to it.", name))
}

func (a *Agent) handleSwitch(state *State, name string) Response {
	if err := state.Set.Switch(name); err != nil {
		return textResponse(a.cfg.GetMessage("playlist_not_found"))
	}
	return a.withSnapshot(state, fmt.Sprintf("Switched to playlist %q.", name))
}

func (a *Agent) handleList(state *State) Response {
	entries := state.Set.List()
	var b strings.Builder
	b.WriteString("Your playlists:\n")
	for _, e := range entries {
		marker := " "
		if e.Current {
			marker = "*"
		}
		fmt.Fprintf(&b, " %s %s (%d tracks)\n", marker, e.Name, e.Tracks)
	}
	snap := state.Set.Serialize()
	return Response{Text: strings.TrimRight(b.String(), "\n"), Set: &snap}
}

func (a *Agent) handlePlay(ctx context.Context, state *State, act parser.Action) Response {
	pl := state.Set.Current()
	if len(pl.Tracks) == 0 {
		return textResponse(fmt.Sprintf("Playlist %q is empty. Add some tracks first.", pl.Name))
	}

	if !act.HasIndex {
		var b strings.Builder
		fmt.Fprintf(&b, "Which track? Use /play <number>:\n")
		for i, t := range pl.Tracks {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, t)
		}
		return textResponse(strings.TrimRight(b.String(), "\n"))
	}

	if act.Index < 1 || act.Index > len(pl.Tracks) {
		return textResponse(a.cfg.GetMessage("index_out_of_range"))
	}
	t := pl.Tracks[act.Index-1]

	if a.spotify == nil {
		return textResponse(fmt.Sprintf("Now playing: %s. (%s)", t, a.cfg.GetMessage("spotify_unavailable")))
	}

	details, err := a.spotify.SearchTrack(ctx, t.Artist, t.Title)
	if err != nil {
		zlog.Warn().Err(err).Msg("spotify lookup failed")
		return textResponse(fmt.Sprintf("Now playing: %s.", t))
	}
	if details == nil {
		return textResponse(fmt.Sprintf("Now playing: %s. I couldn't find it on Spotify.", t))
	}
	return textResponse(fmt.Sprintf("Now playing: %s\n%s", t, details.URL))
}

func (a *Agent) handlePreview(ctx context.Context, ref track.Ref) Response {
	if a.spotify == nil {
		return textResponse(a.cfg.GetMessage("spotify_unavailable"))
	}

	details, err := a.spotify.SearchTrack(ctx, ref.Artist, ref.Title)
	if err != nil {
		zlog.Warn().Err(err).Msg("spotify lookup failed")
		return textResponse(a.cfg.GetMessage("spotify_unavailable"))
	}
	if details == nil {
		return textResponse(a.cfg.GetMessage("track_not_found"))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s – %s", details.Artist, details.Title)
	if details.Album != "" {
		fmt.Fprintf(&b, "\nAlbum: %s", details.Album)
	}
	if details.Duration > 0 {
		fmt.Fprintf(&b, "\nDuration: %s", details.Duration.Round(time.Second))
	}
	fmt.Fprintf(&b, "\n%s", details.URL)
	return textResponse(b.String())
}

func (a *Agent) handleStats(state *State) Response {
	pl := state.Set.Current()
	if len(pl.Tracks) == 0 {
		return textResponse(fmt.Sprintf("Playlist %q is empty, nothing to report.", pl.Name))
	}

	stats := pl.ComputeStats(5)
	var b strings.Builder
	fmt.Fprintf(&b, "Stats for %q:\n", stats.PlaylistName)
	fmt.Fprintf(&b, "  Tracks: %d\n", stats.TotalTracks)
	fmt.Fprintf(&b, "  Unique artists: %d\n", stats.UniqueArtists)
	fmt.Fprintf(&b, "  Unique albums: %d\n", stats.UniqueAlbums)
	if len(stats.TopArtists) > 0 {
		parts := make([]string, len(stats.TopArtists))
		for i, c := range stats.TopArtists {
			parts[i] = fmt.Sprintf("%s (%d)", c.Artist, c.Count)
		}
		fmt.Fprintf(&b, "  Top artists: %s\n", strings.Join(parts, ", "))
	}
	if len(stats.TopGenres) > 0 {
		parts := make([]string, len(stats.TopGenres))
		for i, c := range stats.TopGenres {
			parts[i] = fmt.Sprintf("%s (%d)", c.Genre, c.Count)
		}
		fmt.Fprintf(&b, "  Top genres: %s\n", strings.Join(parts, ", "))
	}
	if stats.HasPopularity {
		fmt.Fprintf(&b, "  Average popularity: %d\n", stats.AvgPopularity)
	}
	return textResponse(strings.TrimRight(b.String(), "\n"))
}

func (a *Agent) handleAsk(ctx context.Context, state *State, question string, budget *qa.CallBudget) Response {
	answer, err := a.answerer.Answer(ctx, question, budget)
	switch {
	case err == nil:
	case errors.Is(err, qa.ErrNotUnderstood), errors.Is(err, qa.ErrLLMNotConfigured):
		return textResponse(a.cfg.GetMessage("question_not_understood"))
	case errors.Is(err, qa.ErrLLMUnavailable):
		return textResponse(a.cfg.GetMessage("llm_unavailable"))
	case errors.Is(err, catalog.ErrNotFound):
		return textResponse(a.cfg.GetMessage("track_not_found"))
	default:
		zlog.Error().Err(err).Msg("question answering failed")
		return textResponse(a.cfg.GetMessage("question_not_understood"))
	}

	if len(answer.Candidates) > 0 {
		state.Pending = &Pending{Kind: pendingQA, Candidates: answer.Candidates, Question: answer.Kind}
		return Response{
			Text:    fmt.Sprintf("I found %d matching tracks. Which one did you mean?", len(answer.Candidates)),
			Options: numberedOptions(answer.Candidates),
		}
	}
	return textResponse(answer.Text)
}

func (a *Agent) handleAskLLM(ctx context.Context, prompt string, budget *qa.CallBudget) Response {
	reply, err := a.answerer.AskModel(ctx, prompt, budget)
	switch {
	case err == nil:
		return textResponse(reply)
	case errors.Is(err, qa.ErrLLMNotConfigured):
		return textResponse(a.cfg.GetMessage("llm_not_configured"))
	default:
		return textResponse(a.cfg.GetMessage("llm_unavailable"))
	}
}

func (a *Agent) handleInfo(state *State) Response {
	var b strings.Builder
	b.WriteString("I'm a playlist assistant backed by a local track catalog.\n")
	fmt.Fprintf(&b, "Current playlist: %q (%d playlists total)\n", state.Set.CurrentName(), len(state.Set.List()))
	if a.spotify != nil {
		b.WriteString("Spotify enrichment: enabled\n")
	} else {
		b.WriteString("Spotify enrichment: disabled\n")
	}
	b.WriteString("Type /help for the command list.")
	return textResponse(b.String())
}

// numberedOptions renders candidates as a numbered choice list.
func numberedOptions(candidates []track.Track) []string {
	options := make([]string, len(candidates))
	for i, t := range candidates {
		options[i] = fmt.Sprintf("%d. %s", i+1, t)
	}
	return options
}
