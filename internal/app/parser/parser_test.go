package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stavik/jambot/internal/domain/track"
)

func TestParseCommands(t *testing.T) {
	tests := []struct {
		name      string
		utterance string
		want      Action
	}{
		{
			name:      "add with artist dash title",
			utterance: "/add Queen - Bohemian Rhapsody",
			want:      Action{Kind: KindAdd, Ref: track.Ref{Title: "Bohemian Rhapsody", Artist: "Queen"}},
		},
		{
			name:      "add with colon",
			utterance: "/add Queen: Bohemian Rhapsody",
			want:      Action{Kind: KindAdd, Ref: track.Ref{Title: "Bohemian Rhapsody", Artist: "Queen"}},
		},
		{
			name:      "add with by",
			utterance: "/add Bohemian Rhapsody by Queen",
			want:      Action{Kind: KindAdd, Ref: track.Ref{Title: "Bohemian Rhapsody", Artist: "Queen"}},
		},
		{
			name:      "add bare title",
			utterance: "/add Bohemian Rhapsody",
			want:      Action{Kind: KindAdd, Ref: track.Ref{Title: "Bohemian Rhapsody"}},
		},
		{
			name:      "add without argument is unknown",
			utterance: "/add",
			want:      Action{Kind: KindUnknown, Raw: "/add"},
		},
		{
			name:      "remove by position",
			utterance: "/remove 2",
			want:      Action{Kind: KindRemove, Raw: "2"},
		},
		{
			name:      "remove by uri",
			utterance: "/remove spotify:track:abc",
			want:      Action{Kind: KindRemove, Raw: "spotify:track:abc"},
		},
		{
			name:      "view",
			utterance: "/view",
			want:      Action{Kind: KindView},
		},
		{
			name:      "clear",
			utterance: "/clear",
			want:      Action{Kind: KindClear},
		},
		{
			name:      "create",
			utterance: "/create road trip",
			want:      Action{Kind: KindCreate, Raw: "road trip"},
		},
		{
			name:      "switch",
			utterance: "/switch default",
			want:      Action{Kind: KindSwitch, Raw: "default"},
		},
		{
			name:      "list",
			utterance: "/list",
			want:      Action{Kind: KindList},
		},
		{
			name:      "play without index",
			utterance: "/play",
			want:      Action{Kind: KindPlay},
		},
		{
			name:      "play with index",
			utterance: "/play 3",
			want:      Action{Kind: KindPlay, Index: 3, HasIndex: true},
		},
		{
			name:      "play with garbage index",
			utterance: "/play three",
			want:      Action{Kind: KindUnknown, Raw: "/play three"},
		},
		{
			name:      "play casing is ignored",
			utterance: "/Play 2",
			want:      Action{Kind: KindPlay, Index: 2, HasIndex: true},
		},
		{
			name:      "preview",
			utterance: "/preview Thriller by Michael Jackson",
			want:      Action{Kind: KindPreview, Ref: track.Ref{Title: "Thriller", Artist: "Michael Jackson"}},
		},
		{
			name:      "stats",
			utterance: "/stats",
			want:      Action{Kind: KindStats},
		},
		{
			name:      "ask",
			utterance: "/ask who sings Thriller",
			want:      Action{Kind: KindAsk, Raw: "who sings Thriller"},
		},
		{
			name:      "ask_llm",
			utterance: "/ask_llm recommend something upbeat",
			want:      Action{Kind: KindAskLLM, Raw: "recommend something upbeat"},
		},
		{
			name:      "help",
			utterance: "/help",
			want:      Action{Kind: KindHelp},
		},
		{
			name:      "options is an alias for help",
			utterance: "/options",
			want:      Action{Kind: KindHelp},
		},
		{
			name:      "info",
			utterance: "/info",
			want:      Action{Kind: KindInfo},
		},
		{
			name:      "quit",
			utterance: "/quit",
			want:      Action{Kind: KindQuit},
		},
		{
			name:      "command casing is ignored",
			utterance: "/ADD Queen - Bohemian Rhapsody",
			want:      Action{Kind: KindAdd, Ref: track.Ref{Title: "Bohemian Rhapsody", Artist: "Queen"}},
		},
		{
			name:      "unknown command",
			utterance: "/frobnicate",
			want:      Action{Kind: KindUnknown, Raw: "/frobnicate"},
		},
		{
			name:      "empty input",
			utterance: "   ",
			want:      Action{Kind: KindUnknown, Raw: "   "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.utterance))
		})
	}
}

func TestParseBareUtterances(t *testing.T) {
	tests := []struct {
		name      string
		utterance string
		want      Action
	}{
		{
			name:      "bare track is an add",
			utterance: "Bohemian Rhapsody by Queen",
			want:      Action{Kind: KindAdd, Ref: track.Ref{Title: "Bohemian Rhapsody", Artist: "Queen"}},
		},
		{
			name:      "question mark makes a question",
			utterance: "queen has how many songs?",
			want:      Action{Kind: KindAsk, Raw: "queen has how many songs?"},
		},
		{
			name:      "leading question word makes a question",
			utterance: "who sings Bohemian Rhapsody",
			want:      Action{Kind: KindAsk, Raw: "who sings Bohemian Rhapsody"},
		},
		{
			name:      "bare artist name is an add attempt",
			utterance: "queen",
			want:      Action{Kind: KindAdd, Ref: track.Ref{Title: "queen"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.utterance))
		})
	}
}

func TestSplitRef(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  track.Ref
	}{
		{"dash", "Queen - Bohemian Rhapsody", track.Ref{Title: "Bohemian Rhapsody", Artist: "Queen"}},
		{"colon", "Queen: Bohemian Rhapsody", track.Ref{Title: "Bohemian Rhapsody", Artist: "Queen"}},
		{"by", "Bohemian Rhapsody by Queen", track.Ref{Title: "Bohemian Rhapsody", Artist: "Queen"}},
		{"rightmost by wins", "Stand by Me by Ben E. King", track.Ref{Title: "Stand by Me", Artist: "Ben E. King"}},
		{"by is case insensitive", "Thriller BY Michael Jackson", track.Ref{Title: "Thriller", Artist: "Michael Jackson"}},
		{"bare title", "Bohemian Rhapsody", track.Ref{Title: "Bohemian Rhapsody"}},
		{"spotify uri", "spotify:track:abc123", track.Ref{URI: "spotify:track:abc123"}},
		{"uri-like text with spaces is not a uri", "spotify:track:abc 123", track.Ref{Title: "track:abc 123", Artist: "spotify"}},
		{"title with hyphen but no spaced dash", "Blitzkrieg-Bop", track.Ref{Title: "Blitzkrieg-Bop"}},
		{"whitespace trimmed", "  Queen -  Bohemian Rhapsody  ", track.Ref{Title: "Bohemian Rhapsody", Artist: "Queen"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitRef(tt.query))
		})
	}
}
