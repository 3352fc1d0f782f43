// Package parser converts raw user utterances into typed actions.
package parser

import "github.com/stavik/jambot/internal/domain/track"

// Kind identifies the command a user asked for. The dispatcher switches
// over this closed set, so adding a command means adding a variant here and
// a case there.
type Kind int

const (
	KindUnknown Kind = iota
	KindAdd
	KindRemove
	KindView
	KindClear
	KindCreate
	KindSwitch
	KindList
	KindPlay
	KindPreview
	KindStats
	KindAsk
	KindAskLLM
	KindHelp
	KindInfo
	KindQuit
)

// Action is a parsed intent. It is created per utterance and consumed
// immediately, never stored.
//
// Field usage by kind:
//   - KindAdd, KindPreview: Ref
//   - KindRemove: Raw (index or URI token, uninterpreted)
//   - KindCreate, KindSwitch: Raw (playlist name)
//   - KindAsk, KindAskLLM: Raw (question / prompt)
//   - KindPlay: Index when HasIndex, otherwise a bare /play
//   - KindUnknown: Raw (the whole utterance)
type Action struct {
	Kind     Kind
	Ref      track.Ref
	Raw      string
	Index    int
	HasIndex bool
}
