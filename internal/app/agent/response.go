package agent

import "github.com/stavik/jambot/internal/domain/playlist"

// Response is what one turn sends back to the user.
//
// Playlist carries the current playlist snapshot after commands that read or
// change it; Set carries the whole-set serialization after a listing.
// Options holds numbered disambiguation choices when the turn ended with a
// question back to the user. Final marks the conversation done.
type Response struct {
	Text     string                `json:"text"`
	Playlist *playlist.Snapshot    `json:"playlist,omitempty"`
	Set      *playlist.SetSnapshot `json:"set,omitempty"`
	Options  []string              `json:"options,omitempty"`
	Final    bool                  `json:"final,omitempty"`
}

func textResponse(text string) Response {
	return Response{Text: text}
}

func (a *Agent) withSnapshot(state *State, text string) Response {
	snap := state.Set.View()
	return Response{Text: text, Playlist: &snap}
}
