package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/stavik/jambot/internal/domain/track"
)

var (
	cmdPlay     = regexp.MustCompile(`(?i)^/play(?:\s+(\d+))?$`)
	questionish = regexp.MustCompile(`^(?i)(who|what|which|when|where|how|do|does|did|is|are|can|tell|show|list|find)\b`)
	byToken     = regexp.MustCompile(`(?i)\s+by\s+`)
)

// Parse converts an utterance into an Action. Parsing never fails; anything
// unrecognized becomes KindUnknown and the response layer renders help.
func Parse(utterance string) Action {
	text := strings.TrimSpace(utterance)
	if text == "" {
		return Action{Kind: KindUnknown, Raw: utterance}
	}

	if !strings.HasPrefix(text, "/") {
		return parseBare(text)
	}

	cmd, arg := splitCommand(text)
	switch cmd {
	case "/add":
		if arg == "" {
			return Action{Kind: KindUnknown, Raw: text}
		}
		return Action{Kind: KindAdd, Ref: SplitRef(arg)}
	case "/remove":
		if arg == "" {
			return Action{Kind: KindUnknown, Raw: text}
		}
		return Action{Kind: KindRemove, Raw: arg}
	case "/view":
		return Action{Kind: KindView}
	case "/clear":
		return Action{Kind: KindClear}
	case "/create":
		if arg == "" {
			return Action{Kind: KindUnknown, Raw: text}
		}
		return Action{Kind: KindCreate, Raw: arg}
	case "/switch":
		if arg == "" {
			return Action{Kind: KindUnknown, Raw: text}
		}
		return Action{Kind: KindSwitch, Raw: arg}
	case "/list":
		return Action{Kind: KindList}
	case "/play":
		if m := cmdPlay.FindStringSubmatch(text); m != nil {
			if m[1] == "" {
				return Action{Kind: KindPlay}
			}
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return Action{Kind: KindUnknown, Raw: text}
			}
			return Action{Kind: KindPlay, Index: n, HasIndex: true}
		}
		return Action{Kind: KindUnknown, Raw: text}
	case "/preview":
		if arg == "" {
			return Action{Kind: KindUnknown, Raw: text}
		}
		return Action{Kind: KindPreview, Ref: SplitRef(arg)}
	case "/stats":
		return Action{Kind: KindStats}
	case "/ask":
		if arg == "" {
			return Action{Kind: KindUnknown, Raw: text}
		}
		return Action{Kind: KindAsk, Raw: arg}
	case "/ask_llm":
		if arg == "" {
			return Action{Kind: KindUnknown, Raw: text}
		}
		return Action{Kind: KindAskLLM, Raw: arg}
	case "/help", "/options":
		return Action{Kind: KindHelp}
	case "/info":
		return Action{Kind: KindInfo}
	case "/quit":
		return Action{Kind: KindQuit}
	default:
		return Action{Kind: KindUnknown, Raw: text}
	}
}

// splitCommand separates the leading command token from its argument text.
func splitCommand(text string) (cmd, arg string) {
	if i := strings.IndexAny(text, " \t"); i >= 0 {
		return strings.ToLower(text[:i]), strings.TrimSpace(text[i+1:])
	}
	return strings.ToLower(text), ""
}

// parseBare handles utterances without a command prefix: questions go to
// the answerer, everything else is an add shorthand.
func parseBare(text string) Action {
	if strings.HasSuffix(text, "?") || questionish.MatchString(text) {
		return Action{Kind: KindAsk, Raw: text}
	}
	return Action{Kind: KindAdd, Ref: SplitRef(text)}
}

// SplitRef extracts a track reference from free text. A bare Spotify track
// URI names the track directly; otherwise the artist/title shapes are tried
// in order:
//
//	title by artist     (rightmost " by " wins)
//	artist - title      (first " - ")
//	artist: title       (first ":")
//	title               (no delimiter)
func SplitRef(query string) track.Ref {
	query = strings.TrimSpace(query)

	if strings.HasPrefix(query, "spotify:track:") && !strings.ContainsAny(query, " \t") {
		return track.Ref{URI: query}
	}

	if locs := byToken.FindAllStringIndex(query, -1); len(locs) > 0 {
		loc := locs[len(locs)-1]
		title := strings.TrimSpace(query[:loc[0]])
		artist := strings.TrimSpace(query[loc[1]:])
		if title != "" && artist != "" {
			return track.Ref{Title: title, Artist: artist}
		}
	}

	if i := strings.Index(query, " - "); i >= 0 {
		artist := strings.TrimSpace(query[:i])
		title := strings.TrimSpace(query[i+3:])
		if artist != "" && title != "" {
			return track.Ref{Title: title, Artist: artist}
		}
	}

	if i := strings.Index(query, ":"); i >= 0 {
		artist := strings.TrimSpace(query[:i])
		title := strings.TrimSpace(query[i+1:])
		if artist != "" && title != "" {
			return track.Ref{Title: title, Artist: artist}
		}
	}

	return track.Ref{Title: query}
}
