// Package record classifies and tokenizes raw event-file lines.
package record

import (
	"encoding/csv"
	"strings"
)

// Kind tags a line by its leading token.
type Kind int

const (
	Unknown Kind = iota
	GameIdentifier
	GameInfo
	StartingLineup
	PlayEvent
	Comment
)

func (k Kind) String() string {
	switch k {
	case GameIdentifier:
		return "id"
	case GameInfo:
		return "info"
	case StartingLineup:
		return "lineup"
	case PlayEvent:
		return "play"
	case Comment:
		return "com"
	default:
		return "unknown"
	}
}

var kinds = map[string]Kind{
	"id":      GameIdentifier,
	"info":    GameInfo,
	"version": GameInfo,
	"start":   StartingLineup,
	"sub":     StartingLineup,
	"play":    PlayEvent,
	"com":     Comment,
}

// Line is one classified record line. Tokens[0] is the kind token.
type Line struct {
	Number int
	Kind   Kind
	Tokens []string
}

// Field returns token i, or "" when the line is shorter.
func (l Line) Field(i int) string {
	if i < 0 || i >= len(l.Tokens) {
		return ""
	}
	return l.Tokens[i]
}

// Classify maps a raw line to its Kind. It never fails: anything that is not
// a recognised record type is Unknown.
func Classify(line string) Kind {
	lead := line
	if i := strings.IndexByte(line, ','); i >= 0 {
		lead = line[:i]
	}
	return kinds[strings.TrimSpace(lead)]
}

// Parse classifies and tokenizes a line.
func Parse(number int, text string) Line {
	text = strings.TrimRight(text, "\r\n")
	return Line{
		Number: number,
		Kind:   Classify(text),
		Tokens: Split(text),
	}
}

// Split tokenizes a comma-delimited line. Double-quoted tokens (player names,
// comments) may contain commas; the quotes are removed.
func Split(line string) []string {
	if !strings.Contains(line, `"`) {
		return strings.Split(line, ",")
	}
	r := csv.NewReader(strings.NewReader(line))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	fields, err := r.Read()
	if err != nil {
		// Unbalanced quoting; fall back to a plain split so the line still
		// carries its tokens.
		return strings.Split(line, ",")
	}
	return fields
}
