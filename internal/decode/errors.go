package decode

import (
	"fmt"
	"strings"

	"github.com/pfrederiksen/retro-events/internal/schema"
)

// FormatError reports a token that does not fit its field's grammar.
type FormatError struct {
	File   string
	Line   int
	Field  int // schema index, or -1 for tokens that are not columns
	Token  string
	Reason string
}

func (e *FormatError) Error() string {
	var b strings.Builder
	if e.File != "" {
		b.WriteString(e.File)
		b.WriteString(":")
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, "%d:", e.Line)
	}
	if b.Len() > 0 {
		b.WriteString(" ")
	}
	if entry, err := schema.Lookup(e.Field); err == nil {
		fmt.Fprintf(&b, "field %d (%s): ", entry.Index, entry.Header)
	}
	fmt.Fprintf(&b, "invalid token %q: %s", e.Token, e.Reason)
	return b.String()
}

func invalid(field int, token, reason string) *FormatError {
	return &FormatError{Field: field, Token: token, Reason: reason}
}
