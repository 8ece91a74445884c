// Package event parses the play description carried by a play record.
//
// A description has three sections: the basic play ("S8", "64(1)3", "K+WP"),
// a list of slash-separated modifiers ("/G", "/SF", "/BGDP"), and a
// dot-prefixed list of runner advances (".1-3;2-H"). Parse splits the text,
// interprets the recognised codes and produces a Play: the event code, hit
// value, play flags, errors, and where the batter and each runner ended up.
// Codes the parser does not know are kept in Play.Unrecognized and otherwise
// ignored; parsing a description never fails.
package event
