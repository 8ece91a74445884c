// Package decode turns the tokens of a play line, together with the running
// game state, into a row of typed column values.
//
// Decoders are registered per (record kind, column index) and looked up at
// decode time; every implemented column has exactly one play decoder, and the
// package refuses to initialise otherwise. Columns without a decoder hold
// Unsupported, which prints as "NA".
//
// Two play layouts are accepted. The standard one is
//
//	play,inning,side,batter,count,pitches,event
//
// Any longer play line is positional: tokens 1-7 are inning, side, outs,
// batter, batter hand, pitcher and pitcher hand, and from token 8 on token n
// carries column n (scores, fielders, runners, event text). A blank or "?"
// in a carried position keeps the value from the game state.
package decode
