package decode

import (
	"errors"
	"fmt"

	"github.com/pfrederiksen/retro-events/internal/event"
	"github.com/pfrederiksen/retro-events/internal/record"
	"github.com/pfrederiksen/retro-events/internal/schema"
	"github.com/pfrederiksen/retro-events/internal/state"
)

// Input is everything a decoder may read. State is the situation before the
// play, after Carry has been applied.
type Input struct {
	Tokens *PlayTokens
	State  *state.State
	Play   *event.Play
	// Dest is Play.Dest with forced runners resolved against State.
	Dest [4]event.Destination
}

type decoder func(in *Input) (Value, error)

type key struct {
	kind  record.Kind
	index int
}

var decoders = map[key]decoder{}

func register(kind record.Kind, index int, fn decoder) {
	k := key{kind, index}
	if _, dup := decoders[k]; dup {
		panic(fmt.Sprintf("decode: duplicate decoder for %v field %d", kind, index))
	}
	decoders[k] = fn
}

func play(index int, fn decoder) { register(record.PlayEvent, index, fn) }

func init() {
	play(schema.GameID, func(in *Input) (Value, error) { return Str(in.State.GameID), nil })
	play(schema.AwayTeamID, func(in *Input) (Value, error) { return Str(in.State.VisTeam), nil })
	play(schema.Inning, func(in *Input) (Value, error) { return Int(in.State.Inning), nil })
	play(schema.BatHome, func(in *Input) (Value, error) { return Int(in.State.Side), nil })
	play(schema.Outs, func(in *Input) (Value, error) { return Int(in.State.Outs), nil })
	play(schema.Balls, func(in *Input) (Value, error) { return countDigit(schema.Balls, in.Tokens.Count, 0) })
	play(schema.Strikes, func(in *Input) (Value, error) { return countDigit(schema.Strikes, in.Tokens.Count, 1) })
	play(schema.PitchSeq, func(in *Input) (Value, error) { return Str(in.Tokens.Pitches), nil })
	play(schema.AwayScore, func(in *Input) (Value, error) { return Int(in.State.Score[0]), nil })
	play(schema.HomeScore, func(in *Input) (Value, error) { return Int(in.State.Score[1]), nil })

	play(schema.BatterID, func(in *Input) (Value, error) {
		if err := playerID(schema.BatterID, in.Tokens.Batter); err != nil {
			return Unsupported, err
		}
		return Str(in.Tokens.Batter), nil
	})
	play(schema.BatterHand, func(in *Input) (Value, error) {
		h, err := hand(schema.BatterHand, in.Tokens.BatterHand)
		return Str(h), err
	})
	play(schema.PitcherID, func(in *Input) (Value, error) {
		if p := in.Tokens.Pitcher; !blank(p) {
			if err := playerID(schema.PitcherID, p); err != nil {
				return Unsupported, err
			}
			return Str(p), nil
		}
		return Str(in.State.Fielder(1)), nil
	})
	play(schema.PitcherHand, func(in *Input) (Value, error) {
		h, err := hand(schema.PitcherHand, in.Tokens.PitcherHand)
		return Str(h), err
	})

	for pos := 2; pos <= 9; pos++ {
		pos := pos
		play(schema.Pos2Fielder+pos-2, func(in *Input) (Value, error) { return Str(in.State.Fielder(pos)), nil })
	}
	for b := 1; b <= 3; b++ {
		b := b
		play(schema.Base1Runner+b-1, func(in *Input) (Value, error) { return Str(in.State.Runners[b]), nil })
		play(schema.Runner1Dest+b-1, func(in *Input) (Value, error) { return Dest(in.Dest[b]), nil })
		play(schema.Runner1SB+b-1, func(in *Input) (Value, error) { return Bool(in.Play.StolenBase[b]), nil })
		play(schema.Runner1CS+b-1, func(in *Input) (Value, error) { return Bool(in.Play.CaughtStealing[b]), nil })
		play(schema.Runner1PK+b-1, func(in *Input) (Value, error) { return Bool(in.Play.PickedOff[b]), nil })
		play(schema.PinchRun1+b-1, func(in *Input) (Value, error) { return Bool(in.State.PinchRun[b]), nil })
	}

	play(schema.EventText, func(in *Input) (Value, error) { return Str(in.Tokens.Event), nil })

	play(schema.PinchHit, func(in *Input) (Value, error) {
		return Bool(batterSlot(in).Position == state.PinchHitter), nil
	})
	play(schema.BatFieldPos, func(in *Input) (Value, error) { return Int(batterSlot(in).Position), nil })
	play(schema.BatLineup, func(in *Input) (Value, error) { return Int(batterSlot(in).Order), nil })

	play(schema.EventCode, func(in *Input) (Value, error) { return Int(int(in.Play.Code)), nil })
	play(schema.HitValue, func(in *Input) (Value, error) { return Int(in.Play.HitValue), nil })
	play(schema.SacHit, func(in *Input) (Value, error) { return Bool(in.Play.SacHit), nil })
	play(schema.SacFly, func(in *Input) (Value, error) { return Bool(in.Play.SacFly), nil })
	play(schema.EventOuts, func(in *Input) (Value, error) { return Int(outs(in.Dest)), nil })
	play(schema.DoublePlay, func(in *Input) (Value, error) { return Bool(in.Play.DoublePlay), nil })
	play(schema.TriplePlay, func(in *Input) (Value, error) { return Bool(in.Play.TriplePlay), nil })
	play(schema.WildPitch, func(in *Input) (Value, error) { return Bool(in.Play.WildPitch), nil })
	play(schema.PassedBall, func(in *Input) (Value, error) { return Bool(in.Play.PassedBall), nil })
	play(schema.Bunt, func(in *Input) (Value, error) { return Bool(in.Play.Bunt), nil })
	play(schema.Foul, func(in *Input) (Value, error) { return Bool(in.Play.Foul), nil })

	play(schema.ErrorCount, func(in *Input) (Value, error) { return Int(len(in.Play.Errors)), nil })
	for i, idx := range []int{schema.Error1Fielder, schema.Error2Fielder, schema.Error3Fielder} {
		i, idx := i, idx
		play(idx, func(in *Input) (Value, error) {
			if i < len(in.Play.Errors) {
				return Int(in.Play.Errors[i]), nil
			}
			return Int(0), nil
		})
	}

	play(schema.BatterDest, func(in *Input) (Value, error) { return Dest(in.Dest[0]), nil })
	play(schema.GameNew, func(in *Input) (Value, error) { return Bool(in.State.Plays == 1), nil })
	play(schema.EventID, func(in *Input) (Value, error) { return Int(in.State.Plays), nil })

	for _, e := range schema.Entries() {
		_, ok := decoders[key{record.PlayEvent, e.Index}]
		if ok != e.Implemented {
			panic(fmt.Sprintf("decode: field %d (%s) implemented=%t but decoder registered=%t",
				e.Index, e.Header, e.Implemented, ok))
		}
	}
}

func countDigit(field int, tok string, i int) (Value, error) {
	if tok == "" {
		return Int(0), nil
	}
	if len(tok) != 2 {
		return Unsupported, invalid(field, tok, "count must be two characters")
	}
	c := tok[i]
	switch {
	case c == '?':
		return Int(0), nil
	case c >= '0' && c <= '9':
		return Int(int(c - '0')), nil
	}
	return Unsupported, invalid(field, tok, "count is not a digit")
}

func batterSlot(in *Input) state.Slot {
	slot, ok := in.State.Lookup(in.Tokens.Batter)
	if !ok || slot.Team != in.State.Side {
		return state.Slot{}
	}
	return slot
}

func outs(dest [4]event.Destination) int {
	n := 0
	for _, d := range dest {
		if d == event.Out {
			n++
		}
	}
	return n
}

// Field decodes a single column. Columns without a decoder for kind are
// Unsupported.
func Field(kind record.Kind, index int, in *Input) (Value, error) {
	schema.MustLookup(index)
	dec, ok := decoders[key{kind, index}]
	if !ok {
		return Unsupported, nil
	}
	v, err := dec(in)
	if err != nil {
		var fe *FormatError
		if errors.As(err, &fe) {
			fe.Field = index
		}
		return Unsupported, err
	}
	return v, nil
}

// DecodeRow decodes every column of a play line in schema order. It stops at
// the first invalid token.
func DecodeRow(in *Input) (Row, error) {
	row := make(Row, schema.Count)
	for i := range row {
		v, err := Field(record.PlayEvent, i, in)
		if err != nil {
			return nil, err
		}
		row[i] = v
	}
	return row, nil
}
