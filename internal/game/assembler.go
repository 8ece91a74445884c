// Package game turns the classified lines of one event file into rows,
// tracking the state of the game in progress.
package game

import (
	"errors"
	"fmt"

	"github.com/pfrederiksen/retro-events/internal/decode"
	"github.com/pfrederiksen/retro-events/internal/event"
	"github.com/pfrederiksen/retro-events/internal/logger"
	"github.com/pfrederiksen/retro-events/internal/record"
	"github.com/pfrederiksen/retro-events/internal/schema"
	"github.com/pfrederiksen/retro-events/internal/state"
	"github.com/pfrederiksen/retro-events/internal/table"
)

// Phase is the assembler's position in the input.
type Phase int

const (
	AwaitingGame Phase = iota
	InGame
)

func (p Phase) String() string {
	if p == InGame {
		return "in-game"
	}
	return "awaiting-game"
}

// Hands looks up handedness for players whose play lines do not carry it.
// Unknown players return "".
type Hands interface {
	Bats(playerID string) string
	Throws(playerID string) string
}

// Assembler consumes the lines of one file in order. Rows of a game reach
// the output table once the game is complete: at the next id line or at
// Finish. A game that fails to decode contributes no rows.
type Assembler struct {
	file  string
	out   *table.Table
	hands Hands
	log   *logger.Logger

	phase   Phase
	st      *state.State
	pending []decode.Row

	games   int
	skipped int
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithHands supplies handedness for standard play lines.
func WithHands(h Hands) Option {
	return func(a *Assembler) { a.hands = h }
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *logger.Logger) Option {
	return func(a *Assembler) { a.log = l }
}

// New returns an assembler that appends the rows of file to out.
func New(file string, out *table.Table, opts ...Option) *Assembler {
	a := &Assembler{
		file: file,
		out:  out,
		log:  logger.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Assembler) Phase() Phase { return a.phase }

// State returns the current game state, or nil between games.
func (a *Assembler) State() *state.State { return a.st }

// Games returns the number of games whose rows reached the table.
func (a *Assembler) Games() int { return a.games }

// Skipped returns the number of comment and unknown lines seen.
func (a *Assembler) Skipped() int { return a.skipped }

// Feed processes one line. After an error the game in progress is dropped
// and the assembler waits for the next id line.
func (a *Assembler) Feed(l record.Line) error {
	var err error
	switch l.Kind {
	case record.GameIdentifier:
		err = a.startGame(l)
	case record.GameInfo:
		if a.phase == InGame {
			err = a.info(l)
		}
	case record.StartingLineup:
		if err = a.requireGame(l); err == nil {
			err = a.lineup(l)
		}
	case record.PlayEvent:
		if err = a.requireGame(l); err == nil {
			err = a.play(l)
		}
	default:
		a.skipped++
	}
	if err != nil {
		return a.fail(l, err)
	}
	return nil
}

// Finish ends the input. The rows of the last game are kept; its state is
// discarded.
func (a *Assembler) Finish() {
	a.flush()
	a.phase = AwaitingGame
	a.st = nil
}

func (a *Assembler) flush() {
	if a.st == nil {
		return
	}
	for _, row := range a.pending {
		a.out.Append(row)
	}
	a.pending = nil
	a.games++
}

func (a *Assembler) fail(l record.Line, err error) error {
	a.pending = nil
	a.st = nil
	a.phase = AwaitingGame

	var fe *decode.FormatError
	if errors.As(err, &fe) {
		fe.File, fe.Line = a.file, l.Number
		return err
	}
	return fmt.Errorf("%s:%d: %w", a.file, l.Number, err)
}

func (a *Assembler) requireGame(l record.Line) error {
	if a.phase != InGame {
		return &decode.FormatError{Field: -1, Token: l.Field(0), Reason: "record appears before any id record"}
	}
	return nil
}

func (a *Assembler) startGame(l record.Line) error {
	a.flush()
	id, err := decode.GameID(l)
	if err != nil {
		return err
	}
	a.st = state.New(id)
	a.phase = InGame
	return nil
}

func (a *Assembler) info(l record.Line) error {
	if l.Field(0) != "info" {
		return nil
	}
	switch l.Field(1) {
	case "visteam":
		team, err := decode.TeamCode(schema.AwayTeamID, l.Field(2))
		if err != nil {
			return err
		}
		a.st.VisTeam = team
	case "hometeam":
		team, err := decode.TeamCode(-1, l.Field(2))
		if err != nil {
			return err
		}
		a.st.HomeTeam = team
	}
	return nil
}

func (a *Assembler) lineup(l record.Line) error {
	lu, err := decode.DecodeLineup(l)
	if err != nil {
		return err
	}
	a.st.Assign(lu.Team, lu.Player, lu.Order, lu.Position)
	return nil
}

func (a *Assembler) play(l record.Line) error {
	pt, err := decode.SplitPlay(l)
	if err != nil {
		return err
	}
	if err := decode.Carry(pt, a.st); err != nil {
		return err
	}
	if !pt.Wide {
		pt.Pitcher = a.st.Fielder(1)
	}
	a.fillHands(pt)
	a.st.Plays++

	p := event.Parse(pt.Event)
	if len(p.Unrecognized) > 0 {
		a.log.Debug("Unrecognized play codes ignored", logger.Fields{
			"file":  a.file,
			"line":  l.Number,
			"codes": p.Unrecognized,
		})
	}

	in := &decode.Input{
		Tokens: pt,
		State:  a.st,
		Play:   p,
		Dest:   a.st.Resolve(p),
	}
	row, err := decode.DecodeRow(in)
	if err != nil {
		return err
	}
	a.st.Apply(pt.Batter, in.Dest)
	a.pending = append(a.pending, row)
	return nil
}

// fillHands completes missing handedness from the roster. A switch hitter
// bats from the side opposite the pitcher's throwing hand.
func (a *Assembler) fillHands(pt *decode.PlayTokens) {
	if a.hands == nil {
		return
	}
	if pt.PitcherHand == "" && pt.Pitcher != "" {
		pt.PitcherHand = a.hands.Throws(pt.Pitcher)
	}
	if pt.BatterHand == "" {
		bats := a.hands.Bats(pt.Batter)
		if bats == "B" {
			switch pt.PitcherHand {
			case "L":
				bats = "R"
			case "R":
				bats = "L"
			}
		}
		pt.BatterHand = bats
	}
}
