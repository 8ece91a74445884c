package decode

import (
	"regexp"
	"strconv"

	"github.com/pfrederiksen/retro-events/internal/record"
	"github.com/pfrederiksen/retro-events/internal/schema"
	"github.com/pfrederiksen/retro-events/internal/state"
)

var (
	playerIDRE = regexp.MustCompile(`^[A-Za-z0-9-]{8}$`)
	codeRE     = regexp.MustCompile(`^[A-Za-z0-9]+$`)
)

// standardPlayLen is the token count of play,inning,side,batter,count,pitches,event.
const standardPlayLen = 7

// PlayTokens is a play line normalized from either layout. A blank or "?"
// carried token means the value comes from the game state.
type PlayTokens struct {
	Wide bool

	Inning string
	Side   string
	Outs   string

	Batter      string
	BatterHand  string
	Pitcher     string
	PitcherHand string

	Count   string
	Pitches string

	Scores [2]string
	// Fielders is indexed by position 2-9.
	Fielders [10]string
	// Runners is indexed by base 1-3.
	Runners [4]string

	Event string
}

// SplitPlay reads a play line. Seven tokens is the standard layout; longer
// lines are positional, with token n carrying column n from token 8 on.
func SplitPlay(l record.Line) (*PlayTokens, error) {
	n := len(l.Tokens)
	switch {
	case n < standardPlayLen:
		return nil, invalid(-1, l.Field(0), "play record has "+strconv.Itoa(n)+" tokens, want at least 7")
	case n == standardPlayLen:
		return &PlayTokens{
			Inning:  l.Field(1),
			Side:    l.Field(2),
			Batter:  l.Field(3),
			Count:   l.Field(4),
			Pitches: l.Field(5),
			Event:   l.Field(6),
		}, nil
	}

	pt := &PlayTokens{
		Wide:        true,
		Inning:      l.Field(1),
		Side:        l.Field(2),
		Outs:        l.Field(3),
		Batter:      l.Field(4),
		BatterHand:  l.Field(5),
		Pitcher:     l.Field(6),
		PitcherHand: l.Field(7),
		Scores:      [2]string{l.Field(schema.AwayScore), l.Field(schema.HomeScore)},
		Event:       l.Field(schema.EventText),
	}
	for pos := 2; pos <= 9; pos++ {
		pt.Fielders[pos] = l.Field(schema.Pos2Fielder + pos - 2)
	}
	for b := 1; b <= 3; b++ {
		pt.Runners[b] = l.Field(schema.Base1Runner + b - 1)
	}
	return pt, nil
}

func blank(tok string) bool {
	return tok == "" || tok == "?"
}

func count(field int, tok string) (int, error) {
	if tok == "" {
		return 0, invalid(field, tok, "empty count")
	}
	for i := 0; i < len(tok); i++ {
		if tok[i] < '0' || tok[i] > '9' {
			return 0, invalid(field, tok, "count is not a non-negative integer")
		}
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, invalid(field, tok, "count out of range")
	}
	return n, nil
}

func playerID(field int, tok string) error {
	if !playerIDRE.MatchString(tok) {
		return invalid(field, tok, "player id must be 8 characters of [A-Za-z0-9-]")
	}
	return nil
}

func hand(field int, tok string) (string, error) {
	switch tok {
	case "":
		return "?", nil
	case "L", "R", "B", "?":
		return tok, nil
	}
	return "", invalid(field, tok, "hand must be L, R, B or ?")
}

// GameID validates the identifier on an id line.
func GameID(l record.Line) (string, error) {
	id := l.Field(1)
	if !codeRE.MatchString(id) {
		return "", invalid(schema.GameID, id, "game id must be alphanumeric")
	}
	return id, nil
}

// TeamCode validates a team code from an info line.
func TeamCode(field int, tok string) (string, error) {
	if !codeRE.MatchString(tok) {
		return "", invalid(field, tok, "team code must be alphanumeric")
	}
	return tok, nil
}

// Lineup is a decoded start or sub line.
type Lineup struct {
	Player   string
	Name     string
	Team     int
	Order    int
	Position int
}

// DecodeLineup reads start,player,"name",team,order,position.
func DecodeLineup(l record.Line) (Lineup, error) {
	if len(l.Tokens) < 6 {
		return Lineup{}, invalid(-1, l.Field(0), "lineup record has "+strconv.Itoa(len(l.Tokens))+" tokens, want 6")
	}
	lu := Lineup{Player: l.Field(1), Name: l.Field(2)}
	if err := playerID(-1, lu.Player); err != nil {
		return Lineup{}, err
	}

	var err error
	if lu.Team, err = bounded(l.Field(3), 0, 1, "team must be 0 or 1"); err != nil {
		return Lineup{}, err
	}
	if lu.Order, err = bounded(l.Field(4), 0, 9, "batting order must be 0-9"); err != nil {
		return Lineup{}, err
	}
	if lu.Position, err = bounded(l.Field(5), 1, state.PinchRunner, "fielding position must be 1-12"); err != nil {
		return Lineup{}, err
	}
	return lu, nil
}

func bounded(tok string, lo, hi int, reason string) (int, error) {
	n, err := count(-1, tok)
	if err != nil || n < lo || n > hi {
		return 0, invalid(-1, tok, reason)
	}
	return n, nil
}

// Carry applies the carried tokens of a play line to st before the row is
// decoded: the half-inning, and on positional lines the outs, scores,
// fielders and runners. Blank tokens leave the state as it is.
func Carry(pt *PlayTokens, st *state.State) error {
	inning, side := st.Inning, st.Side
	if !blank(pt.Inning) {
		n, err := count(schema.Inning, pt.Inning)
		if err != nil {
			return err
		}
		if n < 1 {
			return invalid(schema.Inning, pt.Inning, "inning must be positive")
		}
		inning = n
	}
	if !blank(pt.Side) {
		switch pt.Side {
		case "0":
			side = 0
		case "1":
			side = 1
		default:
			return invalid(schema.BatHome, pt.Side, "side must be 0 or 1")
		}
	}
	st.StartHalf(inning, side)

	if !pt.Wide {
		return nil
	}

	if !blank(pt.Outs) {
		n, err := count(schema.Outs, pt.Outs)
		if err != nil {
			return err
		}
		if n > 2 {
			return invalid(schema.Outs, pt.Outs, "outs before a play must be 0-2")
		}
		st.Outs = n
	}
	for i, tok := range pt.Scores {
		if blank(tok) {
			continue
		}
		n, err := count(schema.AwayScore+i, tok)
		if err != nil {
			return err
		}
		st.Score[i] = n
	}
	for pos := 2; pos <= 9; pos++ {
		tok := pt.Fielders[pos]
		if blank(tok) {
			continue
		}
		if err := playerID(schema.Pos2Fielder+pos-2, tok); err != nil {
			return err
		}
		st.SetFielder(pos, tok)
	}
	for b := 1; b <= 3; b++ {
		tok := pt.Runners[b]
		if blank(tok) {
			continue
		}
		if err := playerID(schema.Base1Runner+b-1, tok); err != nil {
			return err
		}
		st.Runners[b] = tok
	}
	return nil
}
