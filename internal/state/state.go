// Package state holds the running situation of one game while its lines are
// read in order: inning, outs, score, lineups and runners.
package state

import "github.com/pfrederiksen/retro-events/internal/event"

// Fielding positions beyond the nine on-field positions.
const (
	DesignatedHitter = 10
	PinchHitter      = 11
	PinchRunner      = 12
)

// Slot is a player's place in a team's lineup.
type Slot struct {
	Team     int
	Order    int
	Position int
}

// State is the game situation before the next play. It is owned by a single
// assembler and never shared.
type State struct {
	GameID   string
	VisTeam  string
	HomeTeam string

	Inning int
	Side   int // 0 visitors batting, 1 home batting
	Outs   int
	Score  [2]int

	// Fielders is indexed by team, then fielding position 1-12.
	Fielders [2][13]string
	// Order is indexed by team, then batting slot 1-9.
	Order   [2][10]string
	players map[string]Slot

	// Runners holds the player on 1st-3rd; slot 0 is unused.
	Runners [4]string
	// PinchRun marks runners who entered as pinch runners.
	PinchRun [4]bool

	Plays int
}

// New returns the empty state of a game that has just been identified.
func New(gameID string) *State {
	return &State{
		GameID:  gameID,
		players: make(map[string]Slot),
	}
}

// FieldingTeam is the team not at bat.
func (s *State) FieldingTeam() int {
	return 1 - s.Side
}

// Fielder returns the player at pos for the team in the field.
func (s *State) Fielder(pos int) string {
	if pos < 1 || pos > PinchRunner {
		return ""
	}
	return s.Fielders[s.FieldingTeam()][pos]
}

// SetFielder records a fielder reported directly on a play line.
func (s *State) SetFielder(pos int, id string) {
	if pos < 1 || pos > 9 {
		return
	}
	team := s.FieldingTeam()
	s.Fielders[team][pos] = id
	slot := s.players[id]
	slot.Team, slot.Position = team, pos
	s.players[id] = slot
}

// Lookup returns the lineup slot of a player.
func (s *State) Lookup(id string) (Slot, bool) {
	slot, ok := s.players[id]
	return slot, ok
}

// Assign places a player from a start or sub line. A pinch runner replaces
// the runner on base who holds the same batting slot.
func (s *State) Assign(team int, id string, order, pos int) {
	if pos == PinchRunner {
		for b := 1; b <= 3; b++ {
			r := s.Runners[b]
			if r == "" {
				continue
			}
			if prev, ok := s.players[r]; ok && prev.Team == team && prev.Order == order {
				s.Runners[b] = id
				s.PinchRun[b] = true
				break
			}
		}
	}

	if order > 0 {
		if old := s.Order[team][order]; old != "" && old != id {
			s.remove(old)
		}
		s.Order[team][order] = id
	}
	if prev, ok := s.players[id]; ok && prev.Position > 0 && s.Fielders[prev.Team][prev.Position] == id {
		s.Fielders[prev.Team][prev.Position] = ""
	}
	if pos >= 1 && pos <= PinchRunner {
		s.Fielders[team][pos] = id
	}
	s.players[id] = Slot{Team: team, Order: order, Position: pos}
}

func (s *State) remove(id string) {
	prev, ok := s.players[id]
	if !ok {
		return
	}
	if prev.Position > 0 && s.Fielders[prev.Team][prev.Position] == id {
		s.Fielders[prev.Team][prev.Position] = ""
	}
	delete(s.players, id)
}

// StartHalf moves to the given half-inning. Outs and runners are cleared when
// it differs from the current one.
func (s *State) StartHalf(inning, side int) {
	if inning == s.Inning && side == s.Side {
		return
	}
	s.Inning, s.Side = inning, side
	s.Outs = 0
	s.clearBases()
}

func (s *State) clearBases() {
	s.Runners = [4]string{}
	s.PinchRun = [4]bool{}
}

// Resolve fills in where unmentioned runners went. A runner the description
// does not move stays put unless a trailing runner or the batter reaches or
// passes his base, in which case he is forced one base ahead of them.
func (s *State) Resolve(p *event.Play) [4]event.Destination {
	dest := p.Dest
	trailing := event.Stays
	if dest[0] > event.Stays {
		trailing = dest[0]
	}
	for b := 1; b <= 3; b++ {
		base := event.Destination(b)
		if !p.Explicit[b] {
			dest[b] = event.Stays
			if s.Runners[b] == "" {
				continue
			}
			if trailing >= base {
				dest[b] = min(trailing+1, event.Home)
			}
		}
		switch {
		case dest[b] == event.Stays && s.Runners[b] != "":
			trailing = base
		case dest[b] > event.Stays:
			trailing = max(trailing, dest[b])
		}
	}
	return dest
}

// Apply moves the batter and runners to dest, counts outs and runs, and
// credits the runs to the batting side. It returns the outs and runs
// recorded. The third out ends the half-inning: the bases are cleared and
// the out count starts over.
func (s *State) Apply(batter string, dest [4]event.Destination) (outs, runs int) {
	var runners [4]string
	var pinch [4]bool
	for b := 3; b >= 0; b-- {
		who, pr := batter, false
		if b > 0 {
			who, pr = s.Runners[b], s.PinchRun[b]
		}
		switch d := dest[b]; {
		case d == event.Out:
			outs++
		case d == event.Home:
			runs++
		case d == event.Stays:
			if b > 0 && who != "" {
				runners[b], pinch[b] = who, pr
			}
		default:
			runners[d], pinch[d] = who, pr
		}
	}

	s.Runners, s.PinchRun = runners, pinch
	s.Score[s.Side] += runs
	s.Outs += outs
	if s.Outs >= 3 {
		s.Outs = 0
		s.clearBases()
	}
	return outs, runs
}
