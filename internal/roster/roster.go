// Package roster reads team roster files and answers handedness questions
// for the game assembler.
//
// A roster file ({TEAM}{YEAR}.ROS) has one player per line:
//
//	id,last,first,bats,throws,team,position
package roster

import (
	"fmt"
	"strings"
)

// Player is one roster entry.
type Player struct {
	ID       string `json:"id"`
	Last     string `json:"last"`
	First    string `json:"first"`
	Bats     string `json:"bats"`
	Throws   string `json:"throws"`
	Team     string `json:"team"`
	Position string `json:"position"`
}

// Roster is a team's players for one season.
type Roster struct {
	Team    string
	Year    int
	players map[string]Player
	order   []string
}

// Parse reads the lines of a roster file. Blank lines are ignored.
func Parse(team string, year int, lines []string) (*Roster, error) {
	r := &Roster{
		Team:    team,
		Year:    year,
		players: make(map[string]Player),
	}
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		f := strings.Split(line, ",")
		if len(f) < 5 {
			return nil, fmt.Errorf("roster %s%d line %d: %d fields, want at least 5", team, year, i+1, len(f))
		}
		p := Player{
			ID:     f[0],
			Last:   f[1],
			First:  f[2],
			Bats:   f[3],
			Throws: f[4],
		}
		if len(f) > 5 {
			p.Team = f[5]
		}
		if len(f) > 6 {
			p.Position = f[6]
		}
		if _, dup := r.players[p.ID]; !dup {
			r.order = append(r.order, p.ID)
		}
		r.players[p.ID] = p
	}
	return r, nil
}

// Player returns the entry for id.
func (r *Roster) Player(id string) (Player, bool) {
	p, ok := r.players[id]
	return p, ok
}

// Players returns all entries in file order.
func (r *Roster) Players() []Player {
	out := make([]Player, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.players[id])
	}
	return out
}

func (r *Roster) Len() int {
	return len(r.players)
}

func (r *Roster) Bats(id string) string {
	return r.players[id].Bats
}

func (r *Roster) Throws(id string) string {
	return r.players[id].Throws
}

// Set answers lookups from several rosters, first match wins. A game file
// needs the rosters of both teams.
type Set []*Roster

func (s Set) find(id string) (Player, bool) {
	for _, r := range s {
		if p, ok := r.players[id]; ok {
			return p, true
		}
	}
	return Player{}, false
}

func (s Set) Bats(id string) string {
	p, _ := s.find(id)
	return p.Bats
}

func (s Set) Throws(id string) string {
	p, _ := s.find(id)
	return p.Throws
}
