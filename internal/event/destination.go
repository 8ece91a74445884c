package event

import "fmt"

// Destination is where a batter or runner ended a play.
type Destination int8

const (
	Out    Destination = -1
	Stays  Destination = 0
	First  Destination = 1
	Second Destination = 2
	Third  Destination = 3
	Home   Destination = 4
)

func (d Destination) String() string {
	switch d {
	case Out:
		return "out"
	case Stays:
		return "stays"
	case First:
		return "first"
	case Second:
		return "second"
	case Third:
		return "third"
	case Home:
		return "home"
	default:
		return fmt.Sprintf("destination(%d)", int8(d))
	}
}

// OnBase reports whether d leaves the player standing on a base.
func (d Destination) OnBase() bool {
	return d >= First && d <= Third
}

// baseCode maps the single-character base codes used in advances and
// stolen-base events.
func baseCode(c byte) (Destination, bool) {
	switch c {
	case '1':
		return First, true
	case '2':
		return Second, true
	case '3':
		return Third, true
	case 'H':
		return Home, true
	}
	return Stays, false
}

// runnerIndex maps the runner code at the start of an advance ("B", "1".."3")
// to its slot in Play.Dest.
func runnerIndex(c byte) (int, bool) {
	switch c {
	case 'B':
		return 0, true
	case '1', '2', '3':
		return int(c - '0'), true
	}
	return 0, false
}
