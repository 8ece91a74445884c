package schema

import "fmt"

// Type is the semantic type of a column's decoded value.
type Type int

const (
	String Type = iota
	Integer
	Flag
	Enum
	Identifier
)

func (t Type) String() string {
	switch t {
	case String:
		return "string"
	case Integer:
		return "integer"
	case Flag:
		return "flag"
	case Enum:
		return "enum"
	case Identifier:
		return "identifier"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// Entry describes a single column.
type Entry struct {
	Index       int    `json:"index"`
	Header      string `json:"header"`
	Type        Type   `json:"type"`
	Implemented bool   `json:"implemented"`
}

// Count is the number of known columns.
const Count = 97

// Column indices referenced by decoders and the assembler.
const (
	GameID         = 0
	AwayTeamID     = 1
	Inning         = 2
	BatHome        = 3
	Outs           = 4
	Balls          = 5
	Strikes        = 6
	PitchSeq       = 7
	AwayScore      = 8
	HomeScore      = 9
	BatterID       = 10
	BatterHand     = 11
	PitcherID      = 14
	PitcherHand    = 15
	Pos2Fielder    = 18
	Pos9Fielder    = 25
	Base1Runner    = 26
	Base3Runner    = 28
	EventText      = 29
	PinchHit       = 31
	BatFieldPos    = 32
	BatLineup      = 33
	EventCode      = 34
	HitValue       = 37
	SacHit         = 38
	SacFly         = 39
	EventOuts      = 40
	DoublePlay     = 41
	TriplePlay     = 42
	WildPitch      = 44
	PassedBall     = 45
	Bunt           = 48
	Foul           = 49
	ErrorCount     = 51
	Error1Fielder  = 52
	Error2Fielder  = 54
	Error3Fielder  = 56
	BatterDest     = 58
	Runner1Dest    = 59
	Runner2Dest    = 60
	Runner3Dest    = 61
	Runner1SB      = 66
	Runner1CS      = 69
	Runner1PK      = 72
	GameNew        = 78
	PinchRun1      = 80
	EventID        = 96
)

// registry is built once and never mutated.
var registry = [Count]Entry{
	{0, "GAME_ID", Identifier, true},
	{1, "AWAY_TEAM_ID", Identifier, true},
	{2, "INN_CT", Integer, true},
	{3, "BAT_HOME_ID", Integer, true},
	{4, "OUTS_CT", Integer, true},
	{5, "BALLS_CT", Integer, true},
	{6, "STRIKES_CT", Integer, true},
	{7, "PITCH_SEQ_TX", String, true},
	{8, "AWAY_SCORE_CT", Integer, true},
	{9, "HOME_SCORE_CT", Integer, true},
	{10, "BAT_ID", Identifier, true},
	{11, "BAT_HAND_CD", String, true},
	{12, "RESP_BAT_ID", Identifier, false},
	{13, "RESP_BAT_HAND_CD", String, false},
	{14, "PIT_ID", Identifier, true},
	{15, "PIT_HAND_CD", String, true},
	{16, "RESP_PIT_ID", Identifier, false},
	{17, "RESP_PIT_HAND_CD", String, false},
	{18, "POS2_FLD_ID", Identifier, true},
	{19, "POS3_FLD_ID", Identifier, true},
	{20, "POS4_FLD_ID", Identifier, true},
	{21, "POS5_FLD_ID", Identifier, true},
	{22, "POS6_FLD_ID", Identifier, true},
	{23, "POS7_FLD_ID", Identifier, true},
	{24, "POS8_FLD_ID", Identifier, true},
	{25, "POS9_FLD_ID", Identifier, true},
	{26, "BASE1_RUN_ID", Identifier, true},
	{27, "BASE2_RUN_ID", Identifier, true},
	{28, "BASE3_RUN_ID", Identifier, true},
	{29, "EVENT_TX", String, true},
	{30, "LEADOFF_FL", Flag, false},
	{31, "PH_FL", Flag, true},
	{32, "BAT_FLD_CD", Integer, true},
	{33, "BAT_LINEUP_ID", Integer, true},
	{34, "EVENT_CD", Integer, true},
	{35, "BAT_EVENT_FL", Flag, false},
	{36, "AB_FL", Flag, false},
	{37, "H_FL", Integer, true},
	{38, "SH_FL", Flag, true},
	{39, "SF_FL", Flag, true},
	{40, "EVENT_OUTS_CT", Integer, true},
	{41, "DP_FL", Flag, true},
	{42, "TP_FL", Flag, true},
	{43, "RBI_CT", Integer, false},
	{44, "WP_FL", Flag, true},
	{45, "PB_FL", Flag, true},
	{46, "FLD_CD", Integer, false},
	{47, "BATTEDBALL_CD", String, false},
	{48, "BUNT_FL", Flag, true},
	{49, "FOUL_FL", Flag, true},
	{50, "BATTEDBALL_LOC_TX", String, false},
	{51, "ERR_CT", Integer, true},
	{52, "ERR1_FLD_CD", Integer, true},
	{53, "ERR1_CD", String, false},
	{54, "ERR2_FLD_CD", Integer, true},
	{55, "ERR2_CD", String, false},
	{56, "ERR3_FLD_CD", Integer, true},
	{57, "ERR3_CD", String, false},
	{58, "BAT_DEST_ID", Enum, true},
	{59, "RUN1_DEST_ID", Enum, true},
	{60, "RUN2_DEST_ID", Enum, true},
	{61, "RUN3_DEST_ID", Enum, true},
	{62, "BAT_PLAY_TX", String, false},
	{63, "RUN1_PLAY_TX", String, false},
	{64, "RUN2_PLAY_TX", String, false},
	{65, "RUN3_PLAY_TX", String, false},
	{66, "RUN1_SB_FL", Flag, true},
	{67, "RUN2_SB_FL", Flag, true},
	{68, "RUN3_SB_FL", Flag, true},
	{69, "RUN1_CS_FL", Flag, true},
	{70, "RUN2_CS_FL", Flag, true},
	{71, "RUN3_CS_FL", Flag, true},
	{72, "RUN1_PK_FL", Flag, true},
	{73, "RUN2_PK_FL", Flag, true},
	{74, "RUN3_PK_FL", Flag, true},
	{75, "RUN1_RESP_PIT_ID", Identifier, false},
	{76, "RUN2_RESP_PIT_ID", Identifier, false},
	{77, "RUN3_RESP_PIT_ID", Identifier, false},
	{78, "GAME_NEW_FL", Flag, true},
	{79, "GAME_END_FL", Flag, false},
	{80, "PR_RUN1_FL", Flag, true},
	{81, "PR_RUN2_FL", Flag, true},
	{82, "PR_RUN3_FL", Flag, true},
	{83, "REMOVED_FOR_PR_RUN1_ID", Identifier, false},
	{84, "REMOVED_FOR_PR_RUN2_ID", Identifier, false},
	{85, "REMOVED_FOR_PR_RUN3_ID", Identifier, false},
	{86, "REMOVED_FOR_PH_BAT_ID", Identifier, false},
	{87, "REMOVED_FOR_PH_BAT_FLD_CD", Integer, false},
	{88, "PO1_FLD_CD", Integer, false},
	{89, "PO2_FLD_CD", Integer, false},
	{90, "PO3_FLD_CD", Integer, false},
	{91, "ASS1_FLD_CD", Integer, false},
	{92, "ASS2_FLD_CD", Integer, false},
	{93, "ASS3_FLD_CD", Integer, false},
	{94, "ASS4_FLD_CD", Integer, false},
	{95, "ASS5_FLD_CD", Integer, false},
	{96, "EVENT_ID", Integer, true},
}

var byHeader = func() map[string]int {
	m := make(map[string]int, Count)
	for i, e := range registry {
		if e.Index != i {
			panic(fmt.Sprintf("schema: entry %q declared at index %d, stored at %d", e.Header, e.Index, i))
		}
		if _, dup := m[e.Header]; dup {
			panic(fmt.Sprintf("schema: duplicate header %q", e.Header))
		}
		m[e.Header] = i
	}
	return m
}()

// LookupError reports a column index outside the registry.
type LookupError struct {
	Index int
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("schema: index %d out of range [0, %d)", e.Index, Count)
}

// Lookup returns the entry for index i.
func Lookup(i int) (Entry, error) {
	if i < 0 || i >= Count {
		return Entry{}, &LookupError{Index: i}
	}
	return registry[i], nil
}

// MustLookup is like Lookup but panics on an invalid index. Asking for a
// column that does not exist is a programming error.
func MustLookup(i int) Entry {
	e, err := Lookup(i)
	if err != nil {
		panic(err)
	}
	return e
}

// IndexOf returns the index of the column with the given header.
func IndexOf(header string) (int, bool) {
	i, ok := byHeader[header]
	return i, ok
}

// Entries returns a copy of the registry in index order.
func Entries() []Entry {
	out := make([]Entry, Count)
	copy(out, registry[:])
	return out
}

// Headers returns the column headers in index order.
func Headers() []string {
	out := make([]string, Count)
	for i, e := range registry {
		out[i] = e.Header
	}
	return out
}

// Implemented returns the indices of all populated columns in index order.
func Implemented() []int {
	var out []int
	for _, e := range registry {
		if e.Implemented {
			out = append(out, e.Index)
		}
	}
	return out
}
