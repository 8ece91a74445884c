package event

import (
	"regexp"
	"strconv"
	"strings"
)

// Code classifies the basic play. Values follow the cwevent EVENT_CD numbering.
type Code int

const (
	CodeUnknown         Code = 0
	CodeNone            Code = 1
	CodeGenericOut      Code = 2
	CodeStrikeout       Code = 3
	CodeStolenBase      Code = 4
	CodeIndifference    Code = 5
	CodeCaughtStealing  Code = 6
	CodePickoffError    Code = 7
	CodePickoff         Code = 8
	CodeWildPitch       Code = 9
	CodePassedBall      Code = 10
	CodeBalk            Code = 11
	CodeOtherAdvance    Code = 12
	CodeFoulError       Code = 13
	CodeWalk            Code = 14
	CodeIntentionalWalk Code = 15
	CodeHitByPitch      Code = 16
	CodeInterference    Code = 17
	CodeError           Code = 18
	CodeFieldersChoice  Code = 19
	CodeSingle          Code = 20
	CodeDouble          Code = 21
	CodeTriple          Code = 22
	CodeHomeRun         Code = 23
)

// Play is the parsed form of a play description.
type Play struct {
	Text      string
	Basic     string
	Modifiers []string
	Advances  []string

	Code     Code
	HitValue int

	SacHit     bool
	SacFly     bool
	DoublePlay bool
	TriplePlay bool
	WildPitch  bool
	PassedBall bool
	Bunt       bool
	Foul       bool

	// Indexed by the base the runner started on (1-3); slot 0 is unused.
	StolenBase     [4]bool
	CaughtStealing [4]bool
	PickedOff      [4]bool

	// Fielder positions charged with errors, in order of appearance.
	Errors []int

	// Dest holds the batter (0) and the runners starting on 1st-3rd.
	// Explicit marks slots the description actually mentions.
	Dest     [4]Destination
	Explicit [4]bool

	Unrecognized []string
}

var (
	fieldingRE     = regexp.MustCompile(`^(?:\d+(?:\([123B]\))?)+$`)
	fieldingPartRE = regexp.MustCompile(`(\d+)(?:\(([123B])\))?`)
	errorRE        = regexp.MustCompile(`^(FL)?E(\d)$`)
	hitRE          = regexp.MustCompile(`^([SDT])(?:\d+|GR)?$`)
	homeRunRE      = regexp.MustCompile(`^HR?\d*$`)
	fieldersRE     = regexp.MustCompile(`^FC\d*$`)
	strikeWalkRE   = regexp.MustCompile(`^(IW|I|K|W)\d*(?:\+(.+))?$`)
	stolenRE       = regexp.MustCompile(`^SB([23H])$`)
	caughtRE       = regexp.MustCompile(`^(PO)?CS([23H])\(([^)]*)\)`)
	pickoffRE      = regexp.MustCompile(`^PO([123])\(([^)]*)\)`)
	advanceRE      = regexp.MustCompile(`^([B123])([-X])([123H])((?:\([^)]*\))*)$`)
	parenRE        = regexp.MustCompile(`\(([^)]*)\)`)
	errorRefRE     = regexp.MustCompile(`E(\d)`)
)

// Parse interprets a play description.
func Parse(text string) *Play {
	p := &Play{Text: text}
	basic, mods, adv := Split(text)
	p.Basic = basic
	if mods != "" {
		p.Modifiers = strings.Split(mods, "/")
	}
	if adv != "" {
		p.Advances = strings.Split(adv, ";")
	}

	p.parseBasic(basic)
	for _, m := range p.Modifiers {
		p.applyModifier(m)
	}
	for _, a := range p.Advances {
		p.applyAdvance(a)
	}
	return p
}

// Split separates a description into its basic play, modifiers and advances.
// A slash inside the basic play's parentheses, as in "PO2(E2/TH)", does not
// start the modifiers.
func Split(text string) (basic, mods, adv string) {
	startMod := strings.IndexByte(text, '/')
	open := strings.IndexByte(text, '(')
	closing := strings.IndexByte(text, ')')
	if open > 0 && open < startMod && startMod < closing {
		next := strings.IndexByte(text[startMod+1:], '/')
		if next < 0 {
			startMod = -1
		} else {
			startMod += next + 1
		}
	}
	if startMod < 0 {
		startMod = len(text)
	}
	startAdv := strings.LastIndexByte(text, '.')
	if startAdv < 0 {
		startAdv = len(text)
	}
	if startMod > startAdv {
		startMod = startAdv
	}

	basic = strings.TrimRight(text[:startMod], "/.")
	mods = strings.Trim(text[startMod:startAdv], "/.")
	adv = strings.TrimLeft(text[startAdv:], ".")
	return basic, mods, adv
}

// Outs is the number of outs recorded on the play.
func (p *Play) Outs() int {
	n := 0
	for _, d := range p.Dest {
		if d == Out {
			n++
		}
	}
	return n
}

// Runs is the number of runners, batter included, who scored.
func (p *Play) Runs() int {
	n := 0
	for _, d := range p.Dest {
		if d == Home {
			n++
		}
	}
	return n
}

func (p *Play) set(slot int, d Destination) {
	p.Dest[slot] = d
	p.Explicit[slot] = true
}

func (p *Play) addErrors(s string) bool {
	found := false
	for _, m := range errorRefRE.FindAllStringSubmatch(s, -1) {
		n, _ := strconv.Atoi(m[1])
		p.Errors = append(p.Errors, n)
		found = true
	}
	return found
}

func (p *Play) parseBasic(ev string) {
	switch ev {
	case "":
		return
	case "NP":
		p.Code = CodeNone
		return
	case "C":
		p.Code = CodeInterference
		p.set(0, First)
		return
	case "HP":
		p.Code = CodeHitByPitch
		p.set(0, First)
		return
	case "WP":
		p.Code = CodeWildPitch
		p.WildPitch = true
		return
	case "PB":
		p.Code = CodePassedBall
		p.PassedBall = true
		return
	case "BK":
		p.Code = CodeBalk
		return
	case "DI":
		p.Code = CodeIndifference
		return
	case "OA":
		p.Code = CodeOtherAdvance
		return
	}

	if fieldingRE.MatchString(ev) {
		p.parseFielding(ev)
		return
	}
	if m := errorRE.FindStringSubmatch(ev); m != nil {
		n, _ := strconv.Atoi(m[2])
		p.Errors = append(p.Errors, n)
		if m[1] != "" {
			// Error on a foul fly: the at-bat continues.
			p.Code = CodeFoulError
			p.Foul = true
			return
		}
		p.Code = CodeError
		p.set(0, First)
		return
	}
	if m := hitRE.FindStringSubmatch(ev); m != nil {
		switch m[1] {
		case "S":
			p.Code, p.HitValue = CodeSingle, 1
			p.set(0, First)
		case "D":
			p.Code, p.HitValue = CodeDouble, 2
			p.set(0, Second)
		case "T":
			p.Code, p.HitValue = CodeTriple, 3
			p.set(0, Third)
		}
		return
	}
	if fieldersRE.MatchString(ev) {
		p.Code = CodeFieldersChoice
		p.set(0, First)
		return
	}
	if homeRunRE.MatchString(ev) {
		p.Code, p.HitValue = CodeHomeRun, 4
		p.set(0, Home)
		return
	}
	if m := strikeWalkRE.FindStringSubmatch(ev); m != nil {
		switch m[1] {
		case "K":
			p.Code = CodeStrikeout
			p.set(0, Out)
		case "W":
			p.Code = CodeWalk
			p.set(0, First)
		default:
			p.Code = CodeIntentionalWalk
			p.set(0, First)
		}
		if m[2] != "" {
			p.mergeSubEvent(m[2])
		}
		return
	}
	if p.parseRunnerEvents(ev) {
		return
	}
	p.Unrecognized = append(p.Unrecognized, ev)
}

// parseFielding handles putout sequences such as "43", "64(1)3" and "54(1)".
// A parenthesised base names a runner put out; trailing fielders without a
// parenthesis put out the batter. When only runners are put out, the batter
// reaches first.
func (p *Play) parseFielding(ev string) {
	p.Code = CodeGenericOut
	parts := fieldingPartRE.FindAllStringSubmatch(ev, -1)
	batterOut := false
	for i, part := range parts {
		if part[2] == "" {
			if i == len(parts)-1 {
				batterOut = true
			}
			continue
		}
		slot, _ := runnerIndex(part[2][0])
		p.set(slot, Out)
		if slot == 0 {
			batterOut = true
		}
	}
	if batterOut {
		p.set(0, Out)
		return
	}
	p.set(0, First)
}

// mergeSubEvent folds the event after a "+" in strikeouts and walks
// ("K+WP", "W+SB2") into p.
func (p *Play) mergeSubEvent(ev string) {
	sub := &Play{}
	sub.parseBasic(ev)
	for i := range sub.Dest {
		if sub.Explicit[i] && sub.Dest[i] != Stays {
			p.set(i, sub.Dest[i])
		}
		p.StolenBase[i] = p.StolenBase[i] || sub.StolenBase[i]
		p.CaughtStealing[i] = p.CaughtStealing[i] || sub.CaughtStealing[i]
		p.PickedOff[i] = p.PickedOff[i] || sub.PickedOff[i]
	}
	p.WildPitch = p.WildPitch || sub.WildPitch
	p.PassedBall = p.PassedBall || sub.PassedBall
	p.Errors = append(p.Errors, sub.Errors...)
	p.Unrecognized = append(p.Unrecognized, sub.Unrecognized...)
}

// parseRunnerEvents handles stolen bases, caught stealing and pickoffs, which
// may be chained with ";" ("SB3;SB2").
func (p *Play) parseRunnerEvents(ev string) bool {
	parts := strings.Split(ev, ";")
	var codes []Code
	for _, part := range parts {
		c, ok := p.runnerEvent(part)
		if !ok {
			return false
		}
		codes = append(codes, c)
	}
	p.Code = codes[0]
	return true
}

func (p *Play) runnerEvent(ev string) (Code, bool) {
	if m := stolenRE.FindStringSubmatch(ev); m != nil {
		to, _ := baseCode(m[1][0])
		from := int(to) - 1
		p.StolenBase[from] = true
		p.set(from, to)
		return CodeStolenBase, true
	}
	if m := caughtRE.FindStringSubmatch(ev); m != nil {
		to, _ := baseCode(m[2][0])
		from := int(to) - 1
		p.CaughtStealing[from] = true
		if m[1] != "" {
			p.PickedOff[from] = true
		}
		if !p.addErrors(m[3]) {
			p.set(from, Out)
		}
		return CodeCaughtStealing, true
	}
	if m := pickoffRE.FindStringSubmatch(ev); m != nil {
		from, _ := runnerIndex(m[1][0])
		if p.addErrors(m[2]) {
			return CodePickoffError, true
		}
		p.PickedOff[from] = true
		p.set(from, Out)
		return CodePickoff, true
	}
	return CodeUnknown, false
}

// applyModifier records the flags carried by one modifier. Trailing hit
// location digits are ignored, so "BG25" reads as "BG".
func (p *Play) applyModifier(mod string) {
	if m := errorRE.FindStringSubmatch(mod); m != nil && m[1] == "" {
		n, _ := strconv.Atoi(m[2])
		p.Errors = append(p.Errors, n)
		return
	}
	switch strings.TrimRight(mod, "0123456789+-") {
	case "SH":
		p.SacHit = true
	case "SF":
		p.SacFly = true
	case "FL":
		p.Foul = true
	case "BG", "BP", "BL", "GP":
		p.Bunt = true
	case "BGDP", "BPDP":
		p.Bunt = true
		p.DoublePlay = true
	case "DP", "GDP", "LDP", "FDP":
		p.DoublePlay = true
	case "TP", "GTP", "LTP":
		p.TriplePlay = true
	}
}

// applyAdvance records one explicit advance such as "1-3", "2XH(92)" or
// "BX2(7E4)". An X whose parentheses charge an error is a safe advance.
func (p *Play) applyAdvance(adv string) {
	m := advanceRE.FindStringSubmatch(adv)
	if m == nil {
		p.Unrecognized = append(p.Unrecognized, adv)
		return
	}
	slot, _ := runnerIndex(m[1][0])
	to, _ := baseCode(m[3][0])

	errored := false
	for _, pm := range parenRE.FindAllStringSubmatch(m[4], -1) {
		if p.addErrors(pm[1]) {
			errored = true
		}
	}

	if m[2] == "X" && !errored {
		p.set(slot, Out)
		return
	}
	p.set(slot, to)
}
