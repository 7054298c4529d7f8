package parser

import (
	"fmt"
	"sort"

	"github.com/xingleixu/cp-compiler/lexer"
)

// Grammar owns the production list together with its derived FIRST/FOLLOW
// sets and LL(1) parsing table. Building one is the mechanical replacement
// for a hand-maintained set of FIRST/FOLLOW constants: every non-terminal
// that must be skippable carries an explicit epsilon alternative in
// productions() so the fixpoint below discovers nullability on its own
// instead of needing it spelled out ahead of time.
type Grammar struct {
	prods []Production
	// byLeft groups production indices by left-hand non-terminal, in
	// declaration order, since LL(1) table construction and FIRST/FOLLOW
	// both need "all alternatives for N" repeatedly.
	byLeft [numNonTerminals][]int

	first  [numNonTerminals]map[lexer.Kind]bool
	follow [numNonTerminals]map[lexer.Kind]bool

	// table[nt][terminal] is the single production to expand; a conflict
	// (more than one candidate production) is a fatal grammar defect and
	// panics during construction rather than being discovered at parse time.
	table [numNonTerminals]map[lexer.Kind]int
}

// NewGrammar builds the grammar's FIRST/FOLLOW sets and LL(1) table. It
// panics if the grammar is not LL(1), since that can only mean a mistake in
// productions() (§4.3's grammar is designed to be LL(1)).
func NewGrammar() *Grammar {
	g := &Grammar{prods: productions()}
	for i, p := range g.prods {
		g.byLeft[p.Left] = append(g.byLeft[p.Left], i)
	}
	for nt := range g.first {
		g.first[nt] = map[lexer.Kind]bool{}
	}
	for nt := range g.follow {
		g.follow[nt] = map[lexer.Kind]bool{}
	}
	g.computeFirst()
	g.computeFollow()
	g.buildTable()
	return g
}

// nullableNT reports whether a non-terminal can derive the empty string:
// at least one of its alternatives is either the explicit epsilon (Right
// == nil) or every element of it is an action/nullable non-terminal.
func (g *Grammar) nullableNT(nt NonTerminal, memo map[NonTerminal]bool) bool {
	if v, ok := memo[nt]; ok {
		return v
	}
	memo[nt] = false // break cycles conservatively during the probe
	for _, pi := range g.byLeft[nt] {
		if g.prodNullable(g.prods[pi], memo) {
			memo[nt] = true
			return true
		}
	}
	return memo[nt]
}

func (g *Grammar) prodNullable(p Production, memo map[NonTerminal]bool) bool {
	for _, e := range p.Right {
		switch e.Kind {
		case ElemTerminal:
			return false
		case ElemNonTerminal:
			if !g.nullableNT(e.NT, memo) {
				return false
			}
		case ElemAction:
			// actions contribute nothing to derivability
		}
	}
	return true
}

// computeFirst runs the standard worklist fixpoint: FIRST(nt) accumulates
// the first terminal of every alternative, walking past leading
// non-terminals while they are nullable, past leading actions always.
func (g *Grammar) computeFirst() {
	memo := map[NonTerminal]bool{}
	var nullable [numNonTerminals]bool
	for nt := NonTerminal(0); nt < numNonTerminals; nt++ {
		nullable[nt] = g.nullableNT(nt, memo)
	}

	changed := true
	for changed {
		changed = false
		for nt := NonTerminal(0); nt < numNonTerminals; nt++ {
			for _, pi := range g.byLeft[nt] {
			elems:
				for _, e := range g.prods[pi].Right {
					switch e.Kind {
					case ElemTerminal:
						if !g.first[nt][e.Term] {
							g.first[nt][e.Term] = true
							changed = true
						}
						break elems
					case ElemNonTerminal:
						for k := range g.first[e.NT] {
							if !g.first[nt][k] {
								g.first[nt][k] = true
								changed = true
							}
						}
						if !nullable[e.NT] {
							break elems
						}
					case ElemAction:
						// skip, continue scanning the alternative
					}
				}
			}
		}
	}
}

// firstOfSequence returns FIRST of a run of production elements (used to
// compute FOLLOW contributions from what trails a non-terminal within an
// alternative), and whether the whole run is nullable.
func (g *Grammar) firstOfSequence(seq []ProductionElem) (map[lexer.Kind]bool, bool) {
	out := map[lexer.Kind]bool{}
	for _, e := range seq {
		switch e.Kind {
		case ElemTerminal:
			out[e.Term] = true
			return out, false
		case ElemNonTerminal:
			for k := range g.first[e.NT] {
				out[k] = true
			}
			if !g.isNullable(e.NT) {
				return out, false
			}
		case ElemAction:
		}
	}
	return out, true
}

func (g *Grammar) isNullable(nt NonTerminal) bool {
	return g.nullableNT(nt, map[NonTerminal]bool{})
}

// computeFollow runs the companion fixpoint for FOLLOW sets: Program's
// FOLLOW always contains EndOfInput (§4.3 end marker); every other
// non-terminal inherits from where it appears on a right-hand side.
func (g *Grammar) computeFollow() {
	g.follow[NProgram][lexer.EndOfInput] = true

	changed := true
	for changed {
		changed = false
		for _, p := range g.prods {
			for i, e := range p.Right {
				if e.Kind != ElemNonTerminal {
					continue
				}
				rest := p.Right[i+1:]
				firstRest, nullableRest := g.firstOfSequence(rest)
				for k := range firstRest {
					if !g.follow[e.NT][k] {
						g.follow[e.NT][k] = true
						changed = true
					}
				}
				if nullableRest {
					for k := range g.follow[p.Left] {
						if !g.follow[e.NT][k] {
							g.follow[e.NT][k] = true
							changed = true
						}
					}
				}
			}
		}
	}
}

// buildTable fills table[nt][terminal] = production index per the
// standard LL(1) construction: for every alternative, add it under every
// terminal in FIRST(alternative); if the alternative is nullable, also add
// it under every terminal in FOLLOW(nt). A terminal already claimed by a
// different alternative is a grammar conflict.
func (g *Grammar) buildTable() {
	for nt := NonTerminal(0); nt < numNonTerminals; nt++ {
		g.table[nt] = map[lexer.Kind]int{}
		for _, pi := range g.byLeft[nt] {
			firstAlt, nullableAlt := g.firstOfSequence(g.prods[pi].Right)
			for term := range firstAlt {
				g.claim(nt, term, pi)
			}
			if nullableAlt {
				for term := range g.follow[nt] {
					g.claim(nt, term, pi)
				}
			}
		}
	}
}

func (g *Grammar) claim(nt NonTerminal, term lexer.Kind, pi int) {
	if existing, ok := g.table[nt][term]; ok && existing != pi {
		panic(fmt.Sprintf("parser: grammar is not LL(1): %s has conflicting productions under %s", nt, term))
	}
	g.table[nt][term] = pi
}

// Entry looks up the production to expand for (nt, lookahead); ok is false
// when no alternative applies, meaning lookahead cannot legally follow nt
// here (a syntax error for the caller to report).
func (g *Grammar) Entry(nt NonTerminal, lookahead lexer.Kind) (Production, bool) {
	pi, ok := g.table[nt][lookahead]
	if !ok {
		return Production{}, false
	}
	return g.prods[pi], true
}

// Follow exposes FOLLOW(nt) for panic-mode error recovery: on an
// unexpected token, the driver discards input until it sees something in
// FOLLOW(nt) (or FIRST(nt)), per §4.4's recovery strategy.
func (g *Grammar) Follow(nt NonTerminal) map[lexer.Kind]bool { return g.follow[nt] }

// First exposes FIRST(nt), used the same way during recovery and by tests.
func (g *Grammar) First(nt NonTerminal) map[lexer.Kind]bool { return g.first[nt] }

// sortedKinds is a small test/debug helper: a deterministic ordering of a
// terminal set, for stable output.
func sortedKinds(set map[lexer.Kind]bool) []lexer.Kind {
	out := make([]lexer.Kind, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
