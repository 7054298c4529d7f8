package lexer

import "fmt"

// TransitionTable is the composed recognizer: a dense state x
// alphabet-column table merged from every per-category DFA, plus a dense
// character -> column lookup and the accepting-state -> token map inherited
// from each contributing DFA.
type TransitionTable struct {
	numCols  int
	alphaCol int
	digitCol int

	// columnOf[c-smallest] gives the column for a non-meta character in
	// [smallest, largest]; ASCII letters/digits default to alphaCol/digitCol
	// when they have no dedicated column.
	smallest  rune
	largest   rune
	columnOf  []int

	table     [][]int
	accepting []bool // accepting[state], state 0 always false

	tokenMap map[int][]tokenPath
}

const noColumn = -1

// NewTransitionTable composes the five category DFAs into one table,
// panicking on any construction-time invariant violation: these indicate a
// grammar/DFA bug, not a runtime error (§4.1, §7).
func NewTransitionTable() *TransitionTable {
	dfas := constantDFAs()

	// Merge alphabets: meta symbols are shared; every other symbol across
	// every DFA gets its own global column.
	merged := []rune{metaAlpha, metaDigit}
	colIndex := map[rune]int{metaAlpha: 0, metaDigit: 1}
	for _, d := range dfas {
		for _, sym := range d.alphabet {
			if sym == metaAlpha || sym == metaDigit {
				continue
			}
			if _, ok := colIndex[sym]; !ok {
				colIndex[sym] = len(merged)
				merged = append(merged, sym)
			}
		}
	}

	tt := &TransitionTable{
		numCols:  len(merged),
		alphaCol: colIndex[metaAlpha],
		digitCol: colIndex[metaDigit],
		tokenMap: make(map[int][]tokenPath),
	}

	// Dense character -> column lookup over the smallest..largest non-meta
	// character range, defaulting unset ASCII letters/digits to the meta
	// columns.
	smallest, largest := rune(0), rune(0)
	first := true
	for sym := range colIndex {
		if sym == metaAlpha || sym == metaDigit {
			continue
		}
		if first || sym < smallest {
			smallest = sym
		}
		if first || sym > largest {
			largest = sym
		}
		first = false
	}
	if isASCIILetter('a') && 'a' < smallest {
		smallest = 'a'
	}
	if isASCIIDigit('0') && largest < '9' {
		largest = '9'
	}
	if smallest > 'A' {
		smallest = 'A'
	}
	if largest < 'z' {
		largest = 'z'
	}
	tt.smallest, tt.largest = smallest, largest
	tt.columnOf = make([]int, largest-smallest+1)
	for i := range tt.columnOf {
		c := smallest + rune(i)
		switch {
		case isASCIILetter(c):
			tt.columnOf[i] = tt.alphaCol
		case isASCIIDigit(c):
			tt.columnOf[i] = tt.digitCol
		default:
			tt.columnOf[i] = noColumn
		}
		if col, ok := colIndex[c]; ok {
			tt.columnOf[i] = col
		}
	}

	// Allocate the global state pool; state 0 is the shared start state.
	startState := 0
	nextState := 1
	tt.table = [][]int{newRow(tt.numCols)}
	tt.accepting = []bool{false}

	for _, d := range dfas {
		offset := make([]int, len(d.table))
		offset[0] = startState
		for i := 1; i < len(d.table); i++ {
			offset[i] = nextState
			nextState++
			tt.table = append(tt.table, newRow(tt.numCols))
			tt.accepting = append(tt.accepting, false)
		}

		for localState, row := range d.table {
			globalState := offset[localState]
			for localCol, next := range row {
				if next < 0 {
					continue
				}
				sym := d.alphabet[localCol]
				globalCol := colIndex[sym]
				if sym == metaAlpha {
					globalCol = tt.alphaCol
				} else if sym == metaDigit {
					globalCol = tt.digitCol
				}
				globalNext := offset[next]
				if existing := tt.table[globalState][globalCol]; existing != noColumn && existing != globalNext {
					panic(fmt.Sprintf("lexer: conflicting transition at state %d column %d", globalState, globalCol))
				}
				tt.table[globalState][globalCol] = globalNext
				if sym == metaAlpha {
					// A letter that another DFA gave its own column (the
					// number DFA's 'E') is still ALPHA to this one.
					for c, col := range colIndex {
						if isASCIILetter(c) && d.colOf(c) < 0 && tt.table[globalState][col] == noColumn {
							tt.table[globalState][col] = globalNext
						}
					}
				}
			}
		}

		for state, ok := range d.accepting {
			if ok {
				tt.accepting[offset[state+1]] = true
			}
		}

		for localFinal, paths := range d.tokenMap {
			globalFinal := offset[localFinal]
			for _, p := range paths {
				globalPath := make([]int, len(p.states))
				for i, s := range p.states {
					globalPath[i] = offset[s]
				}
				for _, existing := range tt.tokenMap[globalFinal] {
					if samePath(existing.states, globalPath) {
						panic("lexer: duplicate token path at one global accepting state")
					}
				}
				tt.tokenMap[globalFinal] = append(tt.tokenMap[globalFinal], tokenPath{kind: p.kind, states: globalPath})
			}
		}
	}

	return tt
}

func newRow(n int) []int {
	row := make([]int, n)
	for i := range row {
		row[i] = noColumn
	}
	return row
}

// ColumnOf returns the alphabet column for a character, or noColumn if the
// table has no transition logic for it at all (e.g. '\0', most punctuation).
func (tt *TransitionTable) ColumnOf(c rune) int {
	if c < tt.smallest || c > tt.largest {
		return noColumn
	}
	return tt.columnOf[c-tt.smallest]
}

// NextState returns the next state for (state, c); ok is false if none.
func (tt *TransitionTable) NextState(state int, c rune) (int, bool) {
	col := tt.ColumnOf(c)
	if col == noColumn {
		return 0, false
	}
	next := tt.table[state][col]
	if next < 0 {
		return 0, false
	}
	return next, true
}

// IsAccepting reports whether state is an accepting state.
func (tt *TransitionTable) IsAccepting(state int) bool {
	return state >= 0 && state < len(tt.accepting) && tt.accepting[state]
}

// Token looks up the token kind for a traversed state path, falling back to
// matching on the last state alone when no path-exact entry exists.
func (tt *TransitionTable) Token(path []int) (Kind, bool) {
	if len(path) == 0 {
		return 0, false
	}
	last := path[len(path)-1]
	for _, p := range tt.tokenMap[last] {
		if samePath(p.states, path) {
			return p.kind, true
		}
	}
	for _, p := range tt.tokenMap[last] {
		if len(p.states) == 1 {
			return p.kind, true
		}
	}
	return 0, false
}
