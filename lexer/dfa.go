package lexer

// Meta-alphabet symbols. A real character in an alphabet column is any rune
// ≥ 0; the two meta columns stand in for "any ASCII letter" and "any ASCII
// digit" respectively and are only ever matched via alphabetIndex's default
// fallback, never by direct rune equality.
const (
	metaAlpha rune = -1
	metaDigit rune = -2
)

func isASCIILetter(c rune) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isASCIIDigit(c rune) bool  { return c >= '0' && c <= '9' }

// tokenPath associates a token Kind with the exact sequence of distinct
// states visited to reach the accepting state it's registered under.
type tokenPath struct {
	kind   Kind
	states []int
}

func samePath(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// dfa is one per-category automaton: a dense state x alphabet-column table,
// an accepting bit per non-start state, and the state-path -> token map for
// its accepting states.
type dfa struct {
	alphabet  []rune           // column i holds this column's symbol (may be metaAlpha/metaDigit)
	table     [][]int          // table[state][col] = next state, or -1
	accepting []bool           // accepting[state-1] for state in [1, len(table)); state 0 is never accepting
	tokenMap  map[int][]tokenPath
}

func newDFA(alphabet []rune, numStates int) *dfa {
	table := make([][]int, numStates)
	for i := range table {
		row := make([]int, len(alphabet))
		for j := range row {
			row[j] = -1
		}
		table[i] = row
	}
	return &dfa{
		alphabet:  alphabet,
		table:     table,
		accepting: make([]bool, numStates-1),
		tokenMap:  make(map[int][]tokenPath),
	}
}

func (d *dfa) colOf(sym rune) int {
	for i, a := range d.alphabet {
		if a == sym {
			return i
		}
	}
	return -1
}

func (d *dfa) set(state int, sym rune, next int) {
	col := d.colOf(sym)
	if col < 0 {
		panic("lexer: symbol not in dfa alphabet")
	}
	d.table[state][col] = next
}

func (d *dfa) setAccepting(state int) {
	d.accepting[state-1] = true
}

func (d *dfa) addTokenPath(finalState int, kind Kind, states []int) {
	for _, existing := range d.tokenMap[finalState] {
		if samePath(existing.states, states) {
			panic("lexer: duplicate token path registered for one accepting state")
		}
	}
	path := make([]int, len(states))
	copy(path, states)
	d.tokenMap[finalState] = append(d.tokenMap[finalState], tokenPath{kind: kind, states: path})
}

// keywordIdentifierDFA builds a trie over every keyword's spelling layered
// on top of a generic "identifier continuation" state. State 1 is that
// generic accepting state: any character that deviates from a keyword's
// exact path falls through to it, and once there every further
// identifier-legal character loops back to it.
func keywordIdentifierDFA() *dfa {
	type node struct {
		state    int
		children map[rune]*node
		keyword  Kind
		isEnd    bool
	}

	root := &node{state: 0, children: map[rune]*node{}}
	genericState := 1
	nextState := 2

	// Sort keyword spellings for deterministic state numbering.
	spellings := make([]string, 0, len(keywords))
	for s := range keywords {
		spellings = append(spellings, s)
	}
	for i := 0; i < len(spellings); i++ {
		for j := i + 1; j < len(spellings); j++ {
			if spellings[j] < spellings[i] {
				spellings[i], spellings[j] = spellings[j], spellings[i]
			}
		}
	}

	for _, word := range spellings {
		cur := root
		for _, ch := range word {
			child, ok := cur.children[ch]
			if !ok {
				child = &node{state: nextState, children: map[rune]*node{}}
				nextState++
				cur.children[ch] = child
			}
			cur = child
		}
		cur.isEnd = true
		cur.keyword = keywords[word]
	}

	// Alphabet: '_', ALPHA, DIGIT, plus one column per distinct literal
	// character appearing anywhere in a keyword spelling (the trie's edges).
	alphabet := []rune{'_', metaAlpha, metaDigit}
	seen := map[rune]bool{'_': true, metaAlpha: true, metaDigit: true}
	var walkChars func(n *node)
	walkChars = func(n *node) {
		for ch, child := range n.children {
			if !seen[ch] {
				seen[ch] = true
				alphabet = append(alphabet, ch)
			}
			walkChars(child)
		}
	}
	walkChars(root)

	d := newDFA(alphabet, nextState)

	// State 0: '_', ALPHA and every keyword letter fall to the generic
	// state, unless the letter starts a keyword and enters the trie instead.
	d.set(0, '_', genericState)
	d.set(0, metaAlpha, genericState)
	for _, ch := range alphabet {
		if ch != metaDigit {
			d.set(0, ch, genericState)
		}
	}
	for ch, child := range root.children {
		d.set(0, ch, child.state)
	}
	d.setAccepting(genericState)
	d.addTokenPath(genericState, Identifier, []int{genericState})

	// Generic state loops on every identifier-legal character.
	d.set(genericState, '_', genericState)
	d.set(genericState, metaAlpha, genericState)
	d.set(genericState, metaDigit, genericState)
	for _, ch := range alphabet {
		if ch != '_' && ch != metaAlpha && ch != metaDigit {
			d.set(genericState, ch, genericState)
		}
	}

	var walkStates func(n *node, pathSoFar []int)
	walkStates = func(n *node, pathSoFar []int) {
		if n != root {
			// Every trie state accepts: a keyword prefix such as "i" or
			// "fe" is an identifier, found by the single-state fallback.
			d.setAccepting(n.state)
			d.addTokenPath(n.state, Identifier, []int{n.state})
			if n.isEnd {
				d.addTokenPath(n.state, n.keyword, append(append([]int{}, pathSoFar...), n.state))
			}
			// Any deviation from the trie falls to the generic state; the
			// child columns are set over this below.
			for _, ch := range alphabet {
				d.set(n.state, ch, genericState)
			}
		}
		for ch, child := range n.children {
			if n != root {
				d.set(n.state, ch, child.state)
			}
			nextPath := pathSoFar
			if n != root {
				nextPath = append(append([]int{}, pathSoFar...), n.state)
			}
			walkStates(child, nextPath)
		}
	}
	walkStates(root, nil)

	return d
}

// numberDFA recognizes DIGIT+ and DIGIT+ '.' DIGIT+ (('E'|'e') ('+'|'-')? DIGIT+)?.
func numberDFA() *dfa {
	// states: 0 start, 1 int digits, 2 dot seen, 3 fraction digits,
	// 4 exponent marker seen, 5 exponent sign seen, 6 exponent digits.
	d := newDFA([]rune{metaDigit, '.', 'E', 'e', '+', '-'}, 7)

	d.set(0, metaDigit, 1)
	d.set(1, metaDigit, 1)
	d.set(1, '.', 2)
	d.set(2, metaDigit, 3)
	d.set(3, metaDigit, 3)
	d.set(3, 'E', 4)
	d.set(3, 'e', 4)
	d.set(4, '+', 5)
	d.set(4, '-', 5)
	d.set(4, metaDigit, 6)
	d.set(5, metaDigit, 6)
	d.set(6, metaDigit, 6)

	d.setAccepting(1)
	d.setAccepting(3)
	d.setAccepting(6)
	d.addTokenPath(1, IntLiteral, []int{1})
	d.addTokenPath(3, DoubleLiteral, []int{1, 2, 3})
	d.addTokenPath(6, DoubleLiteral, []int{1, 2, 3, 4, 6})
	d.addTokenPath(6, DoubleLiteral, []int{1, 2, 3, 4, 5, 6})
	return d
}

// comparatorDFA recognizes = == < <= > >= <>.
func comparatorDFA() *dfa {
	// states: 0 start, 1 '=' seen, 2 '==' , 3 '<' seen, 4 '<=', 5 '<>',
	// 6 '>' seen, 7 '>='.
	d := newDFA([]rune{'=', '<', '>'}, 8)

	d.set(0, '=', 1)
	d.set(0, '<', 3)
	d.set(0, '>', 6)
	d.set(1, '=', 2)
	d.set(3, '=', 4)
	d.set(3, '>', 5)
	d.set(6, '=', 7)

	d.setAccepting(1)
	d.setAccepting(2)
	d.setAccepting(3)
	d.setAccepting(4)
	d.setAccepting(5)
	d.setAccepting(6)
	d.setAccepting(7)

	d.addTokenPath(1, OpAssign, []int{1})
	d.addTokenPath(2, OpEqual, []int{1, 2})
	d.addTokenPath(3, OpLess, []int{3})
	d.addTokenPath(4, OpLessEq, []int{3, 4})
	d.addTokenPath(5, OpNotEqual, []int{3, 5})
	d.addTokenPath(6, OpGreater, []int{6})
	d.addTokenPath(7, OpGreaterEq, []int{6, 7})
	return d
}

// separatorDFA one-shot accepts for ; , . ( ) [ ].
func separatorDFA() *dfa {
	syms := []rune{';', ',', '.', '(', ')', '[', ']'}
	kinds := []Kind{SepSemicolon, SepComma, SepDot, SepLParen, SepRParen, SepLBracket, SepRBracket}
	d := newDFA(syms, 1+len(syms))
	for i, sym := range syms {
		state := i + 1
		d.set(0, sym, state)
		d.setAccepting(state)
		d.addTokenPath(state, kinds[i], []int{state})
	}
	return d
}

// operatorDFA one-shot accepts for + - * / %.
func operatorDFA() *dfa {
	syms := []rune{'+', '-', '*', '/', '%'}
	kinds := []Kind{OpPlus, OpMinus, OpStar, OpSlash, OpPercent}
	d := newDFA(syms, 1+len(syms))
	for i, sym := range syms {
		state := i + 1
		d.set(0, sym, state)
		d.setAccepting(state)
		d.addTokenPath(state, kinds[i], []int{state})
	}
	return d
}

func constantDFAs() []*dfa {
	return []*dfa{
		keywordIdentifierDFA(),
		numberDFA(),
		comparatorDFA(),
		separatorDFA(),
		operatorDFA(),
	}
}
