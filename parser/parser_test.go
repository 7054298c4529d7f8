package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xingleixu/cp-compiler/lexer"
)

// recordingSink just records every action it's given, in order, so tests
// can assert on the shape of a parse without a real semantic analyzer.
type recordingSink struct {
	fired []SemanticAction
}

func (s *recordingSink) Dispatch(act SemanticAction, tok lexer.ParsedToken) {
	s.fired = append(s.fired, act)
}

func parse(t *testing.T, src string) (*recordingSink, []*SyntaxError) {
	t.Helper()
	table := lexer.NewTransitionTable()
	lx := lexer.New(strings.NewReader(src), table)
	sink := &recordingSink{}
	p := New(lx, sink)
	errs := p.Parse()
	return sink, errs
}

func TestGrammarIsLL1(t *testing.T) {
	require.NotPanics(t, func() { NewGrammar() })
}

func TestParseEmptyMain(t *testing.T) {
	_, errs := parse(t, ".")
	assert.Empty(t, errs)
}

func TestParseSimpleAssignment(t *testing.T) {
	_, errs := parse(t, "int x; x = 1 + 2.")
	assert.Empty(t, errs)
}

func TestParseIfElse(t *testing.T) {
	src := "int x; if x < 1 then print x; else print x fi ."
	_, errs := parse(t, src)
	assert.Empty(t, errs)
}

func TestParseWhile(t *testing.T) {
	src := "int x; while x < 10 do x = x + 1 od ."
	_, errs := parse(t, src)
	assert.Empty(t, errs)
}

func TestParseFunctionDeclAndCall(t *testing.T) {
	src := "def int f(int a) int r; r = a; return r fed; int y; y = f(3)."
	sink, errs := parse(t, src)
	assert.Empty(t, errs)
	assert.Contains(t, sink.fired, ActSetFunc)
	assert.Contains(t, sink.fired, ActAddFuncDecl)
}

func TestParseArrayDeclAndAccess(t *testing.T) {
	src := "int a[3]; a[0] = 1."
	_, errs := parse(t, src)
	assert.Empty(t, errs)
}

func TestParseRecoversFromMissingSemicolon(t *testing.T) {
	src := "int x x = 1."
	_, errs := parse(t, src)
	assert.NotEmpty(t, errs)
}

func TestParseReportsUnexpectedEOF(t *testing.T) {
	_, errs := parse(t, "int x")
	require.NotEmpty(t, errs)
	found := false
	for _, e := range errs {
		if e.Kind == UnexpectedEndOfFile {
			found = true
		}
	}
	assert.True(t, found)
}
