package semant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xingleixu/cp-compiler/lexer"
	"github.com/xingleixu/cp-compiler/parser"
	"github.com/xingleixu/cp-compiler/types"
)

func analyze(t *testing.T, src string) (*Analyzer, []*parser.SyntaxError) {
	t.Helper()
	table := lexer.NewTransitionTable()
	lx := lexer.New(strings.NewReader(src), table)
	a := New()
	p := parser.New(lx, a)
	errs := p.Parse()
	return a, errs
}

func TestEmptyMain(t *testing.T) {
	a, perrs := analyze(t, ".")
	require.Empty(t, perrs)
	assert.Empty(t, a.Errors())
}

func TestScalarAssignment(t *testing.T) {
	a, perrs := analyze(t, "int x; x = 1 + 2.")
	require.Empty(t, perrs)
	require.Empty(t, a.Errors())

	global := a.Table.Scope(types.GlobalScope)
	var sawAssign bool
	for _, e := range global.Entries {
		if e.Kind == types.EntryAssignment {
			sawAssign = true
			assert.Equal(t, "x", e.Assignment.Var.Name)
		}
	}
	assert.True(t, sawAssign)
}

func TestArrayDeclAndAccess(t *testing.T) {
	a, perrs := analyze(t, "int a[3]; a[0] = 5.")
	require.Empty(t, perrs)
	require.Empty(t, a.Errors())

	decl, ok := a.Table.FindDecl("a", types.GlobalScope)
	require.True(t, ok)
	assert.Equal(t, types.KArray, decl.Type.Kind)
	assert.EqualValues(t, 3, decl.Type.Size)
}

func TestIfElseOpensAndClosesScopes(t *testing.T) {
	src := "int x; if x < 1 then print x; else print x fi ."
	a, perrs := analyze(t, src)
	require.Empty(t, perrs)
	require.Empty(t, a.Errors())
	assert.Equal(t, types.GlobalScope, a.currScope)
}

func TestWhileLoop(t *testing.T) {
	a, perrs := analyze(t, "int x; while x < 10 do x = x + 1 od .")
	require.Empty(t, perrs)
	require.Empty(t, a.Errors())
}

func TestFunctionDeclCallAndReturn(t *testing.T) {
	src := "def int f(int a) int r; r = a; return r fed; int y; y = f(3)."
	a, perrs := analyze(t, src)
	require.Empty(t, perrs)
	require.Empty(t, a.Errors())

	decl, ok := a.Table.FindDecl("f", types.GlobalScope)
	require.True(t, ok)
	assert.Equal(t, types.KFunction, decl.Type.Kind)
	assert.Len(t, decl.Type.Func.Params, 1)
}

func TestTypeMismatchIsReported(t *testing.T) {
	a, perrs := analyze(t, "int x; double y; x = y.")
	require.Empty(t, perrs)
	require.NotEmpty(t, a.Errors())
	assert.Equal(t, TypeMismatch, a.Errors()[0].Kind)
}

func TestUndefinedVariableIsReported(t *testing.T) {
	a, perrs := analyze(t, "int x; x = z.")
	require.Empty(t, perrs)
	require.NotEmpty(t, a.Errors())
	assert.Equal(t, UndefinedVariable, a.Errors()[0].Kind)
}

func TestDuplicateDeclarationIsReported(t *testing.T) {
	a, perrs := analyze(t, "int x; int x; x = 1.")
	require.Empty(t, perrs)
	require.NotEmpty(t, a.Errors())
	assert.Equal(t, DuplicateDeclaration, a.Errors()[0].Kind)
}
