package compiler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xingleixu/cp-compiler/lexer"
	"github.com/xingleixu/cp-compiler/parser"
	"github.com/xingleixu/cp-compiler/semant"
)

// generate runs the full lexer -> parser -> semantic analysis pipeline and,
// provided it came back clean, lowers the resulting table to a TAC program.
func generate(t *testing.T, src string) (Program, *semant.Analyzer, []*parser.SyntaxError) {
	t.Helper()
	table := lexer.NewTransitionTable()
	lx := lexer.New(strings.NewReader(src), table)
	a := semant.New()
	p := parser.New(lx, a)
	perrs := p.Parse()
	if len(perrs) > 0 || len(a.Errors()) > 0 {
		return nil, a, perrs
	}
	return GenerateProgram(a.Table), a, perrs
}

func TestGenerateEmptyMain(t *testing.T) {
	prog, a, perrs := generate(t, ".")
	require.Empty(t, perrs)
	require.Empty(t, a.Errors())

	want := "\tGoto main0;\n" +
		"main0:\n" +
		"\tBeginFunc 0;\n" +
		"\tEndFunc;\n"
	assert.Equal(t, want, prog.String())
}

func TestGenerateScalarAssignment(t *testing.T) {
	prog, a, perrs := generate(t, "int x; x = 3 + 4.")
	require.Empty(t, perrs)
	require.Empty(t, a.Errors())

	want := "\tGoto main0;\n" +
		"main0:\n" +
		"\tBeginFunc 4;\n" +
		"\tx0 = 3 + 4;\n" +
		"\tEndFunc;\n"
	assert.Equal(t, want, prog.String())
}

func TestGenerateArrayAssignment(t *testing.T) {
	prog, a, perrs := generate(t, "int a[3]; a[1] = 5.")
	require.Empty(t, perrs)
	require.Empty(t, a.Errors())

	want := "\tGoto main0;\n" +
		"main0:\n" +
		"\tBeginFunc 12;\n" +
		"\t*(a0 + 1) = 5;\n" +
		"\tEndFunc;\n"
	assert.Equal(t, want, prog.String())
}

func TestGenerateIfElse(t *testing.T) {
	src := "int x; x = 0; if x == 0 then x = 1; else x = 2 fi."
	prog, a, perrs := generate(t, src)
	require.Empty(t, perrs)
	require.Empty(t, a.Errors())

	want := "\tGoto main0;\n" +
		"main0:\n" +
		"\tBeginFunc 8;\n" +
		"\tx0 = 0;\n" +
		"\tt0_ = x0 == 0;\n" +
		"\tIfZ t0_ Goto else0;\n" +
		"\tx0 = 1;\n" +
		"\tGoto fi1;\n" +
		"else0:\n" +
		"\tx0 = 2;\n" +
		"fi1:\n" +
		"\tEndFunc;\n"
	assert.Equal(t, want, prog.String())
}

func TestGenerateWhileLoop(t *testing.T) {
	src := "int i; i = 0; while i < 3 do i = i + 1 od."
	prog, a, perrs := generate(t, src)
	require.Empty(t, perrs)
	require.Empty(t, a.Errors())

	want := "\tGoto main0;\n" +
		"main0:\n" +
		"\tBeginFunc 8;\n" +
		"\ti0 = 0;\n" +
		"while0:\n" +
		"\tt0_ = i0 < 3;\n" +
		"\tIfZ t0_ Goto od1;\n" +
		"\ti0 = i0 + 1;\n" +
		"\tGoto while0;\n" +
		"od1:\n" +
		"\tEndFunc;\n"
	assert.Equal(t, want, prog.String())
}

func TestGenerateFunctionCallAndReturn(t *testing.T) {
	src := "def int f(int x) return x + 1 fed; int y; y = f(2)."
	prog, a, perrs := generate(t, src)
	require.Empty(t, perrs)
	require.Empty(t, a.Errors())

	want := "\tGoto main0;\n" +
		"f0:\n" +
		"\tBeginFunc 4;\n" +
		"\tx1 = GetParams 4;\n" +
		"\tt0_ = x1 + 1;\n" +
		"\tReturn t0_;\n" +
		"\tEndFunc;\n" +
		"main0:\n" +
		"\tBeginFunc 12;\n" +
		"\tt0_ = 2;\n" +
		"\tPushParam t0_;\n" +
		"\tt1_ = LCall f0;\n" +
		"\tPopParams 4;\n" +
		"\ty0 = t1_;\n" +
		"\tEndFunc;\n"
	assert.Equal(t, want, prog.String())
}

// A program with a semantic error never reaches generation: callers check
// the analyzer's error set before lowering its table, so GenerateProgram is
// simply never invoked on it.
func TestGenerateSkippedOnTypeMismatch(t *testing.T) {
	prog, a, perrs := generate(t, "int x; double y; x = y.")
	require.Empty(t, perrs)
	require.NotEmpty(t, a.Errors())
	assert.Equal(t, semant.TypeMismatch, a.Errors()[0].Kind)
	assert.Nil(t, prog)
}
