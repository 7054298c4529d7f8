package lexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scan(t *testing.T, src string) ([]ParsedToken, []InvalidToken) {
	t.Helper()
	table := NewTransitionTable()
	toks, invalid := All(strings.NewReader(src), table)
	return toks, invalid
}

func kinds(toks []ParsedToken) []Kind {
	out := make([]Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Token.Kind
	}
	return out
}

func TestLexerKeywordsAndIdentifiers(t *testing.T) {
	toks, invalid := scan(t, "int double if then else fi while do od def fed return and or not print foo do2 x_1")
	require.Empty(t, invalid)
	require.Equal(t, []Kind{
		KwInt, KwDouble, KwIf, KwThen, KwElse, KwFi, KwWhile, KwDo, KwOd,
		KwDef, KwFed, KwReturn, KwAnd, KwOr, KwNot, KwPrint,
		Identifier, Identifier, Identifier,
	}, kinds(toks))
	assert.Equal(t, "foo", toks[16].Token.Text)
	assert.Equal(t, "do2", toks[17].Token.Text)
}

func TestLexerNumbers(t *testing.T) {
	toks, invalid := scan(t, "42 3.14 2.5E10 1.0e-3 7.0E+2")
	require.Empty(t, invalid)
	require.Equal(t, []Kind{IntLiteral, DoubleLiteral, DoubleLiteral, DoubleLiteral, DoubleLiteral}, kinds(toks))
	assert.Equal(t, int32(42), toks[0].Token.IntVal)
	assert.InDelta(t, 3.14, toks[1].Token.DblVal, 1e-9)
}

func TestLexerOperatorsAndSeparators(t *testing.T) {
	toks, invalid := scan(t, "+ - * / % = == < <= > >= <> , ; . ( ) [ ]")
	require.Empty(t, invalid)
	require.Equal(t, []Kind{
		OpPlus, OpMinus, OpStar, OpSlash, OpPercent, OpAssign, OpEqual,
		OpLess, OpLessEq, OpGreater, OpGreaterEq, OpNotEqual,
		SepComma, SepSemicolon, SepDot, SepLParen, SepRParen, SepLBracket, SepRBracket,
	}, kinds(toks))
}

func TestLexerComments(t *testing.T) {
	toks, invalid := scan(t, "int x; // a line comment\n/* a\nblock comment */ double y.")
	require.Empty(t, invalid)
	require.Equal(t, []Kind{KwInt, Identifier, SepSemicolon, KwDouble, Identifier, SepDot}, kinds(toks))
}

func TestLexerUnclosedBlockCommentReachesEOF(t *testing.T) {
	toks, _ := scan(t, "int x; /* never closed")
	require.Equal(t, []Kind{KwInt, Identifier, SepSemicolon}, kinds(toks))
}

func TestLexerLineCounting(t *testing.T) {
	toks, invalid := scan(t, "int x;\nx = 1.\n")
	require.Empty(t, invalid)
	require.Len(t, toks, 7)
	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 2, toks[3].Line)
}
