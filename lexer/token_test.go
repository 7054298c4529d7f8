package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenEqualComparesKindOnly(t *testing.T) {
	a := Token{Kind: Identifier, Text: "x"}
	b := Token{Kind: Identifier, Text: "y"}
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(Token{Kind: KwIf}))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "if", KwIf.String())
	assert.Equal(t, "<>", OpNotEqual.String())
	assert.Equal(t, "$", EndOfInput.String())
}

func TestInvalidTokenError(t *testing.T) {
	err := InvalidToken{Lexeme: "@", Line: 3}
	assert.Contains(t, err.Error(), "line 3")
}
