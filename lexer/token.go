package lexer

import "fmt"

// Kind identifies the class of a recognized token. Ordinals are stable and
// double as column indices into the LL(1) parse table, so new kinds must
// always be appended, never inserted.
type Kind int

const (
	Identifier Kind = iota
	IntLiteral
	DoubleLiteral

	// keywords
	KwIf
	KwThen
	KwElse
	KwFi
	KwWhile
	KwDo
	KwOd
	KwDef
	KwFed
	KwReturn
	KwAnd
	KwOr
	KwNot
	KwInt
	KwDouble
	KwPrint

	// operators
	OpPlus
	OpMinus
	OpStar
	OpSlash
	OpPercent
	OpAssign
	OpEqual
	OpLess
	OpLessEq
	OpGreater
	OpGreaterEq
	OpNotEqual

	// separators
	SepComma
	SepSemicolon
	SepDot
	SepLParen
	SepRParen
	SepLBracket
	SepRBracket

	// EndOfInput is the last column of the LL(1) table, one past every
	// other kind.
	EndOfInput

	numKinds = EndOfInput + 1
)

var kindNames = map[Kind]string{
	Identifier:    "Identifier",
	IntLiteral:    "IntLiteral",
	DoubleLiteral: "DoubleLiteral",
	KwIf:          "if",
	KwThen:        "then",
	KwElse:        "else",
	KwFi:          "fi",
	KwWhile:       "while",
	KwDo:          "do",
	KwOd:          "od",
	KwDef:         "def",
	KwFed:         "fed",
	KwReturn:      "return",
	KwAnd:         "and",
	KwOr:          "or",
	KwNot:         "not",
	KwInt:         "int",
	KwDouble:      "double",
	KwPrint:       "print",
	OpPlus:        "+",
	OpMinus:       "-",
	OpStar:        "*",
	OpSlash:       "/",
	OpPercent:     "%",
	OpAssign:      "=",
	OpEqual:       "==",
	OpLess:        "<",
	OpLessEq:      "<=",
	OpGreater:     ">",
	OpGreaterEq:   ">=",
	OpNotEqual:    "<>",
	SepComma:      ",",
	SepSemicolon:  ";",
	SepDot:        ".",
	SepLParen:     "(",
	SepRParen:     ")",
	SepLBracket:   "[",
	SepRBracket:   "]",
	EndOfInput:    "$",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// keywords maps the exact spelling of a keyword to its Kind. Populated once
// and consulted by the keyword/identifier DFA builder.
var keywords = map[string]Kind{
	"if": KwIf, "then": KwThen, "else": KwElse, "fi": KwFi,
	"while": KwWhile, "do": KwDo, "od": KwOd,
	"def": KwDef, "fed": KwFed, "return": KwReturn,
	"and": KwAnd, "or": KwOr, "not": KwNot,
	"int": KwInt, "double": KwDouble, "print": KwPrint,
}

// Token is a tagged value: Kind plus, for Identifier/IntLiteral/DoubleLiteral,
// the carried payload.
type Token struct {
	Kind   Kind
	Text   string  // Identifier lexeme
	IntVal int32   // IntLiteral payload
	DblVal float64 // DoubleLiteral payload
}

// Equal compares two tokens by kind only; this is the comparison the parser
// driver uses to match a grammar terminal against the lookahead token.
func (t Token) Equal(other Token) bool { return t.Kind == other.Kind }

func (t Token) String() string {
	switch t.Kind {
	case Identifier:
		return fmt.Sprintf("Identifier(%q)", t.Text)
	case IntLiteral:
		return fmt.Sprintf("IntLiteral(%d)", t.IntVal)
	case DoubleLiteral:
		return fmt.Sprintf("DoubleLiteral(%g)", t.DblVal)
	default:
		return t.Kind.String()
	}
}

// ParsedToken pairs a Token with its 1-based source line number.
type ParsedToken struct {
	Token Token
	Line  int
}

func (p ParsedToken) String() string {
	return fmt.Sprintf("%s @ line %d", p.Token, p.Line)
}

// InvalidToken records a lexeme the transition table could not classify.
type InvalidToken struct {
	Lexeme string
	Line   int
}

func (i InvalidToken) Error() string {
	return fmt.Sprintf("invalid token %q on line %d", i.Lexeme, i.Line)
}
