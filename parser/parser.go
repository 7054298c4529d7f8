package parser

import (
	"fmt"

	"github.com/xingleixu/cp-compiler/lexer"
)

// ActionSink receives semantic actions as the parser fires them, each
// paired with the most recently matched terminal token (most
// actions need it: SetId needs the identifier text, SetLiteral needs the
// literal value, and so on; actions that don't need it simply ignore it).
// The semantic analyzer is the only implementation; the parser package
// never looks inside semant, only calls through this seam.
type ActionSink interface {
	Dispatch(act SemanticAction, tok lexer.ParsedToken)
}

// ErrorKind classifies a syntax error the driver recovered from (§4.4).
type ErrorKind int

const (
	ExpectedToken ErrorKind = iota
	UnexpectedToken
	UnexpectedEndOfFile
)

// SyntaxError is one recovered parse error. Parsing never stops at the
// first one; Parse keeps going in panic mode and returns every error it
// collected along the way.
type SyntaxError struct {
	Kind     ErrorKind
	Line     int
	Want     NonTerminal
	Got      lexer.Kind
	GotToken lexer.Token
}

func (e *SyntaxError) Error() string {
	switch e.Kind {
	case UnexpectedEndOfFile:
		return fmt.Sprintf("line %d: unexpected end of input while parsing %s", e.Line, e.Want)
	case ExpectedToken:
		return fmt.Sprintf("line %d: expected %s, found %s", e.Line, e.Want, e.GotToken)
	default:
		return fmt.Sprintf("line %d: unexpected token %s", e.Line, e.GotToken)
	}
}

// stackElem is either a grammar symbol still to be matched/expanded, or a
// semantic action still to be fired, kept on one stack so action firing
// interleaves with terminal matching in exactly the order the grammar
// specifies.
type stackElem struct {
	elem ProductionElem
}

// Parser drives the LL(1) table over a token stream: a pushdown automaton
// whose stack alternates grammar symbols and semantic-action markers,
// exactly mirroring the original's single-stack design (no separate AST
// construction pass).
type Parser struct {
	lex     *lexer.Lexer
	grammar *Grammar
	sink    ActionSink

	current     lexer.ParsedToken
	lastMatched lexer.ParsedToken
	atEOF       bool

	errors []*SyntaxError
}

// New creates a parser reading tokens from lex and firing semantic actions
// into sink, using a freshly built grammar.
func New(lex *lexer.Lexer, sink ActionSink) *Parser {
	p := &Parser{lex: lex, grammar: NewGrammar(), sink: sink}
	p.advance()
	return p
}

func (p *Parser) advance() {
	tok, ok := p.lex.Next()
	if !ok {
		p.atEOF = true
		p.current = lexer.ParsedToken{Token: lexer.Token{Kind: lexer.EndOfInput}, Line: p.current.Line}
		return
	}
	p.current = tok
}

func (p *Parser) lookahead() lexer.Kind { return p.current.Token.Kind }

// Errors returns every syntax error recovered from during Parse.
func (p *Parser) Errors() []*SyntaxError { return p.errors }

// Parse runs the PDA to completion: expands Program against the token
// stream, firing semantic actions as it goes, and returns every recovered
// syntax error (nil if the input was well-formed).
func (p *Parser) Parse() []*SyntaxError {
	stack := []stackElem{{elem: N(NProgram)}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch top.elem.Kind {
		case ElemAction:
			p.sink.Dispatch(top.elem.Act, p.lastMatched)

		case ElemTerminal:
			if p.lookahead() == top.elem.Term {
				p.lastMatched = p.current
				p.advance()
				continue
			}
			p.recoverTerminal(top.elem.Term)

		case ElemNonTerminal:
			nt := top.elem.NT
			prod, ok := p.grammar.Entry(nt, p.lookahead())
			if !ok {
				if p.recoverNonTerminal(nt) {
					// lookahead now in FIRST(nt): retry this nonterminal
					stack = append(stack, top)
				}
				continue
			}
			for i := len(prod.Right) - 1; i >= 0; i-- {
				stack = append(stack, stackElem{elem: prod.Right[i]})
			}
		}
	}
	return p.errors
}

// recoverTerminal implements panic-mode recovery for a terminal mismatch
// (§4.4): report it, then skip input up to and including a token of the
// expected kind, or until end of input. The terminal is considered
// consumed either way so the driver always makes progress.
func (p *Parser) recoverTerminal(want lexer.Kind) {
	if p.atEOF {
		p.errors = append(p.errors, &SyntaxError{Kind: UnexpectedEndOfFile, Line: p.current.Line, GotToken: p.current.Token})
		return
	}
	p.errors = append(p.errors, &SyntaxError{
		Kind: UnexpectedToken, Line: p.current.Line, GotToken: p.current.Token,
	})
	for !p.atEOF && p.lookahead() != want {
		p.advance()
	}
	if !p.atEOF {
		p.advance()
	}
}

// recoverNonTerminal implements panic-mode recovery for "no table entry"
// (§4.4): report it, then discard tokens until the lookahead is something
// nt could legally start with or be followed by. Returns true if the
// caller should retry expanding nt (lookahead landed in FIRST(nt)), false
// if nt should be treated as if it derived epsilon here (lookahead landed
// in FOLLOW(nt), or input ran out).
func (p *Parser) recoverNonTerminal(nt NonTerminal) bool {
	if p.atEOF {
		p.errors = append(p.errors, &SyntaxError{Kind: UnexpectedEndOfFile, Line: p.current.Line, Want: nt})
		return false
	}
	p.errors = append(p.errors, &SyntaxError{Kind: ExpectedToken, Line: p.current.Line, Want: nt, GotToken: p.current.Token})

	first := p.grammar.First(nt)
	follow := p.grammar.Follow(nt)
	for !p.atEOF {
		if first[p.lookahead()] {
			return true
		}
		if follow[p.lookahead()] {
			return false
		}
		p.advance()
	}
	return false
}
