// Package compile wires the lexer, parser, semantic analyzer, and TAC
// generator into one phase-partitioned pipeline (§7), and formats their
// output for the diagnostic dumps and TAC file the CLI writes.
package compile

import (
	"bytes"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/xingleixu/cp-compiler/compiler"
	"github.com/xingleixu/cp-compiler/lexer"
	"github.com/xingleixu/cp-compiler/parser"
	"github.com/xingleixu/cp-compiler/semant"
	"github.com/xingleixu/cp-compiler/types"
)

// Result collects every artifact and error set a run of the pipeline
// produced, partitioned by phase.
type Result struct {
	Tokens  []lexer.ParsedToken
	Invalid []lexer.InvalidToken
	Syntax  []*parser.SyntaxError
	Errors  []*semant.Error
	Table   *types.Table
	Program compiler.Program
}

// Clean reports whether every phase's error set is empty — the §7 gate on
// whether TAC may be emitted.
func (r *Result) Clean() bool {
	return len(r.Invalid) == 0 && len(r.Syntax) == 0 && len(r.Errors) == 0
}

// AggregateError rolls every phase's error set into one aggregate error,
// partitioned by phase (§7: "report all three error kinds if any phase
// produced them").
func (r *Result) AggregateError() error {
	var merr *multierror.Error
	if n := len(r.Invalid); n > 0 {
		merr = multierror.Append(merr, fmt.Errorf("%d lexical error(s)", n))
	}
	if n := len(r.Syntax); n > 0 {
		merr = multierror.Append(merr, fmt.Errorf("%d syntax error(s)", n))
	}
	if n := len(r.Errors); n > 0 {
		merr = multierror.Append(merr, fmt.Errorf("%d semantic error(s)", n))
	}
	return merr.ErrorOrNil()
}

// Run lexes, parses, and semantically analyzes src, then — only if every
// phase came back clean — lowers the resulting table to a TAC program
// (§7: "must not emit TAC when any set is non-empty"). Tokenization runs
// twice over independent readers: once up front via lexer.All so the full
// token list survives for the tokens.log dump, once more driving the
// parser, since the parser owns its lexer exclusively while it runs.
func Run(src []byte, log *logrus.Logger) *Result {
	log.Info("lexing")
	tokens, invalid := lexer.All(bytes.NewReader(src), lexer.NewTransitionTable())
	log.WithFields(logrus.Fields{
		"tokens":  len(tokens),
		"invalid": len(invalid),
	}).Debug("lexing complete")

	log.Info("parsing+semantic analysis")
	a := semant.New()
	lx := lexer.New(bytes.NewReader(src), lexer.NewTransitionTable())
	p := parser.New(lx, a)
	syntaxErrs := p.Parse()
	log.WithFields(logrus.Fields{
		"syntax_errors":   len(syntaxErrs),
		"semantic_errors": len(a.Errors()),
	}).Debug("analysis complete")

	r := &Result{
		Tokens:  tokens,
		Invalid: invalid,
		Syntax:  syntaxErrs,
		Errors:  a.Errors(),
		Table:   a.Table,
	}
	if !r.Clean() {
		return r
	}

	log.Info("generating TAC")
	r.Program = compiler.GenerateProgram(a.Table)
	return r
}
