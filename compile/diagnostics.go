package compile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// FormatTokens renders one accepted token per line, in source order
// (tokens.log).
func FormatTokens(r *Result) string {
	var b strings.Builder
	for _, t := range r.Tokens {
		fmt.Fprintf(&b, "%s\n", t.String())
	}
	return b.String()
}

// FormatInvalidTokens renders one invalid lexeme per line (lexical_errors.log).
func FormatInvalidTokens(r *Result) string {
	var b strings.Builder
	for _, t := range r.Invalid {
		fmt.Fprintf(&b, "%s\n", t.Error())
	}
	return b.String()
}

// FormatSyntaxErrors renders one recovered syntax error per line (syntax_errors.log).
func FormatSyntaxErrors(r *Result) string {
	var b strings.Builder
	for _, e := range r.Syntax {
		fmt.Fprintf(&b, "%s\n", e.Error())
	}
	return b.String()
}

// FormatSemanticErrors renders one recovered semantic error per line
// (semantic_errors.log).
func FormatSemanticErrors(r *Result) string {
	var b strings.Builder
	for _, e := range r.Errors {
		fmt.Fprintf(&b, "%s\n", e.Error())
	}
	return b.String()
}

// FormatSymbolTable renders the analyzed scope tree (symbol_table.log).
func FormatSymbolTable(r *Result) string {
	var b bytes.Buffer
	if r.Table != nil {
		r.Table.Dump(&b)
	}
	return b.String()
}

// WriteDiagnostics writes the five named dumps into dir and logs each as a
// Fields-tagged entry, per §6's diagnostic-dump list.
func WriteDiagnostics(dir string, r *Result, log *logrus.Logger) error {
	dumps := []struct {
		name string
		body string
	}{
		{"tokens.log", FormatTokens(r)},
		{"lexical_errors.log", FormatInvalidTokens(r)},
		{"syntax_errors.log", FormatSyntaxErrors(r)},
		{"semantic_errors.log", FormatSemanticErrors(r)},
		{"symbol_table.log", FormatSymbolTable(r)},
	}
	for _, d := range dumps {
		path := filepath.Join(dir, d.name)
		if err := os.WriteFile(path, []byte(d.body), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		log.WithFields(logrus.Fields{"file": path, "bytes": len(d.body)}).Debug("wrote diagnostic dump")
	}
	return nil
}
