// Package compiler implements the cp language's TAC (three-address code)
// generator: it walks a populated symbol table (§3, §4.5) in source order
// and linearizes it into a flat TacProgram of labels, assignments, and
// control-flow commands (§4.6).
package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xingleixu/cp-compiler/lexer"
)

// Command is a TacStatement's control/call-convention operator (§4.6).
// Expressed as a tagged enum, not an interface hierarchy, matching every
// other sum type in this compiler (token kinds, AST node symbols, symbol
// entries).
type Command int

const (
	BeginFunc Command = iota
	EndFunc
	PushParam
	PopParams
	LCall
	IfZ
	Goto
	Return
)

func (c Command) String() string {
	switch c {
	case BeginFunc:
		return "BeginFunc"
	case EndFunc:
		return "EndFunc"
	case PushParam:
		return "PushParam"
	case PopParams:
		return "PopParams"
	case LCall:
		return "LCall"
	case IfZ:
		return "IfZ"
	case Goto:
		return "Goto"
	case Return:
		return "Return"
	default:
		return fmt.Sprintf("Command(%d)", int(c))
	}
}

// ValueKind tags a Value's variant (§4.6: Label, Var, Int, Double,
// PointerAccess, GetParams, LCallArgs, IfArgs).
type ValueKind int

const (
	VLabel ValueKind = iota
	VVar
	VInt
	VDouble
	VPointerAccess
	VGetParams
	VLCallArgs
	VIfArgs
)

// Value is a TAC operand. Only the fields relevant to Kind are meaningful;
// which ones those are is documented per constructor below.
type Value struct {
	Kind ValueKind

	Text   string // Label name / Var name / PointerAccess base / LCallArgs func / IfArgs cond var
	IntVal int32
	DblVal float64

	Index *Value // PointerAccess: the index value, always a Var in practice
	Size  int32  // GetParams: parameter's stack-frame size
	Label string // IfArgs: the branch target
}

func Label(name string) Value      { return Value{Kind: VLabel, Text: name} }
func Var(name string) Value        { return Value{Kind: VVar, Text: name} }
func IntVal(v int32) Value         { return Value{Kind: VInt, IntVal: v} }
func DblVal(v float64) Value       { return Value{Kind: VDouble, DblVal: v} }
func GetParams(size int32) Value   { return Value{Kind: VGetParams, Size: size} }
func LCallArgs(fn string) Value    { return Value{Kind: VLCallArgs, Text: fn} }
func IfArgs(cond, label string) Value {
	return Value{Kind: VIfArgs, Text: cond, Label: label}
}
func PointerAccess(base string, index Value) Value {
	return Value{Kind: VPointerAccess, Text: base, Index: &index}
}

func (v Value) String() string {
	switch v.Kind {
	case VLabel, VVar:
		return v.Text
	case VInt:
		return fmt.Sprintf("%d", v.IntVal)
	case VDouble:
		return formatDouble(v.DblVal)
	case VPointerAccess:
		return fmt.Sprintf("*(%s + %s)", v.Text, v.Index.String())
	case VGetParams:
		return fmt.Sprintf("GetParams %d", v.Size)
	case VLCallArgs:
		return fmt.Sprintf("LCall %s", v.Text)
	case VIfArgs:
		return fmt.Sprintf("%s Goto %s", v.Text, v.Label)
	default:
		return fmt.Sprintf("Value(%d)", int(v.Kind))
	}
}

// formatDouble mirrors Rust's f64::to_string: the shortest decimal that
// round-trips, always in full decimal form (never scientific notation),
// with no forced fractional digit — 1.0 prints as "1", not "1.0".
func formatDouble(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Operation is the right-hand side of an Assignment/PointerAssignment: a
// single value, or two values joined by a binary operator token.
type Operation struct {
	Op    lexer.Kind
	HasOp bool
	Val1  Value
	Val2  Value
}

func (o Operation) String() string {
	if !o.HasOp {
		return o.Val1.String()
	}
	return fmt.Sprintf("%s %s %s", o.Val1, o.Op, o.Val2)
}

// StatementKind tags a Statement's variant.
type StatementKind int

const (
	StmtLabel StatementKind = iota
	StmtAssignment
	StmtPointerAssignment
	StmtCommand
)

// Statement is one line of emitted TAC.
type Statement struct {
	Kind StatementKind

	// StmtLabel, StmtAssignment, StmtPointerAssignment
	Name string
	// StmtAssignment, StmtPointerAssignment
	Op Operation
	// StmtPointerAssignment
	Index Value
	// StmtCommand
	Command    Command
	Operand    Value
	HasOperand bool
}

func (s Statement) String() string {
	switch s.Kind {
	case StmtLabel:
		return fmt.Sprintf("%s:\n", s.Name)
	case StmtAssignment:
		return fmt.Sprintf("\t%s = %s;\n", s.Name, s.Op)
	case StmtPointerAssignment:
		return fmt.Sprintf("\t*(%s + %s) = %s;\n", s.Name, s.Index, s.Op)
	case StmtCommand:
		if s.HasOperand {
			return fmt.Sprintf("\t%s %s;\n", s.Command, s.Operand)
		}
		return fmt.Sprintf("\t%s;\n", s.Command)
	default:
		return ""
	}
}

// Program is the flat, ordered TAC output (§4.6 "Program assembly").
type Program []Statement

func (p Program) String() string {
	var b strings.Builder
	for _, s := range p {
		b.WriteString(s.String())
	}
	return b.String()
}
