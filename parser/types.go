package parser

import (
	"fmt"

	"github.com/xingleixu/cp-compiler/lexer"
)

// NonTerminal enumerates the grammar's 39 non-terminals (§4.3). Ordinals are
// stable and double as row indices into the LL(1) table.
type NonTerminal int

const (
	NProgram NonTerminal = iota
	NFdecls
	NFdec
	NParams
	NParams2
	NTypeVar
	NFname
	NDeclarations
	NDeclarationsSeq
	NDecl
	NType
	NVarList
	NVarList2
	NStatementSeq
	NStatementSeq2
	NStatement
	NIf
	NElse
	NBuiltIn
	NBexpr
	NBexpr2
	NBterm
	NBterm2
	NBfactor
	NBfactor2
	NExpr
	NExpr2
	NTerm
	NTerm2
	NNegFactor
	NFactor
	NFactor2
	NExprSeq
	NExprSeq2
	NComp
	NVar
	NVar2
	NId
	NNumber

	numNonTerminals = NNumber + 1
)

var nonTerminalNames = [...]string{
	"Program", "Fdecls", "Fdec", "Params", "Params2", "TypeVar", "Fname",
	"Declarations", "DeclarationsSeq", "Decl", "Type", "VarList", "VarList2",
	"StatementSeq", "StatementSeq2", "Statement", "If", "Else", "BuiltIn",
	"Bexpr", "Bexpr2", "Bterm", "Bterm2", "Bfactor", "Bfactor2", "Expr",
	"Expr2", "Term", "Term2", "NegFactor", "Factor", "Factor2", "ExprSeq",
	"ExprSeq2", "Comp", "Var", "Var2", "Id", "Number",
}

func (n NonTerminal) String() string {
	if int(n) >= 0 && int(n) < len(nonTerminalNames) {
		return nonTerminalNames[n]
	}
	return fmt.Sprintf("NonTerminal(%d)", int(n))
}

// SemanticAction names one of the semantic dispatcher's actions (§4.5).
// Never appears in FIRST/FOLLOW; executed in order as the parser expands a
// production.
type SemanticAction int

const (
	ActSetId SemanticAction = iota
	ActSetType
	ActSetArray
	ActSetLiteral
	ActAddVarDecl
	ActClearVarDecl
	ActNewScope
	ActPopScope
	ActSetFunc
	ActAddParam
	ActAddFuncDecl
	ActStartTypeTree
	ActAddTypeTree
	ActSplitTree
	ActAddOperator
	ActCheckType
	ActCheckVarType
	ActAddFuncCheck
	ActPopFuncCheck
	ActCheckParamType
	ActStartAssignment
	ActAddAssignment
	ActStartIf
	ActStartElse
	ActStartWhile
	ActAddCondition
	ActAddCondStatement
	ActStartReturn
	ActStartPrint
)

var semanticActionNames = [...]string{
	"SetId", "SetType", "SetArray", "SetLiteral", "AddVarDecl", "ClearVarDecl",
	"NewScope", "PopScope", "SetFunc", "AddParam", "AddFuncDecl",
	"StartTypeTree", "AddTypeTree", "SplitTree", "AddOperator", "CheckType",
	"CheckVarType", "AddFuncCheck", "PopFuncCheck", "CheckParamType",
	"StartAssignment", "AddAssignment", "StartIf", "StartElse", "StartWhile",
	"AddCondition", "AddCondStatement", "StartReturn", "StartPrint",
}

func (a SemanticAction) String() string {
	if int(a) >= 0 && int(a) < len(semanticActionNames) {
		return semanticActionNames[a]
	}
	return fmt.Sprintf("SemanticAction(%d)", int(a))
}

// ElemKind tags a ProductionElem's variant.
type ElemKind int

const (
	ElemTerminal ElemKind = iota
	ElemNonTerminal
	ElemAction
)

// ProductionElem is one symbol on a production's right-hand side: a
// terminal (matched by Kind), a non-terminal (expanded recursively), or a
// semantic action (invoked in place).
type ProductionElem struct {
	Kind ElemKind
	Term lexer.Kind
	NT   NonTerminal
	Act  SemanticAction
}

func T(k lexer.Kind) ProductionElem       { return ProductionElem{Kind: ElemTerminal, Term: k} }
func N(n NonTerminal) ProductionElem      { return ProductionElem{Kind: ElemNonTerminal, NT: n} }
func A(a SemanticAction) ProductionElem   { return ProductionElem{Kind: ElemAction, Act: a} }

// Production is one grammar rule: NonTerminal -> RHS (terminals,
// non-terminals, and semantic actions mixed freely).
type Production struct {
	Left  NonTerminal
	Right []ProductionElem
}

func (e ProductionElem) String() string {
	switch e.Kind {
	case ElemTerminal:
		return e.Term.String()
	case ElemNonTerminal:
		return e.NT.String()
	default:
		return "{" + e.Act.String() + "}"
	}
}
