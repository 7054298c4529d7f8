package parser

import "github.com/xingleixu/cp-compiler/lexer"

// productions is the complete concrete grammar (§4.3), each rule's
// right-hand side mixing terminals, non-terminals, and semantic actions in
// the exact order they must fire. Index order only matters in that every
// production for a given non-terminal must stay reachable from the LL(1)
// table the builder constructs; callers never rely on these indices
// directly.
//
// Sequences that may be empty (zero function declarations, zero
// parameters, a trailing list tail, a scalar variable with no index, an
// empty statement list) are given an explicit epsilon alternative
// (Right == nil) rather than relying on a hand-maintained FIRST-set
// annotation, so FIRST/FOLLOW fall out of the standard fixpoint over this
// table (see expressions.go) instead of needing to be kept in sync by hand.
func productions() []Production {
	return []Production{
		// Program ::= Fdecls DeclarationsSeq '.'
		{Left: NProgram, Right: []ProductionElem{N(NFdecls), N(NDeclarationsSeq), T(lexer.SepDot)}},

		// Fdecls ::= Fdec ';' Fdecls | ε
		{Left: NFdecls, Right: []ProductionElem{N(NFdec), T(lexer.SepSemicolon), N(NFdecls)}},
		{Left: NFdecls, Right: nil},

		// Fdec ::= 'def' Type Fname [SetFunc] '(' Params ')' [AddFuncDecl] DeclarationsSeq 'fed' [PopScope]
		{Left: NFdec, Right: []ProductionElem{
			T(lexer.KwDef), N(NType), N(NFname), A(ActSetFunc),
			T(lexer.SepLParen), N(NParams), T(lexer.SepRParen), A(ActAddFuncDecl),
			N(NDeclarationsSeq), T(lexer.KwFed), A(ActPopScope),
		}},

		// Params ::= TypeVar [AddParam] Params2 | ε
		{Left: NParams, Right: []ProductionElem{N(NTypeVar), A(ActAddParam), N(NParams2)}},
		{Left: NParams, Right: nil},

		// Params2 ::= ',' Params | ε
		{Left: NParams2, Right: []ProductionElem{T(lexer.SepComma), N(NParams)}},
		{Left: NParams2, Right: nil},

		// TypeVar ::= Type Var
		{Left: NTypeVar, Right: []ProductionElem{N(NType), N(NVar)}},

		// Fname ::= Id
		{Left: NFname, Right: []ProductionElem{N(NId)}},

		// Declarations ::= Decl ';' Declarations | ε
		{Left: NDeclarations, Right: []ProductionElem{N(NDecl), T(lexer.SepSemicolon), N(NDeclarations)}},
		{Left: NDeclarations, Right: nil},

		// DeclarationsSeq ::= Declarations StatementSeq
		{Left: NDeclarationsSeq, Right: []ProductionElem{N(NDeclarations), N(NStatementSeq)}},

		// Decl ::= Type VarList [ClearVarDecl]
		{Left: NDecl, Right: []ProductionElem{N(NType), N(NVarList), A(ActClearVarDecl)}},

		// Type ::= 'int' [SetType] | 'double' [SetType]
		{Left: NType, Right: []ProductionElem{T(lexer.KwInt), A(ActSetType)}},
		{Left: NType, Right: []ProductionElem{T(lexer.KwDouble), A(ActSetType)}},

		// VarList ::= Var [AddVarDecl] VarList2
		{Left: NVarList, Right: []ProductionElem{N(NVar), A(ActAddVarDecl), N(NVarList2)}},

		// VarList2 ::= ',' VarList | ε
		{Left: NVarList2, Right: []ProductionElem{T(lexer.SepComma), N(NVarList)}},
		{Left: NVarList2, Right: nil},

		// StatementSeq ::= Statement StatementSeq2 | ε
		{Left: NStatementSeq, Right: []ProductionElem{N(NStatement), N(NStatementSeq2)}},
		{Left: NStatementSeq, Right: nil},

		// StatementSeq2 ::= ';' StatementSeq | ε
		{Left: NStatementSeq2, Right: []ProductionElem{T(lexer.SepSemicolon), N(NStatementSeq)}},
		{Left: NStatementSeq2, Right: nil},

		// Statement ::= [StartAssignment] Var '=' [StartTypeTree] Bexpr [CheckVarType] [AddAssignment]
		{Left: NStatement, Right: []ProductionElem{
			A(ActStartAssignment), N(NVar), T(lexer.OpAssign), A(ActStartTypeTree),
			N(NBexpr), A(ActCheckVarType), A(ActAddAssignment),
		}},
		// Statement ::= If
		{Left: NStatement, Right: []ProductionElem{N(NIf)}},
		// Statement ::= 'while' [StartWhile][StartTypeTree] Bexpr [AddCondition] 'do' [NewScope] StatementSeq [AddCondStatement] 'od'
		{Left: NStatement, Right: []ProductionElem{
			T(lexer.KwWhile), A(ActStartWhile), A(ActStartTypeTree), N(NBexpr), A(ActAddCondition),
			T(lexer.KwDo), A(ActNewScope), N(NStatementSeq), A(ActAddCondStatement), T(lexer.KwOd),
		}},
		// Statement ::= BuiltIn [StartTypeTree] Bexpr [AddTypeTree]
		{Left: NStatement, Right: []ProductionElem{N(NBuiltIn), A(ActStartTypeTree), N(NBexpr), A(ActAddTypeTree)}},

		// If ::= 'if' [StartIf][StartTypeTree] Bexpr [AddCondition] 'then' [NewScope] StatementSeq [AddCondStatement] Else 'fi'
		{Left: NIf, Right: []ProductionElem{
			T(lexer.KwIf), A(ActStartIf), A(ActStartTypeTree), N(NBexpr), A(ActAddCondition),
			T(lexer.KwThen), A(ActNewScope), N(NStatementSeq), A(ActAddCondStatement),
			N(NElse), T(lexer.KwFi),
		}},

		// Else ::= 'else' [StartElse][NewScope] StatementSeq [AddCondStatement]
		{Left: NElse, Right: []ProductionElem{
			T(lexer.KwElse), A(ActStartElse), A(ActNewScope), N(NStatementSeq), A(ActAddCondStatement),
		}},

		// BuiltIn ::= 'print' [StartPrint] | 'return' [StartReturn]
		{Left: NBuiltIn, Right: []ProductionElem{T(lexer.KwPrint), A(ActStartPrint)}},
		{Left: NBuiltIn, Right: []ProductionElem{T(lexer.KwReturn), A(ActStartReturn)}},

		// Bexpr ::= Bterm Bexpr2
		{Left: NBexpr, Right: []ProductionElem{N(NBterm), N(NBexpr2)}},
		// Bexpr2 ::= 'or' [SplitTree] Bexpr [CheckType] | ε
		{Left: NBexpr2, Right: []ProductionElem{T(lexer.KwOr), A(ActSplitTree), N(NBexpr), A(ActCheckType)}},
		{Left: NBexpr2, Right: nil},

		// Bterm ::= Bfactor Bterm2
		{Left: NBterm, Right: []ProductionElem{N(NBfactor), N(NBterm2)}},
		// Bterm2 ::= 'and' [SplitTree] Bterm [CheckType] | ε
		{Left: NBterm2, Right: []ProductionElem{T(lexer.KwAnd), A(ActSplitTree), N(NBterm), A(ActCheckType)}},
		{Left: NBterm2, Right: nil},

		// Bfactor ::= Expr Bfactor2 | 'not' [AddOperator] Bfactor [CheckType]
		{Left: NBfactor, Right: []ProductionElem{N(NExpr), N(NBfactor2)}},
		{Left: NBfactor, Right: []ProductionElem{T(lexer.KwNot), A(ActAddOperator), N(NBfactor), A(ActCheckType)}},

		// Bfactor2 ::= Comp [SplitTree] Expr [CheckType] | ε
		{Left: NBfactor2, Right: []ProductionElem{N(NComp), A(ActSplitTree), N(NExpr), A(ActCheckType)}},
		{Left: NBfactor2, Right: nil},

		// Expr ::= Term Expr2
		{Left: NExpr, Right: []ProductionElem{N(NTerm), N(NExpr2)}},
		// Expr2 ::= ('+'|'-') [SplitTree] Expr [CheckType] | ε
		{Left: NExpr2, Right: []ProductionElem{T(lexer.OpPlus), A(ActSplitTree), N(NExpr), A(ActCheckType)}},
		{Left: NExpr2, Right: []ProductionElem{T(lexer.OpMinus), A(ActSplitTree), N(NExpr), A(ActCheckType)}},
		{Left: NExpr2, Right: nil},

		// Term ::= NegFactor Term2
		{Left: NTerm, Right: []ProductionElem{N(NNegFactor), N(NTerm2)}},
		// Term2 ::= ('*'|'/'|'%') [SplitTree] Term [CheckType] | ε
		{Left: NTerm2, Right: []ProductionElem{T(lexer.OpStar), A(ActSplitTree), N(NTerm), A(ActCheckType)}},
		{Left: NTerm2, Right: []ProductionElem{T(lexer.OpSlash), A(ActSplitTree), N(NTerm), A(ActCheckType)}},
		{Left: NTerm2, Right: []ProductionElem{T(lexer.OpPercent), A(ActSplitTree), N(NTerm), A(ActCheckType)}},
		{Left: NTerm2, Right: nil},

		// NegFactor ::= '-' [AddOperator] Factor [CheckType] | Factor
		{Left: NNegFactor, Right: []ProductionElem{T(lexer.OpMinus), A(ActAddOperator), N(NFactor), A(ActCheckType)}},
		{Left: NNegFactor, Right: []ProductionElem{N(NFactor)}},

		// Factor ::= Id Factor2 | Number [SetLiteral] | '(' [AddOperator] Bexpr ')' [CheckType]
		{Left: NFactor, Right: []ProductionElem{N(NId), N(NFactor2)}},
		{Left: NFactor, Right: []ProductionElem{N(NNumber), A(ActSetLiteral)}},
		{Left: NFactor, Right: []ProductionElem{T(lexer.SepLParen), A(ActAddOperator), N(NBexpr), T(lexer.SepRParen), A(ActCheckType)}},

		// Factor2 ::= Var2 | [AddFuncCheck] '(' ExprSeq ')' [PopFuncCheck]
		{Left: NFactor2, Right: []ProductionElem{N(NVar2)}},
		{Left: NFactor2, Right: []ProductionElem{A(ActAddFuncCheck), T(lexer.SepLParen), N(NExprSeq), T(lexer.SepRParen), A(ActPopFuncCheck)}},

		// ExprSeq ::= [StartTypeTree] Bexpr [CheckParamType][AddTypeTree] ExprSeq2 | ε
		{Left: NExprSeq, Right: []ProductionElem{
			A(ActStartTypeTree), N(NBexpr), A(ActCheckParamType), A(ActAddTypeTree), N(NExprSeq2),
		}},
		{Left: NExprSeq, Right: nil},

		// ExprSeq2 ::= ',' ExprSeq | ε
		{Left: NExprSeq2, Right: []ProductionElem{T(lexer.SepComma), N(NExprSeq)}},
		{Left: NExprSeq2, Right: nil},

		// Comp ::= '<' | '>' | '==' | '<=' | '>=' | '<>'
		{Left: NComp, Right: []ProductionElem{T(lexer.OpLess)}},
		{Left: NComp, Right: []ProductionElem{T(lexer.OpGreater)}},
		{Left: NComp, Right: []ProductionElem{T(lexer.OpEqual)}},
		{Left: NComp, Right: []ProductionElem{T(lexer.OpLessEq)}},
		{Left: NComp, Right: []ProductionElem{T(lexer.OpGreaterEq)}},
		{Left: NComp, Right: []ProductionElem{T(lexer.OpNotEqual)}},

		// Var ::= Id Var2
		{Left: NVar, Right: []ProductionElem{N(NId), N(NVar2)}},

		// Var2 ::= '[' [StartTypeTree] Bexpr [SetArray] ']' | ε
		{Left: NVar2, Right: []ProductionElem{
			T(lexer.SepLBracket), A(ActStartTypeTree), N(NBexpr), A(ActSetArray), T(lexer.SepRBracket),
		}},
		{Left: NVar2, Right: nil},

		// Id ::= Identifier [SetId]
		{Left: NId, Right: []ProductionElem{T(lexer.Identifier), A(ActSetId)}},

		// Number ::= IntLiteral | DoubleLiteral
		{Left: NNumber, Right: []ProductionElem{T(lexer.IntLiteral)}},
		{Left: NNumber, Right: []ProductionElem{T(lexer.DoubleLiteral)}},
	}
}
