package semant

import (
	"fmt"

	"github.com/xingleixu/cp-compiler/ast"
	"github.com/xingleixu/cp-compiler/lexer"
	"github.com/xingleixu/cp-compiler/parser"
	"github.com/xingleixu/cp-compiler/types"
)

// treeCursor pairs an in-progress expression tree with the node currently
// being extended, mirroring the original's StatementTreeInfo: curr < 0
// means "no current node yet" (Option<usize>::None).
type treeCursor struct {
	tree *ast.Tree
	curr int
}

// funcCheck tracks an in-progress function-call argument list: which
// function is being called, how many parameters have been matched so far,
// and the independently-built argument trees collected along the way.
type funcCheck struct {
	funcID     types.DeclId
	paramIndex int
	params     []*ast.Tree
}

// partialConditional accumulates an If/Else/While statement across the
// grammar's StartIf/AddCondition/NewScope/AddCondStatement actions before
// it is closed into a types.Conditional.
type partialConditional struct {
	kind      types.ConditionalKind
	condition *ast.Tree
	bodyScope int // -1 until NewScope assigns the body's scope
}

// Analyzer is the semantic cursor: the single piece of mutable state every
// SemanticAction reads and updates as the parser drives productions
// (semantic_analysis.rs: SemanticInfo).
type Analyzer struct {
	Table *types.Table

	currScope      int
	currID         string
	haveCurrID     bool
	currType       *types.BasicType
	currFunc       *types.SymbolDecl
	funcScope      int
	funcReturnType *types.BasicType

	typeTrees  []*treeCursor
	funcChecks []*funcCheck

	buildAssignment bool
	currVar         *types.SymbolDecl
	currArrayIndex  *ast.Tree

	currConditionals []*partialConditional
	currBuiltin      *types.BuiltinKind

	errors []*Error
}

// New creates an analyzer over a fresh symbol table rooted at the global
// scope.
func New() *Analyzer {
	return &Analyzer{Table: types.NewTable(), currScope: types.GlobalScope, funcScope: types.GlobalScope}
}

// Errors returns every semantic error collected during analysis.
func (a *Analyzer) Errors() []*Error { return a.errors }

func (a *Analyzer) addError(kind ErrorKind, line int, detail string) {
	a.errors = append(a.errors, &Error{Kind: kind, Line: line, Detail: detail})
}

func (a *Analyzer) topTree() (*treeCursor, bool) {
	if len(a.typeTrees) == 0 {
		return nil, false
	}
	return a.typeTrees[len(a.typeTrees)-1], true
}

func (a *Analyzer) popTree() (*treeCursor, bool) {
	tc, ok := a.topTree()
	if ok {
		a.typeTrees = a.typeTrees[:len(a.typeTrees)-1]
	}
	return tc, ok
}

func (a *Analyzer) discardTopTree() { a.typeTrees = a.typeTrees[:len(a.typeTrees)-1] }

// Dispatch implements parser.ActionSink: every semantic action the PDA
// fires lands here, tok being the terminal most recently matched (the
// "prev_terminal" the original's actions inspect for identifiers,
// literals, and operators).
func (a *Analyzer) Dispatch(act parser.SemanticAction, tok lexer.ParsedToken) {
	switch act {
	case parser.ActSetId:
		a.setID(tok)
	case parser.ActSetType:
		a.setType(tok)
	case parser.ActSetArray:
		a.setArray(tok.Line)
	case parser.ActSetLiteral:
		a.setLiteral(tok)
	case parser.ActAddVarDecl:
		a.addVarDecl(tok.Line)
	case parser.ActClearVarDecl:
		a.haveCurrID = false
		a.currType = nil
	case parser.ActNewScope:
		a.newScope()
	case parser.ActPopScope:
		a.popScope()
	case parser.ActSetFunc:
		a.setFunc(tok)
	case parser.ActAddParam:
		a.addParam(tok.Line)
	case parser.ActAddFuncDecl:
		a.addFuncDecl(tok.Line)
	case parser.ActStartTypeTree:
		a.typeTrees = append(a.typeTrees, &treeCursor{tree: ast.NewTree(), curr: -1})
	case parser.ActAddTypeTree:
		a.addTypeTree(tok.Line)
	case parser.ActSplitTree:
		a.splitTree(tok)
	case parser.ActAddOperator:
		a.addOperator(tok)
	case parser.ActCheckType:
		a.checkType(tok.Line)
	case parser.ActCheckVarType:
		a.checkVarType(tok.Line)
	case parser.ActAddFuncCheck:
		a.addFuncCheck(tok.Line)
	case parser.ActPopFuncCheck:
		a.popFuncCheck(tok.Line)
	case parser.ActCheckParamType:
		a.checkParamType(tok.Line)
	case parser.ActStartAssignment:
		a.buildAssignment = true
	case parser.ActAddAssignment:
		a.addAssignment()
	case parser.ActStartIf:
		a.startConditional(types.CondIf)
	case parser.ActStartElse:
		a.startConditional(types.CondElse)
	case parser.ActStartWhile:
		a.startConditional(types.CondWhile)
	case parser.ActAddCondition:
		a.addCondition()
	case parser.ActAddCondStatement:
		a.addConditionalStatement()
	case parser.ActStartReturn:
		k := types.BuiltinReturn
		a.currBuiltin = &k
	case parser.ActStartPrint:
		k := types.BuiltinPrint
		a.currBuiltin = &k
	}
}

func (a *Analyzer) setID(tok lexer.ParsedToken) {
	if tok.Token.Kind != lexer.Identifier {
		return
	}
	id := tok.Token.Text
	if tc, ok := a.topTree(); ok {
		decl, found := a.Table.FindDecl(id, a.currScope)
		if !found {
			a.discardTopTree()
			a.addError(UndefinedVariable, tok.Line, id)
			return
		}
		newNode := tc.tree.AddNode(ast.SymDecl, tc.curr)
		n := tc.tree.Node(newNode)
		n.Decl = decl.DeclId()
		n.Type = decl.Type
		a.advanceCursor(tc, newNode)
		return
	}

	a.currID, a.haveCurrID = id, true
	if a.buildAssignment && a.currVar == nil {
		decl, found := a.Table.FindDecl(id, a.currScope)
		if !found {
			a.addError(UndefinedVariable, tok.Line, id)
			return
		}
		v := *decl
		a.currVar = &v
	}
}

// advanceCursor mirrors the original's repeated "if curr_node is a
// SingleChildOperator, move onto the new node; else if curr_node is None,
// move onto the new node" rule for any leaf just added to the tree.
func (a *Analyzer) advanceCursor(tc *treeCursor, newNode int) {
	if tc.curr < 0 {
		tc.curr = newNode
		return
	}
	if tc.tree.Node(tc.curr).Symbol == ast.SymSingleChildOperator {
		tc.curr = newNode
	}
}

func (a *Analyzer) setType(tok lexer.ParsedToken) {
	switch tok.Token.Kind {
	case lexer.KwInt:
		a.currType = types.Int()
	case lexer.KwDouble:
		a.currType = types.Double()
	}
}

func (a *Analyzer) setLiteral(tok lexer.ParsedToken) {
	tc, ok := a.topTree()
	if !ok {
		return
	}
	newNode := tc.tree.AddNode(ast.SymLiteral, tc.curr)
	n := tc.tree.Node(newNode)
	n.TokenKind = tok.Token.Kind
	switch tok.Token.Kind {
	case lexer.IntLiteral:
		n.IntVal = tok.Token.IntVal
		n.Type = types.Int()
	case lexer.DoubleLiteral:
		n.DblVal = tok.Token.DblVal
		n.Type = types.Double()
	}
	a.advanceCursor(tc, newNode)
}

// setArray implements SetArray (§4.5): closes the bracketed index
// expression and either rewrites the array-valued Decl node just added to
// the enclosing tree into an ArrayAccess, records the index for an
// array-element assignment, or folds a constant size into a fresh
// declarator type — exactly which, decided by what the analyzer was doing
// when '[' ... ']' was seen.
func (a *Analyzer) setArray(line int) {
	idxTC, ok := a.popTree()
	if !ok {
		return
	}
	indexTree := idxTC.tree
	if !indexTree.IsEmpty() {
		if t := indexTree.Node(indexTree.Root()).Type; t != nil && t.Kind != types.KInt {
			a.addError(TypeMismatch, line, fmt.Sprintf("array index type must be int, found %s", t))
			return
		}
	}

	if arrTC, ok := a.topTree(); ok {
		if len(arrTC.tree.Nodes) == 0 {
			return
		}
		curIdx := len(arrTC.tree.Nodes) - 1
		n := arrTC.tree.Node(curIdx)
		if n.Symbol != ast.SymDecl {
			return
		}
		decl, found := a.Table.FindDeclByID(n.Decl)
		if !found || decl.Type.Kind != types.KArray {
			a.discardTopTree()
			a.addError(InvalidType, line, fmt.Sprintf("variable %s is not an array", n.Decl.Name))
			return
		}
		grafted := arrTC.tree.Graft(indexTree)
		arrTC.tree.ConvertToArrayAccess(curIdx, grafted, decl.Type.Elem)
		return
	}

	if a.buildAssignment {
		if a.currVar == nil {
			return
		}
		if a.currVar.Type.Kind != types.KArray {
			a.addError(InvalidType, line, "variable is not an array")
			return
		}
		v := types.SymbolDecl{Name: a.currVar.Name, Type: a.currVar.Type.Elem, Scope: a.currVar.Scope}
		a.currVar = &v
		a.currArrayIndex = indexTree
		return
	}

	if a.currType == nil {
		return
	}
	size, err := indexTree.ConstantInt(indexTree.Root())
	if err != nil {
		a.addError(InvalidArraySize, line, err.Error())
		return
	}
	a.currType = types.Array(a.currType, size)
}

func (a *Analyzer) addVarDecl(line int) {
	if !a.haveCurrID || a.currType == nil {
		return
	}
	id, err := a.Table.InsertDecl(a.currID, a.currType, a.currScope)
	if err != nil {
		a.addError(DuplicateDeclaration, line, a.currID)
		return
	}
	a.Table.AddEntry(a.currScope, types.Entry{Kind: types.EntryDecl, Decl: id})
	if a.currType.Kind == types.KArray {
		a.currType = a.currType.Elem
	}
}

func (a *Analyzer) newScope() {
	a.currScope = a.Table.AddScope(types.Local, a.currScope)
	if len(a.currConditionals) > 0 {
		pc := a.currConditionals[len(a.currConditionals)-1]
		if pc.bodyScope < 0 {
			pc.bodyScope = a.currScope
		}
	}
}

func (a *Analyzer) popScope() {
	a.currScope = a.Table.Scope(a.currScope).Parent
	a.funcReturnType = nil
}

func (a *Analyzer) setFunc(tok lexer.ParsedToken) {
	if tok.Token.Kind != lexer.Identifier || a.currType == nil {
		return
	}
	a.funcScope = a.Table.AddScope(types.FunctionScope, a.currScope)
	sig := &types.FuncSig{Return: a.currType, BodyScope: a.funcScope}
	a.currFunc = &types.SymbolDecl{Name: tok.Token.Text, Type: types.Function(sig), Scope: a.currScope}
}

func (a *Analyzer) addParam(line int) {
	if a.currFunc == nil || a.currFunc.Type.Kind != types.KFunction {
		return
	}
	if a.currType == nil || !a.haveCurrID {
		return
	}
	sig := a.currFunc.Type.Func
	sig.Params = append(sig.Params, a.currType)
	id, err := a.Table.InsertDecl(a.currID, a.currType, a.funcScope)
	if err != nil {
		a.addError(DuplicateDeclaration, line, a.currID)
		return
	}
	a.Table.AddEntry(a.funcScope, types.Entry{Kind: types.EntryParameter, Decl: id})
}

func (a *Analyzer) addFuncDecl(line int) {
	if a.currFunc == nil {
		return
	}
	id, err := a.Table.InsertDecl(a.currFunc.Name, a.currFunc.Type, a.currFunc.Scope)
	if err != nil {
		a.addError(DuplicateDeclaration, line, a.currFunc.Name)
		return
	}
	a.Table.AddEntry(a.currFunc.Scope, types.Entry{Kind: types.EntryDecl, Decl: id})
	a.currScope = a.funcScope
	a.funcReturnType = a.currFunc.Type
	a.currFunc = nil
	a.funcScope = types.GlobalScope
}

// addTypeTree implements AddTypeTree (§4.5): a just-completed expression
// tree either becomes the next collected call argument, gets handed to the
// pending print/return builtin, or (if neither applies) is filed as a bare
// statement tree in the current scope.
func (a *Analyzer) addTypeTree(line int) {
	if fc := a.lastFuncCheck(); fc != nil {
		if tc, ok := a.popTree(); ok {
			fc.params = append(fc.params, tc.tree)
		}
		return
	}

	tc, ok := a.popTree()
	if !ok {
		return
	}
	if a.currBuiltin != nil {
		switch *a.currBuiltin {
		case types.BuiltinReturn:
			a.checkReturn(tc.tree, line)
		case types.BuiltinPrint:
			a.Table.AddEntry(a.currScope, types.Entry{Kind: types.EntryBuiltin, Builtin: &types.BuiltinCall{Kind: types.BuiltinPrint, Expression: tc.tree}})
		}
		a.currBuiltin = nil
		return
	}
	a.Table.AddEntry(a.currScope, types.Entry{Kind: types.EntryStatement, Statement: tc.tree})
}

func (a *Analyzer) checkReturn(tree *ast.Tree, line int) {
	if a.funcReturnType == nil {
		a.addError(InvalidType, line, "function return type not found")
		return
	}
	if tree.IsEmpty() {
		return
	}
	actual := tree.Node(tree.Root()).Type
	want := a.funcReturnType.Func.Return
	if !want.Equal(actual) {
		a.addError(TypeMismatch, line, fmt.Sprintf("wrong return type, %s != %s", want, actual))
		return
	}
	a.Table.AddEntry(a.currScope, types.Entry{Kind: types.EntryBuiltin, Builtin: &types.BuiltinCall{Kind: types.BuiltinReturn, Expression: tree}})
}

// splitTree implements SplitTree (§4.5): an infix operator was just
// matched, so the tree is re-rooted with that operator above whatever was
// being built, leaving the right operand to be filled in next.
func (a *Analyzer) splitTree(tok lexer.ParsedToken) {
	tc, ok := a.topTree()
	if !ok {
		return
	}
	if tc.curr >= 0 {
		node := tc.curr
		n := tc.tree.Node(node)
		switch {
		case n.Symbol == ast.SymSingleChildOperator:
			node = n.Left
		case n.HasBothChildren():
			node = n.Right
		}
		newNode := tc.tree.SplitTree(ast.SymOperator, node)
		tc.tree.Node(newNode).TokenKind = tok.Token.Kind
		tc.curr = newNode
		return
	}
	if tc.tree.IsEmpty() {
		return
	}
	start := tc.tree.Root()
	newNode := tc.tree.AddNode(ast.SymOperator, -1)
	tc.tree.Node(newNode).TokenKind = tok.Token.Kind
	tc.tree.Node(newNode).Left = start
	tc.tree.Node(start).Parent = newNode
	tc.curr = newNode
}

func (a *Analyzer) addOperator(tok lexer.ParsedToken) {
	tc, ok := a.topTree()
	if !ok {
		return
	}
	newNode := tc.tree.AddNode(ast.SymSingleChildOperator, tc.curr)
	tc.tree.Node(newNode).TokenKind = tok.Token.Kind
	tc.curr = newNode
}

func opKindOf(k lexer.Kind) (types.OpKind, bool) {
	switch k {
	case lexer.OpPlus:
		return types.OpAdd, true
	case lexer.OpMinus:
		return types.OpSub, true
	case lexer.OpStar:
		return types.OpMul, true
	case lexer.OpSlash:
		return types.OpDiv, true
	case lexer.OpPercent:
		return types.OpMod, true
	case lexer.OpEqual:
		return types.OpEq, true
	case lexer.OpNotEqual:
		return types.OpNe, true
	case lexer.OpLess:
		return types.OpLt, true
	case lexer.OpGreater:
		return types.OpGt, true
	case lexer.OpLessEq:
		return types.OpLe, true
	case lexer.OpGreaterEq:
		return types.OpGe, true
	case lexer.KwAnd:
		return types.OpAnd, true
	case lexer.KwOr:
		return types.OpOr, true
	default:
		return 0, false
	}
}

// checkType implements CheckType (§4.5): walk up from the cursor to the
// nearest operator node and resolve its result type now that both operands
// (or the single operand, for a unary node) have theirs.
func (a *Analyzer) checkType(line int) {
	tc, ok := a.topTree()
	if !ok || tc.curr < 0 {
		return
	}
	node := tc.curr
	for {
		sym := tc.tree.Node(node).Symbol
		if sym == ast.SymOperator || sym == ast.SymSingleChildOperator {
			break
		}
		parent := tc.tree.Node(node).Parent
		tc.curr = parent
		if parent < 0 {
			return
		}
		node = parent
	}

	n := tc.tree.Node(node)
	switch n.Symbol {
	case ast.SymOperator:
		if n.Left < 0 || n.Right < 0 {
			tc.curr = n.Parent
			return
		}
		leftType := tc.tree.Node(n.Left).Type
		rightType := tc.tree.Node(n.Right).Type
		if leftType == nil || rightType == nil {
			a.discardTopTree()
			a.addError(InvalidType, line, "type not found")
			return
		}
		op, _ := opKindOf(n.TokenKind)
		result, err := types.BinaryResultType(op, leftType, rightType)
		if err != nil {
			a.discardTopTree()
			a.addError(TypeMismatch, line, fmt.Sprintf("%s != %s", leftType, rightType))
			return
		}
		n.Type = result
		tc.curr = n.Parent
	case ast.SymSingleChildOperator:
		if n.Left < 0 {
			tc.curr = n.Parent
			return
		}
		leftType := tc.tree.Node(n.Left).Type
		if leftType == nil {
			a.discardTopTree()
			a.addError(InvalidType, line, "type not found")
			return
		}
		result, err := types.UnaryResultType(leftType)
		if err != nil {
			a.discardTopTree()
			a.addError(InvalidType, line, err.Error())
			return
		}
		n.Type = result
		tc.curr = n.Parent
	}
}

func (a *Analyzer) checkVarType(line int) {
	tc, ok := a.topTree()
	if !ok {
		return
	}
	if tc.tree.IsEmpty() {
		a.discardTopTree()
		a.addError(InvalidType, line, "type not found")
		return
	}
	nodeType := tc.tree.Node(tc.tree.Root()).Type
	if nodeType == nil || !a.haveCurrID {
		a.discardTopTree()
		a.addError(InvalidType, line, "type not found")
		return
	}
	if a.currVar == nil {
		a.discardTopTree()
		a.addError(UndefinedVariable, line, a.currID)
		return
	}
	if !a.currVar.Type.Equal(nodeType) {
		a.discardTopTree()
		a.addError(TypeMismatch, line, fmt.Sprintf("%s != %s", nodeType, a.currVar.Type))
	}
}

func (a *Analyzer) lastFuncCheck() *funcCheck {
	if len(a.funcChecks) == 0 {
		return nil
	}
	return a.funcChecks[len(a.funcChecks)-1]
}

// addFuncCheck implements AddFuncCheck (§4.5): the Id just parsed in
// Factor2's "function-call" alternative added a Decl node to the current
// tree; pull it back out (it isn't a value reference, it names the
// callee) and open a parameter-matching context for it.
func (a *Analyzer) addFuncCheck(line int) {
	tc, ok := a.topTree()
	if !ok || len(tc.tree.Nodes) == 0 {
		return
	}
	lastIdx := len(tc.tree.Nodes) - 1
	n := tc.tree.Node(lastIdx)
	if n.Symbol != ast.SymDecl {
		return
	}
	funcID := n.Decl
	tc.tree.Nodes = tc.tree.Nodes[:lastIdx]
	if tc.curr == lastIdx {
		tc.curr = -1
	}

	decl, found := a.Table.FindDeclByID(funcID)
	if !found {
		a.discardTopTree()
		a.addError(UndefinedVariable, line, funcID.Name)
		return
	}
	if decl.Type.Kind != types.KFunction {
		a.discardTopTree()
		a.addError(InvalidType, line, fmt.Sprintf("%s is not a function", decl.Name))
		return
	}
	a.funcChecks = append(a.funcChecks, &funcCheck{funcID: funcID})
}

// popFuncCheck implements PopFuncCheck (§4.5): the argument list is
// closed; verify the count matched, graft every collected argument tree
// into the enclosing tree's arena, and add the FunctionCall node.
func (a *Analyzer) popFuncCheck(line int) {
	if len(a.funcChecks) == 0 {
		return
	}
	fc := a.funcChecks[len(a.funcChecks)-1]
	a.funcChecks = a.funcChecks[:len(a.funcChecks)-1]

	tc, ok := a.topTree()
	if !ok {
		return
	}
	decl, found := a.Table.FindDeclByID(fc.funcID)
	if !found || decl.Type.Kind != types.KFunction {
		return
	}
	sig := decl.Type.Func
	if len(sig.Params) != fc.paramIndex {
		a.addError(MissingParameters, line, fmt.Sprintf("expected %d parameters, found %d", len(sig.Params), fc.paramIndex))
		return
	}

	args := make([]int, len(fc.params))
	for i, p := range fc.params {
		args[i] = tc.tree.Graft(p)
	}
	newNode := tc.tree.AddNode(ast.SymFunctionCall, tc.curr)
	n := tc.tree.Node(newNode)
	n.Decl = fc.funcID
	n.Args = args
	n.Type = sig.Return
	tc.curr = newNode
}

// checkParamType implements CheckParamType (§4.5): the just-finished
// argument expression's type must match the callee's next declared
// parameter type, in order.
func (a *Analyzer) checkParamType(line int) {
	fc := a.lastFuncCheck()
	if fc == nil {
		return
	}
	decl, found := a.Table.FindDeclByID(fc.funcID)
	if !found || decl.Type.Kind != types.KFunction {
		return
	}
	sig := decl.Type.Func
	tc, ok := a.topTree()
	if !ok || tc.tree.IsEmpty() {
		return
	}
	argType := tc.tree.Node(tc.tree.Root()).Type
	if argType == nil {
		a.discardTopTree()
		a.funcChecks = a.funcChecks[:len(a.funcChecks)-1]
		a.addError(InvalidType, line, "type not found")
		return
	}
	if fc.paramIndex >= len(sig.Params) {
		a.discardTopTree()
		a.funcChecks = a.funcChecks[:len(a.funcChecks)-1]
		a.addError(MissingParameters, line, fmt.Sprintf("too many arguments, expected %d", len(sig.Params)))
		return
	}
	want := sig.Params[fc.paramIndex]
	if !want.Equal(argType) {
		a.discardTopTree()
		a.funcChecks = a.funcChecks[:len(a.funcChecks)-1]
		a.addError(TypeMismatch, line, fmt.Sprintf("%s != %s", want, argType))
		return
	}
	fc.paramIndex++
}

func (a *Analyzer) addAssignment() {
	tc, ok := a.popTree()
	if !ok {
		a.buildAssignment = false
		a.currVar = nil
		return
	}
	if a.currVar != nil {
		var index types.ExprTree
		if a.currArrayIndex != nil {
			index = a.currArrayIndex
		}
		a.Table.AddEntry(a.currScope, types.Entry{
			Kind:       types.EntryAssignment,
			Assignment: &types.Assignment{Var: a.currVar.DeclId(), Index: index, Rhs: tc.tree},
		})
		a.currArrayIndex = nil
	}
	a.buildAssignment = false
	a.currVar = nil
}

func (a *Analyzer) startConditional(kind types.ConditionalKind) {
	a.currConditionals = append(a.currConditionals, &partialConditional{kind: kind, bodyScope: -1})
}

func (a *Analyzer) addCondition() {
	tc, ok := a.popTree()
	if !ok || len(a.currConditionals) == 0 {
		return
	}
	a.currConditionals[len(a.currConditionals)-1].condition = tc.tree
}

// addConditionalStatement implements AddCondStatement (§4.5): the body's
// scope is closed first (popScope, mirroring the original's ordering),
// then the accumulated condition/body-scope pair is filed as a closed
// Conditional entry in whatever scope the body's parent turns out to be.
func (a *Analyzer) addConditionalStatement() {
	a.popScope()
	if len(a.currConditionals) == 0 {
		return
	}
	pc := a.currConditionals[len(a.currConditionals)-1]
	a.currConditionals = a.currConditionals[:len(a.currConditionals)-1]
	if pc.bodyScope < 0 {
		return
	}
	var cond types.ExprTree
	if pc.condition != nil {
		cond = pc.condition
	}
	a.Table.AddEntry(a.currScope, types.Entry{
		Kind:        types.EntryConditional,
		Conditional: &types.Conditional{Kind: pc.kind, Condition: cond, BodyScope: pc.bodyScope},
	})
}
