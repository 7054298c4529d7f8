package compiler

import (
	"fmt"

	"github.com/xingleixu/cp-compiler/ast"
	"github.com/xingleixu/cp-compiler/lexer"
	"github.com/xingleixu/cp-compiler/types"
)

// varSize is one (name, unit_size, count) record in a function's sorted
// variable-size index (§4.6 "Variable sizing").
type varSize struct {
	name  string
	size  int32
	count int32
}

// paramSize is one declared parameter's (mangled name, frame size) pair.
type paramSize struct {
	name string
	size int32
}

// funcInfo accumulates one function's emitted statements and bookkeeping
// while the walk is inside its body scope (tac_program_builder.rs:
// TacFunctionInfo).
type funcInfo struct {
	name       string
	statements []Statement
	varSizes   []varSize
	params     []paramSize
	labelCount int
	tempCount  int
}

// ProgramBuilder accumulates TAC functions across the whole scope-tree
// walk and assembles them into a Program on completion
// (tac_program_builder.rs: TacProgramBuilder).
type ProgramBuilder struct {
	funcs []*funcInfo
	curr  int
}

// NewProgramBuilder seeds the always-present "main" function at index 0,
// labeled "main0" since the global scope is always index 0 (§4.6:
// "main's mangled name is main0").
func NewProgramBuilder() *ProgramBuilder {
	b := &ProgramBuilder{}
	b.AddFunction("main", types.GlobalScope)
	return b
}

func (b *ProgramBuilder) fn() *funcInfo { return b.funcs[b.curr] }

// Program assembles the accumulated functions into the final linear
// output: a `goto main0` prologue, then every function in REVERSE
// insertion order (§4.6 "Program assembly"). Each function emits its
// label, a BeginFunc carrying its total frame size, parameter fetches
// (as assignments from GetParams, in reverse declaration order — mirroring
// how they are popped off the call stack), its body statements, and an
// EndFunc.
func (b *ProgramBuilder) Program() Program {
	var prog Program
	prog = append(prog, Statement{Kind: StmtCommand, Command: Goto, Operand: Label("main0"), HasOperand: true})

	for i := len(b.funcs) - 1; i >= 0; i-- {
		f := b.funcs[i]

		var frameSize int32
		for _, vs := range f.varSizes {
			frameSize += vs.size * vs.count
		}

		prog = append(prog, Statement{Kind: StmtLabel, Name: f.name})
		prog = append(prog, Statement{Kind: StmtCommand, Command: BeginFunc, Operand: IntVal(frameSize), HasOperand: true})

		for j := len(f.params) - 1; j >= 0; j-- {
			p := f.params[j]
			prog = append(prog, Statement{Kind: StmtAssignment, Name: p.name, Op: Operation{Val1: GetParams(p.size)}})
		}

		prog = append(prog, f.statements...)
		prog = append(prog, Statement{Kind: StmtCommand, Command: EndFunc})
	}

	return prog
}

// NextLabel mints a fresh label in the current function: prefix followed
// by a per-function monotonically increasing counter.
func (b *ProgramBuilder) NextLabel(prefix string) string {
	f := b.fn()
	label := fmt.Sprintf("%s%d", prefix, f.labelCount)
	f.labelCount++
	return label
}

// AddFunction opens a new function record, labeled with the declaration's
// mangled name (name + declaring scope, matching the same DeclId.MangledName
// convention every other variable reference uses) so that a call site
// naming the same DeclId always targets the label its declaration minted,
// regardless of walk order.
func (b *ProgramBuilder) AddFunction(name string, declScope int) int {
	b.funcs = append(b.funcs, &funcInfo{name: fmt.Sprintf("%s%d", name, declScope)})
	b.curr = len(b.funcs) - 1
	return b.curr
}

// ResetCurrentFunction returns focus to "main" after a function body has
// been fully walked (generateScope: "End function").
func (b *ProgramBuilder) ResetCurrentFunction() { b.curr = 0 }

// AddParameter records decl as the current function's next declared
// parameter, in declaration order.
func (b *ProgramBuilder) AddParameter(decl *types.SymbolDecl) {
	f := b.fn()
	f.params = append(f.params, paramSize{name: decl.DeclId().MangledName(), size: decl.Type.UnitSize()})
}

// NewTemp mints a fresh temporary variable name, scoped to the current
// function, and records its size. Temps are never mangled with a scope
// suffix (unlike declared variables): "t{N}_" with a per-function counter
// is already unique.
func (b *ProgramBuilder) NewTemp(size int32) string {
	f := b.fn()
	name := fmt.Sprintf("t%d_", f.tempCount)
	f.tempCount++
	b.setSize(name, size, 1)
	return name
}

// AddAssignment appends `var = op;`, growing var's recorded size to
// fit op's left-hand value.
func (b *ProgramBuilder) AddAssignment(varName string, op Operation) {
	b.setSize(varName, b.ValSize(op.Val1), 1)
	b.fn().statements = append(b.fn().statements, Statement{Kind: StmtAssignment, Name: varName, Op: op})
}

// AddArrayAssignment lowers an indexed write `arr[index] = statement`: the
// index expression is flattened to a plain value (materializing it into a
// temp first if it is itself a compound operation), then a
// PointerAssignment is emitted directly from the value side's operation.
func (b *ProgramBuilder) AddArrayAssignment(arr string, index *ast.Tree, statement *ast.Tree, scope int, arrLen int32) {
	indexOp := b.AddStatement(index, scope)
	indexVal := indexOp.Val1
	if indexOp.HasOp {
		t := b.NewTemp(b.ValSize(indexOp.Val1))
		b.AddAssignment(t, indexOp)
		indexVal = Var(t)
	}

	stmtOp := b.AddStatement(statement, scope)
	b.setSize(arr, b.ValSize(stmtOp.Val1), arrLen)

	b.fn().statements = append(b.fn().statements, Statement{Kind: StmtPointerAssignment, Name: arr, Index: indexVal, Op: stmtOp})
}

func (b *ProgramBuilder) AddPushParam(varName string) {
	b.fn().statements = append(b.fn().statements, Statement{Kind: StmtCommand, Command: PushParam, Operand: Var(varName), HasOperand: true})
}

func (b *ProgramBuilder) AddPopParams(size int32) {
	b.fn().statements = append(b.fn().statements, Statement{Kind: StmtCommand, Command: PopParams, Operand: IntVal(size), HasOperand: true})
}

// AddCallFunc pushes every argument, emits the call, and binds its result
// (or discards it, for a value-less call) before popping the frame back
// off. The popped size is the sum of every pushed argument's size.
func (b *ProgramBuilder) AddCallFunc(funcName string, params []string, returnVar string, hasReturn bool) {
	var paramsSize int32
	for _, p := range params {
		b.AddPushParam(p)
		paramsSize += b.ValSize(Var(p))
	}

	if hasReturn {
		b.AddAssignment(returnVar, Operation{Val1: LCallArgs(funcName)})
	} else {
		b.fn().statements = append(b.fn().statements, Statement{Kind: StmtCommand, Command: LCall, Operand: Label(funcName), HasOperand: true})
	}

	b.AddPopParams(paramsSize)
}

// AddBuiltinFunc lowers a closed print/return statement: evaluate its
// expression into a temp, then either Return it or call the host "print"
// function with it as the sole argument.
func (b *ProgramBuilder) AddBuiltinFunc(kind types.BuiltinKind, expr *ast.Tree, scope int) {
	temp := b.NewTemp(b.typeSize(expr))
	b.AddAssignmentStatement(temp, expr, scope)

	switch kind {
	case types.BuiltinReturn:
		b.fn().statements = append(b.fn().statements, Statement{Kind: StmtCommand, Command: Return, Operand: Var(temp), HasOperand: true})
	case types.BuiltinPrint:
		b.AddCallFunc("print", []string{temp}, "", false)
	}
}

func (b *ProgramBuilder) AddGoto(label string) {
	b.fn().statements = append(b.fn().statements, Statement{Kind: StmtCommand, Command: Goto, Operand: Label(label), HasOperand: true})
}

func (b *ProgramBuilder) AddLabel(label string) {
	b.fn().statements = append(b.fn().statements, Statement{Kind: StmtLabel, Name: label})
}

// addIf emits the IfZ branching on cond_var and mints the appropriate
// label(s): an if-with-else branches to "elseN" and also returns the
// shared "fiN" end label; an if-without-else branches straight to "fiN"
// and there is no separate else label.
func (b *ProgramBuilder) addIf(condVar string, hasElse bool) (elseLabel, endLabel string) {
	var condLabel string
	if hasElse {
		condLabel = b.NextLabel("else")
	} else {
		condLabel = b.NextLabel("fi")
	}

	b.fn().statements = append(b.fn().statements, Statement{Kind: StmtCommand, Command: IfZ, Operand: IfArgs(condVar, condLabel), HasOperand: true})

	if hasElse {
		return condLabel, b.NextLabel("fi")
	}
	return "", condLabel
}

// AddIf evaluates condition into a temp and opens the if/else branch
// structure around it.
func (b *ProgramBuilder) AddIf(condition *ast.Tree, scope int, hasElse bool) (elseLabel, endLabel string) {
	condVar := b.NewTemp(b.typeSize(condition))
	b.AddAssignmentStatement(condVar, condition, scope)
	return b.addIf(condVar, hasElse)
}

// AddWhileStatement opens a while loop: the loop label, then the
// condition re-evaluated and branch-checked on every iteration.
func (b *ProgramBuilder) AddWhileStatement(condition *ast.Tree, scope int) (whileLabel, endLabel string) {
	whileLabel = b.NextLabel("while")
	b.AddLabel(whileLabel)
	endLabel = b.NextLabel("od")

	condVar := b.NewTemp(b.typeSize(condition))
	b.AddAssignmentStatement(condVar, condition, scope)

	b.fn().statements = append(b.fn().statements, Statement{Kind: StmtCommand, Command: IfZ, Operand: IfArgs(condVar, endLabel), HasOperand: true})
	return whileLabel, endLabel
}

func (b *ProgramBuilder) typeSize(tree *ast.Tree) int32 {
	if tree.IsEmpty() {
		return 4
	}
	if t := tree.Node(tree.Root()).Type; t != nil {
		return t.UnitSize()
	}
	return 4
}

// AddStatement flattens tree's expression into a single TacOperation
// (§4.6 "Expression lowering").
func (b *ProgramBuilder) AddStatement(tree *ast.Tree, scope int) Operation {
	return b.addNode(tree.Root(), tree, scope)
}

// AddAssignmentStatement lowers statement and immediately assigns its
// result to var.
func (b *ProgramBuilder) AddAssignmentStatement(varName string, statement *ast.Tree, scope int) {
	op := b.AddStatement(statement, scope)
	b.AddAssignment(varName, op)
}

// materialize forces op into a plain value operand, spilling it to a
// fresh temp first if it is a compound (two-operand) operation. Every
// binary/logical lowering needs both of its operands in this form before
// combining them.
func (b *ProgramBuilder) materialize(op Operation) Value {
	if !op.HasOp {
		return op.Val1
	}
	t := b.NewTemp(b.ValSize(op.Val1))
	b.AddAssignment(t, op)
	return Var(t)
}

func (b *ProgramBuilder) addNode(idx int, tree *ast.Tree, scope int) Operation {
	n := tree.Node(idx)
	switch n.Symbol {
	case ast.SymDecl:
		return Operation{Val1: Var(n.Decl.MangledName())}

	case ast.SymLiteral:
		if n.TokenKind == lexer.DoubleLiteral {
			return Operation{Val1: DblVal(n.DblVal)}
		}
		return Operation{Val1: IntVal(n.IntVal)}

	case ast.SymArrayAccess:
		temp := b.NewTemp(4)
		b.AddAssignment(temp, b.addNode(n.Index, tree, scope))
		return Operation{Val1: PointerAccess(n.Decl.MangledName(), Var(temp))}

	case ast.SymFunctionCall:
		args := make([]string, len(n.Args))
		for i, argRoot := range n.Args {
			argType := tree.Node(argRoot).Type
			size := int32(4)
			if argType != nil {
				size = argType.UnitSize()
			}
			t := b.NewTemp(size)
			b.AddAssignment(t, b.addNode(argRoot, tree, scope))
			args[i] = t
		}
		ret := b.NewTemp(4)
		b.AddCallFunc(n.Decl.MangledName(), args, ret, true)
		return Operation{Val1: Var(ret)}

	case ast.SymSingleChildOperator:
		child := b.addNode(n.Left, tree, scope)
		childVar := b.NewTemp(b.ValSize(child.Val1))
		b.AddAssignment(childVar, child)
		return b.lowerUnary(n.TokenKind, childVar)

	case ast.SymOperator:
		leftOp := b.addNode(n.Left, tree, scope)
		rightOp := b.addNode(n.Right, tree, scope)
		leftVal := b.materialize(leftOp)
		rightVal := b.materialize(rightOp)
		return b.lowerBinary(n.TokenKind, leftVal, rightVal)

	default:
		return Operation{}
	}
}

// lowerUnary implements the three SingleChildOperator cases (§4.6):
// unary minus as `0 - x`, a parenthesized group as a pass-through, and
// logical `not` as a branch lowering to 0/1.
func (b *ProgramBuilder) lowerUnary(tok lexer.Kind, childVar string) Operation {
	switch tok {
	case lexer.OpMinus:
		return Operation{Op: lexer.OpMinus, HasOp: true, Val1: IntVal(0), Val2: Var(childVar)}
	case lexer.SepLParen:
		return Operation{Val1: Var(childVar)}
	case lexer.KwNot:
		guard := Operation{Op: lexer.OpGreater, HasOp: true, Val1: Var(childVar), Val2: IntVal(0)}
		return b.branch(guard, Operation{Val1: IntVal(0)}, Operation{Val1: IntVal(1)})
	default:
		return Operation{Val1: Var(childVar)}
	}
}

// lowerBinary implements the Operator cases (§4.6): arithmetic/comparison
// operators pass through as a single TacOperation; `and`/`or` are lowered
// to short-circuit branch sequences at this level, not the AST level
// (§9 "Short-circuit evaluation").
func (b *ProgramBuilder) lowerBinary(tok lexer.Kind, left, right Value) Operation {
	switch tok {
	case lexer.OpPlus, lexer.OpMinus, lexer.OpStar, lexer.OpSlash, lexer.OpPercent,
		lexer.OpEqual, lexer.OpNotEqual, lexer.OpLess, lexer.OpGreater, lexer.OpLessEq, lexer.OpGreaterEq:
		return Operation{Op: tok, HasOp: true, Val1: left, Val2: right}

	case lexer.KwAnd:
		// Short-circuit: if the left operand isn't truthy the result is 0
		// without evaluating the right; otherwise the result is whether
		// the right operand is truthy.
		guard := Operation{Op: lexer.OpGreater, HasOp: true, Val1: left, Val2: IntVal(0)}
		rightCheck := Operation{Op: lexer.OpGreater, HasOp: true, Val1: right, Val2: IntVal(0)}
		return b.branch(guard, rightCheck, Operation{Val1: IntVal(0)})

	case lexer.KwOr:
		// Short-circuit: if the left operand is truthy the result is 1
		// without evaluating the right; otherwise it's whether the right
		// operand is truthy.
		guard := Operation{Op: lexer.OpGreater, HasOp: true, Val1: left, Val2: IntVal(0)}
		rightCheck := Operation{Op: lexer.OpGreater, HasOp: true, Val1: right, Val2: IntVal(0)}
		return b.branch(guard, Operation{Val1: IntVal(1)}, rightCheck)

	default:
		return Operation{Op: tok, HasOp: true, Val1: left, Val2: right}
	}
}

// branch lowers `guard` into a temp, branches on it, assigns trueOp in
// the fallthrough path and falseOp after the else label, and returns the
// shared result variable as a plain value operand. Shared by `not`,
// `and`, and `or`'s lowering.
func (b *ProgramBuilder) branch(guard, trueOp, falseOp Operation) Operation {
	guardVar := b.NewTemp(b.ValSize(guard.Val1))
	b.AddAssignment(guardVar, guard)

	elseLabel, endLabel := b.addIf(guardVar, true)

	result := b.NewTemp(4)
	b.AddAssignment(result, trueOp)
	b.AddGoto(endLabel)

	b.AddLabel(elseLabel)
	b.AddAssignment(result, falseOp)

	b.AddLabel(endLabel)
	return Operation{Val1: Var(result)}
}

// setSize records name's storage size, keeping the current function's
// var_sizes index sorted by name so callers can binary-search it
// (§4.6 "Variable sizing"; mirrors tac_program_builder.rs's set_size).
func (b *ProgramBuilder) setSize(name string, size, instances int32) {
	f := b.fn()
	lo, hi := 0, len(f.varSizes)
	for lo < hi {
		mid := (lo + hi) / 2
		if f.varSizes[mid].name == name {
			if f.varSizes[mid].size < size {
				f.varSizes[mid].size = size
			}
			return
		} else if f.varSizes[mid].name < name {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	f.varSizes = append(f.varSizes, varSize{})
	copy(f.varSizes[lo+1:], f.varSizes[lo:])
	f.varSizes[lo] = varSize{name: name, size: size, count: instances}
}

// ValSize resolves a value's storage size: literals are always 4,
// variables are looked up in the current function's var_sizes index
// (falling back to its declared parameters, then 0).
func (b *ProgramBuilder) ValSize(v Value) int32 {
	switch v.Kind {
	case VInt, VDouble:
		return 4
	case VVar:
		f := b.fn()
		lo, hi := 0, len(f.varSizes)
		for lo < hi {
			mid := (lo + hi) / 2
			if f.varSizes[mid].name == v.Text {
				return f.varSizes[mid].size * f.varSizes[mid].count
			} else if f.varSizes[mid].name < v.Text {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		for _, p := range f.params {
			if p.name == v.Text {
				return p.size
			}
		}
		return 0
	default:
		return 0
	}
}
