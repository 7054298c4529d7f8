package compiler

import (
	"github.com/xingleixu/cp-compiler/ast"
	"github.com/xingleixu/cp-compiler/types"
)

// GenerateProgram lowers table into a linearized TAC program by walking
// its scope tree in source order (§4.6). This is the sole entry point
// into the compiler package: everything else here is in service of this
// walk.
func GenerateProgram(table *types.Table) Program {
	b := NewProgramBuilder()
	generateScope(types.GlobalScope, table, b)
	return b.Program()
}

// exprTree unwraps the opaque types.ExprTree payload on a table entry
// back into the concrete *ast.Tree the semantic analyzer built it as.
// types holds these only as opaque markers to avoid importing ast (§3
// "ast -> types is a one-way edge"); this package, which already depends
// on both, is where that split is bridged back together.
func exprTree(e types.ExprTree) *ast.Tree {
	if e == nil {
		return ast.NewTree()
	}
	return e.(*ast.Tree)
}

// generateScope visits every entry of scope in order, recursing into
// nested and function-body scopes, and lowering each declaration,
// assignment, conditional, and builtin call into the current function's
// statement list (intermediate_code_generation.rs: generate_scope_code).
func generateScope(scope int, table *types.Table, b *ProgramBuilder) {
	entries := table.Scope(scope).Entries
	skipNext := false

	for i := 0; i < len(entries); i++ {
		if skipNext {
			skipNext = false
			continue
		}
		e := entries[i]

		switch e.Kind {
		case types.EntryDecl:
			decl, ok := table.FindDeclByID(e.Decl)
			if !ok || decl.Type.Kind != types.KFunction {
				continue
			}
			b.AddFunction(decl.Name, decl.Scope)
			generateScope(decl.Type.Func.BodyScope, table, b)
			b.ResetCurrentFunction()

		case types.EntryParameter:
			if decl, ok := table.FindDeclByID(e.Decl); ok {
				b.AddParameter(decl)
			}

		case types.EntryScope:
			generateScope(e.Child, table, b)

		case types.EntryBuiltin:
			b.AddBuiltinFunc(e.Builtin.Kind, exprTree(e.Builtin.Expression), scope)

		case types.EntryAssignment:
			generateAssignment(e.Assignment, scope, table, b)

		case types.EntryConditional:
			skipNext = generateConditional(e.Conditional, entries, i, scope, table, b)

		case types.EntryStatement:
			// A bare expression statement with no side effect the TAC
			// level cares about (e.g. a lone call used only for the
			// pushes/pops it performs); nothing further to lower here,
			// mirroring the original walk's catch-all no-op arm.
		}
	}
}

func generateAssignment(asg *types.Assignment, scope int, table *types.Table, b *ProgramBuilder) {
	decl, ok := table.FindDeclByID(asg.Var)
	if !ok {
		return
	}
	varName := asg.Var.MangledName()

	if asg.Index != nil {
		if decl.Type.Kind != types.KArray {
			return
		}
		b.AddArrayAssignment(varName, exprTree(asg.Index), exprTree(asg.Rhs), scope, decl.Type.Size)
		return
	}
	b.AddAssignmentStatement(varName, exprTree(asg.Rhs), scope)
}

// generateConditional lowers one If/While (an Else is folded into its
// preceding If's lookahead, never visited on its own) and reports whether
// the caller's loop should skip the entry right after this one — the
// matched Else, if there was one (generate_scope_code's "skip_else").
func generateConditional(cond *types.Conditional, entries []types.Entry, i, scope int, table *types.Table, b *ProgramBuilder) bool {
	switch cond.Kind {
	case types.CondWhile:
		whileLabel, endLabel := b.AddWhileStatement(exprTree(cond.Condition), scope)
		generateScope(cond.BodyScope, table, b)
		b.AddGoto(whileLabel)
		b.AddLabel(endLabel)
		return false

	case types.CondIf:
		elseBodyScope := -1
		if i+1 < len(entries) {
			if next := entries[i+1]; next.Kind == types.EntryConditional && next.Conditional.Kind == types.CondElse {
				elseBodyScope = next.Conditional.BodyScope
			}
		}

		elseLabel, endIfLabel := b.AddIf(exprTree(cond.Condition), scope, elseBodyScope >= 0)
		generateScope(cond.BodyScope, table, b)

		if elseBodyScope >= 0 {
			b.AddGoto(endIfLabel)
			b.AddLabel(elseLabel)
			generateScope(elseBodyScope, table, b)
		}
		b.AddLabel(endIfLabel)
		return elseBodyScope >= 0

	default: // types.CondElse reached without a preceding If: nothing to do.
		return false
	}
}
