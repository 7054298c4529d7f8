package types

import "fmt"

// ScopeKind classifies a Scope (§3).
type ScopeKind int

const (
	Global ScopeKind = iota
	FunctionScope
	Local
)

func (k ScopeKind) String() string {
	switch k {
	case Global:
		return "Global"
	case FunctionScope:
		return "Function"
	case Local:
		return "Local"
	default:
		return "?"
	}
}

// GlobalScope is the index of the always-present, self-parented root scope.
const GlobalScope = 0

// DeclId identifies a declaration by the pair (name, declaring scope) (§3,
// GLOSSARY).
type DeclId struct {
	Name  string
	Scope int
}

// MangledName is the DeclId's TAC variable identifier: the source name with
// its declaring scope's index appended (§9 "Name mangling").
func (id DeclId) MangledName() string {
	return fmt.Sprintf("%s%d", id.Name, id.Scope)
}

// SymbolDecl is one entry in the table's declaration index (§3).
type SymbolDecl struct {
	Name  string
	Type  *BasicType
	Scope int
}

func (d SymbolDecl) DeclId() DeclId { return DeclId{Name: d.Name, Scope: d.Scope} }

// EntryKind tags a Scope entry's variant (§3).
type EntryKind int

const (
	EntryDecl EntryKind = iota
	EntryParameter
	EntryScope
	EntryAssignment
	EntryConditional
	EntryBuiltin
	EntryStatement
)

// ConditionalKind distinguishes If/Else/While conditional-statement entries.
type ConditionalKind int

const (
	CondIf ConditionalKind = iota
	CondElse
	CondWhile
)

// BuiltinKind distinguishes Print/Return built-in statements.
type BuiltinKind int

const (
	BuiltinPrint BuiltinKind = iota
	BuiltinReturn
)

// ExprTree is satisfied by *ast.Tree. The types package holds expression
// trees only as opaque payloads on symbol-table entries — it never inspects
// them — so it depends on this marker interface instead of importing ast,
// keeping ast -> types a one-way edge (ast.Node carries a *BasicType).
type ExprTree interface {
	ExprTreeMarker()
}

// Assignment is a scalar or indexed write.
type Assignment struct {
	Var   DeclId
	Index ExprTree // nil for a scalar write
	Rhs   ExprTree
}

// Conditional is a closed If/Else/While statement.
type Conditional struct {
	Kind      ConditionalKind
	Condition ExprTree // nil for Else
	BodyScope int
}

// BuiltinCall is a closed print/return statement.
type BuiltinCall struct {
	Kind       BuiltinKind
	Expression ExprTree
}

// Entry is one ordered member of a Scope (§3).
type Entry struct {
	Kind        EntryKind
	Decl        DeclId       // EntryDecl, EntryParameter
	Child       int          // EntryScope
	Assignment  *Assignment  // EntryAssignment
	Conditional *Conditional // EntryConditional
	Builtin     *BuiltinCall // EntryBuiltin
	Statement   ExprTree     // a bare statement tree with no builtin/assignment wrapper
}

// Scope is one node of the scope tree (§3).
type Scope struct {
	Kind    ScopeKind
	Parent  int
	Entries []Entry
}

// Table is the symbol table: an ordered sequence of scopes plus a
// name-and-scope-sorted declaration index (§3).
type Table struct {
	Scopes []Scope
	Decls  []SymbolDecl
}

// NewTable seeds the self-parented global scope at index 0.
func NewTable() *Table {
	return &Table{
		Scopes: []Scope{{Kind: Global, Parent: GlobalScope}},
	}
}

// AddScope appends a new scope under parent and returns its index.
func (t *Table) AddScope(kind ScopeKind, parent int) int {
	idx := len(t.Scopes)
	t.Scopes = append(t.Scopes, Scope{Kind: kind, Parent: parent})
	return idx
}

func (t *Table) Scope(idx int) *Scope { return &t.Scopes[idx] }

// AddEntry appends e to scope's entry list, in source order.
func (t *Table) AddEntry(scope int, e Entry) {
	t.Scopes[scope].Entries = append(t.Scopes[scope].Entries, e)
}

// ErrDuplicateDeclaration is returned by InsertDecl when (name, scope)
// already has a declaration (§3 invariant: no two declarations share
// (name, scope)).
type ErrDuplicateDeclaration struct {
	Name  string
	Scope int
}

func (e *ErrDuplicateDeclaration) Error() string {
	return fmt.Sprintf("duplicate declaration of %q in scope %d", e.Name, e.Scope)
}

// InsertDecl inserts a SymbolDecl into the sorted declaration index,
// keeping it ordered by (name, scope) so FindDecl can binary-search. Ported
// from the reference insert_decl: search by name first, then by scope
// within the name's run, and reject an exact (name, scope) collision.
func (t *Table) InsertDecl(name string, typ *BasicType, scope int) (DeclId, error) {
	lo, hi := 0, len(t.Decls)
	for lo < hi {
		mid := (lo + hi) / 2
		d := t.Decls[mid]
		if d.Name < name || (d.Name == name && d.Scope < scope) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(t.Decls) && t.Decls[lo].Name == name && t.Decls[lo].Scope == scope {
		return DeclId{}, &ErrDuplicateDeclaration{Name: name, Scope: scope}
	}
	decl := SymbolDecl{Name: name, Type: typ, Scope: scope}
	t.Decls = append(t.Decls, SymbolDecl{})
	copy(t.Decls[lo+1:], t.Decls[lo:])
	t.Decls[lo] = decl
	return decl.DeclId(), nil
}

// FindDecl resolves name starting from fromScope outward through the scope
// chain, returning the declaration in the nearest enclosing scope whose
// index is <= fromScope (Testable Properties, §8). Ported from the
// reference find_decl: scans every entry sharing name, tracking the
// greatest scope <= fromScope seen so far, short-circuiting on an exact
// scope match.
func (t *Table) FindDecl(name string, fromScope int) (*SymbolDecl, bool) {
	lo, hi := 0, len(t.Decls)
	for lo < hi {
		mid := (lo + hi) / 2
		if t.Decls[mid].Name < name {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	bestIdx := -1
	bestScope := -1
	for i := lo; i < len(t.Decls) && t.Decls[i].Name == name; i++ {
		s := t.Decls[i].Scope
		if s == fromScope {
			return &t.Decls[i], true
		}
		if s < fromScope && s > bestScope {
			bestScope = s
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return nil, false
	}
	return &t.Decls[bestIdx], true
}

// FindDeclByID looks up the exact (name, scope) pair.
func (t *Table) FindDeclByID(id DeclId) (*SymbolDecl, bool) {
	for i := range t.Decls {
		if t.Decls[i].Name == id.Name && t.Decls[i].Scope == id.Scope {
			return &t.Decls[i], true
		}
	}
	return nil, false
}
