// Package ast implements the cp language's statement tree: the per-statement
// expression arena described in spec §3 and §9 ("arena + indices, not
// back-pointers").
package ast

import (
	"fmt"

	"github.com/xingleixu/cp-compiler/lexer"
	"github.com/xingleixu/cp-compiler/types"
)

// SymbolKind tags a Node's variant (§3).
type SymbolKind int

const (
	SymDecl SymbolKind = iota
	SymLiteral
	SymOperator
	SymSingleChildOperator
	SymFunctionCall
	SymArrayAccess
)

// Node is one arena slot. Parent/Left/Right are indices into the owning
// Tree's Nodes slice, -1 when absent.
type Node struct {
	Symbol SymbolKind

	// SymDecl / SymArrayAccess / SymFunctionCall
	Decl types.DeclId
	// SymArrayAccess: index into Nodes of the index subexpression
	Index int
	// SymFunctionCall: indices into Nodes of each argument's root
	Args []int

	// SymLiteral / SymOperator / SymSingleChildOperator
	TokenKind lexer.Kind

	// SymLiteral payload
	IntVal int32
	DblVal float64

	Type *types.BasicType

	Parent, Left, Right int
}

func noIndex() int { return -1 }

// Tree is an ordered arena of Nodes with an optional root (Start).
type Tree struct {
	Nodes []Node
	Start int // -1 if empty
}

// NewTree returns an empty tree.
func NewTree() *Tree { return &Tree{Start: -1} }

// ExprTreeMarker satisfies types.ExprTree.
func (t *Tree) ExprTreeMarker() {}

func (t *Tree) IsEmpty() bool { return t.Start < 0 }

// Root returns the index of the tree's root node.
func (t *Tree) Root() int { return t.Start }

func (t *Tree) node(idx int) *Node { return &t.Nodes[idx] }

// Node exposes a node by index for callers outside the package (the
// semantic analyzer's cursor logic walks and mutates nodes directly).
func (t *Tree) Node(idx int) *Node { return &t.Nodes[idx] }

// ConvertToArrayAccess rewrites an existing SymDecl node in place into a
// SymArrayAccess node, attaching the already-built index subtree and the
// element type (§4.5 SetArray, "rewrite its latest Decl node into
// ArrayAccess").
func (t *Tree) ConvertToArrayAccess(idx int, indexNode int, elemType *types.BasicType) {
	n := t.node(idx)
	n.Symbol = SymArrayAccess
	n.Index = indexNode
	n.Type = elemType
	t.node(indexNode).Parent = idx
}

func (t *Tree) newNode(sym SymbolKind) int {
	idx := len(t.Nodes)
	t.Nodes = append(t.Nodes, Node{Symbol: sym, Index: -1, Parent: -1, Left: -1, Right: -1})
	return idx
}

// AddNode appends a node with the given symbol as a child of parent,
// auto-filling the first empty child slot (Left, then Right); if parent < 0
// it becomes (or replaces) the tree's root. Returns the new node's index
// (statement_tree.rs: add_node).
func (t *Tree) AddNode(sym SymbolKind, parent int) int {
	idx := t.newNode(sym)
	if parent < 0 {
		t.Start = idx
		return idx
	}
	t.node(idx).Parent = parent
	p := t.node(parent)
	switch {
	case p.Left < 0:
		p.Left = idx
	case p.Right < 0:
		p.Right = idx
	default:
		panic("ast: parent already has both children")
	}
	return idx
}

// SplitTree inserts a new Operator node above node, making node its left
// child and rewiring node's former parent (or the tree's Start) to point at
// the new node instead (statement_tree.rs: split_tree).
func (t *Tree) SplitTree(sym SymbolKind, node int) int {
	newIdx := t.newNode(sym)
	old := t.node(node)
	oldParent := old.Parent

	t.node(newIdx).Parent = oldParent
	t.node(newIdx).Left = node
	old.Parent = newIdx

	if oldParent < 0 {
		t.Start = newIdx
		return newIdx
	}
	p := t.node(oldParent)
	switch node {
	case p.Left:
		p.Left = newIdx
	case p.Right:
		p.Right = newIdx
	default:
		panic("ast: node is not a child of its recorded parent")
	}
	return newIdx
}

func (n *Node) HasBothChildren() bool { return n.Left >= 0 && n.Right >= 0 }

// Graft appends sub's nodes onto t's arena, rewriting every internal index
// (Parent/Left/Right/Index/Args) by the insertion offset, and returns sub's
// root rebased into t's index space (-1 if sub is empty). Used wherever a
// bracketed index expression or a call argument was built as its own
// independent Tree and must be folded into the enclosing expression's arena
// (§9: one arena per statement, not one per subexpression).
func (t *Tree) Graft(sub *Tree) int {
	if sub.IsEmpty() {
		return -1
	}
	offset := len(t.Nodes)
	for _, n := range sub.Nodes {
		if n.Parent >= 0 {
			n.Parent += offset
		}
		if n.Left >= 0 {
			n.Left += offset
		}
		if n.Right >= 0 {
			n.Right += offset
		}
		if n.Index >= 0 {
			n.Index += offset
		}
		if len(n.Args) > 0 {
			args := make([]int, len(n.Args))
			for i, a := range n.Args {
				args[i] = a + offset
			}
			n.Args = args
		}
		t.Nodes = append(t.Nodes, n)
	}
	return sub.Start + offset
}

// ConstantInt evaluates a literal-only, +-*/-only subtree as a compile-time
// constant, for array-size declarators (§4.5 SetArray, SPEC_FULL
// "Constant array-size evaluator"). Mirrors the original's
// calculate_array_size: only Literal(int) leaves, +-*/ binary operators and
// unary minus are legal; anything else is an error.
func (t *Tree) ConstantInt(node int) (int32, error) {
	if node < 0 {
		return 0, fmt.Errorf("ast: empty constant expression")
	}
	n := t.node(node)
	switch n.Symbol {
	case SymLiteral:
		if n.TokenKind == lexer.DoubleLiteral {
			return 0, fmt.Errorf("ast: array size must be an integer constant")
		}
		return n.IntVal, nil
	case SymOperator:
		left, err := t.ConstantInt(n.Left)
		if err != nil {
			return 0, err
		}
		right, err := t.ConstantInt(n.Right)
		if err != nil {
			return 0, err
		}
		switch n.TokenKind {
		case lexer.OpPlus:
			return left + right, nil
		case lexer.OpMinus:
			return left - right, nil
		case lexer.OpStar:
			return left * right, nil
		case lexer.OpSlash:
			if right == 0 {
				return 0, fmt.Errorf("ast: division by zero in constant array size")
			}
			return left / right, nil
		default:
			return 0, fmt.Errorf("ast: operator %s is not allowed in a constant array size", n.TokenKind)
		}
	case SymSingleChildOperator:
		if n.TokenKind != lexer.OpMinus {
			return 0, fmt.Errorf("ast: operator is not allowed in a constant array size")
		}
		v, err := t.ConstantInt(n.Left)
		if err != nil {
			return 0, err
		}
		return -v, nil
	default:
		return 0, fmt.Errorf("ast: only literals and arithmetic are allowed in a constant array size")
	}
}
