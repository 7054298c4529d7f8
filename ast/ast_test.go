package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xingleixu/cp-compiler/lexer"
)

func TestAddNodeFillsChildrenInOrder(t *testing.T) {
	tr := NewTree()
	op := tr.AddNode(SymOperator, -1)
	left := tr.AddNode(SymLiteral, op)
	right := tr.AddNode(SymLiteral, op)
	assert.Equal(t, left, tr.Node(op).Left)
	assert.Equal(t, right, tr.Node(op).Right)
	assert.Equal(t, op, tr.Start)
}

func TestSplitTreeInsertsAboveNode(t *testing.T) {
	tr := NewTree()
	leaf := tr.AddNode(SymLiteral, -1)
	require.Equal(t, leaf, tr.Start)

	op := tr.SplitTree(SymOperator, leaf)
	assert.Equal(t, op, tr.Start)
	assert.Equal(t, leaf, tr.Node(op).Left)
	assert.Equal(t, op, tr.Node(leaf).Parent)

	right := tr.AddNode(SymLiteral, op)
	assert.Equal(t, right, tr.Node(op).Right)
}

func TestConstantIntArithmetic(t *testing.T) {
	tr := NewTree()
	op := tr.AddNode(SymOperator, -1)
	tr.Node(op).TokenKind = lexer.OpPlus
	l := tr.AddNode(SymLiteral, op)
	tr.Node(l).IntVal = 2
	r := tr.AddNode(SymLiteral, op)
	tr.Node(r).IntVal = 3

	v, err := tr.ConstantInt(tr.Start)
	require.NoError(t, err)
	assert.EqualValues(t, 5, v)
}

func TestConstantIntRejectsDouble(t *testing.T) {
	tr := NewTree()
	lit := tr.AddNode(SymLiteral, -1)
	tr.Node(lit).TokenKind = lexer.DoubleLiteral
	_, err := tr.ConstantInt(tr.Start)
	assert.Error(t, err)
}
