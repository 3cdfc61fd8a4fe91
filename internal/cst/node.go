// Package cst holds an owned, immutable copy of a concrete syntax tree.
//
// Trees are converted out of the native tree-sitter representation once, right
// after parsing, so they can be cached and walked from many goroutines without
// keeping a parser or a C-allocated tree alive.
package cst

// Node kinds the locator cares about. These match the tree-sitter C and C++
// grammars.
const (
	KindFunctionDefinition = "function_definition"
	KindFunctionDeclarator = "function_declarator"
	KindCompoundStatement  = "compound_statement"
	KindIdentifier         = "identifier"
)

// FieldDeclarator is the grammar field linking a definition or declarator to
// its inner declarator.
const FieldDeclarator = "declarator"

// Point is a 0-based row/column position.
type Point struct {
	Row    int
	Column int
}

// Before reports whether p sorts strictly before o.
func (p Point) Before(o Point) bool {
	if p.Row != o.Row {
		return p.Row < o.Row
	}
	return p.Column < o.Column
}

// Node is a typed, positioned syntax node. Children are owned by their parent.
type Node struct {
	Kind      string
	Field     string // field name in the parent, "" when unnamed
	Named     bool
	StartByte uint32
	EndByte   uint32
	Start     Point
	End       Point
	Children  []*Node
}

// ChildByField returns the first child carrying the given field name.
func (n *Node) ChildByField(field string) *Node {
	if n == nil {
		return nil
	}
	for _, child := range n.Children {
		if child.Field == field {
			return child
		}
	}
	return nil
}

// ContainsRow reports whether row falls within the node's [start, end] rows.
func (n *Node) ContainsRow(row int) bool {
	return n.Start.Row <= row && row <= n.End.Row
}

// Tree is a root node plus the exact source it was parsed from.
type Tree struct {
	Root     *Node
	Source   []byte
	Language string
	HasError bool
}

// Text returns the source text covered by n.
func (t *Tree) Text(n *Node) string {
	if t == nil || n == nil {
		return ""
	}
	end := int(n.EndByte)
	if end > len(t.Source) {
		end = len(t.Source)
	}
	start := int(n.StartByte)
	if start > end {
		return ""
	}
	return string(t.Source[start:end])
}
