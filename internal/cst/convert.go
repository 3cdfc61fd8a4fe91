package cst

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// FromTreeSitter copies a native tree-sitter tree into an owned Tree. The
// native tree may be closed as soon as this returns.
//
// The walk uses a tree cursor and an explicit parent stack, so deeply nested
// input cannot exhaust the goroutine stack.
func FromTreeSitter(tree *sitter.Tree, source []byte, language string) *Tree {
	if tree == nil {
		return nil
	}
	root := tree.RootNode()
	out := &Tree{
		Source:   source,
		Language: language,
		HasError: root.HasError(),
	}

	cursor := root.Walk()
	defer cursor.Close()

	out.Root = copyNode(cursor.Node(), "")
	parents := []*Node{out.Root}

	if !cursor.GotoFirstChild() {
		return out
	}
	for len(parents) > 0 {
		node := copyNode(cursor.Node(), cursor.FieldName())
		parent := parents[len(parents)-1]
		parent.Children = append(parent.Children, node)

		if cursor.GotoFirstChild() {
			parents = append(parents, node)
			continue
		}
		for !cursor.GotoNextSibling() {
			if !cursor.GotoParent() {
				return out
			}
			parents = parents[:len(parents)-1]
			if len(parents) == 0 {
				return out
			}
		}
	}
	return out
}

func copyNode(n *sitter.Node, field string) *Node {
	start := n.StartPosition()
	end := n.EndPosition()
	return &Node{
		Kind:      n.Kind(),
		Field:     field,
		Named:     n.IsNamed(),
		StartByte: uint32(n.StartByte()),
		EndByte:   uint32(n.EndByte()),
		Start:     Point{Row: int(start.Row), Column: int(start.Column)},
		End:       Point{Row: int(end.Row), Column: int(end.Column)},
	}
}
