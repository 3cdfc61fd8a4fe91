package locator

import "github.com/mvp-joe/funcloc/internal/cst"

// ExtractName returns the first identifier found under node.
//
// The search is pre-order and left to right: a node that is itself an
// identifier wins, then a node whose declarator field is an identifier, then
// its children in order. This is a "first identifier" rule, not a semantic
// one, so an identifier nested in a macro argument that precedes the real
// name is returned instead. Callers depend on that exact behavior.
func ExtractName(tree *cst.Tree, node *cst.Node) string {
	return extractName(tree, node, DefaultMaxDepth)
}

func extractName(tree *cst.Tree, node *cst.Node, maxDepth int) string {
	if node == nil {
		return ""
	}

	type frame struct {
		node  *cst.Node
		depth int
	}
	stack := []frame{{node: node}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.node.Kind == cst.KindIdentifier {
			if name := tree.Text(f.node); name != "" {
				return name
			}
		}
		if decl := f.node.ChildByField(cst.FieldDeclarator); decl != nil && decl.Kind == cst.KindIdentifier {
			if name := tree.Text(decl); name != "" {
				return name
			}
		}
		if f.depth >= maxDepth {
			continue
		}
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: f.node.Children[i], depth: f.depth + 1})
		}
	}

	// Last resort: any identifier directly under the starting node.
	for _, child := range node.Children {
		if child.Kind == cst.KindIdentifier {
			if name := tree.Text(child); name != "" {
				return name
			}
		}
	}
	return ""
}
