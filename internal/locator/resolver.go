package locator

import (
	"github.com/mvp-joe/funcloc/internal/cst"
	"github.com/mvp-joe/funcloc/internal/source"
)

// Resolver finds the function enclosing a line. It holds no per-query state
// and is safe for concurrent use.
type Resolver struct {
	opts Options
}

// NewResolver creates a resolver. Negative window sizes fall back to the
// defaults.
func NewResolver(opts Options) *Resolver {
	if opts.Front < 0 {
		opts.Front = DefaultFront
	}
	if opts.Back < 0 {
		opts.Back = DefaultBack
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return &Resolver{opts: opts}
}

// span is a located function in 0-based rows.
type span struct {
	name     string
	startRow int
	endRow   int
}

// Resolve returns the function enclosing targetLine (1-indexed). Strategies
// run in order and the first success wins: exact definition, declarator
// heuristic, then the fallback window, which always succeeds.
func (r *Resolver) Resolve(file *source.File, tree *cst.Tree, targetLine int) Result {
	row := targetLine - 1

	if tree != nil && tree.Root != nil {
		if s, ok := r.findDefinition(tree, row); ok {
			return r.syntacticResult(file, s, MethodExactDefinition)
		}
		if s, ok := r.findDeclarator(tree, row); ok {
			return r.syntacticResult(file, s, MethodDeclaratorHeuristic)
		}
	}
	return r.window(file, targetLine)
}

func (r *Resolver) syntacticResult(file *source.File, s span, method Method) Result {
	start, end := s.startRow+1, s.endRow+1
	if r.opts.ExtendToClosingBrace {
		end = ExtendToClosingBrace(file.Lines, end)
	}
	return Result{
		Name:      s.name,
		StartLine: start,
		EndLine:   end,
		Text:      Slice(file.Lines, start, end),
		Method:    method,
	}
}

// window builds the fallback result. The target is clamped into the file
// first, then the window is clamped to the file bounds.
func (r *Resolver) window(file *source.File, targetLine int) Result {
	n := file.LineCount()
	if n == 0 {
		return Result{Method: MethodWindowFallback}
	}
	target := clamp(targetLine, 1, n)
	start := clamp(target-r.opts.Front, 1, n)
	end := clamp(target+r.opts.Back, 1, n)
	return Result{
		StartLine: start,
		EndLine:   end,
		Text:      Slice(file.Lines, start, end),
		Method:    MethodWindowFallback,
	}
}

// findDefinition searches pre-order for the first function_definition whose
// row span contains row.
func (r *Resolver) findDefinition(tree *cst.Tree, row int) (span, bool) {
	type frame struct {
		node  *cst.Node
		depth int
	}
	stack := []frame{{node: tree.Root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.node.Kind == cst.KindFunctionDefinition && f.node.ContainsRow(row) {
			target := f.node.ChildByField(cst.FieldDeclarator)
			if target == nil {
				target = f.node
			}
			return span{
				name:     extractName(tree, target, r.opts.MaxDepth),
				startRow: f.node.Start.Row,
				endRow:   f.node.End.Row,
			}, true
		}
		if f.depth >= r.opts.MaxDepth {
			continue
		}
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: f.node.Children[i], depth: f.depth + 1})
		}
	}
	return span{}, false
}

// findDeclarator searches pre-order for a function_declarator that, together
// with a compound statement among its grandparent's children, spans row.
// Declarators that do not match are still descended into.
func (r *Resolver) findDeclarator(tree *cst.Tree, row int) (span, bool) {
	type frame struct {
		node        *cst.Node
		parent      *cst.Node
		grandparent *cst.Node
		depth       int
	}
	stack := []frame{{node: tree.Root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.node.Kind == cst.KindFunctionDeclarator {
			if startRow, endRow, ok := declaratorSpan(f.node, f.parent, f.grandparent); ok &&
				startRow <= row && row <= endRow {
				return span{
					name:     extractName(tree, f.node, r.opts.MaxDepth),
					startRow: startRow,
					endRow:   endRow,
				}, true
			}
		}
		if f.depth >= r.opts.MaxDepth {
			continue
		}
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{
				node:        f.node.Children[i],
				parent:      f.node,
				grandparent: f.parent,
				depth:       f.depth + 1,
			})
		}
	}
	return span{}, false
}

// declaratorSpan computes the tentative rows of a function recovered from a
// declarator D with parent P and grandparent G.
//
// The start is P's first row, moved back to the previous sibling of P within
// G when one exists; that sibling usually carries the return type or
// qualifiers the grammar split off. The end is the last row of the first
// compound statement among G's children at or after D. Without such a body
// the declarator is not a function.
func declaratorSpan(decl, parent, grandparent *cst.Node) (startRow, endRow int, ok bool) {
	if parent == nil || grandparent == nil {
		return 0, 0, false
	}

	startRow = parent.Start.Row
	children := grandparent.Children
	idx := -1
	for i, child := range children {
		if child.Start == parent.Start {
			idx = i
			if i > 0 {
				startRow = children[i-1].Start.Row
			}
			break
		}
	}
	if idx < 0 {
		return 0, 0, false
	}

	for _, child := range children[idx:] {
		if child.Kind == cst.KindCompoundStatement && !child.Start.Before(decl.Start) {
			return startRow, child.End.Row, true
		}
	}
	return 0, 0, false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
