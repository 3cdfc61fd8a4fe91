package locator

import (
	"strings"

	"github.com/mvp-joe/funcloc/internal/cst"
	"github.com/mvp-joe/funcloc/internal/source"
)

// treeBuilder builds hand-made syntax trees over a source string so tests can
// pin down tree shapes the grammar produces for broken code.
type treeBuilder struct {
	src        string
	lineStarts []int
}

func newTreeBuilder(src string) *treeBuilder {
	b := &treeBuilder{src: src, lineStarts: []int{0}}
	for i, r := range src {
		if r == '\n' {
			b.lineStarts = append(b.lineStarts, i+1)
		}
	}
	return b
}

func pt(row, col int) cst.Point {
	return cst.Point{Row: row, Column: col}
}

func (b *treeBuilder) offset(p cst.Point) uint32 {
	if p.Row >= len(b.lineStarts) {
		return uint32(len(b.src))
	}
	return uint32(b.lineStarts[p.Row] + p.Column)
}

func (b *treeBuilder) node(kind string, start, end cst.Point, children ...*cst.Node) *cst.Node {
	return &cst.Node{
		Kind:      kind,
		Named:     !strings.ContainsAny(kind, "(){},;"),
		StartByte: b.offset(start),
		EndByte:   b.offset(end),
		Start:     start,
		End:       end,
		Children:  children,
	}
}

func field(name string, n *cst.Node) *cst.Node {
	n.Field = name
	return n
}

func (b *treeBuilder) tree(root *cst.Node) *cst.Tree {
	return &cst.Tree{Root: root, Source: []byte(b.src), Language: "c"}
}

func (b *treeBuilder) file() *source.File {
	return source.New("test.c", b.src)
}
