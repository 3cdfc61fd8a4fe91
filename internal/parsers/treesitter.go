package parsers

import (
	"context"
	"errors"
	"fmt"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	c "github.com/tree-sitter/tree-sitter-c/bindings/go"
	cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"

	"github.com/mvp-joe/funcloc/internal/cst"
	"github.com/mvp-joe/funcloc/internal/source"
)

// Language names.
const (
	LangC   = "c"
	LangCPP = "cpp"
)

// ErrParseFailed is returned when tree-sitter produces no tree at all.
var ErrParseFailed = errors.New("failed to parse source")

// treeSitterParser pools native parsers for a single grammar. Parsers are not
// safe for concurrent use, so every Parse call borrows its own.
type treeSitterParser struct {
	language *sitter.Language
	lang     string
	pool     sync.Pool
}

// newTreeSitterParser creates a pooled parser for the given grammar.
func newTreeSitterParser(language *sitter.Language, lang string) *treeSitterParser {
	p := &treeSitterParser{
		language: language,
		lang:     lang,
	}
	p.pool.New = func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(p.language); err != nil {
			parser.Close()
			return nil
		}
		return parser
	}
	return p
}

func newCParser() *treeSitterParser {
	return newTreeSitterParser(sitter.NewLanguage(c.Language()), LangC)
}

func newCPPParser() *treeSitterParser {
	return newTreeSitterParser(sitter.NewLanguage(cpp.Language()), LangCPP)
}

// parse parses source and returns an owned copy of the tree. The native tree
// is closed before returning.
func (p *treeSitterParser) parse(ctx context.Context, filePath string, src []byte) (*cst.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(src) == 0 {
		return &cst.Tree{Root: &cst.Node{Kind: "translation_unit", Named: true}, Source: src, Language: p.lang}, nil
	}

	parser, _ := p.pool.Get().(*sitter.Parser)
	if parser == nil {
		return nil, fmt.Errorf("%w: %s: cannot load %s grammar", ErrParseFailed, filePath, p.lang)
	}
	defer func() {
		parser.Reset()
		p.pool.Put(parser)
	}()

	tree := parser.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("%w: %s file: %s", ErrParseFailed, p.lang, filePath)
	}
	defer tree.Close()

	return cst.FromTreeSitter(tree, src, p.lang), nil
}

// Registry selects a grammar per file and parses it.
type Registry struct {
	c        *treeSitterParser
	cpp      *treeSitterParser
	selector *LanguageSelector
}

// NewRegistry creates a registry. Files matching any of cppPatterns are parsed
// with the C++ grammar, everything else with the C grammar.
func NewRegistry(cppPatterns []string) (*Registry, error) {
	selector, err := NewLanguageSelector(cppPatterns)
	if err != nil {
		return nil, err
	}
	return &Registry{
		c:        newCParser(),
		cpp:      newCPPParser(),
		selector: selector,
	}, nil
}

// LanguageFor reports which grammar would parse filePath.
func (r *Registry) LanguageFor(filePath string) string {
	return r.selector.Select(filePath)
}

// Parse parses the given source file.
func (r *Registry) Parse(ctx context.Context, file *source.File) (*cst.Tree, error) {
	if r.LanguageFor(file.Path) == LangCPP {
		return r.cpp.parse(ctx, file.Path, []byte(file.Text))
	}
	return r.c.parse(ctx, file.Path, []byte(file.Text))
}
