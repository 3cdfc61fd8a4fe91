package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/mvp-joe/funcloc/internal/cst"
	"github.com/mvp-joe/funcloc/internal/locator"
	"github.com/mvp-joe/funcloc/internal/parsers"
	"github.com/mvp-joe/funcloc/internal/source"
)

func main() {
	path := flag.String("file", "testdata/code/c/simple.c", "source file to dump")
	depth := flag.Int("depth", 6, "maximum depth to print")
	flag.Parse()

	file, err := source.Load(*path)
	if err != nil {
		log.Fatal(err)
	}

	registry, err := parsers.NewRegistry(nil)
	if err != nil {
		log.Fatal(err)
	}
	tree, err := registry.Parse(context.Background(), file)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("=== TREE (%s, syntax errors: %v) ===\n", tree.Language, tree.HasError)
	type frame struct {
		node  *cst.Node
		depth int
	}
	stack := []frame{{tree.Root, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.depth > *depth {
			continue
		}

		label := f.node.Kind
		if f.node.Field != "" {
			label = f.node.Field + ": " + label
		}
		if f.node.Kind == cst.KindIdentifier {
			label += " " + tree.Text(f.node)
		}
		fmt.Printf("%s%s [%d-%d]\n", strings.Repeat("  ", f.depth), label, f.node.Start.Row+1, f.node.End.Row+1)

		for i := len(f.node.Children) - 1; i >= 0; i-- {
			if f.node.Children[i].Named {
				stack = append(stack, frame{f.node.Children[i], f.depth + 1})
			}
		}
	}

	fmt.Println("\n=== LINES ===")
	resolver := locator.NewResolver(locator.DefaultOptions())
	for line := 1; line <= file.LineCount(); line++ {
		r := resolver.Resolve(file, tree, line)
		fmt.Printf("  %4d  %-20s %-16s %d-%d\n", line, r.Method, r.Name, r.StartLine, r.EndLine)
	}
}
