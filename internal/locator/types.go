// Package locator maps a source line to the function that encloses it.
//
// Line numbers crossing this package's API are 1-indexed and spans are
// inclusive on both ends. The syntax tree keeps the parser's 0-based rows;
// conversion happens only at the edges of Resolve.
package locator

// Method tags how a result was produced.
type Method string

const (
	// MethodExactDefinition: the line is inside a function_definition node.
	MethodExactDefinition Method = "ExactDefinition"
	// MethodDeclaratorHeuristic: recovered from a function_declarator plus a
	// following compound statement.
	MethodDeclaratorHeuristic Method = "DeclaratorHeuristic"
	// MethodWindowFallback: a fixed window around the target line.
	MethodWindowFallback Method = "WindowFallback"
	// MethodFileError: the file could not be read or parsed.
	MethodFileError Method = "FileError"
)

// Syntactic reports whether the method located a real function boundary.
func (m Method) Syntactic() bool {
	return m == MethodExactDefinition || m == MethodDeclaratorHeuristic
}

// Default window sizes for the fallback strategy.
const (
	DefaultFront    = 14
	DefaultBack     = 6
	DefaultMaxDepth = 10000
)

// Options tunes the resolver.
type Options struct {
	// Front is how many lines before the target the fallback window starts.
	Front int
	// Back is how many lines after the target the fallback window ends.
	Back int
	// ExtendToClosingBrace pushes a syntactic span's end forward to the next
	// line that is exactly "}" when the computed end undershoots it.
	ExtendToClosingBrace bool
	// MaxDepth bounds how deep tree walks descend. Zero means DefaultMaxDepth.
	MaxDepth int
}

// DefaultOptions returns the stock resolver options.
func DefaultOptions() Options {
	return Options{
		Front:    DefaultFront,
		Back:     DefaultBack,
		MaxDepth: DefaultMaxDepth,
	}
}

// Result is the outcome of resolving one line.
type Result struct {
	// Name is empty when no function name is known.
	Name      string
	StartLine int
	EndLine   int
	Text      string
	Method    Method
	// Err is set for MethodFileError results.
	Err error
}

// HasName reports whether a function name was extracted.
func (r Result) HasName() bool {
	return r.Name != ""
}

// FileError builds the result reported when a file cannot be loaded.
func FileError(err error) Result {
	return Result{Method: MethodFileError, Err: err}
}
