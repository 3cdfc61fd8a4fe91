package locator

import "strings"

// Slice returns lines [startLine, endLine] (1-indexed, inclusive) verbatim,
// terminators included. Out-of-range bounds are clamped; an empty range
// yields "".
func Slice(lines []string, startLine, endLine int) string {
	if startLine < 1 {
		startLine = 1
	}
	if endLine > len(lines) {
		endLine = len(lines)
	}
	if startLine > endLine {
		return ""
	}
	return strings.Join(lines[startLine-1:endLine], "")
}

// ExtendToClosingBrace returns the line number of the first line at or after
// endLine whose trimmed text is exactly "}". If endLine already ends on such
// a line it is returned unchanged. When no closing brace follows, the end of
// the file is returned.
func ExtendToClosingBrace(lines []string, endLine int) int {
	if endLine < 1 || endLine > len(lines) {
		return endLine
	}
	for line := endLine; line <= len(lines); line++ {
		if strings.TrimSpace(lines[line-1]) == "}" {
			return line
		}
	}
	return len(lines)
}
