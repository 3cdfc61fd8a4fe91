package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/funcloc/internal/config"
	"github.com/mvp-joe/funcloc/internal/locator"
)

var locateJSONFlag bool

// locateCmd represents the locate command
var locateCmd = &cobra.Command{
	Use:   "locate <file> <line>",
	Short: "Find the function enclosing a line",
	Long: `Locate resolves one source line to its enclosing function and prints
the resolution method, function name, line span and function text.

Lines are 1-indexed. Spans are inclusive.

Examples:
  # Find the function around line 120
  funcloc locate src/parser.c 120

  # Machine-readable output
  funcloc locate src/parser.c 120 --json
`,
	Args: cobra.ExactArgs(2),
	RunE: runLocate,
}

func init() {
	rootCmd.AddCommand(locateCmd)
	locateCmd.Flags().BoolVar(&locateJSONFlag, "json", false, "Output as JSON")
}

// locateOutput is the JSON shape of a locate result.
type locateOutput struct {
	File      string `json:"file"`
	Line      int    `json:"line"`
	Method    string `json:"method"`
	Name      string `json:"name,omitempty"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	Text      string `json:"text"`
	Error     string `json:"error,omitempty"`
}

func runLocate(cmd *cobra.Command, args []string) error {
	line, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid line %q: must be an integer", args[1])
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	result, err := locate(cmd, cfg, args[0], line)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if locateJSONFlag {
		return writeLocateJSON(out, args[0], line, result)
	}
	return writeLocateText(out, result)
}

func locate(cmd *cobra.Command, cfg *config.Config, path string, line int) (locator.Result, error) {
	eng, err := newEngine(cfg, slog.Default())
	if err != nil {
		return locator.Result{}, err
	}
	defer eng.Close()

	slog.Debug("locating", "file", path, "line", line, "language", eng.registry.LanguageFor(path))
	doc, err := eng.docs.Get(commandContext(cmd), path)
	if err != nil {
		return locator.FileError(err), nil
	}
	return eng.resolver.Resolve(doc.File, doc.Tree, line), nil
}

func writeLocateJSON(w io.Writer, path string, line int, r locator.Result) error {
	output := locateOutput{
		File:      path,
		Line:      line,
		Method:    string(r.Method),
		Name:      r.Name,
		StartLine: r.StartLine,
		EndLine:   r.EndLine,
		Text:      r.Text,
	}
	if r.Err != nil {
		output.Error = r.Err.Error()
	}

	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(jsonBytes))
	return nil
}

func writeLocateText(w io.Writer, r locator.Result) error {
	if r.Method == locator.MethodFileError {
		return fmt.Errorf("failed to read source: %w", r.Err)
	}

	name := r.Name
	if name == "" {
		name = "(unknown)"
	}
	fmt.Fprintf(w, "Method:   %s\n", r.Method)
	fmt.Fprintf(w, "Function: %s\n", name)
	fmt.Fprintf(w, "Lines:    %d-%d\n", r.StartLine, r.EndLine)
	fmt.Fprintln(w)
	fmt.Fprint(w, r.Text)
	return nil
}
