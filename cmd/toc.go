package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leonardomso/gomdls/internal/mdparse"
	"github.com/leonardomso/gomdls/internal/toc"
)

// tocCmd represents the toc command.
var tocCmd = &cobra.Command{
	Use:   "toc <file>",
	Short: "Print a document's table of contents",
	Long: `Print the ordered table of contents for a single markdown file: each
header's nesting level, slug, and line number.

Examples:
  mdls toc README.md`,
	Args: cobra.ExactArgs(1),
	Run:  runTOC,
}

func init() {
	rootCmd.AddCommand(tocCmd)
}

func runTOC(_ *cobra.Command, args []string) {
	path := args[0]

	ws, _, err := openWorkspace(".")
	if err != nil {
		fatalf("Error loading config: %v", err)
	}
	doc, err := openDocument(ws, path)
	if err != nil {
		fatalf("Error opening %s: %v", path, err)
	}

	tokens, _ := mdparse.Tokenize([]byte(doc.Text(nil)))
	entries := toc.Build(tokens, doc)

	if len(entries) == 0 {
		fmt.Println("No headers found.")
		return
	}
	for _, e := range entries {
		indent := ""
		for range e.Level - 1 {
			indent += "  "
		}
		fmt.Printf("%s%d:%d %s %s  #%s\n", indent, e.Line+1, e.HeaderTextRange.Start.Character+1,
			headerPrefix(e.Level), e.Text, e.Slug.Value)
	}
}

func headerPrefix(level int) string {
	out := ""
	for range level {
		out += "#"
	}
	return out
}
