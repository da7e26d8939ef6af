package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leonardomso/gomdls/internal/mdtext"
	"github.com/leonardomso/gomdls/internal/references"
)

// refsCmd represents the refs command.
var refsCmd = &cobra.Command{
	Use:   "refs <file> <line> <col>",
	Short: "Find every reference to the symbol at a position",
	Long: `Given a 1-based line and column inside a markdown file, find every
occurrence across the workspace that refers to the same header, link
target, or file: the definition site and every link that resolves to it.

Examples:
  mdls refs docs/intro.md 12 5`,
	Args: cobra.ExactArgs(3),
	Run:  runRefs,
}

func init() {
	rootCmd.AddCommand(refsCmd)
}

func runRefs(_ *cobra.Command, args []string) {
	path := args[0]
	line, err := strconv.Atoi(args[1])
	if err != nil {
		fatalf("Error: invalid line %q: %v", args[1], err)
	}
	col, err := strconv.Atoi(args[2])
	if err != nil {
		fatalf("Error: invalid column %q: %v", args[2], err)
	}

	ws, cfg, err := openWorkspace(".")
	if err != nil {
		fatalf("Error loading config: %v", err)
	}
	doc, err := openDocument(ws, path)
	if err != nil {
		fatalf("Error opening %s: %v", path, err)
	}

	pos := mdtext.Position{Line: line - 1, Character: col - 1}
	eng := references.NewEngine(ws, cfg)
	occurrences, err := eng.FindReferences(context.Background(), doc, pos)
	if err != nil {
		fatalf("Error finding references: %v", err)
	}

	if len(occurrences) == 0 {
		fmt.Println("No references found.")
		return
	}
	for _, occ := range occurrences {
		kind := "reference"
		switch {
		case occ.IsHeaderDefinition:
			kind = "header"
		case occ.IsDefinition:
			kind = "definition"
		}
		fmt.Printf("%s:%d:%d [%s]\n", occ.URI, occ.Range.Start.Line+1, occ.Range.Start.Character+1, kind)
	}
}
