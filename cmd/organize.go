package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leonardomso/gomdls/internal/links"
	"github.com/leonardomso/gomdls/internal/mdparse"
	"github.com/leonardomso/gomdls/internal/nolink"
	"github.com/leonardomso/gomdls/internal/organize"
)

var (
	organizeRemoveUnused bool
	organizeWrite        bool
)

// organizeCmd represents the organize command.
var organizeCmd = &cobra.Command{
	Use:   "organize <file>",
	Short: "Sort a document's link definitions into one trailing block",
	Long: `Collapse every link reference definition in a document into a single
trailing block, sorted case-insensitively by reference name; duplicate
definitions are kept, in source order. With --remove-unused, definitions
no reference in the document points at are dropped. When nothing is
dropped and the definitions are already in sorted order, the file is left
as it is, even if they are not at the end.

By default this previews the rewritten text without touching the file.
Use --write to apply it.

Examples:
  mdls organize docs/a.md
  mdls organize docs/a.md --remove-unused --write`,
	Args: cobra.ExactArgs(1),
	Run:  runOrganize,
}

func init() {
	rootCmd.AddCommand(organizeCmd)
	organizeCmd.Flags().BoolVar(&organizeRemoveUnused, "remove-unused", false,
		"drop link definitions nothing references")
	organizeCmd.Flags().BoolVar(&organizeWrite, "write", false, "apply the rewrite in place")
}

func runOrganize(_ *cobra.Command, args []string) {
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
	ns := nolink.Compute(tokens, doc)
	docLinks := links.Extract(doc, ns, ws.Folders())

	edits := organize.Organize(doc, docLinks, organize.Options{RemoveUnused: organizeRemoveUnused})
	if len(edits) == 0 {
		fmt.Println("Already organized; nothing to do.")
		return
	}

	rewritten := applyEdits(doc, fromOrganizeEdits(edits))

	if !organizeWrite {
		fmt.Print(rewritten)
		fmt.Fprintln(os.Stderr, "\nPreview only; re-run with --write to apply.")
		return
	}

	if err := os.WriteFile(path, []byte(rewritten), 0o600); err != nil {
		fatalf("Error writing %s: %v", path, err)
	}
	fmt.Printf("Organized %s\n", path)
}
