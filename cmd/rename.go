package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leonardomso/gomdls/internal/mduri"
	"github.com/leonardomso/gomdls/internal/rename"
	"github.com/leonardomso/gomdls/internal/scanner"
)

var renameWrite bool

// renameCmd represents the rename command.
var renameCmd = &cobra.Command{
	Use:   "rename <old> <new>",
	Short: "Move a file or directory, rewriting every link that points at it",
	Long: `Move a markdown file or directory and rewrite every link across the
workspace so it still resolves, preserving each link's original style
(absolute/relative, angle brackets, percent-encoding, fragment, and
extension style).

By default this previews the edits without touching any file. Use --write
to apply them and perform the move.

Examples:
  mdls rename docs/old.md docs/new.md
  mdls rename docs/guides docs/guide --write`,
	Args: cobra.ExactArgs(2),
	Run:  runRename,
}

func init() {
	rootCmd.AddCommand(renameCmd)
	renameCmd.Flags().BoolVar(&renameWrite, "write", false, "apply the edits and move the file/directory")
}

func runRename(_ *cobra.Command, args []string) {
	oldPath, newPath := args[0], args[1]

	ws, cfg, err := openWorkspace(".")
	if err != nil {
		fatalf("Error loading config: %v", err)
	}

	info, err := os.Stat(oldPath)
	if err != nil {
		fatalf("Error: %v", err)
	}

	oldAbs, _ := filepath.Abs(oldPath)
	newAbs, _ := filepath.Abs(newPath)
	oldURI := mduri.File(filepath.ToSlash(oldAbs))
	newURI := mduri.File(filepath.ToSlash(newAbs))

	eng := rename.NewEngine(ws, cfg)
	ctx := context.Background()

	var edits map[string][]rename.Edit
	if info.IsDir() {
		edits, err = eng.RenameDirectory(ctx, oldURI, newURI)
	} else {
		edits, err = eng.RenameFile(ctx, oldURI, newURI)
	}
	if err != nil {
		fatalf("Error computing edits: %v", err)
	}

	// Read every affected document's text before anything moves, since
	// rewriting a document after its physical file has relocated would
	// otherwise need its own relocation tracking.
	type pending struct {
		newPath string
		text    string
	}
	rewrites := make(map[string]pending, len(edits))
	for docURI, fileEdits := range edits {
		doc, ok := ws.OpenMarkdownDocument(mduri.Parse(docURI))
		if !ok {
			continue
		}
		rewrites[docURI] = pending{
			newPath: fsPathOf(movedTarget(oldAbs, newAbs, doc.URI)),
			text:    applyEdits(doc, fromRenameEdits(fileEdits)),
		}
	}

	if info.IsDir() {
		moving, err := scanner.FindFilesWithOptions(scanner.ScanOptions{
			Root:    oldPath,
			Types:   cfg.MarkdownFileExtensions,
			Exclude: cfg.ExcludePaths,
		})
		if err != nil {
			fatalf("Error scanning %s: %v", oldPath, err)
		}
		fmt.Printf("%d physical file(s) under %s will move\n", len(moving), oldPath)
	}

	if len(edits) == 0 {
		fmt.Println("No links reference this path; nothing to rewrite.")
	} else {
		fmt.Printf("%d file(s) need edits:\n\n", len(edits))
		for file, fileEdits := range edits {
			fmt.Printf("  %s (%d edit(s))\n", file, len(fileEdits))
		}
		fmt.Println()
	}

	if !renameWrite {
		fmt.Println("Preview only; re-run with --write to apply.")
		return
	}

	if err := os.MkdirAll(filepath.Dir(newAbs), 0o755); err != nil {
		fatalf("Error preparing %s: %v", filepath.Dir(newAbs), err)
	}
	if err := os.Rename(oldAbs, newAbs); err != nil {
		fatalf("Error moving %s to %s: %v", oldPath, newPath, err)
	}

	for _, p := range rewrites {
		if err := os.WriteFile(p.newPath, []byte(p.text), 0o600); err != nil {
			fatalf("Error writing %s: %v", p.newPath, err)
		}
	}
	fmt.Printf("Moved %s -> %s\n", oldPath, newPath)
}

// movedTarget reports the filesystem URI that target's content should be
// written to once the move has completed: target's own new location if it
// is the path being moved (or a descendant of it), otherwise unchanged.
func movedTarget(oldAbs, newAbs string, target mduri.URI) mduri.URI {
	fsPath := fsPathOf(target)
	if fsPath == oldAbs {
		return mduri.File(filepath.ToSlash(newAbs))
	}
	rel, err := filepath.Rel(oldAbs, fsPath)
	if err != nil || rel == "." || rel == ".." || (len(rel) >= 3 && rel[:3] == "../") {
		return target
	}
	return mduri.File(filepath.ToSlash(filepath.Join(newAbs, rel)))
}

func fsPathOf(u mduri.URI) string {
	return filepath.FromSlash(u.Path)
}
