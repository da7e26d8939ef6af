package cmd

import (
	"sort"

	"github.com/leonardomso/gomdls/internal/mdtext"
	"github.com/leonardomso/gomdls/internal/organize"
	"github.com/leonardomso/gomdls/internal/rename"
)

// textEdit is the shape both internal/rename.Edit and internal/organize.Edit
// share; applyEdits works against it directly so one function serves both
// commands.
type textEdit struct {
	Range   mdtext.Range
	NewText string
}

// applyEdits rewrites doc's text by applying edits and returns the
// rewritten text. Edits are sorted by start position and spliced in one
// forward pass over the original text; an edit whose range cannot be mapped
// to offsets, or that starts before the previous edit ended, is skipped.
func applyEdits(doc *mdtext.Document, edits []textEdit) string {
	sorted := make([]textEdit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Range.Start.Less(sorted[j].Range.Start)
	})

	text := doc.Text(nil)
	var out []byte
	last := 0
	for _, e := range sorted {
		start := doc.OffsetAt(e.Range.Start)
		end := doc.OffsetAt(e.Range.End)
		if start < 0 || end < 0 || start < last {
			continue
		}
		out = append(out, text[last:start]...)
		out = append(out, e.NewText...)
		last = end
	}
	out = append(out, text[last:]...)
	return string(out)
}

func fromRenameEdits(edits []rename.Edit) []textEdit {
	out := make([]textEdit, len(edits))
	for i, e := range edits {
		out[i] = textEdit{Range: e.Range, NewText: e.NewText}
	}
	return out
}

func fromOrganizeEdits(edits []organize.Edit) []textEdit {
	out := make([]textEdit, len(edits))
	for i, e := range edits {
		out[i] = textEdit{Range: e.Range, NewText: e.NewText}
	}
	return out
}
