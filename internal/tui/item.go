package tui

import (
	"fmt"

	"github.com/leonardomso/gomdls/internal/report"
)

// FindingItem wraps a report.Finding to implement list.Item.
type FindingItem struct {
	Finding report.Finding
}

// FilterValue returns the string used for filtering.
// Implements list.Item interface.
func (i FindingItem) FilterValue() string {
	return i.Finding.File + " " + i.Finding.Message
}

// Title returns the main display text for the item.
// Implements list.DefaultItem interface.
func (i FindingItem) Title() string {
	return fmt.Sprintf("%s:%d:%d", i.Finding.File, i.Finding.Line, i.Finding.Character)
}

// Description returns secondary text for the item.
// Implements list.DefaultItem interface.
func (i FindingItem) Description() string {
	return fmt.Sprintf("[%s] %s", i.Finding.Code, i.Finding.Message)
}

// DetailView returns an expanded detail view for the selected item.
func (i FindingItem) DetailView() string {
	f := i.Finding
	var s string
	s += "┌─ Details ─────────────────────────────────────────────────────────────\n"
	s += fmt.Sprintf("│ Severity:  %s\n", SeverityBadge(f.Severity))
	s += fmt.Sprintf("│ Code:      %s\n", f.Code)
	s += fmt.Sprintf("│ Message:   %s\n", f.Message)
	s += fmt.Sprintf("│ Location:  %s (line %d, col %d)\n", f.File, f.Line, f.Character)
	s += "└────────────────────────────────────────────────────────────────────────\n"
	return s
}

// FindingsToItems converts a slice of report.Finding to FindingItems.
func FindingsToItems(findings []report.Finding) []FindingItem {
	items := make([]FindingItem, len(findings))
	for i, f := range findings {
		items[i] = FindingItem{Finding: f}
	}
	return items
}
