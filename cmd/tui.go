package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/leonardomso/gomdls/internal/tui"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui [path]",
	Short: "Browse diagnostics interactively",
	Long: `Launch an interactive terminal UI that scans a workspace, validates
every document, and lets you browse the findings.

Controls:
  ↑/↓           Navigate through results
  f             Cycle the error/warning filter
  ?             Toggle help
  q             Quit`,
	Args: cobra.MaximumNArgs(1),
	Run:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, args []string) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	ws, cfg, err := openWorkspace(path)
	if err != nil {
		fatalf("Error loading config: %v", err)
	}

	p := tea.NewProgram(tui.New(path, ws, cfg))
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running interactive mode: %v\n", err)
		os.Exit(1)
	}
}
