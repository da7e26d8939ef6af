package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

// SetVersion records the build version reported by "mdls --version". It is
// called once from main before Execute.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// noConfig, shared across every subcommand, skips .mdlsrc.yaml discovery.
var noConfig bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "mdls",
	Short: "A language service for Markdown link graphs",
	Long: `mdls is a CLI front end for a Markdown language service: it builds a
cross-document link graph over a workspace and exposes it through the
operations an editor would otherwise need a running language server for.

Examples:
  mdls lint                        # Validate links across the current directory
  mdls toc README.md               # Print a document's table of contents
  mdls refs docs/a.md 10 5          # Find every reference to the symbol at 10:5
  mdls rename old.md new.md        # Preview a link-preserving file rename
  mdls organize docs/a.md --write  # Rewrite a document's link-definition block
  mdls tui                         # Browse diagnostics interactively`,
}

// Execute adds all child commands to the root command and runs it. It is
// called by main.main once version has been set.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noConfig, "no-config", false,
		"skip loading .mdlsrc.yaml config file")
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
