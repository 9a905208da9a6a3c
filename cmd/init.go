package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aerstatic/aer/internal/config"
)

var initCmd = &cobra.Command{
	Use:     "init [dir]",
	Aliases: []string{"i"},
	Short:   "Scaffold a starter Aer.toml and source tree",
	Long: `Scaffold a starter Aer.toml plus a minimal source tree. If no directory
is given, initializes in the current directory.

Examples:
  aer init                  # Initialize in the current directory
  aer init my-site          # Create and initialize a new directory`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	fmt.Printf("Initializing an Aer project in %s\n", dir)

	if err := writeIfAbsent(filepath.Join(dir, "Aer.toml"), starterConfig()); err != nil {
		return err
	}

	srcFiles := map[string]string{
		"src/index.md":     starterIndex,
		"src/style.scss":   starterStyle,
		"src/_header.html": starterHeader,
	}
	for rel, content := range srcFiles {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
		}
		if err := writeIfAbsent(path, content); err != nil {
			return err
		}
	}

	fmt.Println("✓ Project initialized")
	fmt.Println("\nNext steps:")
	fmt.Println("  1. aer dev        # start the development server")
	fmt.Println("  2. aer build      # run a one-shot build")
	return nil
}

func writeIfAbsent(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		fmt.Printf("⚠ %s already exists, skipping\n", path)
		return nil
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Printf("✓ Created %s\n", path)
	return nil
}

// starterConfig renders a minimal two-profile Aer.toml naming every
// processor config.KnownProcessors lists, so a fresh project demonstrates
// the full pipeline order out of the box.
func starterConfig() string {
	return fmt.Sprintf(`[default.paths]
source = "src"
target = "dist"
clean_urls = true

[default.context]
site_name = "My Aer Site"

[default.procs]
order = %s

[default.procs.canonicalize]
root = "http://localhost:8080"

[publish.paths]
source = "src"
target = "dist"
clean_urls = true

[publish.procs]
order = %s

[publish.procs.canonicalize]
root = "https://example.com"

[publish.procs.minify_html]
`, tomlStringList(config.KnownProcessors()), tomlStringList(config.KnownProcessors()))
}

func tomlStringList(items []string) string {
	out := "["
	for i, item := range items {
		if i > 0 {
			out += ", "
		}
		out += `"` + item + `"`
	}
	return out + "]"
}

const starterIndex = `title = "Home"
***
{~ use "_header.html", with title as title}

Welcome to your new Aer site.
`

const starterStyle = `body {
  font-family: sans-serif;
}
`

const starterHeader = `<header><h1>{~ get title}</h1></header>
`
