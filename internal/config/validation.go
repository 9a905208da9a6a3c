package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aerstatic/aer/internal/procname"
)

// validateConfig mirrors the teacher's validateConfig/validatePath shape
// (internal/config/config.go, internal/config/plugins.go in
// conneroisu-templar): reject empty or dangerous paths first, then check
// the domain-specific invariants spec §6 requires of a resolved profile.
func validateConfig(cfg *Config) error {
	if cfg.Paths.Source == "" {
		return fmt.Errorf("paths.source is required")
	}
	if cfg.Paths.Target == "" {
		return fmt.Errorf("paths.target is required")
	}
	if err := validatePath("paths.source", cfg.Paths.Source); err != nil {
		return err
	}
	if err := validatePath("paths.target", cfg.Paths.Target); err != nil {
		return err
	}
	if filepath.Clean(cfg.Paths.Source) == filepath.Clean(cfg.Paths.Target) {
		return fmt.Errorf("paths.source and paths.target must differ")
	}

	seen := make(map[string]bool, len(cfg.Procs))
	for _, p := range cfg.Procs {
		if !procname.Known(p.Name) {
			return fmt.Errorf("unknown processor %q in procs.order", p.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("processor %q listed more than once in procs.order", p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

// validatePath rejects path traversal and shell metacharacters in a
// configured path, adapted from the teacher's validatePath/
// validatePluginsConfig discovery-path checks.
func validatePath(field, path string) error {
	clean := filepath.Clean(path)
	if strings.Contains(clean, "..") {
		return fmt.Errorf("%s contains path traversal: %s", field, path)
	}

	dangerousChars := []string{";", "&", "|", "$", "`", "<", ">", "\"", "'"}
	for _, ch := range dangerousChars {
		if strings.Contains(path, ch) {
			return fmt.Errorf("%s contains dangerous character %s: %s", field, ch, path)
		}
	}
	return nil
}
