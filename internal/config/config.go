// Package config loads Aer.toml, resolves the active profile against the
// always-present "default" profile (spec §6), and validates the result,
// following the teacher's load-then-apply-defaults-then-validate shape
// (compare internal/config/config.go in conneroisu-templar) but reworked
// around TOML profile tables instead of a flat YAML document.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/aerstatic/aer/internal/ctxval"
	"github.com/aerstatic/aer/internal/procname"
)

// Paths holds a profile's [<profile>.paths] table.
type Paths struct {
	Source    string
	Target    string
	CleanURLs bool
}

// ProcEntry is one named entry of a profile's [<profile>.procs] table, in
// the order the profile's procs.order list declares (see extractProcs).
type ProcEntry struct {
	Name    string
	Options map[string]interface{}
}

// Config is a fully resolved profile: the "default" profile with the named
// profile (if any) deep-merged on top, plus environment overrides.
type Config struct {
	Profile string
	Paths   Paths
	Context ctxval.Value
	Procs   []ProcEntry
}

// Load reads configPath and resolves profile against it. An empty profile
// (or the literal name "default") uses the default profile as-is; any other
// name must exist in the file and is deep-merged on top of default.
func Load(configPath, profile string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", configPath, err)
	}

	var raw map[string]interface{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", configPath, err)
	}

	defaultProfile, ok := raw["default"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("config: %s has no [default] profile", configPath)
	}

	merged := defaultProfile
	if profile != "" && profile != "default" {
		override, ok := raw[profile].(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("config: unknown profile %q", profile)
		}
		merged, ok = mergeAny(defaultProfile, override).(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("config: profile %q merged to a non-table value", profile)
		}
	}
	if profile == "" {
		profile = "default"
	}

	paths, err := extractPaths(merged["paths"])
	if err != nil {
		return nil, fmt.Errorf("config: profile %q: %w", profile, err)
	}

	procs, err := extractProcs(merged["procs"])
	if err != nil {
		return nil, fmt.Errorf("config: profile %q: %w", profile, err)
	}

	cfg := &Config{
		Profile: profile,
		Paths:   paths,
		Context: ctxval.FromAny(merged["context"]),
		Procs:   procs,
	}

	applyEnvOverrides(cfg)

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config: profile %q: %w", profile, err)
	}
	return cfg, nil
}

// extractPaths lifts a [<profile>.paths] table into Paths. clean_urls
// defaults to true (spec §4.4: canonicalization is the common case).
func extractPaths(raw interface{}) (Paths, error) {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return Paths{}, fmt.Errorf("missing [paths] table")
	}
	p := Paths{CleanURLs: true}
	if s, ok := m["source"].(string); ok {
		p.Source = s
	}
	if t, ok := m["target"].(string); ok {
		p.Target = t
	}
	if c, ok := m["clean_urls"].(bool); ok {
		p.CleanURLs = c
	}
	return p, nil
}

// extractProcs lifts a [<profile>.procs] table into an ordered []ProcEntry.
//
// TOML tables don't preserve declaration order once decoded into a Go map,
// so the table must carry an explicit "order" list naming processor
// execution order; the remaining keys are each processor's own options
// sub-table ([<profile>.procs.<name>]). This is a concrete resolution of
// an ambiguity the profile format otherwise leaves open.
func extractProcs(raw interface{}) ([]ProcEntry, error) {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil, nil
	}

	orderRaw, ok := m["order"]
	if !ok {
		return nil, fmt.Errorf(`[procs] table must declare an "order" list naming processor execution order`)
	}
	orderList, ok := orderRaw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("procs.order must be a list of processor names")
	}

	entries := make([]ProcEntry, 0, len(orderList))
	for _, item := range orderList {
		name, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("procs.order entries must be strings")
		}
		opts, _ := m[name].(map[string]interface{})
		entries = append(entries, ProcEntry{Name: name, Options: opts})
	}
	return entries, nil
}

// applyEnvOverrides applies AER_-prefixed environment variables on top of
// the resolved profile, the way the teacher layers TEMPLAR_ variables over
// its YAML config: environment wins over file.
func applyEnvOverrides(cfg *Config) {
	v := viper.New()
	v.SetEnvPrefix("AER")
	_ = v.BindEnv("source")
	_ = v.BindEnv("target")
	_ = v.BindEnv("clean_urls")

	if v.IsSet("source") {
		cfg.Paths.Source = v.GetString("source")
	}
	if v.IsSet("target") {
		cfg.Paths.Target = v.GetString("target")
	}
	if v.IsSet("clean_urls") {
		cfg.Paths.CleanURLs = v.GetBool("clean_urls")
	}
}

// KnownProcessors exposes the processor allow-list for callers (e.g. `aer
// init`) that want to validate or template a procs.order list without
// importing the processor package.
func KnownProcessors() []string { return procname.All }
