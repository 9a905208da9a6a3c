package cmd

import (
	"github.com/aerstatic/aer/internal/config"
	"github.com/aerstatic/aer/internal/ctxval"
)

// baseContext wraps a resolved profile's merged [<profile>.context] table
// as the process-wide shared Context that Discover clones once per asset
// (spec §3).
func baseContext(cfg *config.Config) *ctxval.Context {
	return ctxval.FromValue(cfg.Context)
}
