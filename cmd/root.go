// Package cmd provides Aer's command-line interface: build, dev, init and
// version, wired through github.com/spf13/cobra the way the teacher's cmd
// package wires templar's subcommands, with configuration bound through
// github.com/spf13/viper (compare cmd/root.go in conneroisu-templar).
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	profile   string
	logLevel  string
	logFormat string
)

// rootCmd is the base command when aer is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "aer",
	Short: "A static-site asset compiler",
	Long: `Aer compiles a tree of source files (Markdown, HTML, SCSS, JavaScript,
images, arbitrary binaries) plus a declarative Aer.toml configuration into
a parallel tree of transformed output files suitable for serving over
HTTP.

Quick start:
  aer init                  Scaffold a starter Aer.toml and source tree
  aer build                 Run the pipeline once
  aer dev                   Watch the source tree and rebuild on change
  aer version               Show build information`,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "Aer.toml", "path to the configuration file")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "default", "configuration profile to use")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log-format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// initConfig enables AER_-prefixed environment variable overrides on top
// of the bound flags, mirroring the teacher's TEMPLAR_ environment
// binding in cmd/root.go but against Aer's own prefix.
func initConfig() {
	viper.SetEnvPrefix("AER")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	logLevel = viper.GetString("log-level")
	logFormat = viper.GetString("log-format")
}

// fatal prints a single diagnostic and exits non-zero, the CLI's handling
// of a Fatal-class AerError (spec §7: "Fatal errors abort the build with a
// single diagnostic and a non-zero exit code").
func fatal(err error) {
	fmt.Fprintln(os.Stderr, "aer:", err)
	os.Exit(1)
}
