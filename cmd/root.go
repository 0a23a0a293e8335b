// Copyright © 2023-2024 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package cmd is the stellar CLI: a Cobra root command plus one
// subcommand per file (search, index, region), wired to the core
// packages under internal/.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// VERSION is the build-embedded version string.
const VERSION = "0.1.0"

// RootCmd is the entry point every subcommand registers itself on via
// init().
var RootCmd = &cobra.Command{
	Use:   "stellar",
	Short: "local pairwise sequence aligner (epsilon-matches)",
	Long: `stellar finds all epsilon-matches of a set of query sequences
against a set of database sequences: gapped local alignments of length
>= minLen with an error rate <= eps, forward and reverse-complement.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs RootCmd; main.go's only call into this package.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		checkError(err)
	}
}

func init() {
	RootCmd.PersistentFlags().IntP("threads", "j", 0,
		formatFlagUsage("Number of CPU threads to use (0 for all available)."))
	RootCmd.PersistentFlags().BoolP("quiet", "", false,
		formatFlagUsage("Do not print any log message."))
	RootCmd.PersistentFlags().StringP("log", "", "",
		formatFlagUsage("Also write log messages to this file."))
	RootCmd.PersistentFlags().StringP("config", "", "",
		formatFlagUsage(`TOML config file supplying flag defaults (default "~/.stellar.toml" if present).`))

	RootCmd.CompletionOptions.DisableDefaultCmd = true
}

// formatFlagUsage wraps a flag's help text to a fixed width.
func formatFlagUsage(s string) string {
	const width = 88
	var b strings.Builder
	var lineLen int
	for _, word := range strings.Fields(s) {
		if lineLen > 0 && lineLen+1+len(word) > width {
			b.WriteByte('\n')
			lineLen = 0
		} else if lineLen > 0 {
			b.WriteByte(' ')
			lineLen++
		}
		b.WriteString(word)
		lineLen += len(word)
	}
	return b.String()
}

// usageTemplate renders a one-line "Usage:" override showing the given
// argument synopsis after the command path.
func usageTemplate(argsLine string) string {
	return fmt.Sprintf(`Usage:{{if .Runnable}}
  {{.UseLine}} %s{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

Aliases:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}

Available Commands:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespace}}{{end}}{{if .HasAvailableInheritedFlags}}

Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespace}}{{end}}
`, argsLine)
}

// checkError prints err to stderr and exits 1, the only place the cmd
// package turns a returned error into process exit status.
func checkError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "stellar: %s\n", err)
		os.Exit(1)
	}
}
