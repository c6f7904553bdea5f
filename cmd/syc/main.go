// Command syc is the SyC compiler CLI: source in, x86-64 AT&T assembly out.
//
// Grounded on vovakirdan-surge/cmd/surge's cobra-based command (main.go's
// rootCmd + PersistentFlags, tokenize.go's RunE/flag-retrieval shape), pared
// down from surge's multi-subcommand toolchain to the single `syc <input>`
// invocation spec.md §6 documents, plus syc.toml project defaults
// (internal/config) layered underneath the flags.
package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tinyrange/syc/internal/config"
	"github.com/tinyrange/syc/internal/diagfmt"
	"github.com/tinyrange/syc/internal/driver"
)

var rootCmd = &cobra.Command{
	Use:   "syc <input> [-o output] [-ir] [-tokens]",
	Short: "Compile a SyC source file to x86-64 assembly",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompile,
}

func init() {
	rootCmd.Flags().StringP("output", "o", "", "output assembly file (default a.s, or syc.toml's [build].output)")
	rootCmd.Flags().Bool("ir", false, "dump a textual form of the IR after generation")
	rootCmd.Flags().Bool("tokens", false, "dump the lexer's token stream")
	rootCmd.Flags().BoolP("verbose", "v", false, "print pipeline stage banners")
	rootCmd.Flags().Bool("optimize", true, "run the optimizer stage (syc.toml's [build].optimize can also disable it)")
}

func runCompile(cmd *cobra.Command, args []string) error {
	srcPath := args[0]

	outFlag, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	dumpIR, err := cmd.Flags().GetBool("ir")
	if err != nil {
		return err
	}
	dumpTokens, err := cmd.Flags().GetBool("tokens")
	if err != nil {
		return err
	}
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return err
	}
	optimize, err := cmd.Flags().GetBool("optimize")
	if err != nil {
		return err
	}

	cfg, found, err := config.Load(filepath.Dir(srcPath))
	if err != nil {
		return err
	}

	outPath := outFlag
	if outPath == "" {
		outPath = cfg.Build.Output
	}
	if outPath == "" {
		outPath = "a.s"
	}
	// --optimize defaults to true, so only the manifest can turn it off; an
	// explicit --optimize/--optimize=false on the command line always wins.
	if found && !cmd.Flags().Changed("optimize") {
		optimize = cfg.Build.Optimize
	}

	opts := driver.Options{
		Verbose:    verbose,
		DumpTokens: dumpTokens,
		DumpIR:     dumpIR,
		Optimize:   optimize,
		Out:        os.Stdout,
	}

	_, err = driver.CompileFile(srcPath, outPath, opts)
	if err != nil {
		diagfmt.PrintError(os.Stderr, err)
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return err
	}
	return nil
}

func main() {
	// pflag reads a single-dash word as a run of shorthands, so spell the
	// single-dash long flags (-ir, -tokens, -optimize) with two dashes.
	args := make([]string, 0, len(os.Args)-1)
	for _, a := range os.Args[1:] {
		if a == "-ir" || a == "-tokens" || a == "-optimize" || strings.HasPrefix(a, "-optimize=") {
			a = "-" + a
		}
		args = append(args, a)
	}
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
