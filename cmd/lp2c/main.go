// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lp2c

// Command lp2c lists and extracts files from "LP2C" VFS archives.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/woozymasta/lp2c"
	"github.com/woozymasta/pathrules"
)

// Exit codes.
const (
	exitOK      = 0
	exitPartial = 1
	exitUsage   = 2
)

type config struct {
	vfs        string
	targetDir  string
	glob       string
	encoding   string
	fileMode   string
	include    stringList
	exclude    stringList
	names      []string
	list       bool
	extract    bool
	stdout     bool
	rawNames   bool
	ignoreCase bool
	digest     bool
	long       bool
	verbose    bool
	quiet      bool
}

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one CLI invocation and returns process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}

		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	logger := newLogger(cfg, stderr)

	encoding, err := lp2c.ParseNameEncoding(cfg.encoding)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	sel, err := buildSelection(cfg)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	r, err := lp2c.OpenWithOptions(cfg.vfs, lp2c.ReaderOptions{
		NameEncoding: encoding,
		Logger:       logger,
	})
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}
	defer func() { _ = r.Close() }()

	if cfg.list || !cfg.extract {
		return runList(r, sel, cfg, stdout, stderr)
	}

	return runExtract(ctx, r, sel, cfg, stdout, stderr, logger)
}

// parseFlags parses command line into config.
func parseFlags(args []string, stderr io.Writer) (config, error) {
	var cfg config

	fs := flag.NewFlagSet("lp2c", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "Usage: lp2c -vfs FILE [OPTIONS] [NAMES...]\n\n")
		_, _ = fmt.Fprintf(stderr, "Lists (default) or extracts (-x) files of an LP2C VFS archive.\n")
		_, _ = fmt.Fprintf(stderr, "NAMES are exact logical paths such as Sound/music/intro.ogg.\n\n")
		fs.PrintDefaults()
	}

	fs.StringVar(&cfg.vfs, "v", "", "VFS archive `file`")
	fs.StringVar(&cfg.vfs, "vfs", "", "VFS archive `file`")
	fs.BoolVar(&cfg.list, "l", false, "list selected entries")
	fs.BoolVar(&cfg.list, "list", false, "list selected entries")
	fs.BoolVar(&cfg.extract, "x", false, "extract selected entries")
	fs.BoolVar(&cfg.extract, "extract", false, "extract selected entries")
	fs.StringVar(&cfg.targetDir, "t", ".", "target `dir` for extracted files")
	fs.StringVar(&cfg.targetDir, "targetdir", ".", "target `dir` for extracted files")
	fs.BoolVar(&cfg.stdout, "s", false, "write extracted data to stdout")
	fs.BoolVar(&cfg.stdout, "stdout", false, "write extracted data to stdout")
	fs.StringVar(&cfg.glob, "g", "", "select entries by glob `pattern`")
	fs.StringVar(&cfg.glob, "glob", "", "select entries by glob `pattern`")
	fs.Var(&cfg.include, "include", "include rule `pattern` (gitignore style, repeatable)")
	fs.Var(&cfg.exclude, "exclude", "exclude rule `pattern` (gitignore style, repeatable)")
	fs.BoolVar(&cfg.ignoreCase, "ignore-case", false, "case-insensitive glob and rule matching")
	fs.StringVar(&cfg.encoding, "encoding", string(lp2c.DefaultNameEncoding), "name `codepage` (raw, utf-8, windows-1252, windows-1251, iso-8859-1, cp437)")
	fs.BoolVar(&cfg.rawNames, "raw-names", false, "do not sanitize output file names")
	fs.StringVar(&cfg.fileMode, "file-mode", string(lp2c.ExtractFileModeAuto), "output file `mode` (auto, truncate, create_only)")
	fs.BoolVar(&cfg.digest, "digest", false, "print payload digest in listing")
	fs.BoolVar(&cfg.long, "long", false, "print reserved record fields in listing")
	fs.BoolVar(&cfg.verbose, "verbose", false, "debug logging")
	fs.BoolVar(&cfg.quiet, "q", false, "log errors only")

	names, err := parseInterspersed(fs, args)
	if err != nil {
		return cfg, err
	}

	cfg.names = names
	if cfg.vfs == "" {
		return cfg, errors.New("vfs file not given")
	}

	return cfg, nil
}

// parseInterspersed parses flags placed before, between or after positional
// arguments and returns the positional ones in order. Everything after "--" is positional.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}

		rest := fs.Args()
		if consumed := len(args) - len(rest); consumed > 0 && args[consumed-1] == "--" {
			return append(positional, rest...), nil
		}

		if len(rest) == 0 {
			return positional, nil
		}

		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

// newLogger builds a text logger on stderr with level from flags.
func newLogger(cfg config, stderr io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case cfg.verbose:
		level = slog.LevelDebug
	case cfg.quiet:
		level = slog.LevelError
	}

	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
}

// buildSelection maps flags to exactly one selection mode.
func buildSelection(cfg config) (lp2c.Selection, error) {
	modes := 0
	if len(cfg.names) > 0 {
		modes++
	}
	if cfg.glob != "" {
		modes++
	}
	if len(cfg.include) > 0 || len(cfg.exclude) > 0 {
		modes++
	}
	if modes > 1 {
		return lp2c.Selection{}, errors.New("names, -glob and -include/-exclude are mutually exclusive")
	}

	switch {
	case len(cfg.names) > 0:
		return lp2c.SelectNames(cfg.names...), nil
	case cfg.glob != "":
		sel := lp2c.SelectGlob(cfg.glob)
		if cfg.ignoreCase {
			sel.GlobCase = lp2c.GlobCaseInsensitive
		}
		return sel, nil
	case len(cfg.include) > 0 || len(cfg.exclude) > 0:
		return lp2c.SelectRules(buildRules(cfg.include, cfg.exclude), pathrules.MatcherOptions{
			CaseInsensitive: cfg.ignoreCase,
			DefaultAction:   pathrules.ActionExclude,
		}), nil
	default:
		return lp2c.SelectAll(), nil
	}
}

// buildRules orders include rules before exclude rules, so excludes win.
func buildRules(include, exclude []string) []pathrules.Rule {
	if len(include) == 0 {
		include = []string{"*"}
	}

	rules := make([]pathrules.Rule, 0, len(include)+len(exclude))
	for _, pattern := range include {
		rules = append(rules, pathrules.Rule{Action: pathrules.ActionInclude, Pattern: pattern})
	}
	for _, pattern := range exclude {
		rules = append(rules, pathrules.Rule{Action: pathrules.ActionExclude, Pattern: pattern})
	}

	return rules
}

// runExtract extracts the selection to stdout or target directory.
func runExtract(
	ctx context.Context,
	r *lp2c.Reader,
	sel lp2c.Selection,
	cfg config,
	stdout, stderr io.Writer,
	logger *slog.Logger,
) int {
	var sink lp2c.Sink
	if cfg.stdout {
		sink = lp2c.NewWriterSink(stdout)
	} else {
		fileMode, err := lp2c.ParseExtractFileMode(cfg.fileMode)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
			return exitUsage
		}

		dirSink, err := lp2c.NewDirSink(cfg.targetDir, lp2c.DirSinkOptions{
			FileMode: fileMode,
			RawNames: cfg.rawNames,
		})
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
			return exitUsage
		}
		sink = dirSink
	}

	res, err := r.Extract(ctx, sel, sink, lp2c.ExtractOptions{Logger: logger})
	logger.Info("done",
		slog.Int("extracted", len(res.Extracted)),
		slog.Int("failed", len(res.Failed)),
		slog.Int("missing", len(res.Missing)),
		slog.Int64("bytes", res.Bytes))
	if err == nil {
		return exitOK
	}

	if len(res.Failed) == 0 && len(res.Missing) == 0 {
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	for _, name := range res.Missing {
		_, _ = fmt.Fprintf(stderr, "error: failed to extract %s\n", name)
	}
	for _, failed := range res.Failed {
		_, _ = fmt.Fprintf(stderr, "error: failed to extract %v\n", failed)
	}

	return exitPartial
}
