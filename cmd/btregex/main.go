// btregex - backtracking regex matcher
//
// Compiles a pattern, searches one subject string, and prints the leftmost
// match and its groups on stdout. Uses manual argument parsing so that
// patterns beginning with '-' can follow "--".
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/coregx/btregex"
)

// version is set at build time via -ldflags.
var version = "dev"

const (
	shortUsage = "usage: btregex [-v] [-d] [-timeout dur] [-depth n] [--] pattern subject"
	longUsage  = `Options:
  -v                log compile and search diagnostics to stderr
  -d                print the compiled program to stderr
  -timeout dur      abandon the search after dur (e.g. 500ms, 2s)
  -depth n          backtracking depth ceiling (default 10000)
  -h, --help        show this help message
  -version          show btregex version and exit

Output:
  MATCH:<text> followed by GROUP <i>:<text> per group, NO_MATCH, or
  ERROR:<message>.
`
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns the exit status: 0 after printing an
// outcome (including a compile error), 1 on usage errors, 2 on timeout.
//
//nolint:gocyclo,funlen // CLI argument parsing is inherently long
func run(args []string, stdout, stderr io.Writer) int {
	verbose := false
	disasm := false
	var timeout time.Duration
	config := btregex.DefaultConfig()

	usageError := func(format string, a ...any) int {
		fmt.Fprintf(stderr, "btregex: "+format+"\n", a...)
		return 1
	}

	var i int
	for i = 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			i++
			break
		}
		if arg == "-" || !strings.HasPrefix(arg, "-") {
			break
		}

		switch arg {
		case "-v":
			verbose = true
		case "-d":
			disasm = true
		case "-timeout":
			if i+1 >= len(args) {
				return usageError("flag needs an argument: -timeout")
			}
			i++
			d, err := time.ParseDuration(args[i])
			if err != nil || d <= 0 {
				return usageError("invalid timeout: %s", args[i])
			}
			timeout = d
		case "-depth":
			if i+1 >= len(args) {
				return usageError("flag needs an argument: -depth")
			}
			i++
			n, err := strconv.Atoi(args[i])
			if err != nil || n < 1 {
				return usageError("invalid depth: %s", args[i])
			}
			config.MaxDepth = n
		case "-h", "--help":
			fmt.Fprintf(stdout, "btregex %s\n\n%s\n\n%s", version, shortUsage, longUsage)
			return 0
		case "-version", "--version":
			fmt.Fprintf(stdout, "btregex version %s\n", version)
			return 0
		default:
			return usageError("flag provided but not defined: %s", arg)
		}
	}

	rest := args[i:]
	if len(rest) != 2 {
		fmt.Fprintln(stderr, shortUsage)
		return 1
	}
	pattern, subject := rest[0], rest[1]

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	re, err := btregex.CompileWithConfig(pattern, config)
	if err != nil {
		logger.Debug("compile failed", "pattern", pattern, "error", err)
		if _, werr := (btregex.Outcome{Kind: btregex.KindCompileError, Err: err}).WriteTo(stdout); werr != nil {
			return usageError("%v", werr)
		}
		return 0
	}

	engine := re.Engine()
	pf := "none"
	if engine.Prefilter() != nil {
		pf = engine.Prefilter().String()
	}
	logger.Debug("compiled",
		"pattern", pattern,
		"strategy", engine.Strategy().String(),
		"prefilter", pf,
		"insts", engine.Prog().Len(),
		"groups", re.NumSubexp(),
		"max_depth", config.MaxDepth)
	if disasm {
		fmt.Fprint(stderr, engine.Prog().String())
	}

	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	out, err := search(ctx, logger, re, subject)
	if err != nil {
		logger.Debug("search abandoned", "error", err, "timeout", timeout)
		fmt.Fprintln(stdout, "ERROR:search timed out")
		return 2
	}
	if _, err := out.WriteTo(stdout); err != nil {
		return usageError("%v", err)
	}
	return 0
}

// search runs the match on its own goroutine so that ctx can bound it. A
// search that outlives ctx keeps running until the process exits.
func search(ctx context.Context, logger *slog.Logger, re *btregex.Regex, subject string) (btregex.Outcome, error) {
	start := time.Now()
	done := make(chan btregex.Outcome, 1)
	go func() {
		done <- re.Search(subject)
	}()

	select {
	case out := <-done:
		logger.Debug("searched", "kind", out.Kind.String(), "elapsed", time.Since(start))
		return out, nil
	case <-ctx.Done():
		return btregex.Outcome{}, ctx.Err()
	}
}
