// Command waffle slices solids into interlocking flat panels.
//
// Usage:
//
//	waffle [flags] script.wfl [script.wfl ...]
//
// Each script is evaluated and every waffle job it declares is run. A JSON
// summary of all slices is written to stdout; logs go to stderr. Use "-"
// to read a script from stdin.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/chazu/waffle/pkg/config"
)

// scriptResult is the output for one script.
type scriptResult struct {
	Script string `json:"script"`
	EvalResult
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("waffle", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: waffle [flags] script.wfl [script.wfl ...]\n\nflags:\n")
		fs.PrintDefaults()
	}
	config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintf(stderr, "waffle: %v\n", err)
		return 1
	}
	log := setupLogger(cfg.Log, stderr)
	log.Debug("configuration loaded",
		"kernel", cfg.Kernel.Name,
		"tolerance", cfg.Run.Tolerance,
		"workers", cfg.Run.Workers,
		"timeout", cfg.Run.Timeout)

	app, err := NewApp(cfg, log)
	if err != nil {
		log.Error("startup failed", "err", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	status := 0
	results := make([]scriptResult, 0, fs.NArg())
	for _, path := range fs.Args() {
		src, err := readScript(path, stdin)
		if err != nil {
			log.Error("cannot read script", "script", path, "err", err)
			return 1
		}
		res := app.Evaluate(ctx, string(src))
		if len(res.Errors) > 0 {
			status = 1
		}
		results = append(results, scriptResult{Script: path, EvalResult: res})
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		log.Error("cannot write results", "err", err)
		return 1
	}
	return status
}

func readScript(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}
