// Package engine evaluates waffle job scripts. A script is zygomys Lisp run
// in a sandbox; it builds solids with the configured kernel and declares
// one or more waffle jobs:
//
//	(def body (difference (box 100 80 60) (translate (cylinder 80 20) 50 40 30)))
//	(orthogonal-waffle body :spacing 20 :thickness 3)
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/waffle/pkg/kernel"
	"github.com/chazu/waffle/pkg/waffle"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Job is one waffle declared by a script.
type Job struct {
	Name       string
	Topology   string
	Solid      kernel.Solid
	Orthogonal waffle.OrthogonalParams
	Radial     waffle.RadialParams
}

// Run slices the job's solid with k. Zero tolerance and worker settings in
// the job are filled from defaults before running.
func (j *Job) Run(ctx context.Context, k kernel.Slicer, defaults Defaults, log *slog.Logger) (*waffle.Result, error) {
	log = log.With("job", j.Name)
	switch j.Topology {
	case waffle.TopologyOrthogonal:
		p := j.Orthogonal
		p.Tolerance = pick(p.Tolerance, defaults.Tolerance)
		p.Workers = pick(p.Workers, defaults.Workers)
		p.Logger = log
		return waffle.Orthogonal(ctx, k, j.Solid, p)
	case waffle.TopologyRadial:
		p := j.Radial
		p.Tolerance = pick(p.Tolerance, defaults.Tolerance)
		p.Workers = pick(p.Workers, defaults.Workers)
		p.Logger = log
		return waffle.Radial(ctx, k, j.Solid, p)
	}
	return nil, fmt.Errorf("job %s: unknown topology %q", j.Name, j.Topology)
}

// Defaults are applied to job settings a script leaves unset.
type Defaults struct {
	Tolerance float64
	Workers   int
}

func pick[T int | float64](v, def T) T {
	if v == 0 {
		return def
	}
	return v
}

// Engine wraps the zygomys interpreter for waffle scripts.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	modeler    kernel.Modeler
	timeout    time.Duration
}

// NewEngine creates an Engine that builds solids with m.
func NewEngine(m kernel.Modeler) *Engine {
	return &Engine{modeler: m, timeout: EvalTimeout}
}

// Evaluate runs a script and returns the jobs it declared, in order.
//
// Return semantics:
//   - On success: returns jobs (possibly empty) + nil errors + nil error
//   - On parse/eval failure: returns nil jobs + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) ([]*Job, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- outcome{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		jobs, evalErrs, err := e.evaluate(source)
		ch <- outcome{jobs: jobs, errs: evalErrs, err: err}
	}()

	return e.await(ch, gen, e.timeout)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) ([]*Job, []EvalError, error) {
	// A script with nothing in it declares no jobs.
	if strings.TrimSpace(source) == "" {
		return []*Job{}, nil, nil
	}

	// Sandbox mode keeps scripts away from the filesystem and syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	jobs := []*Job{}
	registerBuiltins(env, e.modeler, &jobs)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}
	return jobs, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
