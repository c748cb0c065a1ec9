package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/chazu/waffle/pkg/config"
	"github.com/chazu/waffle/pkg/engine"
	"github.com/chazu/waffle/pkg/geom"
	"github.com/chazu/waffle/pkg/kernel"
	"github.com/chazu/waffle/pkg/kernel/polyhedron"
	"github.com/chazu/waffle/pkg/kernel/sdfx"
	"github.com/chazu/waffle/pkg/waffle"
)

// App evaluates waffle scripts and runs the jobs they declare.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel
	run    config.RunConfig
	log    *slog.Logger
}

// EvalErrorData is a JSON-serializable eval or run error.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
	// Kind is the error class for job failures: validation, degenerate,
	// invariant or unknown. Empty for script errors.
	Kind string `json:"kind,omitempty"`
	Job  string `json:"job,omitempty"`
}

// SliceData summarizes one finished slice.
type SliceData struct {
	Index   int        `json:"index"`
	Area    float64    `json:"area"`
	Notches int        `json:"notches"`
	Holes   int        `json:"holes"`
	Frame   geom.Plane `json:"frame"`
	Bounds  geom.Box   `json:"bounds"`
}

// FamilyData summarizes one slice family.
type FamilyData struct {
	Name   string      `json:"name"`
	Slices []SliceData `json:"slices"`
}

// JobData summarizes one completed job.
type JobData struct {
	Name     string       `json:"name"`
	Topology string       `json:"topology"`
	RunID    string       `json:"runId"`
	Families []FamilyData `json:"families"`
}

// EvalResult is everything one evaluation produced.
type EvalResult struct {
	Jobs   []JobData       `json:"jobs"`
	Errors []EvalErrorData `json:"errors"`
}

// NewApp creates an App with the kernel named in cfg.
func NewApp(cfg *config.Config, log *slog.Logger) (*App, error) {
	k, err := newKernel(cfg.Kernel)
	if err != nil {
		return nil, err
	}
	return &App{
		engine: engine.NewEngine(k),
		kernel: k,
		run:    cfg.Run,
		log:    log,
	}, nil
}

func newKernel(cfg config.KernelConfig) (kernel.Kernel, error) {
	switch cfg.Name {
	case "sdfx":
		return sdfx.NewWithCells(cfg.MeshCells), nil
	case "polyhedron":
		return polyhedron.New(), nil
	}
	return nil, fmt.Errorf("unknown kernel %q", cfg.Name)
}

// Evaluate runs a script and every job it declares. Script errors stop
// before any job runs; a failing job is reported and the rest still run.
func (a *App) Evaluate(ctx context.Context, source string) EvalResult {
	result := EvalResult{
		Jobs:   []JobData{},
		Errors: []EvalErrorData{},
	}

	// Step 1: Evaluate the script into jobs.
	jobs, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		a.log.Error("evaluate failed", "err", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	// Step 2: Slice each job.
	defaults := engine.Defaults{Tolerance: a.run.Tolerance, Workers: a.run.Workers}
	for _, job := range jobs {
		res, err := a.runJob(ctx, job, defaults)
		if err != nil {
			a.log.Error("job failed", "job", job.Name, "kind", waffle.KindOf(err), "err", err)
			result.Errors = append(result.Errors, EvalErrorData{
				Message: err.Error(),
				Kind:    waffle.KindOf(err).String(),
				Job:     job.Name,
			})
			if errors.Is(err, context.Canceled) {
				break
			}
			continue
		}
		result.Jobs = append(result.Jobs, summarize(job, res))
	}
	return result
}

func (a *App) runJob(ctx context.Context, job *engine.Job, defaults engine.Defaults) (*waffle.Result, error) {
	if a.run.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.run.Timeout)
		defer cancel()
	}
	return job.Run(ctx, a.kernel, defaults, a.log)
}

func summarize(job *engine.Job, res *waffle.Result) JobData {
	jd := JobData{
		Name:     job.Name,
		Topology: res.Topology,
		RunID:    res.RunID,
		Families: make([]FamilyData, 0, len(res.Families)),
	}
	for _, f := range res.Families {
		fd := FamilyData{Name: f.Name, Slices: make([]SliceData, len(f.Slices))}
		for i, s := range f.Slices {
			fd.Slices[i] = SliceData{
				Index:   s.Index,
				Area:    s.Area(),
				Notches: len(s.Notches),
				Holes:   len(s.Region.Holes),
				Frame:   f.Frames[i],
				Bounds:  f.Bounds[i],
			}
		}
		jd.Families = append(jd.Families, fd)
	}
	return jd
}
