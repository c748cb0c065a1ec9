package engine

import (
	"errors"
	"fmt"
	"time"
)

// EvalTimeout bounds how long a script may run before its jobs are
// abandoned.
const EvalTimeout = 5 * time.Second

var (
	// ErrScriptTimeout is returned when a script outlives the engine's
	// evaluation limit.
	ErrScriptTimeout = errors.New("script timed out")
	// ErrSuperseded is returned for a script whose Evaluate call was
	// overtaken by a newer one.
	ErrSuperseded = errors.New("script superseded by a newer evaluation")
)

// outcome is what an evaluation goroutine hands back.
type outcome struct {
	jobs []*Job
	errs []EvalError
	err  error
}

// await blocks until the script of generation gen reports or limit passes.
// A script that reports after a newer Evaluate started is discarded. One
// that never reports keeps running; whatever it sends later is dropped.
func (e *Engine) await(ch <-chan outcome, gen uint64, limit time.Duration) ([]*Job, []EvalError, error) {
	t := time.NewTimer(limit)
	defer t.Stop()

	select {
	case o := <-ch:
		if !e.current(gen) {
			return nil, nil, fmt.Errorf("generation %d: %w", gen, ErrSuperseded)
		}
		return o.jobs, o.errs, o.err
	case <-t.C:
		return nil, nil, fmt.Errorf("after %s: %w", limit, ErrScriptTimeout)
	}
}

// current reports whether gen is still the latest evaluation.
func (e *Engine) current(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return gen == e.generation
}
