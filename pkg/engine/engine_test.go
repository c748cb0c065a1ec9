package engine

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/chazu/waffle/pkg/kernel/polyhedron"
)

func newTestEngine() *Engine {
	return NewEngine(polyhedron.New())
}

func TestEvaluateEmptyString(t *testing.T) {
	eng := newTestEngine()

	jobs, evalErrs, err := eng.Evaluate("")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if jobs == nil {
		t.Fatal("expected non-nil job list")
	}
	if len(jobs) != 0 {
		t.Errorf("expected no jobs, got %d", len(jobs))
	}
}

func TestEvaluateWhitespaceOnly(t *testing.T) {
	eng := newTestEngine()

	jobs, evalErrs, err := eng.Evaluate("   \n\t  \n  ")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if jobs == nil || len(jobs) != 0 {
		t.Errorf("expected empty job list, got %v", jobs)
	}
}

func TestEvaluateValidExpression(t *testing.T) {
	eng := newTestEngine()

	// Plain arithmetic declares nothing.
	jobs, evalErrs, err := eng.Evaluate("(+ 1 2)")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if len(jobs) != 0 {
		t.Errorf("expected no jobs, got %d", len(jobs))
	}
}

func TestEvaluateMultipleExpressions(t *testing.T) {
	eng := newTestEngine()

	source := `
(def x 10)
(def y 20)
(+ x y)
`
	jobs, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if jobs == nil {
		t.Fatal("expected non-nil job list")
	}
}

func TestEvaluateSyntaxError(t *testing.T) {
	eng := newTestEngine()

	// Unmatched paren is a parse error.
	jobs, evalErrs, err := eng.Evaluate("(box 1 2 3")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if jobs != nil {
		t.Fatal("expected nil jobs on syntax error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error for syntax error")
	}
	if evalErrs[0].Message == "" {
		t.Error("eval error message should not be empty")
	}
}

func TestEvaluateUndefinedSymbol(t *testing.T) {
	eng := newTestEngine()

	jobs, evalErrs, err := eng.Evaluate("(+ 1 undefined-symbol)")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if jobs != nil {
		t.Fatal("expected nil jobs on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error for undefined symbol")
	}
}

func TestEvaluateSyntaxErrorHasLineInfo(t *testing.T) {
	eng := newTestEngine()

	// Put the error on line 2.
	source := "(+ 1 2)\n(+ 3"
	jobs, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if jobs != nil {
		t.Fatal("expected nil jobs on syntax error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error")
	}

	// Line info depends on the zygomys error format; only the message is
	// guaranteed.
	e := evalErrs[0]
	if e.Message == "" {
		t.Error("eval error message should not be empty")
	}
	if e.Line > 0 {
		t.Logf("extracted line info: line=%d, message=%q", e.Line, e.Message)
	}
}

func TestEvalErrorImplementsError(t *testing.T) {
	e := EvalError{Line: 5, Col: 0, Message: "something went wrong"}
	s := e.Error()
	if !strings.Contains(s, "line 5") {
		t.Errorf("Error() should contain line info, got: %s", s)
	}
	if !strings.Contains(s, "something went wrong") {
		t.Errorf("Error() should contain message, got: %s", s)
	}

	e2 := EvalError{Line: 0, Col: 0, Message: "no location"}
	if s2 := e2.Error(); strings.Contains(s2, "line") {
		t.Errorf("Error() with no line should not contain 'line', got: %s", s2)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	eng := newTestEngine()

	source := `(orthogonal-waffle (box 10 10 10) :spacing 3 :thickness 1)`
	for i := 0; i < 5; i++ {
		jobs, evalErrs, err := eng.Evaluate(source)
		if err != nil {
			t.Fatalf("iteration %d: unexpected fatal error: %v", i, err)
		}
		if len(evalErrs) > 0 {
			t.Fatalf("iteration %d: unexpected eval errors: %v", i, evalErrs)
		}
		if len(jobs) != 1 {
			t.Fatalf("iteration %d: expected 1 job, got %d", i, len(jobs))
		}
		// Job names restart with every evaluation.
		if jobs[0].Name != "orthogonal-1" {
			t.Errorf("iteration %d: job name = %q", i, jobs[0].Name)
		}
	}
}

func TestEvaluateTimeout(t *testing.T) {
	// A script zygomys runs forever is hard to write, so the wait is driven
	// with a channel that never reports.
	e := newTestEngine()
	e.generation = 1
	ch := make(chan outcome)

	start := time.Now()
	_, _, err := e.await(ch, 1, 20*time.Millisecond)
	if !errors.Is(err, ErrScriptTimeout) {
		t.Fatalf("err = %v, want ErrScriptTimeout", err)
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("error message = %q", err)
	}
	if d := time.Since(start); d > EvalTimeout {
		t.Errorf("waited %s, longer than the default limit", d)
	}
}

func TestEvaluateGenerationDiscardsStale(t *testing.T) {
	e := newTestEngine()
	e.generation = 2

	ch := make(chan outcome, 1)
	ch <- outcome{jobs: []*Job{{Name: "old"}}}

	jobs, _, err := e.await(ch, 1, time.Second)
	if !errors.Is(err, ErrSuperseded) {
		t.Fatalf("err = %v, want ErrSuperseded", err)
	}
	if jobs != nil {
		t.Errorf("stale jobs leaked: %v", jobs)
	}

	ch <- outcome{jobs: []*Job{{Name: "new"}}}
	jobs, _, err = e.await(ch, 2, time.Second)
	if err != nil {
		t.Fatalf("current generation: %v", err)
	}
	if len(jobs) != 1 || jobs[0].Name != "new" {
		t.Errorf("jobs = %v", jobs)
	}
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
		wantMsg  string
	}{
		{
			name:     "error on line format",
			msg:      "Error on line 5: unexpected token\n",
			wantLine: 5,
			wantMsg:  "unexpected token",
		},
		{
			name:     "no line info",
			msg:      "some generic error",
			wantLine: 0,
			wantMsg:  "some generic error",
		},
		{
			name:     "line format lowercase",
			msg:      "error on line 12: missing paren",
			wantLine: 12,
			wantMsg:  "missing paren",
		},
		{
			name:     "short line format",
			msg:      "line 3: box: x must be positive, got 0",
			wantLine: 3,
			wantMsg:  "box: x must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseZygomysError(errString(tt.msg))
			if len(errs) == 0 {
				t.Fatal("expected at least one error")
			}
			e := errs[0]
			if e.Line != tt.wantLine {
				t.Errorf("line = %d, want %d", e.Line, tt.wantLine)
			}
			if !strings.Contains(e.Message, tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", e.Message, tt.wantMsg)
			}
		})
	}
}

// errString is a simple error type for testing.
type errString string

func (e errString) Error() string { return string(e) }
