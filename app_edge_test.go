package main

import (
	"context"
	"strings"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// 1. Empty editor: empty string -> 0 jobs, 0 errors.
// ---------------------------------------------------------------------------

func TestE2EEmptySourceExtended(t *testing.T) {
	result := newTestApp(t, testConfig()).Evaluate(context.Background(), "")

	// Ensure slices are non-nil (JSON should serialize as [] not null).
	if result.Jobs == nil {
		t.Error("Jobs should be non-nil empty slice, got nil")
	}
	if result.Errors == nil {
		t.Error("Errors should be non-nil empty slice, got nil")
	}
}

func TestE2ECommentsOnly(t *testing.T) {
	source := `
;; A script with nothing but comments.
; Single semicolons too.
`
	result := newTestApp(t, testConfig()).Evaluate(context.Background(), source)
	if len(result.Errors) != 0 || len(result.Jobs) != 0 {
		t.Errorf("expected nothing, got %d jobs and errors %v", len(result.Jobs), result.Errors)
	}
}

// ---------------------------------------------------------------------------
// 2. Syntax error mid-script: eval error, no job runs.
// ---------------------------------------------------------------------------

func TestE2ESyntaxErrorWithLineInfo(t *testing.T) {
	// Valid job on line 1, broken code on line 2: nothing may run.
	source := "(orthogonal-waffle (box 10 10 10) :spacing 3 :thickness 1)\n(box 1 2"
	result := newTestApp(t, testConfig()).Evaluate(context.Background(), source)

	if len(result.Errors) == 0 {
		t.Fatal("expected at least one eval error for unmatched parens")
	}
	if len(result.Jobs) != 0 {
		t.Errorf("expected 0 jobs on syntax error, got %d", len(result.Jobs))
	}
	e := result.Errors[0]
	if e.Message == "" {
		t.Error("syntax error should have a non-empty message")
	}
	t.Logf("syntax error: line=%d, col=%d, message=%q", e.Line, e.Col, e.Message)
}

func TestE2EBuiltinErrorMentionsKeyword(t *testing.T) {
	source := `(orthogonal-waffle (box 10 10 10) :spacing 3 :thikness 1)`
	result := newTestApp(t, testConfig()).Evaluate(context.Background(), source)

	found := false
	for _, e := range result.Errors {
		if strings.Contains(e.Message, "thikness") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected error mentioning 'thikness', got: %v", result.Errors)
	}
}

// ---------------------------------------------------------------------------
// 3. Job failures: reported per job, other jobs still run.
// ---------------------------------------------------------------------------

func TestE2EFailingJobDoesNotStopOthers(t *testing.T) {
	source := `
(def b (box 10 10 10))
(orthogonal-waffle b :spacing 3 :thickness 3 :name "too-thick")
(orthogonal-waffle b :spacing 3 :thickness 1 :name "fine")
`
	result := newTestApp(t, testConfig()).Evaluate(context.Background(), source)

	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", result.Errors)
	}
	e := result.Errors[0]
	if e.Job != "too-thick" || e.Kind != "validation" {
		t.Errorf("unexpected error %+v", e)
	}
	if !strings.Contains(e.Message, "thickness") {
		t.Errorf("message should name the field: %q", e.Message)
	}
	if len(result.Jobs) != 1 || result.Jobs[0].Name != "fine" {
		t.Errorf("expected the second job to run, got %+v", result.Jobs)
	}
}

func TestE2EPlanesOnFaces(t *testing.T) {
	// Spacing 5 over a 10mm box puts the outer planes on the faces.
	source := `(orthogonal-waffle (box 10 10 10) :spacing 5 :thickness 1)`
	result := newTestApp(t, testConfig()).Evaluate(context.Background(), source)

	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(result.Jobs))
	}
	for _, f := range result.Jobs[0].Families {
		if len(f.Slices) != 3 {
			t.Errorf("family %s: %d slices, want 3", f.Name, len(f.Slices))
		}
		for _, s := range f.Slices {
			if s.Notches != 3 {
				t.Errorf("family %s slice %d: %d notches, want 3", f.Name, s.Index, s.Notches)
			}
		}
	}
}

func TestE2ETrimRemovesEverything(t *testing.T) {
	source := `(radial-waffle (cylinder 20 10) :vertical-spacing 6 :thickness 1 :central-radius 15)`
	result := newTestApp(t, testConfig()).Evaluate(context.Background(), source)

	if len(result.Errors) != 1 || result.Errors[0].Kind != "degenerate" {
		t.Fatalf("expected one degenerate error, got %v", result.Errors)
	}
}

func TestE2EJobTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.Run.Timeout = time.Nanosecond
	app := newTestApp(t, cfg)

	result := app.Evaluate(context.Background(), `(orthogonal-waffle (box 10 10 10) :spacing 3 :thickness 1)`)
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", result.Errors)
	}
	if !strings.Contains(result.Errors[0].Message, "deadline") {
		t.Errorf("expected a deadline error, got %q", result.Errors[0].Message)
	}
}

func TestE2ECanceledContextStopsRemainingJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	source := `
(orthogonal-waffle (box 10 10 10) :spacing 3 :thickness 1)
(orthogonal-waffle (box 10 10 10) :spacing 3 :thickness 1)
`
	result := newTestApp(t, testConfig()).Evaluate(ctx, source)
	if len(result.Errors) != 1 {
		t.Errorf("expected a single cancellation error, got %v", result.Errors)
	}
	if len(result.Jobs) != 0 {
		t.Errorf("expected no finished jobs, got %d", len(result.Jobs))
	}
}

// ---------------------------------------------------------------------------
// 4. Script arithmetic feeds job parameters.
// ---------------------------------------------------------------------------

func TestE2ENestedArithmeticDef(t *testing.T) {
	source := `
(def side 10)
(def gap (+ 1 2))
(def t (- gap 2))
(orthogonal-waffle (box side side side) :spacing gap :thickness t)
`
	result := newTestApp(t, testConfig()).Evaluate(context.Background(), source)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	for _, f := range result.Jobs[0].Families {
		if len(f.Slices) != 4 {
			t.Errorf("family %s: expected 4 slices, got %d", f.Name, len(f.Slices))
		}
	}
}

// ---------------------------------------------------------------------------
// 5. Rapid evaluation: no panics, results independent between calls.
// ---------------------------------------------------------------------------

func TestE2ERapidEvaluationAlternating(t *testing.T) {
	// zygomys has internal global state that is not safe for concurrent
	// sandbox creation, so calls are sequential.
	app := newTestApp(t, testConfig())

	sources := []string{
		`(orthogonal-waffle (box 10 10 10) :spacing 3 :thickness 1)`,
		`(box 1 2`,
		``,
		`(orthogonal-waffle (box 10 10 10) :spacing 3 :thickness 5)`,
		`(+ 1 2)`,
		`;; just a comment`,
		`(undefined-func 1 2 3)`,
		`(radial-waffle (cylinder 20 10) :vertical-spacing 6 :thickness 1 :count 3)`,
	}

	for i, source := range sources {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("iteration %d panicked on source %q: %v", i, source, r)
				}
			}()
			result := app.Evaluate(context.Background(), source)
			if len(result.Jobs) > 1 {
				t.Errorf("iteration %d: jobs leaked between evaluations: %d", i, len(result.Jobs))
			}
		}()
	}
}
