package waffle

import (
	"errors"
	"fmt"
)

// Sentinels usable with errors.Is.
var (
	ErrValidation = errors.New("waffle: invalid input")
	ErrDegenerate = errors.New("waffle: degenerate geometry")
	ErrInvariant  = errors.New("waffle: internal invariant violated")
)

// ErrorKind classifies pipeline errors.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindDegenerate
	KindInvariant
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindDegenerate:
		return "degenerate"
	case KindInvariant:
		return "invariant"
	default:
		return "unknown"
	}
}

// KindOf returns the kind of the first pipeline error in err's chain.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrDegenerate):
		return KindDegenerate
	case errors.Is(err, ErrInvariant):
		return KindInvariant
	default:
		return KindUnknown
	}
}

// ValidationError reports a bad parameter or solid. It is returned before
// any geometry work starts.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("waffle: invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Stage names the pipeline step that hit a degeneracy.
type Stage string

const (
	StageContour Stage = "contour"
	StageTrim    Stage = "trim"
	StageNotch   Stage = "notch"
)

// DegeneracyError reports a plane that produced no contour, or a cut that
// left no material. Callers can usually recover by changing the spacing or
// thickness.
type DegeneracyError struct {
	Stage  Stage
	Family string
	Index  int
	Reason string
}

func (e *DegeneracyError) Error() string {
	return fmt.Sprintf("waffle: %s failed for %s slice %d: %s", e.Stage, e.Family, e.Index, e.Reason)
}

func (e *DegeneracyError) Is(target error) bool { return target == ErrDegenerate }

// InvariantError reports a bookkeeping defect inside the pipeline.
type InvariantError struct {
	Reason string
}

func (e *InvariantError) Error() string {
	return "waffle: invariant violated: " + e.Reason
}

func (e *InvariantError) Is(target error) bool { return target == ErrInvariant }
