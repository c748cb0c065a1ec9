package waffle

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/waffle/pkg/geom"
	"github.com/chazu/waffle/pkg/kernel"
)

// Default radial inputs.
const (
	DefaultCount         = 10
	DefaultCentralRadius = 0.0
	DefaultWithHoles     = true
)

// OrthogonalParams configures an orthogonal waffle.
type OrthogonalParams struct {
	// Spacing between parallel planes of every family.
	Spacing float64 `json:"spacing" validate:"gt=0"`
	// Per-axis overrides; zero means Spacing.
	SpacingX float64 `json:"spacing_x,omitempty" validate:"gte=0"`
	SpacingY float64 `json:"spacing_y,omitempty" validate:"gte=0"`
	SpacingZ float64 `json:"spacing_z,omitempty" validate:"gte=0"`
	// Axes to slice along. Defaults to X and Y.
	Axes      []geom.Axis `json:"axes,omitempty" validate:"omitempty,min=2,max=3,unique,dive,gte=0,lte=2"`
	Thickness float64     `json:"thickness" validate:"gt=0"`
	// Tolerance forwarded to every kernel call; zero means
	// kernel.DefaultTolerance.
	Tolerance float64 `json:"tolerance,omitempty" validate:"gte=0"`
	// Workers bounds parallelism; zero means GOMAXPROCS.
	Workers int `json:"workers,omitempty" validate:"gte=0"`

	Logger *slog.Logger `json:"-" validate:"-"`
}

// RadialParams configures a radial waffle.
type RadialParams struct {
	VerticalSpacing float64 `json:"vertical_spacing" validate:"gt=0"`
	Count           int     `json:"count" validate:"gt=0"`
	// Center of the fan. Only X and Y are used; the fan always sits at the
	// solid's mid-height. Nil means the bounding-box center.
	Center        *r3.Vec `json:"center,omitempty" validate:"-"`
	CentralRadius float64 `json:"central_radius" validate:"gte=0"`
	Thickness     float64 `json:"thickness" validate:"gt=0,ltfield=VerticalSpacing"`
	// WithHoles cuts a central disc of CentralRadius out of every
	// horizontal slice.
	WithHoles bool    `json:"with_holes"`
	Tolerance float64 `json:"tolerance,omitempty" validate:"gte=0"`
	Workers   int     `json:"workers,omitempty" validate:"gte=0"`

	Logger *slog.Logger `json:"-" validate:"-"`
}

// NewRadialParams returns radial parameters with the default count,
// central radius and holes setting.
func NewRadialParams(verticalSpacing, thickness float64) RadialParams {
	return RadialParams{
		VerticalSpacing: verticalSpacing,
		Count:           DefaultCount,
		CentralRadius:   DefaultCentralRadius,
		Thickness:       thickness,
		WithHoles:       DefaultWithHoles,
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the parameters without touching any geometry.
func (p OrthogonalParams) Validate() error {
	if err := structError(validate.Struct(p)); err != nil {
		return err
	}
	for _, a := range p.axes() {
		if s := p.spacing(a); p.Thickness >= s {
			return &ValidationError{
				Field:  "thickness",
				Reason: fmt.Sprintf("%g must be less than the %s spacing %g", p.Thickness, a, s),
			}
		}
	}
	return nil
}

// Validate checks the parameters without touching any geometry.
func (p RadialParams) Validate() error {
	return structError(validate.Struct(p))
}

func (p OrthogonalParams) axes() []geom.Axis {
	if len(p.Axes) == 0 {
		return []geom.Axis{geom.AxisX, geom.AxisY}
	}
	return p.Axes
}

func (p OrthogonalParams) spacing(a geom.Axis) float64 {
	var s float64
	switch a {
	case geom.AxisX:
		s = p.SpacingX
	case geom.AxisY:
		s = p.SpacingY
	case geom.AxisZ:
		s = p.SpacingZ
	}
	if s == 0 {
		return p.Spacing
	}
	return s
}

func tolerance(t float64) float64 {
	if t == 0 {
		return kernel.DefaultTolerance
	}
	return t
}

func workers(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

func logger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}

// checkSolid rejects solids that report an open boundary or have no
// extent.
func checkSolid(s kernel.Solid) error {
	if s == nil {
		return &ValidationError{Field: "solid", Reason: "is nil"}
	}
	if !kernel.IsClosed(s) {
		return &ValidationError{Field: "solid", Reason: "must be closed"}
	}
	if s.BoundingBox().IsEmpty() {
		return &ValidationError{Field: "solid", Reason: "has an empty bounding box"}
	}
	return nil
}

// structError converts the first validator failure into a ValidationError.
func structError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Field: "params", Reason: err.Error()}
	}
	fe := verrs[0]
	return &ValidationError{Field: fe.Field(), Reason: reason(fe)}
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gt":
		return fmt.Sprintf("%v must be greater than %s", fe.Value(), fe.Param())
	case "gte":
		return fmt.Sprintf("%v must not be negative", fe.Value())
	case "lte":
		return fmt.Sprintf("%v is not a known axis", fe.Value())
	case "ltfield":
		return fmt.Sprintf("%v must be less than %s", fe.Value(), fe.Param())
	case "min":
		return fmt.Sprintf("needs at least %s entries", fe.Param())
	case "max":
		return fmt.Sprintf("allows at most %s entries", fe.Param())
	case "unique":
		return "must not repeat an axis"
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
