package engine

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/waffle/pkg/geom"
	"github.com/chazu/waffle/pkg/kernel"
	"github.com/chazu/waffle/pkg/waffle"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms waffle script source before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: radial-waffle -> radial_waffle
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpSolid wraps a kernel solid so it can be passed between builtins.
type sexpSolid struct {
	solid kernel.Solid
	op    string
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string {
	b := s.solid.BoundingBox()
	sz := b.Size()
	return fmt.Sprintf("(%s %.1fx%.1fx%.1f)", s.op, sz.X, sz.Y, sz.Z)
}
func (s *sexpSolid) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps an r3.Vec.
type sexpVec3 struct {
	vec r3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.1f %.1f %.1f)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpJob is what orthogonal-waffle and radial-waffle return.
type sexpJob struct {
	job *Job
}

func (j *sexpJob) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s-waffle %q)", j.job.Topology, j.job.Name)
}
func (j *sexpJob) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			// Keyword at end with no value.
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// only rejects keywords outside allowed.
func (pa kwArgs) only(fn string, allowed ...string) error {
	for _, k := range slices.Sorted(maps.Keys(pa.kw)) {
		if !slices.Contains(allowed, k) {
			return fmt.Errorf("%s: unknown keyword :%s", fn, k)
		}
	}
	return nil
}

// required reports the first missing keyword.
func (pa kwArgs) required(fn string, keys ...string) error {
	for _, k := range keys {
		if _, ok := pa.kw[k]; !ok {
			return fmt.Errorf("%s: :%s is required", fn, k)
		}
	}
	return nil
}

// number stores the keyword's number in dst when present.
func (pa kwArgs) number(fn, key string, dst *float64) error {
	v, ok := pa.kw[key]
	if !ok {
		return nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", fn, key, err)
	}
	*dst = f
	return nil
}

// integer stores the keyword's integer in dst when present.
func (pa kwArgs) integer(fn, key string, dst *int) error {
	v, ok := pa.kw[key]
	if !ok {
		return nil
	}
	n, err := toInt(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", fn, key, err)
	}
	*dst = n
	return nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an integer; floats are accepted when they are whole.
func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		if v.Val == float64(int(v.Val)) {
			return int(v.Val), nil
		}
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toBool extracts true or false.
func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected true or false, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_z) and plain strings ("z").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toAxis converts a keyword or string to a geom.Axis.
func toAxis(s zygo.Sexp) (geom.Axis, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected axis keyword (:x, :y, :z): %w", err)
	}
	return geom.ParseAxis(name)
}

// toSolid extracts a solid built by another builtin.
func toSolid(s zygo.Sexp) (kernel.Solid, error) {
	if v, ok := s.(*sexpSolid); ok {
		return v.solid, nil
	}
	return nil, fmt.Errorf("expected solid, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a Vec from a sexpVec3.
func toVec3(s zygo.Sexp) (r3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return r3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// numbers extracts exactly n positional numbers.
func numbers(fn string, args []zygo.Sexp, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s requires exactly %d numbers, got %d arguments", fn, n, len(args))
	}
	out := make([]float64, n)
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", fn, i+1, err)
		}
		out[i] = f
	}
	return out, nil
}

func positive(fn string, names []string, vals []float64) error {
	for i, v := range vals {
		if !(v > 0) {
			return fmt.Errorf("%s: %s must be positive, got %g", fn, names[i], v)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the waffle DSL builtins into a zygomys
// environment. Solids are built with m; every waffle declaration is
// appended to jobs in evaluation order.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, m kernel.Modeler, jobs *[]*Job) {

	// -----------------------------------------------------------------------
	// (box 100 80 60)
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		d, err := numbers("box", args, 3)
		if err != nil {
			return zygo.SexpNull, err
		}
		if err := positive("box", []string{"x", "y", "z"}, d); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{solid: m.Box(d[0], d[1], d[2]), op: "box"}, nil
	})

	// -----------------------------------------------------------------------
	// (cylinder 80 20 :segments 64), height along Z then radius
	// -----------------------------------------------------------------------
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.only("cylinder", "segments"); err != nil {
			return zygo.SexpNull, err
		}
		d, err := numbers("cylinder", pa.positional, 2)
		if err != nil {
			return zygo.SexpNull, err
		}
		if err := positive("cylinder", []string{"height", "radius"}, d); err != nil {
			return zygo.SexpNull, err
		}
		var segments int
		if err := pa.integer("cylinder", "segments", &segments); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{solid: m.Cylinder(d[0], d[1], segments), op: "cylinder"}, nil
	})

	// -----------------------------------------------------------------------
	// (sphere 25)
	// -----------------------------------------------------------------------
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		d, err := numbers("sphere", args, 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		if err := positive("sphere", []string{"radius"}, d); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{solid: m.Sphere(d[0]), op: "sphere"}, nil
	})

	// -----------------------------------------------------------------------
	// (union a b ...), (difference a b ...), (intersection a b ...)
	//
	// Operands fold left: (difference a b c) is a minus b minus c.
	// -----------------------------------------------------------------------
	csg := map[string]func(a, b kernel.Solid) kernel.Solid{
		"union":        m.Union,
		"difference":   m.Difference,
		"intersection": m.Intersection,
	}
	for op, fn := range csg {
		env.AddFunction(op, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) < 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires at least two solids, got %d", op, len(args))
			}
			acc, err := toSolid(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: operand 1: %w", op, err)
			}
			for i, a := range args[1:] {
				s, err := toSolid(a)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: operand %d: %w", op, i+2, err)
				}
				acc = fn(acc, s)
			}
			return &sexpSolid{solid: acc, op: op}, nil
		})
	}

	// -----------------------------------------------------------------------
	// (translate solid 10 0 5), (rotate solid 0 0 45) in degrees
	// -----------------------------------------------------------------------
	transforms := map[string]func(s kernel.Solid, x, y, z float64) kernel.Solid{
		"translate": m.Translate,
		"rotate":    m.Rotate,
	}
	for op, fn := range transforms {
		env.AddFunction(op, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) < 1 {
				return zygo.SexpNull, fmt.Errorf("%s requires a solid", op)
			}
			s, err := toSolid(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", op, err)
			}
			var v r3.Vec
			if len(args) == 2 {
				if v, err = toVec3(args[1]); err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: %w", op, err)
				}
			} else {
				d, err := numbers(op, args[1:], 3)
				if err != nil {
					return zygo.SexpNull, err
				}
				v = r3.Vec{X: d[0], Y: d[1], Z: d[2]}
			}
			return &sexpSolid{solid: fn(s, v.X, v.Y, v.Z), op: op}, nil
		})
	}

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		d, err := numbers("vec3", args, 3)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpVec3{vec: r3.Vec{X: d[0], Y: d[1], Z: d[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (orthogonal-waffle solid :spacing 20 :thickness 3 :axes (list :x :y :z)
	//                    :spacing-z 15 :tolerance 0.01 :workers 4 :name "crate")
	// -----------------------------------------------------------------------
	env.AddFunction("orthogonal_waffle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		const fn = "orthogonal-waffle"
		pa := parseArgs(args)
		if err := pa.only(fn, "spacing", "spacing-x", "spacing-y", "spacing-z",
			"thickness", "axes", "tolerance", "workers", "name"); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.required(fn, "spacing", "thickness"); err != nil {
			return zygo.SexpNull, err
		}
		job, err := newJob(fn, waffle.TopologyOrthogonal, pa, len(*jobs))
		if err != nil {
			return zygo.SexpNull, err
		}

		p := &job.Orthogonal
		for _, f := range []struct {
			key string
			dst *float64
		}{
			{"spacing", &p.Spacing},
			{"spacing-x", &p.SpacingX},
			{"spacing-y", &p.SpacingY},
			{"spacing-z", &p.SpacingZ},
			{"thickness", &p.Thickness},
			{"tolerance", &p.Tolerance},
		} {
			if err := pa.number(fn, f.key, f.dst); err != nil {
				return zygo.SexpNull, err
			}
		}
		if err := pa.integer(fn, "workers", &p.Workers); err != nil {
			return zygo.SexpNull, err
		}
		if v, ok := pa.kw["axes"]; ok {
			items, err := sexpListToSlice(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: axes: %w", fn, err)
			}
			for _, item := range items {
				a, err := toAxis(item)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: axes: %w", fn, err)
				}
				p.Axes = append(p.Axes, a)
			}
		}

		*jobs = append(*jobs, job)
		return &sexpJob{job: job}, nil
	})

	// -----------------------------------------------------------------------
	// (radial-waffle solid :vertical-spacing 15 :thickness 3 :count 8
	//                :center (vec3 0 0 0) :central-radius 10 :with-holes false)
	// -----------------------------------------------------------------------
	env.AddFunction("radial_waffle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		const fn = "radial-waffle"
		pa := parseArgs(args)
		if err := pa.only(fn, "vertical-spacing", "thickness", "count", "center",
			"central-radius", "with-holes", "tolerance", "workers", "name"); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.required(fn, "vertical-spacing", "thickness"); err != nil {
			return zygo.SexpNull, err
		}
		job, err := newJob(fn, waffle.TopologyRadial, pa, len(*jobs))
		if err != nil {
			return zygo.SexpNull, err
		}

		p := &job.Radial
		*p = waffle.NewRadialParams(0, 0)
		for _, f := range []struct {
			key string
			dst *float64
		}{
			{"vertical-spacing", &p.VerticalSpacing},
			{"thickness", &p.Thickness},
			{"central-radius", &p.CentralRadius},
			{"tolerance", &p.Tolerance},
		} {
			if err := pa.number(fn, f.key, f.dst); err != nil {
				return zygo.SexpNull, err
			}
		}
		if err := pa.integer(fn, "count", &p.Count); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.integer(fn, "workers", &p.Workers); err != nil {
			return zygo.SexpNull, err
		}
		if v, ok := pa.kw["center"]; ok {
			c, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: center: %w", fn, err)
			}
			p.Center = &c
		}
		if v, ok := pa.kw["with-holes"]; ok {
			b, err := toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: with-holes: %w", fn, err)
			}
			p.WithHoles = b
		}

		*jobs = append(*jobs, job)
		return &sexpJob{job: job}, nil
	})
}

// newJob reads the solid and optional name shared by both waffle forms.
func newJob(fn, topology string, pa kwArgs, n int) (*Job, error) {
	if len(pa.positional) != 1 {
		return nil, fmt.Errorf("%s requires exactly one solid, got %d positional arguments", fn, len(pa.positional))
	}
	s, err := toSolid(pa.positional[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	job := &Job{
		Name:     fmt.Sprintf("%s-%d", topology, n+1),
		Topology: topology,
		Solid:    s,
	}
	if v, ok := pa.kw["name"]; ok {
		if job.Name, err = toString(v); err != nil {
			return nil, fmt.Errorf("%s: name: %w", fn, err)
		}
	}
	return job, nil
}
