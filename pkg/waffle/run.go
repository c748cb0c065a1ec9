package waffle

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/chazu/waffle/pkg/geom"
	"github.com/chazu/waffle/pkg/kernel"
)

// run carries what every stage of one pipeline invocation shares.
type run struct {
	id      string
	k       kernel.Slicer
	solid   kernel.Solid
	tol     float64
	workers int
	log     *slog.Logger
}

func newRun(topology string, k kernel.Slicer, solid kernel.Solid, tol float64, n int, l *slog.Logger) *run {
	id := uuid.NewString()
	return &run{
		id:      id,
		k:       k,
		solid:   solid,
		tol:     tolerance(tol),
		workers: workers(n),
		log:     logger(l).With("run_id", id, "topology", topology),
	}
}

// stage logs how long fn took and, on failure, why.
func (r *run) stage(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	if err != nil {
		var de *DegeneracyError
		if errors.As(err, &de) {
			r.log.Warn("degenerate geometry", "stage", de.Stage, "family", de.Family, "index", de.Index, "reason", de.Reason)
		} else {
			r.log.Error("stage failed", "stage", name, "err", err)
		}
		return err
	}
	r.log.Debug("stage done", "stage", name, "elapsed", time.Since(start))
	return nil
}

// family is the working state of one slice family.
type family struct {
	name    string
	planes  []geom.Plane
	slices  []Slice
	notches [][]Notch
	extra   [][]geom.Ring
}

func newFamily(name string, planes []geom.Plane) *family {
	return &family{
		name:    name,
		planes:  planes,
		slices:  make([]Slice, len(planes)),
		notches: make([][]Notch, len(planes)),
		extra:   make([][]geom.Ring, len(planes)),
	}
}

// forEach runs fn for every slice of every family with bounded
// parallelism; the first error cancels the rest.
func (r *run) forEach(ctx context.Context, fams []*family, fn func(f *family, i int) error) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for _, f := range fams {
		for i := range f.planes {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				return fn(f, i)
			})
		}
	}
	return g.Wait()
}

func (r *run) contours(ctx context.Context, fams ...*family) error {
	return r.stage("contour", func() error {
		return r.forEach(ctx, fams, func(f *family, i int) error {
			s, err := SliceSolid(r.k, r.solid, f.name, i, f.planes[i], r.tol)
			if err != nil {
				return err
			}
			f.slices[i] = s
			return nil
		})
	})
}

func (r *run) notch(ctx context.Context, fams ...*family) error {
	return r.stage("notch", func() error {
		return r.forEach(ctx, fams, func(f *family, i int) error {
			s, err := CutNotches(r.k, f.slices[i], f.notches[i], f.extra[i], r.tol)
			if err != nil {
				return err
			}
			f.slices[i] = s
			return nil
		})
	})
}

func (r *run) result(topology string, fams ...*family) *Result {
	res := &Result{RunID: r.id, Topology: topology}
	for _, f := range fams {
		res.Families = append(res.Families, finish(f.name, f.slices))
	}
	r.log.Info("waffle done", "families", len(fams), "slices", res.SliceCount())
	return res
}
