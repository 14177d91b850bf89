// Package batch emits many (program, target) requests in parallel.
//
// Requests share nothing but the read-only role registry and the optional
// disk cache, so they run independently; one failing request never stops
// its siblings.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"coreasm/internal/cache"
	"coreasm/internal/emit"
	"coreasm/internal/program"
	"coreasm/internal/programfile"
	"coreasm/internal/target"
	"coreasm/internal/trace"
)

// Request is one emission. Program wins over Path; Path is loaded with
// programfile.Load when Program is nil.
type Request struct {
	Name    string
	Path    string
	Program *program.Program
	Triple  target.Triple
	Options emit.Options
	// Output, when set, receives the assembly text.
	Output string
}

// Result pairs a request with its outcome.
type Result struct {
	Name     string
	Triple   target.Triple
	Output   string
	Artifact *emit.Artifact
	Cached   bool
	Err      error
	// Stage is the last stage reached; on failure, the stage that failed.
	Stage   Stage
	Timings *Timings
}

// Options configure Run.
type Options struct {
	// Jobs bounds concurrency; <= 0 uses GOMAXPROCS.
	Jobs int
	// Registry resolves triples; nil uses the builtin tables.
	Registry *target.Registry
	Cache    *cache.DiskCache
	Sink     ProgressSink
}

// Run processes reqs and returns one Result per request, in request order.
// The error is non-nil only when ctx is cancelled; per-request failures are
// reported in Result.Err.
func Run(ctx context.Context, reqs []Request, opts Options) ([]Result, error) {
	results := make([]Result, len(reqs))
	if len(reqs) == 0 {
		return results, nil
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	registry := opts.Registry
	if registry == nil {
		registry = target.NewRegistry()
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "batch", trace.CurrentSpan(ctx)).
		WithExtra("requests", fmt.Sprint(len(reqs))).
		WithExtra("jobs", fmt.Sprint(jobs))
	defer span.End("")
	ctx = trace.WithSpan(ctx, span)

	for i := range reqs {
		notify(opts.Sink, Event{Name: reqs[i].Name, Stage: StageLoad, Status: StatusQueued})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(reqs)))
	for i := range reqs {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				results[i] = Result{Name: reqs[i].Name, Triple: reqs[i].Triple, Err: gctx.Err(), Stage: StageLoad, Timings: &Timings{}}
				return gctx.Err()
			default:
			}
			// results[i] is owned by this goroutine alone.
			results[i] = runOne(gctx, &reqs[i], registry, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func runOne(ctx context.Context, req *Request, registry *target.Registry, opts Options) Result {
	res := Result{Name: req.Name, Triple: req.Triple, Output: req.Output, Timings: &Timings{}}
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeTarget, req.Name, trace.CurrentSpan(ctx)).
		WithExtra("target", req.Triple.String())
	ctx = trace.WithSpan(ctx, span)

	fail := func(stage Stage, start time.Time, err error) Result {
		elapsed := time.Since(start)
		res.Timings.Set(stage, elapsed)
		res.Err, res.Stage = err, stage
		notify(opts.Sink, Event{Name: req.Name, Stage: stage, Status: StatusError, Err: err, Elapsed: elapsed})
		span.End(err.Error())
		return res
	}
	step := func(stage Stage, status Status, start time.Time) {
		elapsed := time.Since(start)
		res.Timings.Set(stage, elapsed)
		res.Stage = stage
		notify(opts.Sink, Event{Name: req.Name, Stage: stage, Status: status, Elapsed: elapsed})
	}

	start := time.Now()
	notify(opts.Sink, Event{Name: req.Name, Stage: StageLoad, Status: StatusWorking})
	prog := req.Program
	if prog == nil {
		if req.Path == "" {
			return fail(StageLoad, start, errors.New("request has neither program nor path"))
		}
		var err error
		if prog, err = programfile.Load(req.Path); err != nil {
			return fail(StageLoad, start, err)
		}
	}
	step(StageLoad, StatusDone, start)

	start = time.Now()
	notify(opts.Sink, Event{Name: req.Name, Stage: StageResolve, Status: StatusWorking})
	table, err := registry.Resolve(req.Triple)
	if err != nil {
		return fail(StageResolve, start, err)
	}
	step(StageResolve, StatusDone, start)

	start = time.Now()
	notify(opts.Sink, Event{Name: req.Name, Stage: StageEmit, Status: StatusWorking})
	art, cached, err := emitCached(ctx, prog, table, req.Options, opts.Cache)
	if err != nil {
		return fail(StageEmit, start, err)
	}
	res.Artifact, res.Cached = art, cached
	if cached {
		step(StageEmit, StatusCached, start)
	} else {
		step(StageEmit, StatusDone, start)
	}

	start = time.Now()
	notify(opts.Sink, Event{Name: req.Name, Stage: StageWrite, Status: StatusWorking})
	if req.Output != "" {
		if err := WriteFile(req.Output, art.Text); err != nil {
			return fail(StageWrite, start, err)
		}
	}
	step(StageWrite, StatusDone, start)

	span.WithExtra("cached", fmt.Sprint(cached)).End("")
	return res
}

// emitCached consults c before emitting and stores fresh artifacts. Cache
// failures degrade to a plain emission.
func emitCached(ctx context.Context, p *program.Program, table *target.RoleTable, opts emit.Options, c *cache.DiskCache) (*emit.Artifact, bool, error) {
	if c == nil {
		art, err := emit.EmitContext(ctx, p, table, opts)
		return art, false, err
	}
	key, keyErr := cache.KeyFor(p, table, opts)
	if keyErr == nil {
		if art, ok, err := c.Get(key); err == nil && ok {
			return art, true, nil
		}
	}
	art, err := emit.EmitContext(ctx, p, table, opts)
	if err != nil {
		return nil, false, err
	}
	if keyErr == nil {
		_ = c.Put(key, art)
	}
	return art, false, nil
}

// WriteFile writes text to path through a temp file and rename, creating
// parent directories.
func WriteFile(path, text string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".coreasm-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())
	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// Errors joins the errors of failed results, prefixed by request name.
func Errors(results []Result) error {
	var errs []error
	for i := range results {
		if results[i].Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", results[i].Name, results[i].Err))
		}
	}
	return errors.Join(errs...)
}
