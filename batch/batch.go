package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/milk9111/swingkit/input"
	"github.com/milk9111/swingkit/levels"
	"github.com/milk9111/swingkit/prefabs"
	"github.com/milk9111/swingkit/sim"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

const DefaultTicks = 600

var ErrNoJobs = errors.New("batch: no jobs")

// Job is one headless run: a driver script against a level and a player
// spec for a fixed number of ticks.
type Job struct {
	Script string
	// Source overrides the embedded script named by Script.
	Source []byte
	Level  string
	// Player defaults to the embedded player spec.
	Player *prefabs.PlayerSpec
	// Model overrides the player's grapple model when set.
	Model string
	Ticks int
}

// Result summarises one run.
type Result struct {
	ID       string       `yaml:"id"`
	Script   string       `yaml:"script"`
	Level    string       `yaml:"level"`
	Model    string       `yaml:"model"`
	Final    sim.Snapshot `yaml:"final"`
	Stats    sim.Stats    `yaml:"stats"`
	Duration string       `yaml:"duration"`
	Error    string       `yaml:"error,omitempty"`
}

func (r Result) Failed() bool { return r.Error != "" }

// Runner runs jobs on a bounded goroutine pool. Each job gets its own
// simulation, so jobs never share state.
type Runner struct {
	pool *ants.Pool
	log  *zap.Logger
}

func NewRunner(workers int, log *zap.Logger) (*Runner, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if workers <= 0 {
		workers = 1
	}
	pool, err := ants.NewPool(workers,
		ants.WithPreAlloc(true),
		ants.WithPanicHandler(func(p interface{}) {
			log.Error("simulation panicked", zap.Any("panic", p))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("batch: create pool: %w", err)
	}
	return &Runner{pool: pool, log: log}, nil
}

// Run executes every job and returns results in job order. A failing job
// records its error in its result; Run only fails when jobs cannot be
// scheduled.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	if len(jobs) == 0 {
		return nil, ErrNoJobs
	}
	results := make([]Result, len(jobs))
	var wg sync.WaitGroup
	for i, job := range jobs {
		results[i] = Result{ID: uuid.NewString(), Script: job.Script, Level: job.Level, Error: "did not finish"}
		wg.Add(1)
		err := r.pool.Submit(func() {
			defer wg.Done()
			res := runJob(ctx, job, r.log)
			res.ID = results[i].ID
			results[i] = res
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return results, fmt.Errorf("batch: submit %s: %w", job.Script, err)
		}
	}
	wg.Wait()
	return results, nil
}

func (r *Runner) Close() {
	r.pool.Release()
}

// RunJob executes a single job on the calling goroutine.
func RunJob(ctx context.Context, job Job, log *zap.Logger) Result {
	if log == nil {
		log = zap.NewNop()
	}
	res := runJob(ctx, job, log)
	res.ID = uuid.NewString()
	return res
}

func runJob(ctx context.Context, job Job, log *zap.Logger) Result {
	start := time.Now()
	res := Result{Script: job.Script, Level: job.Level}
	fail := func(err error) Result {
		res.Error = err.Error()
		res.Duration = time.Since(start).String()
		log.Warn("run failed", zap.String("script", job.Script), zap.Error(err))
		return res
	}

	if job.Level == "" {
		job.Level = levels.DefaultLevel
		res.Level = job.Level
	}
	lvl, err := levels.LoadLevelFromFS(job.Level)
	if err != nil {
		return fail(err)
	}

	var spec prefabs.PlayerSpec
	if job.Player != nil {
		spec = *job.Player
	} else {
		loaded, err := prefabs.LoadPlayerSpec()
		if err != nil {
			return fail(err)
		}
		spec = *loaded
	}
	if job.Model != "" {
		spec.Grapple.Model = job.Model
	}

	src := job.Source
	if src == nil {
		if src, err = prefabs.LoadScript(job.Script); err != nil {
			return fail(err)
		}
	}
	driver, err := input.NewScriptSource(job.Script, src)
	if err != nil {
		return fail(err)
	}

	s, err := sim.New(lvl, spec, sim.WithLogger(log.With(zap.String("script", job.Script))))
	if err != nil {
		return fail(err)
	}
	res.Model = string(s.Grapple().Model().Name())

	ticks := job.Ticks
	if ticks <= 0 {
		ticks = DefaultTicks
	}
	for i := 0; i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		if err := driver.Advance(ctx, s.InputFrame()); err != nil {
			return fail(err)
		}
		s.Frame(driver, s.DT())
	}

	res.Final = s.Snapshot()
	res.Stats = s.Stats()
	res.Duration = time.Since(start).String()
	log.Debug("run finished",
		zap.String("script", job.Script),
		zap.Uint64("ticks", res.Stats.Ticks),
		zap.Float64("max_height", res.Stats.MaxHeight))
	return res
}
