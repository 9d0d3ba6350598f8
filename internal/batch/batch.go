// Package batch exports reflections of many images concurrently.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alitto/pond/v2"

	"github.com/gogpu/ggreflect"
)

// Job is one image to reflect.
type Job struct {
	Input  string
	Output string
}

// Result is the outcome of one job.
type Result struct {
	Job
	Width    int
	Height   int
	Duration time.Duration
	Err      error
}

// Config configures a Runner.
type Config struct {
	Workers       int
	QueueSize     int // 0 is unbounded
	Options       ggreflect.RenderOptions
	PreviewWidth  int
	PreviewHeight int
	Interpolation ggreflect.Interpolation
}

// Runner exports jobs on a bounded worker pool.
type Runner struct {
	config Config
}

// NewRunner returns a runner. Non-positive workers or preview sizes fall
// back to 1 worker and a 300x200 preview.
func NewRunner(cfg Config) *Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.PreviewWidth <= 0 || cfg.PreviewHeight <= 0 {
		cfg.PreviewWidth, cfg.PreviewHeight = 300, 200
	}
	cfg.Options = cfg.Options.Normalize()
	return &Runner{config: cfg}
}

// Jobs pairs every input with an output path in outDir named
// <input base>-reflection.png. Inputs sharing a base name get a numeric
// suffix, <input base>-2-reflection.png and so on, so no two jobs write
// the same file.
func Jobs(inputs []string, outDir string) []Job {
	jobs := make([]Job, 0, len(inputs))
	used := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
		name := base + "-reflection.png"
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s-%d-reflection.png", base, n)
		}
		used[name] = true
		jobs = append(jobs, Job{
			Input:  in,
			Output: filepath.Join(outDir, name),
		})
	}
	return jobs
}

// Run exports every job and returns the results in job order. Failed
// jobs carry their error; Run itself fails only when ctx ends first.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	pool := pond.NewResultPool[Result](r.config.Workers,
		pond.WithContext(ctx),
		pond.WithQueueSize(r.config.QueueSize),
	)
	defer pool.StopAndWait()

	tasks := make([]pond.Result[Result], len(jobs))
	for i, job := range jobs {
		tasks[i] = pool.Submit(func() Result {
			return r.export(ctx, job)
		})
	}

	results := make([]Result, len(jobs))
	failed := 0
	for i, task := range tasks {
		res, err := task.Wait()
		if err != nil {
			res = Result{Job: jobs[i], Err: err}
		}
		if res.Err != nil {
			failed++
		}
		results[i] = res
	}

	ggreflect.Logger().Info("batch finished", "jobs", len(jobs), "failed", failed)
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

func (r *Runner) export(ctx context.Context, job Job) (res Result) {
	start := time.Now()
	res.Job = job
	defer func() {
		res.Duration = time.Since(start)
	}()

	data, err := os.ReadFile(job.Input)
	if err != nil {
		res.Err = err
		return res
	}
	src, err := ggreflect.DecodeBytes(ctx, data)
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", job.Input, err)
		return res
	}

	p := ggreflect.NewPreview(
		ggreflect.WithRenderOptions(r.config.Options),
		ggreflect.WithPreviewInterpolation(r.config.Interpolation),
		ggreflect.WithOutput(ggreflect.NewOutput(r.config.Interpolation)),
	)
	if err := p.Resize(r.config.PreviewWidth, r.config.PreviewHeight); err != nil {
		res.Err = err
		return res
	}
	if err := p.SetSource(src); err != nil {
		res.Err = err
		return res
	}
	payload, err := p.Commit()
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", job.Input, err)
		return res
	}

	if err := os.MkdirAll(filepath.Dir(job.Output), 0o755); err != nil {
		res.Err = err
		return res
	}
	if err := os.WriteFile(job.Output, payload.PNG, 0o644); err != nil {
		res.Err = err
		return res
	}
	res.Width, res.Height = payload.Width, payload.Height
	ggreflect.Logger().Debug("exported", "input", job.Input, "output", job.Output)
	return res
}
