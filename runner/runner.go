package runner

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"runtime"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
	"golang.org/x/sync/errgroup"
)

var ErrNoBenchmarks = errors.New("no benchmarks match include pattern")

// Benchmark 一个被测基准。Setup 在每个 fork 的每个 worker 上各执行一次，
// 返回已经完成解析、可以直接测量的 Op
type Benchmark struct {
	Name  string
	Setup func() (Op, error)
}

type Runner struct {
	opts       Options
	benchmarks []Benchmark
}

func New(opts Options, benchmarks ...Benchmark) (*Runner, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	include := regexp.MustCompile(opts.Include)
	selected := make([]Benchmark, 0, len(benchmarks))
	for _, b := range benchmarks {
		if include.MatchString(b.Name) {
			selected = append(selected, b)
		}
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoBenchmarks, opts.Include)
	}

	return &Runner{opts: opts, benchmarks: selected}, nil
}

func (r *Runner) Options() Options { return r.opts }

// Benchmarks 过滤后将要执行的基准名
func (r *Runner) Benchmarks() []string {
	names := make([]string, 0, len(r.benchmarks))
	for _, b := range r.benchmarks {
		names = append(names, b.Name)
	}
	return names
}

// Run 依次执行各基准。FailOnError 时第一个错误立即终止整个运行，
// 否则把错误记在该基准的 Result 里继续下一个
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	results := make([]Result, 0, len(r.benchmarks))
	for i, b := range r.benchmarks {
		logx.Infof("# Run progress: %d of %d, benchmark: %s", i+1, len(r.benchmarks), b.Name)

		res, err := r.runBenchmark(ctx, b)
		if err != nil {
			logx.Errorf("benchmark %s failed: %v", b.Name, err)
			if r.opts.FailOnError || ctx.Err() != nil {
				return results, fmt.Errorf("benchmark %s: %w", b.Name, err)
			}
			res = Result{Benchmark: b.Name, Mode: r.opts.Mode, Unit: r.opts.Unit(), Err: err.Error()}
		}
		results = append(results, res)
	}
	return results, nil
}

func (r *Runner) runBenchmark(ctx context.Context, b Benchmark) (Result, error) {
	o := r.opts
	logx.Infof("# Warmup: %d iterations, %s each", o.WarmupIterations, o.WarmupTime)
	logx.Infof("# Measurement: %d iterations, %s each", o.MeasurementIterations, o.MeasurementTime)
	logx.Infof("# Threads: %d, Mode: %s, Unit: %s", o.Threads, o.Mode, o.Unit())

	for fork := 1; fork <= o.WarmupForks; fork++ {
		logx.Infof("# Warmup Fork: %d of %d", fork, o.WarmupForks)
		if _, err := r.runFork(ctx, b); err != nil {
			return Result{}, err
		}
	}

	var iterations [][]Sample
	for fork := 1; fork <= o.Forks; fork++ {
		logx.Infof("# Fork: %d of %d", fork, o.Forks)
		samples, err := r.runFork(ctx, b)
		if err != nil {
			return Result{}, err
		}
		iterations = append(iterations, samples...)
	}

	res := o.summarize(b.Name, iterations)
	logx.Infof("Result %q: %.3f %s", b.Name, res.Score, res.Unit)
	return res, nil
}

// runFork 一个 fork 使用全新的 Setup 状态：所有 worker 先完成 Setup，
// 然后依次跑预热迭代和测量迭代，只返回测量迭代的样本
func (r *Runner) runFork(ctx context.Context, b Benchmark) ([][]Sample, error) {
	o := r.opts
	ops := make([]Op, o.Threads)
	bhs := make([]*Blackhole, o.Threads)
	for i := range ops {
		op, err := b.Setup()
		if err != nil {
			return nil, fmt.Errorf("setup: %w", err)
		}
		ops[i] = op
		bhs[i] = &Blackhole{}
	}

	for i := 1; i <= o.WarmupIterations; i++ {
		samples, err := r.iteration(ctx, ops, bhs, o.WarmupTime)
		if err != nil {
			return nil, err
		}
		logx.Infof("# Warmup Iteration %3d: %.3f %s", i, o.score(samples), o.Unit())
	}

	iterations := make([][]Sample, 0, o.MeasurementIterations)
	for i := 1; i <= o.MeasurementIterations; i++ {
		samples, err := r.iteration(ctx, ops, bhs, o.MeasurementTime)
		if err != nil {
			return nil, err
		}
		logx.Infof("Iteration %3d: %.3f %s", i, o.score(samples), o.Unit())
		iterations = append(iterations, samples)
	}
	return iterations, nil
}

// iteration 所有 worker 并行测量同一时长，每个 worker 只碰自己的 Op 和 Blackhole
func (r *Runner) iteration(ctx context.Context, ops []Op, bhs []*Blackhole, window time.Duration) ([]Sample, error) {
	if r.opts.DoGC {
		runtime.GC()
	}

	samples := make([]Sample, len(ops))
	g, ctx := errgroup.WithContext(ctx)
	for i, op := range ops {
		g.Go(func() error {
			s, err := measure(ctx, op, bhs[i], window)
			if err != nil {
				return err
			}
			samples[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return samples, nil
}
