package reflection

import "reflection-benchmark/runner"

const benchmarkGroup = "ReflectionBenchmark"

var benchmarkNames = map[Strategy]string{
	StrategyDirect:       "directAccess",
	StrategyReflection:   "reflectionAccess",
	StrategyMethodHandle: "methodHandlesAccess",
	StrategyLambda:       "lambdaMetafactoryAccess",
}

// BenchmarkName 例如 ReflectionBenchmark.directAccess
func BenchmarkName(s Strategy) string {
	return benchmarkGroup + "." + benchmarkNames[s]
}

// Benchmarks 把四种策略注册为 runner 的基准，method 为反射类策略查找的方法名
func Benchmarks(method string) []runner.Benchmark {
	strategies := Strategies()
	out := make([]runner.Benchmark, 0, len(strategies))
	for _, s := range strategies {
		out = append(out, runner.Benchmark{
			Name:  BenchmarkName(s),
			Setup: func() (runner.Op, error) { return setup(s, method) },
		})
	}
	return out
}

// setup 每次调用都创建独立的夹具和 Accessor 并完成解析，worker 之间不共享任何状态
func setup(s Strategy, method string) (runner.Op, error) {
	student := DefaultStudent()
	a, err := New(s, method)
	if err != nil {
		return nil, err
	}
	if err := a.Resolve(); err != nil {
		return nil, err
	}

	return func(n int, bh *runner.Blackhole) error {
		name, err := a.Run(student, n)
		if err != nil {
			return err
		}
		bh.ConsumeString(name)
		return nil
	}, nil
}
