package runner

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// Mode 结果聚合方式
type Mode string

const (
	ModeAverageTime Mode = "avgt"  // 每次调用的平均耗时
	ModeThroughput  Mode = "thrpt" // 单位时间内的调用次数
)

// Options 测量参数，显式传给 Runner，不存在全局状态。
// json tag 中的默认值与 DefaultOptions 保持一致，供 go-zero conf 填充
type Options struct {
	Include               string        `json:",default=ReflectionBenchmark"`
	Mode                  Mode          `json:",default=avgt,options=avgt|thrpt"`
	TimeUnit              string        `json:",default=ns,options=ns|us|ms|s"`
	Forks                 int           `json:",default=1"`
	WarmupForks           int           `json:",default=1"`
	Threads               int           `json:",default=1"`
	WarmupIterations      int           `json:",default=1"`
	WarmupTime            time.Duration `json:",default=5s"`
	MeasurementIterations int           `json:",default=1"`
	MeasurementTime       time.Duration `json:",default=5s"`
	FailOnError           bool          `json:",default=true"`
	DoGC                  bool          `json:",default=true"`
}

// DefaultOptions 单进程单fork，1轮5s预热 + 1轮5s测量，纳秒计的平均耗时，出错即终止
func DefaultOptions() Options {
	return Options{
		Include:               "ReflectionBenchmark",
		Mode:                  ModeAverageTime,
		TimeUnit:              "ns",
		Forks:                 1,
		WarmupForks:           1,
		Threads:               1,
		WarmupIterations:      1,
		WarmupTime:            5 * time.Second,
		MeasurementIterations: 1,
		MeasurementTime:       5 * time.Second,
		FailOnError:           true,
		DoGC:                  true,
	}
}

var timeUnits = map[string]time.Duration{
	"ns": time.Nanosecond,
	"us": time.Microsecond,
	"ms": time.Millisecond,
	"s":  time.Second,
}

var ErrInvalidOptions = errors.New("invalid options")

func (o Options) Validate() error {
	if _, err := regexp.Compile(o.Include); err != nil {
		return fmt.Errorf("%w: include %q: %v", ErrInvalidOptions, o.Include, err)
	}
	if o.Mode != ModeAverageTime && o.Mode != ModeThroughput {
		return fmt.Errorf("%w: mode %q", ErrInvalidOptions, o.Mode)
	}
	if _, ok := timeUnits[o.TimeUnit]; !ok {
		return fmt.Errorf("%w: time unit %q", ErrInvalidOptions, o.TimeUnit)
	}

	switch {
	case o.Forks < 1:
		return fmt.Errorf("%w: forks must be >= 1, got %d", ErrInvalidOptions, o.Forks)
	case o.WarmupForks < 0:
		return fmt.Errorf("%w: warmup forks must be >= 0, got %d", ErrInvalidOptions, o.WarmupForks)
	case o.Threads < 1:
		return fmt.Errorf("%w: threads must be >= 1, got %d", ErrInvalidOptions, o.Threads)
	case o.WarmupIterations < 0:
		return fmt.Errorf("%w: warmup iterations must be >= 0, got %d", ErrInvalidOptions, o.WarmupIterations)
	case o.WarmupIterations > 0 && o.WarmupTime <= 0:
		return fmt.Errorf("%w: warmup time must be > 0, got %s", ErrInvalidOptions, o.WarmupTime)
	case o.MeasurementIterations < 1:
		return fmt.Errorf("%w: measurement iterations must be >= 1, got %d", ErrInvalidOptions, o.MeasurementIterations)
	case o.MeasurementTime <= 0:
		return fmt.Errorf("%w: measurement time must be > 0, got %s", ErrInvalidOptions, o.MeasurementTime)
	}
	return nil
}

// Unit 结果中使用的单位，例如 ns/op 或 ops/ns
func (o Options) Unit() string {
	if o.Mode == ModeThroughput {
		return "ops/" + o.TimeUnit
	}
	return o.TimeUnit + "/op"
}

func (o Options) timeUnit() time.Duration {
	if d, ok := timeUnits[o.TimeUnit]; ok {
		return d
	}
	return time.Nanosecond
}
