package runner

import (
	"math"
	"time"

	"github.com/montanaflynn/stats"
)

// Result 一个基准的汇总结果，列含义与 JMH 报告相同
type Result struct {
	Benchmark string  `json:"benchmark" bson:"benchmark"`
	Mode      Mode    `json:"mode" bson:"mode"`
	Unit      string  `json:"unit" bson:"unit"`
	Count     int     `json:"count" bson:"count"`
	Score     float64 `json:"score" bson:"score"`
	// ScoreError 99.9% 置信区间半宽，样本少于2个时为 nil
	ScoreError *float64      `json:"scoreError,omitempty" bson:"scoreError,omitempty"`
	Min        float64       `json:"min" bson:"min"`
	Max        float64       `json:"max" bson:"max"`
	StdDev     float64       `json:"stdDev" bson:"stdDev"`
	Scores     []float64     `json:"scores" bson:"scores"`
	Ops        int64         `json:"ops" bson:"ops"`
	Elapsed    time.Duration `json:"elapsed" bson:"elapsed"`
	Err        string        `json:"error,omitempty" bson:"error,omitempty"`
}

func (r Result) Failed() bool { return r.Err != "" }

// score 把一轮迭代里各 worker 的样本合成一个分数：
// 平均耗时取各线程均值，吞吐量取各线程之和
func (o Options) score(samples []Sample) float64 {
	unit := float64(o.timeUnit())
	var total float64
	for _, s := range samples {
		if s.Ops == 0 || s.Elapsed <= 0 {
			continue
		}
		if o.Mode == ModeThroughput {
			total += float64(s.Ops) / (float64(s.Elapsed) / unit)
		} else {
			total += float64(s.Elapsed) / float64(s.Ops) / unit
		}
	}
	if o.Mode == ModeThroughput || len(samples) == 0 {
		return total
	}
	return total / float64(len(samples))
}

func (o Options) summarize(name string, iterations [][]Sample) Result {
	r := Result{
		Benchmark: name,
		Mode:      o.Mode,
		Unit:      o.Unit(),
		Count:     len(iterations),
		Scores:    make([]float64, 0, len(iterations)),
	}
	for _, samples := range iterations {
		for _, s := range samples {
			r.Ops += s.Ops
			r.Elapsed += s.Elapsed
		}
		r.Scores = append(r.Scores, o.score(samples))
	}
	if len(r.Scores) == 0 {
		return r
	}

	data := stats.Float64Data(r.Scores)
	r.Score, _ = stats.Mean(data)
	r.Min, _ = stats.Min(data)
	r.Max, _ = stats.Max(data)
	if len(r.Scores) > 1 {
		sd, err := stats.StandardDeviationSample(data)
		if err == nil && !math.IsNaN(sd) {
			r.StdDev = sd
			e := studentT999(len(r.Scores)-1) * sd / math.Sqrt(float64(len(r.Scores)))
			r.ScoreError = &e
		}
	}
	return r
}

// 双侧99.9%的t分布分位数
var t999 = []float64{
	636.619, 31.599, 12.924, 8.610, 6.869, 5.959, 5.408, 5.041, 4.781, 4.587,
	4.437, 4.318, 4.221, 4.140, 4.073, 4.015, 3.965, 3.922, 3.883, 3.850,
	3.819, 3.792, 3.768, 3.745, 3.725, 3.707, 3.690, 3.674, 3.659, 3.646,
}

func studentT999(df int) float64 {
	switch {
	case df < 1:
		return math.NaN()
	case df <= len(t999):
		return t999[df-1]
	case df <= 40:
		return 3.551
	case df <= 60:
		return 3.460
	case df <= 120:
		return 3.373
	default:
		return 3.291
	}
}
