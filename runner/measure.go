package runner

import (
	"context"
	"time"

	"github.com/zeromicro/go-zero/core/timex"
)

// Op 被测操作：连续执行 n 次，结果交给 bh。
// 循环写在被测代码里，runner 只在批次之间介入
type Op func(n int, bh *Blackhole) error

// Blackhole 吞掉被测结果，防止调用被当成死代码消除。每个 worker 独占一个
type Blackhole struct {
	sink int
}

func (bh *Blackhole) ConsumeString(s string) { bh.sink += len(s) }
func (bh *Blackhole) ConsumeInt(v int)       { bh.sink += v }

// Sample 一个 worker 在一轮迭代中的原始计数
type Sample struct {
	Ops     int64
	Elapsed time.Duration
}

const maxBatch = 1_000_000_000

// measure 在 window 内分批执行 op，直到累计耗时达到 window。
// 批大小按已测得的单次耗时预测剩余所需次数，多估20%，增长不超过100倍，与 testing.B 的做法一致
func measure(ctx context.Context, op Op, bh *Blackhole, window time.Duration) (Sample, error) {
	var s Sample
	n := 1
	for s.Elapsed < window {
		if err := ctx.Err(); err != nil {
			return s, err
		}

		start := timex.Now()
		if err := op(n, bh); err != nil {
			return s, err
		}
		s.Elapsed += timex.Since(start)
		s.Ops += int64(n)

		n = predictBatch(s, window-s.Elapsed, n)
	}
	return s, nil
}

func predictBatch(s Sample, remaining time.Duration, last int) int {
	if remaining <= 0 {
		return last
	}
	perOp := s.Elapsed.Nanoseconds() / s.Ops
	if perOp <= 0 {
		perOp = 1
	}
	n := remaining.Nanoseconds() / perOp
	n += n / 5
	n = min(n, 100*int64(last))
	n = max(n, 1)
	return int(min(n, maxBatch))
}
