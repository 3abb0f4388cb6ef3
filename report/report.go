package report

import (
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/google/uuid"

	"reflection-benchmark/runner"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

type Conf struct {
	Format string `json:",default=text,options=text|json"`
}

// RunReport 一次完整运行的结果，也是导出到 Kafka/MongoDB 的内容
type RunReport struct {
	RunID     string          `json:"runId" bson:"runId"`
	StartedAt time.Time       `json:"startedAt" bson:"startedAt"`
	GoVersion string          `json:"goVersion" bson:"goVersion"`
	GOOS      string          `json:"goos" bson:"goos"`
	GOARCH    string          `json:"goarch" bson:"goarch"`
	Options   runner.Options  `json:"options" bson:"options"`
	Results   []runner.Result `json:"results" bson:"results"`
}

func NewRunReport(startedAt time.Time, opts runner.Options, results []runner.Result) *RunReport {
	return &RunReport{
		RunID:     uuid.NewString(),
		StartedAt: startedAt,
		GoVersion: runtime.Version(),
		GOOS:      runtime.GOOS,
		GOARCH:    runtime.GOARCH,
		Options:   opts,
		Results:   results,
	}
}

type Reporter interface {
	Write(w io.Writer, r *RunReport) error
}

func New(c Conf) (Reporter, error) {
	switch c.Format {
	case "", FormatText:
		return TextReporter{}, nil
	case FormatJSON:
		return JSONReporter{Indent: true}, nil
	default:
		return nil, fmt.Errorf("unknown report format %q", c.Format)
	}
}
