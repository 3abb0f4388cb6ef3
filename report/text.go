package report

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
)

// TextReporter 输出与 JMH 相同列的表格：
//
//	Benchmark                         Mode  Cnt  Score   Error  Units
//	ReflectionBenchmark.directAccess  avgt    1  0.312          ns/op
type TextReporter struct{}

func (TextReporter) Write(w io.Writer, r *RunReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Benchmark\tMode\tCnt\tScore\t\tError\tUnits\t")
	for _, res := range r.Results {
		if res.Failed() {
			fmt.Fprintf(tw, "%s\t%s\t\t\t\t\tFAILED: %s\t\n", res.Benchmark, res.Mode, res.Err)
			continue
		}
		scoreErr, sep := "", ""
		if res.ScoreError != nil {
			scoreErr, sep = formatScore(*res.ScoreError), "±"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\t%s\t\n",
			res.Benchmark, res.Mode, res.Count, formatScore(res.Score), sep, scoreErr, res.Unit)
	}
	return tw.Flush()
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
