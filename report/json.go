package report

import (
	"io"

	"github.com/bytedance/sonic"
)

// JSONReporter 用 sonic 编码，字段与 encoding/json 兼容
type JSONReporter struct {
	Indent bool
}

func (j JSONReporter) Write(w io.Writer, r *RunReport) error {
	enc := sonic.ConfigStd.NewEncoder(w)
	if j.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(r)
}

// Marshal 单条结果的紧凑 JSON，供导出器使用
func Marshal(v any) ([]byte, error) {
	return sonic.ConfigStd.Marshal(v)
}
