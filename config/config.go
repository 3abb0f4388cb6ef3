package config

import (
	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"

	"reflection-benchmark/exporter"
	"reflection-benchmark/report"
	"reflection-benchmark/runner"
)

type Config struct {
	Log         logx.LogConf    `json:",optional"`
	Benchmark   runner.Options  `json:",optional"`
	Report      report.Conf     `json:",optional"`
	Exporter    exporter.Conf   `json:",optional"`
	Diagnostics DiagnosticsConf `json:",optional"`
}

// DiagnosticsConf gops agent，开启后可以用 gops stack/memstats 观察正在跑的基准
type DiagnosticsConf struct {
	Enabled bool   `json:",default=false"`
	Addr    string `json:",optional"`
}

// Default 与不带配置文件运行时完全相同的硬编码参数
func Default() Config {
	return Config{
		Log: logx.LogConf{
			ServiceName: "reflectbench",
			Mode:        "console",
			Encoding:    "plain",
			TimeFormat:  "2006-01-02T15:04:05.000Z07:00",
			Level:       "info",
			Stat:        false,
		},
		Benchmark: runner.DefaultOptions(),
		Report:    report.Conf{Format: report.FormatText},
	}
}

// Load 读取 yaml/json 配置文件。文件里没有的部分保留 Default 的值，
// 出现了的部分缺省字段按 tag 中的默认值填充
func Load(path string) (Config, error) {
	c := Default()
	if err := conf.Load(path, &c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadFromYaml 同 Load，内容直接给出
func LoadFromYaml(content []byte) (Config, error) {
	c := Default()
	if err := conf.LoadFromYamlBytes(content, &c); err != nil {
		return Config{}, err
	}
	return c, nil
}
