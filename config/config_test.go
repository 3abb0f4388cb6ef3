package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reflection-benchmark/report"
	"reflection-benchmark/runner"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, runner.DefaultOptions(), c.Benchmark)
	assert.Equal(t, report.FormatText, c.Report.Format)
	assert.Equal(t, "console", c.Log.Mode)
	assert.False(t, c.Exporter.Kafka.Enabled())
	assert.False(t, c.Exporter.Mongo.Enabled())
	assert.False(t, c.Diagnostics.Enabled)
	require.NoError(t, c.Benchmark.Validate())
}

func TestLoad_ShippedConfigMatchesDefault(t *testing.T) {
	c, err := Load(filepath.Join("..", "cmd", "reflectbench", "etc", "reflectbench.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Benchmark, c.Benchmark)
	assert.Equal(t, report.FormatText, c.Report.Format)
}

func TestLoadFromYaml_Overrides(t *testing.T) {
	c, err := LoadFromYaml([]byte(`
Benchmark:
  Include: "directAccess|lambda"
  Mode: thrpt
  TimeUnit: us
  Threads: 4
  MeasurementIterations: 5
  MeasurementTime: 200ms
  FailOnError: false
Report:
  Format: json
Exporter:
  Kafka:
    Brokers:
      - 127.0.0.1:9092
`))
	require.NoError(t, err)

	b := c.Benchmark
	assert.Equal(t, "directAccess|lambda", b.Include)
	assert.Equal(t, runner.ModeThroughput, b.Mode)
	assert.Equal(t, "us", b.TimeUnit)
	assert.Equal(t, 4, b.Threads)
	assert.Equal(t, 5, b.MeasurementIterations)
	assert.Equal(t, 200*time.Millisecond, b.MeasurementTime)
	assert.False(t, b.FailOnError)

	// 未出现的字段取 tag 默认值
	assert.Equal(t, 1, b.Forks)
	assert.Equal(t, 5*time.Second, b.WarmupTime)
	assert.True(t, b.DoGC)

	assert.Equal(t, report.FormatJSON, c.Report.Format)
	assert.True(t, c.Exporter.Kafka.Enabled())
	assert.Equal(t, "reflection-benchmark", c.Exporter.Kafka.Topic)
	assert.False(t, c.Exporter.Mongo.Enabled())
	require.NoError(t, b.Validate())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Benchmark:\n  WarmupTime: soon\n"), 0o600))
	_, err = Load(path)
	assert.Error(t, err)
}
