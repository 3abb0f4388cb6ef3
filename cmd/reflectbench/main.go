package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/gops/agent"
	"github.com/zeromicro/go-zero/core/logx"

	"reflection-benchmark/config"
	"reflection-benchmark/exporter"
	"reflection-benchmark/reflection"
	"reflection-benchmark/report"
	"reflection-benchmark/runner"
)

// 不指定 -f 时使用 config.Default() 中的硬编码参数
var configFile = flag.String("f", "", "the config file")

func main() {
	flag.Parse()
	if err := run(); err != nil {
		logx.Errorf("reflectbench: %v", err)
		logx.Close()
		os.Exit(1)
	}
	logx.Close()
}

func run() error {
	c := config.Default()
	if *configFile != "" {
		var err error
		if c, err = config.Load(*configFile); err != nil {
			return fmt.Errorf("load config %s: %w", *configFile, err)
		}
	}
	logx.MustSetup(c.Log)

	if c.Diagnostics.Enabled {
		if err := agent.Listen(agent.Options{Addr: c.Diagnostics.Addr}); err != nil {
			return fmt.Errorf("start gops agent: %w", err)
		}
		defer agent.Close()
	}

	reporter, err := report.New(c.Report)
	if err != nil {
		return err
	}

	r, err := runner.New(c.Benchmark, reflection.Benchmarks(reflection.NameMethod)...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startedAt := time.Now()
	results, err := r.Run(ctx)
	if err != nil {
		return err
	}

	rep := report.NewRunReport(startedAt, r.Options(), results)
	if err := reporter.Write(os.Stdout, rep); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	exp, err := exporter.FromConf(ctx, c.Exporter)
	if err != nil {
		return err
	}
	if exp == nil {
		return nil
	}
	defer exp.Close()
	return exp.Export(ctx, rep)
}
