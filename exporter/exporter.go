package exporter

import (
	"context"

	"github.com/zeromicro/go-zero/core/errorx"
	"github.com/zeromicro/go-zero/core/logx"

	"reflection-benchmark/report"
)

// Conf 导出配置，默认全部关闭，结果只打印到标准输出
type Conf struct {
	Kafka KafkaConf `json:",optional"`
	Mongo MongoConf `json:",optional"`
}

// Exporter 把一次运行的结果归档到外部系统，便于跨版本对比
type Exporter interface {
	Export(ctx context.Context, r *report.RunReport) error
	Close() error
}

// FromConf 只构造配置了的导出器，一个都没有时返回 nil
func FromConf(ctx context.Context, c Conf) (Exporter, error) {
	var exporters []Exporter
	if c.Kafka.Enabled() {
		exporters = append(exporters, NewKafkaExporter(c.Kafka))
	}
	if c.Mongo.Enabled() {
		m, err := NewMongoExporter(ctx, c.Mongo)
		if err != nil {
			Multi(exporters).Close()
			return nil, err
		}
		exporters = append(exporters, m)
	}

	if len(exporters) == 0 {
		return nil, nil
	}
	return Multi(exporters), nil
}

// Multi 依次调用每个导出器，某个失败不影响其他，错误合并返回
type Multi []Exporter

func (m Multi) Export(ctx context.Context, r *report.RunReport) error {
	var be errorx.BatchError
	for _, e := range m {
		if err := e.Export(ctx, r); err != nil {
			logx.WithContext(ctx).Errorf("export run %s: %v", r.RunID, err)
			be.Add(err)
		}
	}
	return be.Err()
}

func (m Multi) Close() error {
	var be errorx.BatchError
	for _, e := range m {
		be.Add(e.Close())
	}
	return be.Err()
}
