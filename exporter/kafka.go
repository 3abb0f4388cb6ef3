package exporter

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/zeromicro/go-zero/core/logx"

	"reflection-benchmark/report"
)

type KafkaConf struct {
	Brokers      []string      `json:",optional"`
	Topic        string        `json:",default=reflection-benchmark"`
	WriteTimeout time.Duration `json:",default=10s"`
}

func (c KafkaConf) Enabled() bool { return len(c.Brokers) > 0 }

const runIDHeader = "run-id"

// messageWriter kafka.Writer 中用到的部分
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaExporter 每个基准结果一条消息，key 为基准名，value 为 JSON
type KafkaExporter struct {
	writer messageWriter
}

func NewKafkaExporter(c KafkaConf) *KafkaExporter {
	return &KafkaExporter{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(c.Brokers...),
			Topic:        c.Topic,
			Balancer:     &kafka.Hash{},
			WriteTimeout: c.WriteTimeout,
			RequiredAcks: kafka.RequireAll,
			ErrorLogger:  kafka.LoggerFunc(logx.Errorf),
		},
	}
}

func (k *KafkaExporter) Export(ctx context.Context, r *report.RunReport) error {
	msgs := make([]kafka.Message, 0, len(r.Results))
	for _, res := range r.Results {
		value, err := report.Marshal(resultDocument{
			RunID:     r.RunID,
			StartedAt: r.StartedAt,
			GoVersion: r.GoVersion,
			GOOS:      r.GOOS,
			GOARCH:    r.GOARCH,
			Result:    res,
		})
		if err != nil {
			return fmt.Errorf("marshal %s: %w", res.Benchmark, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:     []byte(res.Benchmark),
			Value:   value,
			Headers: []kafka.Header{{Key: runIDHeader, Value: []byte(r.RunID)}},
			Time:    r.StartedAt,
		})
	}
	if len(msgs) == 0 {
		return nil
	}

	if err := k.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	logx.WithContext(ctx).Infof("exported %d results of run %s to kafka", len(msgs), r.RunID)
	return nil
}

func (k *KafkaExporter) Close() error {
	return k.writer.Close()
}
