package exporter

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeromicro/go-zero/core/logx"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"reflection-benchmark/report"
	"reflection-benchmark/runner"
)

func TestMain(m *testing.M) {
	logx.Disable()
	os.Exit(m.Run())
}

func runReport() *report.RunReport {
	results := []runner.Result{
		{Benchmark: "ReflectionBenchmark.directAccess", Mode: runner.ModeAverageTime, Unit: "ns/op", Count: 1, Score: 0.3},
		{Benchmark: "ReflectionBenchmark.reflectionAccess", Mode: runner.ModeAverageTime, Unit: "ns/op", Count: 1, Score: 95},
	}
	return report.NewRunReport(time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC), runner.DefaultOptions(), results)
}

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

type fakeInserter struct {
	docs []interface{}
	err  error
}

func (f *fakeInserter) InsertMany(_ context.Context, docs []interface{}, _ ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.docs = append(f.docs, docs...)
	ids := make([]interface{}, len(docs))
	for i := range ids {
		ids[i] = i
	}
	return &mongo.InsertManyResult{InsertedIDs: ids}, nil
}

type fakeExporter struct {
	err      error
	exported int
	closed   bool
}

func (f *fakeExporter) Export(context.Context, *report.RunReport) error {
	f.exported++
	return f.err
}

func (f *fakeExporter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaExporter_Export(t *testing.T) {
	w := &fakeWriter{}
	k := &KafkaExporter{writer: w}
	r := runReport()

	require.NoError(t, k.Export(context.Background(), r))
	require.Len(t, w.msgs, 2)

	msg := w.msgs[1]
	assert.Equal(t, "ReflectionBenchmark.reflectionAccess", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, runIDHeader, msg.Headers[0].Key)
	assert.Equal(t, r.RunID, string(msg.Headers[0].Value))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &doc))
	assert.Equal(t, r.RunID, doc["runId"])
	assert.Equal(t, "ReflectionBenchmark.reflectionAccess", doc["benchmark"])
	assert.InDelta(t, 95, doc["score"], 1e-9)

	require.NoError(t, k.Close())
	assert.True(t, w.closed)
}

func TestKafkaExporter_WriteError(t *testing.T) {
	writeErr := errors.New("broker unavailable")
	k := &KafkaExporter{writer: &fakeWriter{err: writeErr}}
	assert.ErrorIs(t, k.Export(context.Background(), runReport()), writeErr)
}

func TestMongoExporter_Export(t *testing.T) {
	ins := &fakeInserter{}
	m := &MongoExporter{collection: ins, timeout: time.Second}
	r := runReport()

	require.NoError(t, m.Export(context.Background(), r))
	require.Len(t, ins.docs, 2)

	doc, ok := ins.docs[0].(resultDocument)
	require.True(t, ok)
	assert.Equal(t, r.RunID, doc.RunID)
	assert.Equal(t, "ReflectionBenchmark.directAccess", doc.Benchmark)

	assert.NoError(t, m.Close(), "close without client is a no-op")
}

func TestMongoExporter_InsertError(t *testing.T) {
	insertErr := errors.New("not primary")
	m := &MongoExporter{collection: &fakeInserter{err: insertErr}, timeout: time.Second}
	assert.ErrorIs(t, m.Export(context.Background(), runReport()), insertErr)
}

func TestMulti(t *testing.T) {
	errA := errors.New("a")
	a := &fakeExporter{err: errA}
	b := &fakeExporter{}
	m := Multi{a, b}

	err := m.Export(context.Background(), runReport())
	assert.ErrorIs(t, err, errA)
	assert.Equal(t, 1, a.exported)
	assert.Equal(t, 1, b.exported, "a failing exporter does not stop the others")

	require.NoError(t, m.Close())
	assert.True(t, a.closed)
	assert.True(t, b.closed)
}

func TestFromConf_Disabled(t *testing.T) {
	e, err := FromConf(context.Background(), Conf{})
	require.NoError(t, err)
	assert.Nil(t, e)
}

func TestFromConf_Kafka(t *testing.T) {
	c := Conf{Kafka: KafkaConf{Brokers: []string{"localhost:9092"}, Topic: "bench", WriteTimeout: time.Second}}
	e, err := FromConf(context.Background(), c)
	require.NoError(t, err)

	m, ok := e.(Multi)
	require.True(t, ok)
	require.Len(t, m, 1)
	assert.IsType(t, &KafkaExporter{}, m[0])
	assert.NoError(t, e.Close())
}
