package exporter

import (
	"context"
	"fmt"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"reflection-benchmark/report"
	"reflection-benchmark/runner"
)

type MongoConf struct {
	URI        string        `json:",optional"`
	Database   string        `json:",default=benchmark"`
	Collection string        `json:",default=results"`
	Timeout    time.Duration `json:",default=10s"`
}

func (c MongoConf) Enabled() bool { return c.URI != "" }

// resultDocument 扁平化的单条结果，Kafka 消息和 MongoDB 文档共用
type resultDocument struct {
	RunID         string    `json:"runId" bson:"runId"`
	StartedAt     time.Time `json:"startedAt" bson:"startedAt"`
	GoVersion     string    `json:"goVersion" bson:"goVersion"`
	GOOS          string    `json:"goos" bson:"goos"`
	GOARCH        string    `json:"goarch" bson:"goarch"`
	runner.Result `bson:",inline"`
}

// documentInserter *mongo.Collection 中用到的部分
type documentInserter interface {
	InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error)
}

type MongoExporter struct {
	client     *mongo.Client
	collection documentInserter
	timeout    time.Duration
}

func NewMongoExporter(ctx context.Context, c MongoConf) (*MongoExporter, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(c.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	return &MongoExporter{
		client:     client,
		collection: client.Database(c.Database).Collection(c.Collection),
		timeout:    c.Timeout,
	}, nil
}

func (m *MongoExporter) Export(ctx context.Context, r *report.RunReport) error {
	docs := make([]interface{}, 0, len(r.Results))
	for _, res := range r.Results {
		docs = append(docs, resultDocument{
			RunID:     r.RunID,
			StartedAt: r.StartedAt,
			GoVersion: r.GoVersion,
			GOOS:      r.GOOS,
			GOARCH:    r.GOARCH,
			Result:    res,
		})
	}
	if len(docs) == 0 {
		return nil
	}

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}
	res, err := m.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil {
		return fmt.Errorf("mongo insert: %w", err)
	}
	logx.WithContext(ctx).Infof("exported %d results of run %s to mongo", len(res.InsertedIDs), r.RunID)
	return nil
}

func (m *MongoExporter) Close() error {
	if m.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	return m.client.Disconnect(ctx)
}
