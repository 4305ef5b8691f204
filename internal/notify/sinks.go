package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/twmb/franz-go/pkg/kgo"
)

const (
	redisHistoryKey   = "backoffice:notifications"
	redisEventChannel = "backoffice:notifications:events"
	redisHistoryLimit = 100
)

// RedisSink keeps a capped history list of events and publishes each one.
type RedisSink struct {
	client redis.UniversalClient
}

func NewRedisSink(client redis.UniversalClient) *RedisSink {
	return &RedisSink{client: client}
}

func (s *RedisSink) Name() string { return "redis" }

func (s *RedisSink) Deliver(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal notification event: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, redisHistoryKey, payload)
		pipe.LTrim(ctx, redisHistoryKey, 0, redisHistoryLimit-1)
		pipe.Publish(ctx, redisEventChannel, payload)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis deliver: %w", err)
	}
	return nil
}

// Producer is the slice of *kgo.Client the Kafka sink needs.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// KafkaSink produces each event keyed by notification id so add and remove
// of one notification land on the same partition.
type KafkaSink struct {
	producer Producer
	topic    string
}

func NewKafkaSink(producer Producer, topic string) *KafkaSink {
	return &KafkaSink{producer: producer, topic: topic}
}

func (s *KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Deliver(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal notification event: %w", err)
	}
	rec := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(ev.Notification.ID),
		Value: payload,
		Headers: []kgo.RecordHeader{
			{Key: "event", Value: []byte(ev.Type)},
		},
	}
	if err := s.producer.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("kafka deliver: %w", err)
	}
	return nil
}
