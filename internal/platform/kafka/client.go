// Package kafka builds the optional franz-go producer used to publish
// notification events.
package kafka

import (
	"context"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"backoffice/internal/platform/config"
)

// Client is a producer bound to a single topic.
type Client struct {
	*kgo.Client
	Topic string
}

// New connects to cfg.Brokers and makes sure cfg.Topic exists. No brokers
// means Kafka is not configured and returns (nil, nil).
func New(ctx context.Context, cfg config.KafkaConfig) (*Client, error) {
	if len(cfg.Brokers) == 0 {
		return nil, nil
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka topic is required when brokers are set")
	}

	cl, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	if err := cl.Ping(ctx); err != nil {
		cl.Close()
		return nil, fmt.Errorf("kafka ping failed: %w", err)
	}
	if err := EnsureTopic(ctx, cl, cfg.Topic); err != nil {
		cl.Close()
		return nil, err
	}
	return &Client{Client: cl, Topic: cfg.Topic}, nil
}

// EnsureTopic creates topic with one partition, tolerating an existing one.
func EnsureTopic(ctx context.Context, cl *kgo.Client, topic string) error {
	adm := kadm.NewClient(cl)
	resp, err := adm.CreateTopics(ctx, 1, -1, nil, topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	for _, r := range resp {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", r.Topic, r.Err)
		}
	}
	return nil
}

// Health reports whether a broker answers.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx)
}
