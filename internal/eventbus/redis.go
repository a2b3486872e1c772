package eventbus

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"courtregistry-ingest/internal/xjson"
)

// partitionCount bounds the number of Redis Streams per topic. A
// doc_id always hashes to the same partition, so per-document
// ordering (spec §4.2/§5) holds within a partition's XADD sequence.
const partitionCount = 16

// RedisBus implements Bus on top of Redis Streams (XADD). Each logical
// topic is fanned out across partitionCount physical stream keys so
// that a single hot doc_id never serializes unrelated documents behind
// it, while still guaranteeing per-doc_id ordering.
type RedisBus struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisBus(addr string, logger *zap.Logger) *RedisBus {
	client := redis.NewClient(&redis.Options{Addr: addr})
	return &RedisBus{client: client, logger: logger}
}

func (b *RedisBus) streamKey(topic, docID string) string {
	h := fnv.New32a()
	h.Write([]byte(docID))
	partition := h.Sum32() % partitionCount
	return fmt.Sprintf("%s.%d", topic, partition)
}

func (b *RedisBus) publish(ctx context.Context, topic, docID string, ev any) error {
	payload, err := xjson.Marshal(ev)
	if err != nil {
		return fmt.Errorf("eventbus: marshal: %w", err)
	}

	key := b.streamKey(topic, docID)
	err = b.client.XAdd(ctx, &redis.XAddArgs{
		Stream: key,
		Values: map[string]interface{}{
			"doc_id":  docID,
			"topic":   topic,
			"payload": payload,
		},
	}).Err()
	if err != nil {
		// Per spec §4.2: "if the bus is unreachable, events are logged
		// and dropped" — the caller never retries a bus publish.
		if b.logger != nil {
			b.logger.Warn("eventbus: publish failed, dropping", zap.String("topic", topic), zap.String("doc_id", docID), zap.Error(err))
		}
		return err
	}
	return nil
}

func (b *RedisBus) PublishDiscovered(ctx context.Context, ev DiscoveredEvent) error {
	return b.publish(ctx, TopicDiscovered, ev.DocID, ev)
}

func (b *RedisBus) PublishFetched(ctx context.Context, ev FetchedEvent) error {
	return b.publish(ctx, TopicFetched, ev.DocID, ev)
}

func (b *RedisBus) PublishParsed(ctx context.Context, ev ParsedEvent) error {
	return b.publish(ctx, TopicParsed, ev.DocID, ev)
}

func (b *RedisBus) PublishFailed(ctx context.Context, ev FailedEvent) error {
	return b.publish(ctx, TopicFailed, ev.DocID, ev)
}

func (b *RedisBus) Close() error {
	return b.client.Close()
}
