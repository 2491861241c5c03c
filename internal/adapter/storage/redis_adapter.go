package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/bookstore/internal/core/domain"
)

const (
	itemKeyPrefix  = "item:"
	topicKeyPrefix = "topic:"

	// script return codes
	codeNotFound = -2
	codeRefused  = -1
)

var reserveItemScript = redis.NewScript(`
local key = KEYS[1]
if redis.call('EXISTS', key) == 0 then
	return -2
end

local current = tonumber(redis.call('HGET', key, 'quantity'))
if current <= 0 then
	return -1
end

return redis.call('HINCRBY', key, 'quantity', -1)
`)

var adjustStockScript = redis.NewScript(`
local key = KEYS[1]
local delta = tonumber(ARGV[1])
if redis.call('EXISTS', key) == 0 then
	return {-2, 0}
end

local current = tonumber(redis.call('HGET', key, 'quantity'))
if current + delta < 0 then
	return {-1, current}
end

return {0, redis.call('HINCRBY', key, 'quantity', delta)}
`)

var updatePriceScript = redis.NewScript(`
local key = KEYS[1]
if redis.call('EXISTS', key) == 0 then
	return -2
end

redis.call('HSET', key, 'price', ARGV[1])
return 0
`)

// RedisAdapter keeps each item in a hash and indexes topics with a sorted set scored
// by item id. Every read-modify-write runs as a Lua script.
type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func itemKey(id int64) string {
	return itemKeyPrefix + strconv.FormatInt(id, 10)
}

func topicKey(topic domain.Topic) string {
	return topicKeyPrefix + topic.String()
}

func (r *RedisAdapter) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	fields, err := r.client.HGetAll(ctx, itemKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("hgetall item: %w", err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrItemNotFound
	}

	price, err := strconv.ParseInt(fields["price"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse price of item %d: %w", id, err)
	}
	quantity, err := strconv.ParseInt(fields["quantity"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse quantity of item %d: %w", id, err)
	}

	return &domain.Item{
		ID:       id,
		Title:    fields["title"],
		Topic:    domain.Topic(fields["topic"]),
		Price:    price,
		Quantity: quantity,
	}, nil
}

func (r *RedisAdapter) ReserveItem(ctx context.Context, id int64) (int64, error) {
	result, err := reserveItemScript.Run(ctx, r.client, []string{itemKey(id)}).Int64()
	if err != nil {
		return 0, fmt.Errorf("reserve item: %w", err)
	}

	switch result {
	case codeNotFound:
		return 0, domain.ErrItemNotFound
	case codeRefused:
		return 0, domain.ErrOutOfStock
	}
	return result, nil
}

func (r *RedisAdapter) AdjustStock(ctx context.Context, id int64, delta int64) (int64, error) {
	result, err := adjustStockScript.Run(ctx, r.client, []string{itemKey(id)}, delta).Int64Slice()
	if err != nil {
		return 0, fmt.Errorf("adjust stock: %w", err)
	}
	if len(result) != 2 {
		return 0, fmt.Errorf("adjust stock: unexpected script reply %v", result)
	}

	switch result[0] {
	case codeNotFound:
		return 0, domain.ErrItemNotFound
	case codeRefused:
		return result[1], domain.ErrStockConflict
	}
	return result[1], nil
}

func (r *RedisAdapter) UpdatePrice(ctx context.Context, id int64, price int64) error {
	result, err := updatePriceScript.Run(ctx, r.client, []string{itemKey(id)}, price).Int64()
	if err != nil {
		return fmt.Errorf("update price: %w", err)
	}
	if result == codeNotFound {
		return domain.ErrItemNotFound
	}
	return nil
}

func (r *RedisAdapter) SearchByTopic(ctx context.Context, topic domain.Topic) ([]domain.ItemSummary, error) {
	ids, err := r.client.ZRange(ctx, topicKey(topic), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("range topic: %w", err)
	}

	items := make([]domain.ItemSummary, 0, len(ids))
	if len(ids) == 0 {
		return items, nil
	}

	cmds := make([]*redis.StringCmd, len(ids))
	_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, raw := range ids {
			cmds[i] = pipe.HGet(ctx, itemKeyPrefix+raw, "title")
		}
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("load titles: %w", err)
	}

	for i, raw := range ids {
		title, err := cmds[i].Result()
		if errors.Is(err, redis.Nil) {
			// index entry without an item; skip it
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load title: %w", err)
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse item id %q: %w", raw, err)
		}
		items = append(items, domain.ItemSummary{ID: id, Title: title})
	}

	return items, nil
}

// SetItem writes the whole item and its topic index entry. Used to seed a store.
func (r *RedisAdapter) SetItem(ctx context.Context, item domain.Item) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, itemKey(item.ID),
			"title", item.Title,
			"topic", item.Topic.String(),
			"price", item.Price,
			"quantity", item.Quantity,
		)
		pipe.ZAdd(ctx, topicKey(item.Topic), redis.Z{Score: float64(item.ID), Member: item.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("set item: %w", err)
	}
	return nil
}
