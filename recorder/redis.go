package recorder

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"

	"github.com/tidewater-sim/eventide/codec"
	"github.com/tidewater-sim/eventide/store"
)

// Options holds the connection settings for a redis-backed recorder.
type Options struct {
	Addr     string
	Password string
}

// RedisRecorder appends rows to a redis list. The list key is scoped by
// namespace and run ID so several runs can share one redis instance.
type RedisRecorder struct {
	client *redis.Client
	key    string
}

func NewRedisRecorder(options Options, namespace string, runID string) *RedisRecorder {
	client := redis.NewClient(&redis.Options{
		Addr:     options.Addr,
		Password: options.Password,
	})
	log.Debug().Msgf("recording run %s to redis at %s", runID, options.Addr)
	return &RedisRecorder{
		client: client,
		key:    fmt.Sprintf("%s:records:%s", namespace, runID),
	}
}

func (r *RedisRecorder) RecordComponent(timestamp float64, entity store.EntityID, component store.Component) error {
	rows, err := Flatten(timestamp, entity, component)
	if err != nil {
		return err
	}
	ctx := context.Background()
	for _, row := range rows {
		bz, err := codec.Encode(row)
		if err != nil {
			return err
		}
		if err := r.client.RPush(ctx, r.key, bz).Err(); err != nil {
			return eris.Wrap(err, "failed to push record to redis")
		}
	}
	return nil
}

// Rows reads back every row recorded so far.
func (r *RedisRecorder) Rows(ctx context.Context) ([]Row, error) {
	raw, err := r.client.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, eris.Wrap(err, "failed to read records from redis")
	}
	rows := make([]Row, 0, len(raw))
	for _, bz := range raw {
		row, err := codec.Decode[Row]([]byte(bz))
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *RedisRecorder) Close() error {
	return eris.Wrap(r.client.Close(), "failed to close redis client")
}
