package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	postPort "welbex/internal/ports/post"
)

const (
	postKeyPrefix = "post:"
	genKeySuffix  = ":gen"
	// genTTL bounds how long a generation counter outlives its last write.
	genTTL = 24 * time.Hour
)

// setIfGeneration stores ARGV[2] under KEYS[1] only while KEYS[2] still holds ARGV[1].
// A missing generation reads as 0.
var setIfGeneration = redis.NewScript(`
local gen = redis.call('GET', KEYS[2])
if not gen then gen = '0' end
if gen ~= ARGV[1] then return 0 end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`)

// PostCacheRedis نگهداری پست‌های رندر شده در Redis
// A nil client disables the cache: every Get misses and writes are dropped.
type PostCacheRedis struct {
	Client *redis.Client
	TTL    time.Duration
	Logger *zap.Logger
}

func NewPostCacheRedis(client *redis.Client, ttl time.Duration, logger *zap.Logger) *PostCacheRedis {
	return &PostCacheRedis{
		Client: client,
		TTL:    ttl,
		Logger: logger,
	}
}

func (r *PostCacheRedis) Get(ctx context.Context, id string) (*postPort.PostDTO, error) {
	if r.Client == nil {
		return nil, nil
	}
	data, err := r.Client.Get(ctx, postKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var dto postPort.PostDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		// entry is unreadable, drop it so the next read repopulates it
		r.Logger.Warn("Dropping corrupt post cache entry", zap.String("postID", id), zap.Error(err))
		_ = r.Client.Del(ctx, postKeyPrefix+id).Err()
		return nil, nil
	}
	return &dto, nil
}

func (r *PostCacheRedis) Generation(ctx context.Context, id string) (int64, error) {
	if r.Client == nil {
		return 0, nil
	}
	gen, err := r.Client.Get(ctx, genKey(id)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Set is a no-op when the post was invalidated after gen was read.
func (r *PostCacheRedis) Set(ctx context.Context, dto *postPort.PostDTO, gen int64) error {
	if r.Client == nil {
		return nil
	}
	data, err := json.Marshal(dto)
	if err != nil {
		return err
	}
	keys := []string{postKeyPrefix + dto.ID, genKey(dto.ID)}
	stored, err := setIfGeneration.Run(ctx, r.Client, keys, gen, data, r.TTL.Milliseconds()).Int()
	if err != nil {
		return err
	}
	if stored == 0 {
		r.Logger.Debug("Skipped stale post cache write", zap.String("postID", dto.ID), zap.Int64("generation", gen))
	}
	return nil
}

// Invalidate advances the post's generation and drops the cached thread.
func (r *PostCacheRedis) Invalidate(ctx context.Context, id string) error {
	if r.Client == nil {
		return nil
	}
	_, err := r.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey(id))
		pipe.Expire(ctx, genKey(id), genTTL)
		pipe.Del(ctx, postKeyPrefix+id)
		return nil
	})
	return err
}

func genKey(id string) string {
	return postKeyPrefix + id + genKeySuffix
}
