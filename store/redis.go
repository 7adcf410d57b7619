package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/rushteam/cocktailkit/core"
)

// DefaultRedisKeyPrefix 是用户记录 key 的默认前缀，完整 key 为 prefix + user id。
const DefaultRedisKeyPrefix = "cocktailkit:user:"

// 乐观锁冲突时的最大重试次数
const redisMaxRetries = 8

// RedisPreferenceStore 是 Redis 实现的 PreferenceStore。
// 每个用户一条 JSON 记录；UpdateUserData 使用 WATCH/MULTI 乐观事务，
// 冲突时重试，重试耗尽返回 UNAVAILABLE。
type RedisPreferenceStore struct {
	client redis.UniversalClient
	prefix string
}

var _ core.PreferenceStore = (*RedisPreferenceStore)(nil)

// RedisOptions 是 RedisPreferenceStore 的连接参数。
type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// NewRedisPreferenceStore 连接 Redis 并 Ping 一次确认可用。
func NewRedisPreferenceStore(ctx context.Context, opts RedisOptions) (*RedisPreferenceStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, core.Unavailable(core.ModuleStore, "redis: ping "+opts.Addr, err)
	}
	return NewRedisPreferenceStoreWithClient(client, opts.KeyPrefix), nil
}

// NewRedisPreferenceStoreWithClient 复用已有客户端（集群/哨兵等）。
func NewRedisPreferenceStoreWithClient(client redis.UniversalClient, prefix string) *RedisPreferenceStore {
	if prefix == "" {
		prefix = DefaultRedisKeyPrefix
	}
	return &RedisPreferenceStore{client: client, prefix: prefix}
}

func (r *RedisPreferenceStore) Name() string { return "redis" }

func (r *RedisPreferenceStore) key(userID int64) string {
	return r.prefix + strconv.FormatInt(userID, 10)
}

func (r *RedisPreferenceStore) GetUserData(ctx context.Context, userID int64) (*core.UserData, error) {
	val, err := r.client.Get(ctx, r.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, core.ErrStoreNotFound
	}
	if err != nil {
		return nil, core.Unavailable(core.ModuleStore, "redis: get user data", err)
	}
	return decodeUserData(userID, val)
}

// callbackError 区分 fn 自身返回的错误与 Redis 错误，前者原样返回给调用方。
type callbackError struct{ err error }

func (e *callbackError) Error() string { return e.err.Error() }
func (e *callbackError) Unwrap() error { return e.err }

func (r *RedisPreferenceStore) UpdateUserData(ctx context.Context, userID int64, fn func(*core.UserData) error) error {
	key := r.key(userID)

	txf := func(tx *redis.Tx) error {
		ud := core.NewUserData(userID)
		val, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return err
		default:
			if ud, err = decodeUserData(userID, val); err != nil {
				return err
			}
		}

		if err := fn(ud); err != nil {
			return &callbackError{err: err}
		}
		ud.UserID = userID
		payload, err := json.Marshal(ud)
		if err != nil {
			return fmt.Errorf("encode user data: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, 0)
			return nil
		})
		return err
	}

	var lastErr error
	for i := 0; i < redisMaxRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return watchError(err)
		}
		lastErr = err
	}
	return core.Unavailable(core.ModuleStore, "redis: update user data: too many conflicts", lastErr)
}

// watchError 把事务失败转换为返回给调用方的错误：
// fn 的错误与已是 DomainError 的错误（例如记录解码失败）原样返回，其余包装为 UNAVAILABLE。
func watchError(err error) error {
	var cbErr *callbackError
	if errors.As(err, &cbErr) {
		return cbErr.err
	}
	if core.IsDomainError(err) {
		return err
	}
	return core.Unavailable(core.ModuleStore, "redis: update user data", err)
}

func (r *RedisPreferenceStore) Close() error {
	return r.client.Close()
}

func decodeUserData(userID int64, val []byte) (*core.UserData, error) {
	ud := core.NewUserData(userID)
	if err := json.Unmarshal(val, ud); err != nil {
		return nil, core.Unavailable(core.ModuleStore, "decode user data", err)
	}
	ud.UserID = userID
	ud.Preferences.EnsureDefaults()
	if ud.MessageHistory == nil {
		ud.MessageHistory = []core.MessagePair{}
	}
	return ud, nil
}
