package config

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rushteam/cocktailkit/core"
	"github.com/rushteam/cocktailkit/store"
)

// 内置驱动
const (
	DriverMemory   = "memory"
	DriverPostgres = store.DriverPostgres
	DriverSQLite   = store.DriverSQLite
)

func init() {
	Register(DriverMemory, buildMemory)
	Register(DriverPostgres, buildSQL)
	Register(DriverSQLite, buildSQL)
}

// Stores 是按配置构建好的存储集合。
type Stores struct {
	Cocktails   core.CocktailStore
	Preferences core.PreferenceStore

	closers []io.Closer
}

// Close 关闭所有底层连接。
func (s *Stores) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// BuildStores 根据配置构建存储：目录来自 database，偏好在配置了 redis.addr 时
// 存放在 Redis，否则与目录共用同一个数据库。
func BuildStores(ctx context.Context, cfg *Config) (*Stores, error) {
	if cfg == nil {
		cfg = Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	builder, err := lookup(cfg.Database.Driver)
	if err != nil {
		return nil, core.InvalidInput(core.ModuleConfig, err.Error(), nil)
	}
	cocktails, prefs, closer, err := builder(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("build %s store: %w", cfg.Database.Driver, err)
	}

	s := &Stores{Cocktails: cocktails, Preferences: prefs}
	if closer != nil {
		s.closers = append(s.closers, closer)
	}

	if cfg.Redis.Addr != "" {
		rs, err := store.NewRedisPreferenceStore(ctx, store.RedisOptions{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
		})
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("build redis store: %w", err)
		}
		s.Preferences = rs
		s.closers = append(s.closers, rs)
	}
	return s, nil
}

func buildMemory(_ context.Context, _ DatabaseConfig) (core.CocktailStore, core.PreferenceStore, io.Closer, error) {
	s := store.NewMemoryStore()
	return s, s, s, nil
}

func buildSQL(ctx context.Context, cfg DatabaseConfig) (core.CocktailStore, core.PreferenceStore, io.Closer, error) {
	s, err := store.NewSQLStore(ctx, cfg.Driver, cfg.DSN, store.SQLOptions{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	if cfg.Migrate {
		if err := s.Migrate(ctx); err != nil {
			_ = s.Close()
			return nil, nil, nil, err
		}
	}
	return s, s, s, nil
}
