package config

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/rushteam/cocktailkit/core"
)

// StoreBuilder 根据数据库配置构建目录存储与偏好存储。
// closer 可为 nil；两个存储可以是同一个实例。
type StoreBuilder func(ctx context.Context, cfg DatabaseConfig) (core.CocktailStore, core.PreferenceStore, io.Closer, error)

var (
	defaultBuilders   = make(map[string]StoreBuilder)
	defaultBuildersMu sync.RWMutex
)

// Register 注册一种数据库驱动的构建逻辑。内置驱动在本包 init 中注册，
// 自定义驱动可在入口处调用，例如：config.Register("mysql", buildMySQL)。
func Register(driver string, builder StoreBuilder) {
	if driver == "" || builder == nil {
		return
	}
	defaultBuildersMu.Lock()
	defer defaultBuildersMu.Unlock()
	defaultBuilders[driver] = builder
}

// IsRegistered 判断驱动是否已注册。
func IsRegistered(driver string) bool {
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	_, ok := defaultBuilders[driver]
	return ok
}

// SupportedDrivers 返回当前已注册的驱动列表（排序），用于错误提示与校验。
func SupportedDrivers() []string {
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	drivers := make([]string, 0, len(defaultBuilders))
	for d := range defaultBuilders {
		drivers = append(drivers, d)
	}
	sort.Strings(drivers)
	return drivers
}

func lookup(driver string) (StoreBuilder, error) {
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	b, ok := defaultBuilders[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	return b, nil
}
