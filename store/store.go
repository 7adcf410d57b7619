// Package store 提供 core.CocktailStore 与 core.PreferenceStore 的实现。
//
// 接口定义在 core 包，本包只包含基础设施实现：
//   - MemoryStore：内存实现，测试/开发使用
//   - SQLStore：Postgres（lib/pq）或 SQLite（modernc.org/sqlite），基于 sqlx
//   - RedisPreferenceStore：偏好记录存放在 Redis
//
// 示例：
//
//	var cocktails core.CocktailStore = store.NewMemoryStore()
//	var prefs core.PreferenceStore = store.NewMemoryStore()
package store

import (
	"context"

	"github.com/rushteam/cocktailkit/core"
)

// CatalogWriter 是目录导入接口（一次性批量导入，核心推荐路径只读）。
type CatalogWriter interface {
	SaveCocktails(ctx context.Context, cocktails ...*core.Cocktail) error
}

// Migrator 由需要建表的存储实现。
type Migrator interface {
	Migrate(ctx context.Context) error
}

var (
	_ CatalogWriter = (*SQLStore)(nil)
	_ Migrator      = (*SQLStore)(nil)
)
